// Package web serves download batches over HTTP with gin.
//
// Routes:
//
//	POST /download             form: link, format (default mp3, "mp4" for video), batch
//	GET  /progress/:id/status  JSON progress of a task
//	GET  /files                JSON listing of finished files
//	GET  /files/:name          file download, 423 while the file is being written
//	GET  /healthz
//
// Every task downloads into its own staging directory below the served one
// and moves the finished files over when the batch ends. Final paths stay
// reserved until then, so neither the janitor nor the file route touches
// them early.
package web
