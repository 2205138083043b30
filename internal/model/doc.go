// Package model defines the core data structures shared by the musicdl
// pipeline.
//
// # TrackMetadata
//
// TrackMetadata is the normalized, validated description of one track. It is
// produced by the metadata package and consumed by the duplicate detector, the
// search step and the tagger:
//
//	meta := model.TrackMetadata{Title: "Get Lucky", Artist: "Daft Punk", TrackNumber: 8}
//	fmt.Println(meta.SearchQuery()) // "Get Lucky Daft Punk audio"
//
// # DownloadTask
//
// DownloadTask bundles everything needed to fetch and tag one track:
//
//	task := model.DownloadTask{Target: url, Dir: "/music", Format: model.FormatMP3, Metadata: meta}
//	fmt.Println(task.Path()) // "/music/Daft Punk - Get Lucky.mp3"
//
// # Format
//
// Format enumerates the supported output containers. Each format knows its
// file extension, MIME type and the tag scheme used to write metadata into it.
package model
