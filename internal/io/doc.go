// Package ioutils provides file system and image processing utilities for
// the download pipeline.
//
// # File Operations
//
//	err := ioutils.EnsureDir("/music")
//	err = ioutils.MoveFile("/music/.staging/abc/song.mp3", "/music/song.mp3")
//
// # File Release
//
// WaitForRelease polls until a freshly written file can be opened for
// appending, which is how the pipeline knows the downloader and transcoder
// have let go of it:
//
//	if err := ioutils.WaitForRelease(ctx, path, 10, time.Second); errors.Is(err, ioutils.ErrFileBusy) {
//	    // still held by another process
//	}
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("AC/DC - Back in Black") // "AC_DC - Back in Black"
//
// # Image Processing
//
// ImageService prepares cover art before it is embedded in tags:
//
//	svc := ioutils.NewImageService()
//	cover, err := svc.PrepareCoverArt(ctx, raw, 1000, true)
package ioutils
