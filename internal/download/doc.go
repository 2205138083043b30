// Package download runs download batches: it resolves a link into tracks and
// takes each one through metadata extraction, the duplicate check, search,
// fetch and tagging.
//
// # Manager
//
// The Manager processes one track at a time:
//
//  1. Resolve the link into an ordered collection
//  2. Extract metadata, falling back to "Track <n>" on failure
//  3. Skip tracks the DuplicateQuery reports as present
//  4. Search for a target unless the record already carries one
//  5. Fetch with retries and exponential cooldown
//  6. Wait until the downloader released the file
//  7. Tag it
//  8. Write a playlist for albums and playlists (optional)
//
// # Basic Usage
//
//	deps, err := download.NewDependencies(ctx, settings, creds, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	manager := download.NewManager(settings, deps, func(event download.Event) {
//	    fmt.Println(event.Message)
//	})
//
//	ok := manager.Run(ctx, "https://open.spotify.com/album/...", model.ModeAudio, dir, model.FormatMP3)
//
// # Events
//
// Progress is reported through a one-way EventSink. Duplicate checks go
// through a separate DuplicateQuery, which defaults to dedupe.Exists and can
// be replaced with WithDuplicateQuery, for example to ask the user.
//
// # Retry Logic
//
// Failed fetches are retried with exponential backoff, configurable via
// settings.DownloadMaxRetries, settings.DownloadRetryCooldown and
// settings.DownloadRetryExponent.
package download
