// Package youtube wraps the yt-dlp command line tool for the two external
// steps of the pipeline: searching the video platform for a track and
// fetching/transcoding the chosen video into an audio file.
//
//	searcher := youtube.NewSearcher("yt-dlp")
//	url, err := searcher.Search(ctx, meta.SearchQuery())
//	if errors.Is(err, youtube.ErrNotFound) {
//	    // no candidate
//	}
//
//	fetcher := youtube.NewFetcher("yt-dlp", "", nil)
//	path, err := fetcher.Fetch(ctx, task, func(p youtube.Progress) {
//	    fmt.Printf("%.0f%%\n", p.Percent())
//	})
//
// Direct video links skip the catalog entirely; VideoResolver turns them
// into a single raw track record using yt-dlp's JSON metadata.
package youtube
