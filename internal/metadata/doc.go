// Package metadata turns raw catalog track records into validated
// model.TrackMetadata values.
//
// Extraction never fails: missing fields become sentinels or empty values,
// and a panic during extraction yields the sentinel record.
//
//	n := metadata.NewNormalizer(httpClient, ioutils.NewImageService(), metadata.Options{FetchCoverArt: true}, logger)
//	meta := n.Extract(ctx, rawTrack, 1)
//
// Validate is applied as the final extraction step and may be called again
// on any record; it is idempotent.
package metadata
