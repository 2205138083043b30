package model

import (
	"fmt"
	"path/filepath"
)

// Sentinel values substituted for a missing title or artist.
const (
	UnknownTitle  = "Unknown Title"
	UnknownArtist = "Unknown Artist"
)

// TrackMetadata is the normalized metadata of a single track.
//
// Title and Artist are never empty once the record went through validation;
// the sentinels UnknownTitle and UnknownArtist stand in for missing values.
// ReleaseYear holds the 4-character prefix of the upstream release date or is
// empty. Genre is always empty because the catalog exposes no per-track genre.
// TrackNumber is at least 1. CoverArt is nil when no artwork could be fetched.
//
// TrackMetadata is a value type and is not mutated after construction.
type TrackMetadata struct {
	Title       string
	Artist      string
	Album       string
	ReleaseYear string
	Genre       string
	TrackNumber int
	CoverArt    []byte
}

// SentinelMetadata returns the record used when no usable upstream record exists.
func SentinelMetadata() TrackMetadata {
	return TrackMetadata{
		Title:       UnknownTitle,
		Artist:      UnknownArtist,
		TrackNumber: 1,
	}
}

// FallbackMetadata returns the minimal record used when extraction failed
// entirely for the track at the given 1-based index.
func FallbackMetadata(index int) TrackMetadata {
	if index < 1 {
		index = 1
	}
	return TrackMetadata{
		Title:       fmt.Sprintf("Track %d", index),
		Artist:      UnknownArtist,
		TrackNumber: index,
	}
}

// HasCoverArt reports whether artwork bytes are attached.
func (m TrackMetadata) HasCoverArt() bool {
	return len(m.CoverArt) > 0
}

// SearchQuery returns the video platform query for this track.
func (m TrackMetadata) SearchQuery() string {
	return m.Title + " " + m.Artist + " audio"
}

// DownloadTask is one unit of work for the fetch step.
type DownloadTask struct {
	// Target is a search query or a direct video URL.
	Target string

	// Dir is the destination directory.
	Dir string

	Format   Format
	Mode     Mode
	Metadata TrackMetadata
}

// FileName returns the canonical "<artist> - <title><ext>" name of the task's
// output file.
func (t DownloadTask) FileName() string {
	return FileName(t.Metadata.Artist, t.Metadata.Title, t.Format)
}

// Path returns the full path of the task's output file.
func (t DownloadTask) Path() string {
	return filepath.Join(t.Dir, t.FileName())
}
