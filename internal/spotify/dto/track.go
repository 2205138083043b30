// Package dto holds the raw track records handed from link resolution to
// metadata extraction, and the conversions from the catalog client's types.
//
// The shapes mirror the catalog's JSON (name, artists, album, track_number),
// so a record can also be decoded directly from an API response or a fixture.
package dto

import (
	"github.com/zmb3/spotify/v2"
)

// Track is a raw upstream track record. Any field may be missing.
type Track struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	Album       *Album   `json:"album,omitempty"`
	TrackNumber *int     `json:"track_number,omitempty"`

	// SourceURL is set when the record already points at a fetchable video,
	// in which case no search is needed.
	SourceURL string `json:"source_url,omitempty"`
}

// Artist is a credited artist.
type Artist struct {
	Name string `json:"name"`
}

// Album carries the album data attached to a track.
type Album struct {
	Name        string  `json:"name"`
	ReleaseDate string  `json:"release_date"`
	Images      []Image `json:"images"`
}

// Image is an artwork reference. The catalog lists the largest image first.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Kind is the shape of a resolved link.
type Kind int

const (
	KindTrack Kind = iota
	KindAlbum
	KindPlaylist
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindAlbum:
		return "album"
	case KindPlaylist:
		return "playlist"
	case KindVideo:
		return "video"
	default:
		return "track"
	}
}

// Collection is the ordered result of resolving one link.
type Collection struct {
	Kind   Kind
	ID     string
	Name   string
	Tracks []*Track
}

// FromFullTrack converts a catalog track. A nil input yields nil.
func FromFullTrack(t *spotify.FullTrack) *Track {
	if t == nil {
		return nil
	}
	track := FromSimpleTrack(t.SimpleTrack)
	track.Album = FromSimpleAlbum(t.Album)
	return track
}

// FromSimpleTrack converts an album track listing entry, which carries no
// album data.
func FromSimpleTrack(t spotify.SimpleTrack) *Track {
	track := &Track{
		ID:   string(t.ID),
		Name: t.Name,
	}
	for _, a := range t.Artists {
		track.Artists = append(track.Artists, Artist{Name: a.Name})
	}
	if n := int(t.TrackNumber); n > 0 {
		track.TrackNumber = &n
	}
	return track
}

// FromSimpleAlbum converts catalog album data.
func FromSimpleAlbum(a spotify.SimpleAlbum) *Album {
	album := &Album{
		Name:        a.Name,
		ReleaseDate: a.ReleaseDate,
	}
	for _, img := range a.Images {
		album.Images = append(album.Images, Image{
			URL:    img.URL,
			Width:  int(img.Width),
			Height: int(img.Height),
		})
	}
	return album
}

// WithAlbum returns a copy of t carrying album. The receiver is not modified.
func (t *Track) WithAlbum(album *Album) *Track {
	c := *t
	c.Album = album
	return &c
}
