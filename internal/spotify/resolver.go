package spotify

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/musicdl/musicdl/internal/spotify/dto"
)

// ErrNoTracks is returned when a link resolves to zero usable tracks.
var ErrNoTracks = errors.New("no tracks found")

// Page sizes used when walking album and playlist listings.
const (
	AlbumPageSize    = 50
	PlaylistPageSize = 100
)

// Page is one slice of an album or playlist listing. Items may contain nil
// entries for unavailable tracks. An empty Next means the listing is exhausted.
type Page struct {
	Items []*dto.Track
	Next  string
}

// Catalog is the upstream music catalog.
//
// cursor is "" for the first page and Page.Next for the following ones.
type Catalog interface {
	Track(ctx context.Context, id string) (*dto.Track, error)
	Album(ctx context.Context, id string) (*dto.Album, error)
	AlbumTracks(ctx context.Context, id, cursor string, limit int) (Page, error)
	PlaylistName(ctx context.Context, id string) (string, error)
	PlaylistTracks(ctx context.Context, id, cursor string, limit int) (Page, error)
}

// Resolver turns catalog links into ordered track records.
type Resolver struct {
	catalog Catalog
}

// NewResolver creates a Resolver backed by catalog.
func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Accepts reports whether link is a catalog link.
func (r *Resolver) Accepts(link string) bool {
	return IsLink(link)
}

// Resolve returns the tracks behind link in catalog order.
//
// Errors:
//   - ErrUnrecognizedLink when link is not a track, album or playlist link
//   - ErrNoTracks when the link resolves to zero usable tracks
//   - a wrapped transport error when the catalog request fails
func (r *Resolver) Resolve(ctx context.Context, link string) (*dto.Collection, error) {
	parsed, err := ParseLink(link)
	if err != nil {
		return nil, err
	}

	collection := &dto.Collection{Kind: parsed.Kind, ID: parsed.ID}

	switch parsed.Kind {
	case dto.KindTrack:
		track, err := r.catalog.Track(ctx, parsed.ID)
		if err != nil {
			return nil, fmt.Errorf("fetch track %s: %w", parsed.ID, err)
		}
		if track != nil {
			collection.Name = track.Name
			collection.Tracks = []*dto.Track{track}
		}

	case dto.KindAlbum:
		album, err := r.catalog.Album(ctx, parsed.ID)
		if err != nil {
			return nil, fmt.Errorf("fetch album %s: %w", parsed.ID, err)
		}
		tracks, err := r.collect(ctx, parsed.ID, AlbumPageSize, r.catalog.AlbumTracks)
		if err != nil {
			return nil, fmt.Errorf("fetch album %s tracks: %w", parsed.ID, err)
		}
		if album != nil {
			collection.Name = album.Name
			tracks = lo.Map(tracks, func(t *dto.Track, _ int) *dto.Track {
				if t.Album != nil {
					return t
				}
				return t.WithAlbum(album)
			})
		}
		collection.Tracks = tracks

	case dto.KindPlaylist:
		name, err := r.catalog.PlaylistName(ctx, parsed.ID)
		if err != nil {
			return nil, fmt.Errorf("fetch playlist %s: %w", parsed.ID, err)
		}
		tracks, err := r.collect(ctx, parsed.ID, PlaylistPageSize, r.catalog.PlaylistTracks)
		if err != nil {
			return nil, fmt.Errorf("fetch playlist %s tracks: %w", parsed.ID, err)
		}
		collection.Name = name
		collection.Tracks = tracks
	}

	if len(collection.Tracks) == 0 {
		return nil, fmt.Errorf("%s %s: %w", parsed.Kind, parsed.ID, ErrNoTracks)
	}
	return collection, nil
}

type pageFunc func(ctx context.Context, id, cursor string, limit int) (Page, error)

// collect follows Next cursors until the listing is exhausted, dropping nil items.
func (r *Resolver) collect(ctx context.Context, id string, limit int, fetch pageFunc) ([]*dto.Track, error) {
	var (
		tracks []*dto.Track
		cursor string
	)
	for {
		page, err := fetch(ctx, id, cursor, limit)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, lo.Compact(page.Items)...)

		if page.Next == "" || page.Next == cursor {
			return tracks, nil
		}
		cursor = page.Next
	}
}
