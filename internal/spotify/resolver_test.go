package spotify

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/musicdl/musicdl/internal/spotify/dto"
)

// fakeCatalog serves fixed listings, paging them by limit.
type fakeCatalog struct {
	track    *dto.Track
	album    *dto.Album
	listing  []*dto.Track
	name     string
	err      error
	requests []string
}

func (f *fakeCatalog) Track(_ context.Context, id string) (*dto.Track, error) {
	f.requests = append(f.requests, "track:"+id)
	return f.track, f.err
}

func (f *fakeCatalog) Album(_ context.Context, id string) (*dto.Album, error) {
	f.requests = append(f.requests, "album:"+id)
	return f.album, f.err
}

func (f *fakeCatalog) AlbumTracks(_ context.Context, id, cursor string, limit int) (Page, error) {
	f.requests = append(f.requests, "album-tracks:"+cursor+":"+strconv.Itoa(limit))
	return f.page(cursor, limit)
}

func (f *fakeCatalog) PlaylistName(_ context.Context, id string) (string, error) {
	return f.name, f.err
}

func (f *fakeCatalog) PlaylistTracks(_ context.Context, id, cursor string, limit int) (Page, error) {
	f.requests = append(f.requests, "playlist-tracks:"+cursor+":"+strconv.Itoa(limit))
	return f.page(cursor, limit)
}

func (f *fakeCatalog) page(cursor string, limit int) (Page, error) {
	if f.err != nil {
		return Page{}, f.err
	}
	offset, _ := strconv.Atoi(cursor)
	end := min(offset+limit, len(f.listing))
	page := Page{Items: f.listing[offset:end]}
	if end < len(f.listing) {
		page.Next = strconv.Itoa(end)
	}
	return page, nil
}

func tracks(n int) []*dto.Track {
	out := make([]*dto.Track, n)
	for i := range out {
		out[i] = &dto.Track{Name: "Track " + strconv.Itoa(i+1), Artists: []dto.Artist{{Name: "Artist"}}}
	}
	return out
}

func TestResolve_Track(t *testing.T) {
	catalog := &fakeCatalog{track: &dto.Track{Name: "Get Lucky"}}
	got, err := NewResolver(catalog).Resolve(context.Background(), "spotify:track:abc")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Kind != dto.KindTrack || len(got.Tracks) != 1 || got.Tracks[0].Name != "Get Lucky" {
		t.Errorf("Resolve() = %+v", got)
	}
}

func TestResolve_PlaylistPagination(t *testing.T) {
	listing := tracks(250)
	listing[10] = nil
	listing[120] = nil

	catalog := &fakeCatalog{listing: listing, name: "Mix"}
	got, err := NewResolver(catalog).Resolve(context.Background(), "https://open.spotify.com/playlist/xyz")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if len(got.Tracks) != 248 {
		t.Errorf("len(Tracks) = %d, want 248", len(got.Tracks))
	}
	if got.Name != "Mix" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.Tracks[0].Name != "Track 1" || got.Tracks[len(got.Tracks)-1].Name != "Track 250" {
		t.Error("tracks must keep catalog order")
	}

	want := []string{"playlist-tracks::100", "playlist-tracks:100:100", "playlist-tracks:200:100"}
	if len(catalog.requests) != len(want) {
		t.Fatalf("requests = %v, want %v", catalog.requests, want)
	}
	for i := range want {
		if catalog.requests[i] != want[i] {
			t.Errorf("request %d = %q, want %q", i, catalog.requests[i], want[i])
		}
	}
}

func TestResolve_AlbumEnrichment(t *testing.T) {
	album := &dto.Album{Name: "Random Access Memories", ReleaseDate: "2013-05-17"}
	catalog := &fakeCatalog{album: album, listing: tracks(60)}

	got, err := NewResolver(catalog).Resolve(context.Background(), "spotify:album:ram")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(got.Tracks) != 60 {
		t.Fatalf("len(Tracks) = %d, want 60", len(got.Tracks))
	}
	for _, tr := range got.Tracks {
		if tr.Album == nil || tr.Album.Name != album.Name {
			t.Fatalf("track %q not enriched with album data", tr.Name)
		}
	}
	if catalog.listing[0].Album != nil {
		t.Error("enrichment must not modify the catalog's records")
	}
	if catalog.requests[1] != "album-tracks::50" {
		t.Errorf("album listing should page by 50, got %q", catalog.requests[1])
	}
}

func TestResolve_Errors(t *testing.T) {
	transport := errors.New("connection reset")

	tests := []struct {
		name    string
		link    string
		catalog *fakeCatalog
		want    error
	}{
		{"unrecognized", "https://example.com/x", &fakeCatalog{}, ErrUnrecognizedLink},
		{"empty playlist", "spotify:playlist:p", &fakeCatalog{}, ErrNoTracks},
		{"only nil items", "spotify:playlist:p", &fakeCatalog{listing: []*dto.Track{nil, nil}}, ErrNoTracks},
		{"missing track", "spotify:track:t", &fakeCatalog{}, ErrNoTracks},
		{"transport", "spotify:album:a", &fakeCatalog{err: transport}, transport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResolver(tt.catalog).Resolve(context.Background(), tt.link)
			if !errors.Is(err, tt.want) {
				t.Errorf("Resolve() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNextCursor(t *testing.T) {
	if got := nextCursor("https://api.spotify.com/v1/...", 100, 100); got != "200" {
		t.Errorf("nextCursor = %q, want 200", got)
	}
	if got := nextCursor("", 100, 50); got != "" {
		t.Errorf("nextCursor on last page = %q, want empty", got)
	}
	if got := parseCursor("garbage"); got != 0 {
		t.Errorf("parseCursor(garbage) = %d, want 0", got)
	}
}
