package download

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/musicdl/musicdl/internal/spotify/dto"
)

type prefixResolver struct {
	prefix string
	kind   dto.Kind
}

func (p prefixResolver) Accepts(link string) bool {
	return strings.HasPrefix(link, p.prefix)
}

func (p prefixResolver) Resolve(_ context.Context, link string) (*dto.Collection, error) {
	return &dto.Collection{Kind: p.kind, ID: link}, nil
}

func TestRouter(t *testing.T) {
	r := NewRouter(
		prefixResolver{"https://youtu.be/", dto.KindVideo},
		prefixResolver{"https://open.spotify.com/", dto.KindAlbum},
		prefixResolver{"https://", dto.KindTrack},
	)

	tests := []struct {
		link string
		want dto.Kind
	}{
		{"https://youtu.be/abc", dto.KindVideo},
		{"https://open.spotify.com/album/1", dto.KindAlbum},
		{"https://example.com", dto.KindTrack},
	}

	for _, tt := range tests {
		coll, err := r.Resolve(context.Background(), tt.link)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", tt.link, err)
		}
		if coll.Kind != tt.want {
			t.Errorf("Resolve(%q) kind = %v, want %v", tt.link, coll.Kind, tt.want)
		}
	}

	if r.Accepts("ftp://x") {
		t.Error("Accepts(ftp) = true")
	}
	if _, err := r.Resolve(context.Background(), "ftp://x"); !errors.Is(err, ErrUnsupportedLink) {
		t.Errorf("error = %v, want ErrUnsupportedLink", err)
	}
}
