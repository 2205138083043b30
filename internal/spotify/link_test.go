package spotify

import (
	"errors"
	"testing"

	"github.com/musicdl/musicdl/internal/spotify/dto"
)

func TestParseLink(t *testing.T) {
	tests := []struct {
		link    string
		kind    dto.Kind
		id      string
		wantErr bool
	}{
		{"https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", dto.KindTrack, "4uLU6hMCjMI75M1A2tKUQC", false},
		{"https://open.spotify.com/album/4m2880jivSbbyEGAKfITCa?si=abc", dto.KindAlbum, "4m2880jivSbbyEGAKfITCa", false},
		{"https://open.spotify.com/intl-de/playlist/37i9dQZF1DXcBWIGoYBM5M", dto.KindPlaylist, "37i9dQZF1DXcBWIGoYBM5M", false},
		{"spotify:track:4uLU6hMCjMI75M1A2tKUQC", dto.KindTrack, "4uLU6hMCjMI75M1A2tKUQC", false},
		{"  spotify:album:abc123  ", dto.KindAlbum, "abc123", false},
		{"https://open.spotify.com/artist/0TnOYISbd1XYRBk9myaseg", 0, "", true},
		{"https://example.com/track/abc", 0, "", true},
		{"https://open.spotify.com/track/", 0, "", true},
		{"spotify:track:bad id", 0, "", true},
		{"not a link", 0, "", true},
		{"", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			got, err := ParseLink(tt.link)
			if tt.wantErr {
				if !errors.Is(err, ErrUnrecognizedLink) {
					t.Fatalf("ParseLink(%q) error = %v, want ErrUnrecognizedLink", tt.link, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLink(%q) unexpected error: %v", tt.link, err)
			}
			if got.Kind != tt.kind || got.ID != tt.id {
				t.Errorf("ParseLink(%q) = %+v, want {%v %s}", tt.link, got, tt.kind, tt.id)
			}
		})
	}
}
