package spotify

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/musicdl/musicdl/internal/spotify/dto"
)

// ErrUnrecognizedLink is returned for links that are not a catalog track,
// album or playlist.
var ErrUnrecognizedLink = errors.New("invalid Spotify link")

var (
	idPattern     = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	localePattern = regexp.MustCompile(`^intl-[a-z]{2}(-[a-z]{2})?$`)
)

// Link is a parsed catalog link.
type Link struct {
	Kind dto.Kind
	ID   string
}

// ParseLink recognizes open.spotify.com URLs and spotify: URIs.
func ParseLink(link string) (Link, error) {
	link = strings.TrimSpace(link)

	if rest, ok := strings.CutPrefix(link, "spotify:"); ok {
		parts := strings.Split(rest, ":")
		if len(parts) != 2 {
			return Link{}, fmt.Errorf("%w: %q", ErrUnrecognizedLink, link)
		}
		return newLink(parts[0], parts[1], link)
	}

	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host != "open.spotify.com" {
		return Link{}, fmt.Errorf("%w: %q", ErrUnrecognizedLink, link)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) > 0 && localePattern.MatchString(segments[0]) {
		segments = segments[1:]
	}
	if len(segments) != 2 {
		return Link{}, fmt.Errorf("%w: %q", ErrUnrecognizedLink, link)
	}
	return newLink(segments[0], segments[1], link)
}

func newLink(kind, id, raw string) (Link, error) {
	if !idPattern.MatchString(id) {
		return Link{}, fmt.Errorf("%w: %q", ErrUnrecognizedLink, raw)
	}
	switch kind {
	case "track":
		return Link{Kind: dto.KindTrack, ID: id}, nil
	case "album":
		return Link{Kind: dto.KindAlbum, ID: id}, nil
	case "playlist":
		return Link{Kind: dto.KindPlaylist, ID: id}, nil
	}
	return Link{}, fmt.Errorf("%w: %q", ErrUnrecognizedLink, raw)
}

// IsLink reports whether link looks like a catalog link of any supported kind.
func IsLink(link string) bool {
	_, err := ParseLink(link)
	return err == nil
}
