package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/musicdl/musicdl/internal/spotify/dto"
)

var videoHosts = map[string]bool{
	"youtube.com":       true,
	"www.youtube.com":   true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
	"youtu.be":          true,
}

// IsVideoLink reports whether link points at a single video on the platform.
func IsVideoLink(link string) bool {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || !videoHosts[u.Host] {
		return false
	}
	if u.Host == "youtu.be" {
		return len(strings.Trim(u.Path, "/")) > 0
	}
	return u.Query().Get("v") != "" || strings.HasPrefix(u.Path, "/shorts/")
}

// VideoResolver turns a direct video link into a one-track collection.
type VideoResolver struct {
	binary string
	runner Runner
}

// NewVideoResolver creates a VideoResolver invoking binary.
func NewVideoResolver(binary string, runner Runner) *VideoResolver {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &VideoResolver{binary: binary, runner: runner}
}

// Accepts reports whether link is a direct video link.
func (r *VideoResolver) Accepts(link string) bool {
	return IsVideoLink(link)
}

// Resolve reads the video's metadata. The returned track has SourceURL set,
// so the pipeline fetches it without searching.
func (r *VideoResolver) Resolve(ctx context.Context, link string) (*dto.Collection, error) {
	var track *dto.Track
	args := []string{"--dump-json", "--no-playlist", "--no-warnings", "--skip-download", link}
	err := r.runner.Run(ctx, r.binary, args, func(line string) {
		if track == nil && gjson.Valid(line) {
			track = ParseVideoInfo(line)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", link, err)
	}
	if track == nil {
		return nil, fmt.Errorf("probe %s: %w", link, ErrNotFound)
	}

	track.SourceURL = strings.TrimSpace(link)
	return &dto.Collection{
		Kind:   dto.KindVideo,
		ID:     track.ID,
		Name:   track.Name,
		Tracks: []*dto.Track{track},
	}, nil
}

// ParseVideoInfo maps yt-dlp's JSON description of a video to a raw track.
// Music-specific fields (track, artist, album) win over the generic ones.
func ParseVideoInfo(line string) *dto.Track {
	res := gjson.Parse(line)

	first := func(paths ...string) string {
		for _, p := range paths {
			if v := res.Get(p).String(); v != "" {
				return v
			}
		}
		return ""
	}

	track := &dto.Track{
		ID:   res.Get("id").String(),
		Name: first("track", "title"),
	}
	if artist := first("artist", "uploader", "channel"); artist != "" {
		for _, a := range strings.Split(artist, ", ") {
			track.Artists = append(track.Artists, dto.Artist{Name: a})
		}
	}

	album := &dto.Album{Name: res.Get("album").String()}
	if year := res.Get("release_year"); year.Exists() && year.Int() > 0 {
		album.ReleaseDate = year.String()
	} else if d := res.Get("upload_date").String(); len(d) >= 4 {
		album.ReleaseDate = d[:4]
	}
	if thumb := res.Get("thumbnail").String(); thumb != "" {
		album.Images = []dto.Image{{URL: thumb}}
	}
	track.Album = album

	return track
}
