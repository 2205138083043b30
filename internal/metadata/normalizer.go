package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/musicdl/musicdl/internal/model"
	"github.com/musicdl/musicdl/internal/spotify/dto"
)

// DefaultCoverArtTimeout bounds a single cover art request.
const DefaultCoverArtTimeout = 10 * time.Second

// Fetcher downloads cover art bytes. *http.Client from the internal http
// package satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// ImageProcessor resizes and converts cover art before embedding.
type ImageProcessor interface {
	PrepareCoverArt(ctx context.Context, data []byte, maxSize int, toJPEG bool) ([]byte, error)
}

// Options controls cover art handling.
type Options struct {
	// FetchCoverArt enables downloading of album artwork.
	FetchCoverArt bool

	// CoverArtTimeout bounds each artwork request. Zero uses DefaultCoverArtTimeout.
	CoverArtTimeout time.Duration

	// CoverArtMaxSize shrinks artwork to fit a square of this many pixels.
	// Zero keeps the original size.
	CoverArtMaxSize int

	// ConvertToJPEG re-encodes artwork as JPEG.
	ConvertToJPEG bool
}

// Normalizer extracts model.TrackMetadata from raw track records.
type Normalizer struct {
	fetcher Fetcher
	images  ImageProcessor
	opts    Options
	logger  *slog.Logger
}

// NewNormalizer creates a Normalizer. fetcher and images may be nil, which
// disables artwork download and processing respectively.
func NewNormalizer(fetcher Fetcher, images ImageProcessor, opts Options, logger *slog.Logger) *Normalizer {
	if opts.CoverArtTimeout <= 0 {
		opts.CoverArtTimeout = DefaultCoverArtTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		fetcher: fetcher,
		images:  images,
		opts:    opts,
		logger:  logger,
	}
}

// Extract builds validated metadata from raw. position is the 1-based index
// of the track in its batch and is used when the record has no usable track
// number.
//
// A nil record yields the sentinel record. Extract never fails; a panic
// during extraction is logged and also yields the sentinel record.
func (n *Normalizer) Extract(ctx context.Context, raw *dto.Track, position int) (meta model.TrackMetadata) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("metadata extraction panicked", slog.Any("panic", r), slog.Int("position", position))
			meta = model.SentinelMetadata()
		}
	}()

	if raw == nil {
		return model.SentinelMetadata()
	}

	meta = model.TrackMetadata{
		Title:       featuredTitle(Clean(raw.Name), raw.Artists),
		TrackNumber: trackNumber(raw.TrackNumber, position),
	}
	if len(raw.Artists) > 0 {
		meta.Artist = Clean(raw.Artists[0].Name)
	}

	if raw.Album != nil {
		meta.Album = Clean(raw.Album.Name)
		meta.ReleaseYear = releaseYear(raw.Album.ReleaseDate)
		if len(raw.Album.Images) > 0 {
			meta.CoverArt = n.coverArt(ctx, raw.Album.Images[0].URL)
		}
	}

	return validate(n.logger, meta)
}

// featuredTitle appends every artist after the first to title as
// " (feat. A, B)". Artists that clean to nothing are dropped, and a missing
// title becomes model.UnknownTitle before the suffix is added.
func featuredTitle(title string, artists []dto.Artist) string {
	if title == "" {
		title = model.UnknownTitle
	}
	if len(artists) < 2 {
		return title
	}

	featured := lo.Compact(lo.Map(artists[1:], func(a dto.Artist, _ int) string {
		return Clean(a.Name)
	}))
	if len(featured) == 0 {
		return title
	}
	return fmt.Sprintf("%s (feat. %s)", title, strings.Join(featured, ", "))
}

func releaseYear(date string) string {
	date = Clean(date)
	if r := []rune(date); len(r) > 4 {
		return string(r[:4])
	}
	return date
}

func trackNumber(n *int, position int) int {
	if n != nil && *n >= 1 {
		return *n
	}
	if position < 1 {
		return 1
	}
	return position
}

func (n *Normalizer) coverArt(ctx context.Context, url string) []byte {
	if !n.opts.FetchCoverArt || n.fetcher == nil || url == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, n.opts.CoverArtTimeout)
	defer cancel()

	data, err := n.fetcher.Get(ctx, url)
	if err != nil || len(data) == 0 {
		n.logger.Debug("cover art unavailable", slog.String("url", url), slog.Any("error", err))
		return nil
	}

	if n.images == nil || (n.opts.CoverArtMaxSize <= 0 && !n.opts.ConvertToJPEG) {
		return data
	}

	processed, err := n.images.PrepareCoverArt(ctx, data, n.opts.CoverArtMaxSize, n.opts.ConvertToJPEG)
	if err != nil {
		n.logger.Debug("cover art left unprocessed", slog.Any("error", err))
		return data
	}
	return processed
}
