package metadata

import (
	"log/slog"
	"strings"

	"github.com/musicdl/musicdl/internal/dedupe"
	"github.com/musicdl/musicdl/internal/model"
)

// MaxFieldLength is the maximum length of a cleaned text field, in characters.
const MaxFieldLength = 200

var unsafeChars = strings.NewReplacer(
	"<", "", ">", "", ":", "", `"`, "",
	"/", "", `\`, "", "|", "", "?", "", "*", "",
)

// Clean trims whitespace, strips characters that are unsafe in file names and
// truncates the result to MaxFieldLength characters. An empty result means
// the field is absent.
//
// Clean(Clean(s)) == Clean(s) for every s.
func Clean(s string) string {
	s = strings.TrimSpace(unsafeChars.Replace(s))
	if r := []rune(s); len(r) > MaxFieldLength {
		s = strings.TrimSpace(string(r[:MaxFieldLength]))
	}
	return s
}

// Validate substitutes sentinels for a missing title or artist and re-cleans
// every present field. It logs a warning through the default logger when the
// title and artist look identical.
func Validate(meta model.TrackMetadata) model.TrackMetadata {
	return validate(slog.Default(), meta)
}

func validate(logger *slog.Logger, meta model.TrackMetadata) model.TrackMetadata {
	meta.Title = Clean(meta.Title)
	if meta.Title == "" {
		meta.Title = model.UnknownTitle
	}
	meta.Artist = Clean(meta.Artist)
	if meta.Artist == "" {
		meta.Artist = model.UnknownArtist
	}
	meta.Album = Clean(meta.Album)
	meta.ReleaseYear = Clean(meta.ReleaseYear)
	meta.Genre = Clean(meta.Genre)
	if meta.TrackNumber < 1 {
		meta.TrackNumber = 1
	}

	if meta.Title != model.UnknownTitle && meta.Artist != model.UnknownArtist &&
		dedupe.Normalize(meta.Title) == dedupe.Normalize(meta.Artist) {
		logger.Warn("title and artist are identical",
			slog.String("title", meta.Title),
			slog.String("artist", meta.Artist))
	}

	return meta
}
