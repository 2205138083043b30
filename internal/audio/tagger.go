package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/musicdl/musicdl/internal/model"
)

// ErrUnsupportedFormat is returned for formats without a tag writer.
var ErrUnsupportedFormat = errors.New("no tag writer for format")

// TagEditAction defines how to handle an individual tag field.
type TagEditAction int

const (
	// TagEmpty removes the field.
	TagEmpty TagEditAction = iota

	// TagModify writes the value from the track metadata. An empty value
	// removes the field.
	TagModify

	// TagDoNotModify leaves whatever the file already carries.
	TagDoNotModify
)

// Field is a tag field known to every writer.
type Field int

const (
	FieldTitle Field = iota
	FieldArtist
	FieldAlbum
	FieldYear
	FieldTrackNumber
	FieldGenre
)

// TagConfig holds the edit action for each field.
//
// Example:
//
//	cfg := &TagConfig{
//	    ModifyTags:  true,
//	    TrackTitle:  TagModify,
//	    Artist:      TagModify,
//	    Album:       TagModify,
//	    Year:        TagModify,
//	    TrackNumber: TagModify,
//	    Genre:       TagDoNotModify, // keep whatever the source had
//	    CoverArt:    true,
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, no text fields are touched.
	ModifyTags bool

	TrackTitle  TagEditAction
	Artist      TagEditAction
	Album       TagEditAction
	Year        TagEditAction
	TrackNumber TagEditAction
	Genre       TagEditAction

	// CoverArt embeds the metadata's artwork, replacing existing pictures.
	CoverArt bool
}

// DefaultTagConfig writes every field and embeds cover art.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:  true,
		TrackTitle:  TagModify,
		Artist:      TagModify,
		Album:       TagModify,
		Year:        TagModify,
		TrackNumber: TagModify,
		Genre:       TagModify,
		CoverArt:    true,
	}
}

// fieldEdit is one resolved change. Value == "" means remove.
type fieldEdit struct {
	Field Field
	Value string
}

// edits resolves the configuration against meta.
func (c *TagConfig) edits(meta model.TrackMetadata) []fieldEdit {
	if !c.ModifyTags {
		return nil
	}

	candidates := []struct {
		field  Field
		action TagEditAction
		value  string
	}{
		{FieldTitle, c.TrackTitle, meta.Title},
		{FieldArtist, c.Artist, meta.Artist},
		{FieldAlbum, c.Album, meta.Album},
		{FieldYear, c.Year, meta.ReleaseYear},
		{FieldTrackNumber, c.TrackNumber, strconv.Itoa(meta.TrackNumber)},
		{FieldGenre, c.Genre, meta.Genre},
	}

	var out []fieldEdit
	for _, f := range candidates {
		switch f.action {
		case TagEmpty:
			out = append(out, fieldEdit{Field: f.field})
		case TagModify:
			out = append(out, fieldEdit{Field: f.field, Value: f.value})
		}
	}
	return out
}

// picture is cover art ready to embed.
type picture struct {
	Data     []byte
	MIMEType string
}

// writer embeds edits and an optional picture into the file at path.
type writer func(path string, edits []fieldEdit, pic *picture) error

// Tagger writes metadata into downloaded files, dispatching on the
// container's tag scheme:
//   - mp3: ID3v2 frames
//   - flac: Vorbis comment and PICTURE metadata blocks
//   - m4a/mp4: MP4 atoms
//   - opus/ogg: Vorbis comments, artwork as METADATA_BLOCK_PICTURE
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig(), logger)
//	if !tagger.Tag(path, meta, model.FormatFLAC) {
//	    // file kept, just untagged
//	}
type Tagger struct {
	config  *TagConfig
	writers map[model.TagScheme]writer
	logger  *slog.Logger
}

// NewTagger creates a Tagger. A nil config uses DefaultTagConfig.
func NewTagger(config *TagConfig, logger *slog.Logger) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tagger{
		config: config,
		writers: map[model.TagScheme]writer{
			model.SchemeID3:     writeID3,
			model.SchemeBlock:   writeFLAC,
			model.SchemeAtom:    writeMP4,
			model.SchemeComment: writeComments,
		},
		logger: logger,
	}
}

// Tag writes meta into the file at path and reports success. Failures are
// logged, never propagated; the file is left in place either way.
func (t *Tagger) Tag(path string, meta model.TrackMetadata, format model.Format) bool {
	if err := t.TagE(path, meta, format); err != nil {
		t.logger.Warn("tagging failed", slog.String("path", path), slog.Any("error", err))
		return false
	}
	return true
}

// TagE is Tag returning the failure reason. A panic inside a tag library is
// converted into an error.
func (t *Tagger) TagE(path string, meta model.TrackMetadata, format model.Format) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tag %s: panic: %v", path, r)
		}
	}()

	write, ok := t.writers[format.TagScheme()]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}

	var pic *picture
	if t.config.CoverArt && meta.HasCoverArt() {
		pic = &picture{Data: meta.CoverArt, MIMEType: http.DetectContentType(meta.CoverArt)}
	}

	if err := write(path, t.config.edits(meta), pic); err != nil {
		return fmt.Errorf("tag %s as %s: %w", path, format, err)
	}
	return nil
}
