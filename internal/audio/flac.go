package audio

import (
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

var vorbisFields = map[Field]string{
	FieldTitle:       flacvorbis.FIELD_TITLE,
	FieldArtist:      flacvorbis.FIELD_ARTIST,
	FieldAlbum:       flacvorbis.FIELD_ALBUM,
	FieldYear:        flacvorbis.FIELD_DATE,
	FieldTrackNumber: flacvorbis.FIELD_TRACKNUMBER,
	FieldGenre:       flacvorbis.FIELD_GENRE,
}

// writeFLAC rewrites the Vorbis comment block of a FLAC file, keeping
// comments for fields that are not being edited, and replaces its pictures.
func writeFLAC(path string, edits []fieldEdit, pic *picture) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return err
	}

	var (
		cmt *flacvorbis.MetaDataBlockVorbisComment
		idx = -1
	)
	for i, meta := range f.Meta {
		if meta.Type == flac.VorbisComment {
			cmt, err = flacvorbis.ParseFromMetaDataBlock(*meta)
			if err != nil {
				return err
			}
			idx = i
			break
		}
	}
	if cmt == nil {
		cmt = flacvorbis.New()
	}

	if err := applyVorbisEdits(cmt, edits); err != nil {
		return err
	}

	block := cmt.Marshal()
	if idx >= 0 {
		f.Meta[idx] = &block
	} else {
		f.Meta = append(f.Meta, &block)
	}

	if pic != nil {
		kept := f.Meta[:0]
		for _, meta := range f.Meta {
			if meta.Type != flac.Picture {
				kept = append(kept, meta)
			}
		}
		f.Meta = kept

		p, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Cover", pic.Data, pic.MIMEType)
		if err != nil {
			return err
		}
		picBlock := p.Marshal()
		f.Meta = append(f.Meta, &picBlock)
	}

	return f.Save(path)
}

// applyVorbisEdits drops existing comments for every edited field and adds
// the new non-empty values.
func applyVorbisEdits(cmt *flacvorbis.MetaDataBlockVorbisComment, edits []fieldEdit) error {
	edited := make(map[string]bool, len(edits))
	for _, e := range edits {
		edited[vorbisFields[e.Field]] = true
	}

	kept := cmt.Comments[:0]
	for _, c := range cmt.Comments {
		key, _, _ := strings.Cut(c, "=")
		if !edited[strings.ToUpper(key)] {
			kept = append(kept, c)
		}
	}
	cmt.Comments = kept

	for _, e := range edits {
		if e.Value == "" {
			continue
		}
		if err := cmt.Add(vorbisFields[e.Field], e.Value); err != nil {
			return err
		}
	}
	return nil
}
