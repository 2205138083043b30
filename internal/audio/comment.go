package audio

import (
	"encoding/base64"

	"github.com/go-flac/flacpicture"
	"go.senan.xyz/taglib"
)

// metadataBlockPicture is the Vorbis comment key carrying embedded artwork.
const metadataBlockPicture = "METADATA_BLOCK_PICTURE"

var commentKeys = map[Field]string{
	FieldTitle:       taglib.Title,
	FieldArtist:      taglib.Artist,
	FieldAlbum:       taglib.Album,
	FieldYear:        taglib.Date,
	FieldTrackNumber: taglib.TrackNumber,
	FieldGenre:       taglib.Genre,
}

// writeComments updates the Vorbis comments of an Opus or Ogg Vorbis file.
// Artwork travels as a base64 FLAC picture block, the way Ogg players expect it.
func writeComments(path string, edits []fieldEdit, pic *picture) error {
	tags := make(map[string][]string, len(edits)+1)
	for _, e := range edits {
		if e.Value == "" {
			tags[commentKeys[e.Field]] = nil
			continue
		}
		tags[commentKeys[e.Field]] = []string{e.Value}
	}

	if pic != nil {
		p, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Cover", pic.Data, pic.MIMEType)
		if err != nil {
			return err
		}
		block := p.Marshal()
		tags[metadataBlockPicture] = []string{base64.StdEncoding.EncodeToString(block.Data)}
	}

	if len(tags) == 0 {
		return nil
	}
	return taglib.WriteTags(path, tags, 0)
}
