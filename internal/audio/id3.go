package audio

import (
	"github.com/bogem/id3v2"
)

var id3Frames = map[Field]string{
	FieldTitle:       "TIT2",
	FieldArtist:      "TPE1",
	FieldAlbum:       "TALB",
	FieldYear:        "TYER",
	FieldTrackNumber: "TRCK",
	FieldGenre:       "TCON",
}

// writeID3 updates the ID3v2 tag of an mp3 file. Frames are replaced, not
// appended.
func writeID3(path string, edits []fieldEdit, pic *picture) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	for _, e := range edits {
		id := id3Frames[e.Field]
		tag.DeleteFrames(id)
		if e.Value != "" {
			tag.AddTextFrame(id, id3v2.EncodingUTF8, e.Value)
		}
	}

	if pic != nil {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    pic.MIMEType,
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     pic.Data,
		})
	}

	return tag.Save()
}
