package audio

import (
	"strconv"

	"github.com/zhaarey/go-mp4tag"
)

// writeMP4 updates the atom tags of an m4a or mp4 file.
func writeMP4(path string, edits []fieldEdit, pic *picture) error {
	mp4, err := mp4tag.Open(path)
	if err != nil {
		return err
	}
	defer mp4.Close()

	tags := &mp4tag.MP4Tags{}
	var remove []string

	for _, e := range edits {
		if e.Value == "" {
			remove = append(remove, mp4DeleteNames[e.Field])
			continue
		}
		switch e.Field {
		case FieldTitle:
			tags.Title = e.Value
		case FieldArtist:
			tags.Artist = e.Value
		case FieldAlbum:
			tags.Album = e.Value
		case FieldYear:
			tags.Date = e.Value
		case FieldTrackNumber:
			n, err := strconv.Atoi(e.Value)
			if err == nil && n > 0 && n <= 32767 {
				tags.TrackNumber = int16(n)
			}
		case FieldGenre:
			tags.CustomGenre = e.Value
		}
	}

	if pic != nil {
		format := mp4tag.ImageTypeJPEG
		if pic.MIMEType == "image/png" {
			format = mp4tag.ImageTypePNG
		}
		tags.Pictures = []*mp4tag.MP4Picture{{Format: format, Data: pic.Data}}
		remove = append(remove, "allpictures")
	}

	return mp4.Write(tags, remove)
}

var mp4DeleteNames = map[Field]string{
	FieldTitle:       "title",
	FieldArtist:      "artist",
	FieldAlbum:       "album",
	FieldYear:        "date",
	FieldTrackNumber: "tracknumber",
	FieldGenre:       "genre",
}
