package audio

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"go.senan.xyz/taglib"

	"github.com/musicdl/musicdl/internal/model"
)

// TagField is one value stored in a file's tag container. Binary values
// such as artwork are summarised rather than returned.
type TagField struct {
	Key   string
	Value string
}

// ReadTags lists the tags already stored in the file at path, sorted by key.
// Keys are the container's native ones (TIT2, TITLE, ©nam...).
func ReadTags(path string, format model.Format) (fields []TagField, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read tags %s: panic: %v", path, r)
		}
	}()

	switch format.TagScheme() {
	case model.SchemeID3:
		fields, err = readID3(path)
	case model.SchemeBlock:
		fields, err = readFLAC(path)
	case model.SchemeAtom, model.SchemeComment:
		fields, err = readTaglib(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("read tags %s: %w", path, err)
	}

	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
	return fields, nil
}

func readID3(path string) ([]TagField, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer tag.Close()

	var fields []TagField
	for id, frames := range tag.AllFrames() {
		for _, frame := range frames {
			fields = append(fields, TagField{Key: id, Value: describeFrame(frame)})
		}
	}
	return fields, nil
}

func describeFrame(frame id3v2.Framer) string {
	switch f := frame.(type) {
	case id3v2.TextFrame:
		return f.Text
	case id3v2.CommentFrame:
		return f.Text
	case id3v2.UserDefinedTextFrame:
		return f.Description + "=" + f.Value
	case id3v2.PictureFrame:
		return fmt.Sprintf("%s, %d bytes", f.MimeType, len(f.Picture))
	default:
		return fmt.Sprintf("%d bytes", frame.Size())
	}
}

func readFLAC(path string) ([]TagField, error) {
	f, err := flac.ParseFile(path)
	if err != nil {
		return nil, err
	}

	var fields []TagField
	for _, meta := range f.Meta {
		switch meta.Type {
		case flac.VorbisComment:
			cmt, err := flacvorbis.ParseFromMetaDataBlock(*meta)
			if err != nil {
				return nil, err
			}
			for _, c := range cmt.Comments {
				key, value, _ := strings.Cut(c, "=")
				fields = append(fields, TagField{Key: strings.ToUpper(key), Value: value})
			}
		case flac.Picture:
			pic, err := flacpicture.ParseFromMetaDataBlock(*meta)
			if err != nil {
				return nil, err
			}
			fields = append(fields, TagField{
				Key:   "PICTURE",
				Value: fmt.Sprintf("%s, %d bytes", pic.MIME, len(pic.ImageData)),
			})
		}
	}
	return fields, nil
}

func readTaglib(path string) ([]TagField, error) {
	tags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, err
	}

	fields := make([]TagField, 0, len(tags))
	for key, values := range tags {
		fields = append(fields, TagField{Key: key, Value: strings.Join(values, "; ")})
	}
	return fields, nil
}
