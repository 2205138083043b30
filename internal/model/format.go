package model

import (
	"errors"
	"fmt"
	"strings"

	ioutils "github.com/musicdl/musicdl/internal/io"
)

// ErrUnknownFormat is returned by ParseFormat, ParseMode and
// ParsePlaylistFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown format")

// Format is an output container.
type Format int

const (
	FormatMP3 Format = iota
	FormatFLAC
	FormatM4A
	FormatOpus
	FormatOGG
	// FormatMP4 is only produced in video mode.
	FormatMP4
)

// TagScheme identifies how metadata is embedded in a container.
type TagScheme int

const (
	// SchemeID3 is an ID3v2 frame set (mp3).
	SchemeID3 TagScheme = iota
	// SchemeBlock is a FLAC metadata block list.
	SchemeBlock
	// SchemeAtom is an MP4 atom tree.
	SchemeAtom
	// SchemeComment is an Ogg Vorbis comment set.
	SchemeComment
)

var formatNames = map[Format]string{
	FormatMP3:  "mp3",
	FormatFLAC: "flac",
	FormatM4A:  "m4a",
	FormatOpus: "opus",
	FormatOGG:  "ogg",
	FormatMP4:  "mp4",
}

// Formats lists every supported format in declaration order.
func Formats() []Format {
	return []Format{FormatMP3, FormatFLAC, FormatM4A, FormatOpus, FormatOGG, FormatMP4}
}

// ParseFormat converts a case-insensitive format name, with or without a
// leading dot, into a Format.
func ParseFormat(s string) (Format, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) String() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extension returns the file extension including the leading dot.
func (f Format) Extension() string {
	return "." + f.String()
}

// MIMEType returns the media type served for files of this format.
func (f Format) MIMEType() string {
	switch f {
	case FormatMP3:
		return "audio/mpeg"
	case FormatFLAC:
		return "audio/flac"
	case FormatM4A:
		return "audio/mp4"
	case FormatOpus, FormatOGG:
		return "audio/ogg"
	case FormatMP4:
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}

// TagScheme returns the metadata container scheme of the format.
func (f Format) TagScheme() TagScheme {
	switch f {
	case FormatFLAC:
		return SchemeBlock
	case FormatM4A, FormatMP4:
		return SchemeAtom
	case FormatOpus, FormatOGG:
		return SchemeComment
	default:
		return SchemeID3
	}
}

// Mode selects between audio extraction and video download.
type Mode int

const (
	ModeAudio Mode = iota
	ModeVideo
)

// ParseMode converts "audio" or "video" into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "audio":
		return ModeAudio, nil
	case "video":
		return ModeVideo, nil
	}
	return 0, fmt.Errorf("%w: mode %q", ErrUnknownFormat, s)
}

func (m Mode) String() string {
	if m == ModeVideo {
		return "video"
	}
	return "audio"
}

// OutputFormat returns the container actually produced for the requested
// format in this mode. Video mode always yields mp4; audio mode maps mp4 to m4a.
func (m Mode) OutputFormat(f Format) Format {
	if m == ModeVideo {
		return FormatMP4
	}
	if f == FormatMP4 {
		return FormatM4A
	}
	return f
}

// FileName builds the canonical "<artist> - <title><ext>" file name.
// The duplicate detector parses names of this shape back into artist and title.
func FileName(artist, title string, f Format) string {
	return ioutils.SanitizeFileName(artist+" - "+title) + f.Extension()
}

// PlaylistFormat is a playlist file type.
type PlaylistFormat int

const (
	PlaylistFormatM3U PlaylistFormat = iota
	PlaylistFormatPLS
	PlaylistFormatWPL
	PlaylistFormatZPL
)

// ParsePlaylistFormat converts "m3u", "pls", "wpl" or "zpl" into a PlaylistFormat.
func ParsePlaylistFormat(s string) (PlaylistFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m3u":
		return PlaylistFormatM3U, nil
	case "pls":
		return PlaylistFormatPLS, nil
	case "wpl":
		return PlaylistFormatWPL, nil
	case "zpl":
		return PlaylistFormatZPL, nil
	}
	return 0, fmt.Errorf("%w: playlist %q", ErrUnknownFormat, s)
}

// Extension returns the playlist file extension including the leading dot.
func (p PlaylistFormat) Extension() string {
	switch p {
	case PlaylistFormatPLS:
		return ".pls"
	case PlaylistFormatWPL:
		return ".wpl"
	case PlaylistFormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}
