package audio

import (
	"fmt"
	"strings"

	"github.com/musicdl/musicdl/internal/model"
)

// Playlist is an ordered list of downloaded files, all in one directory.
type Playlist struct {
	Title   string
	Entries []PlaylistEntry
}

// PlaylistEntry is one track of a Playlist.
type PlaylistEntry struct {
	// FileName is relative to the playlist file.
	FileName string
	Artist   string
	Title    string
}

// PlaylistCreator generates playlist files in various formats:
//   - M3U: Simple text format, widely supported
//   - PLS: INI-style format, used by Winamp
//   - WPL: XML format, Windows Media Player
//   - ZPL: XML format, Zune/Groove Music
//
// Example:
//
//	creator := NewPlaylistCreator(model.PlaylistFormatM3U, true)
//	content := creator.CreatePlaylist(playlist)
//
//	// Result:
//	// #EXTM3U
//	// #EXTINF:-1,Daft Punk - Get Lucky
//	// Daft Punk - Get Lucky.mp3
type PlaylistCreator struct {
	format   model.PlaylistFormat
	extended bool // For M3U: include EXTINF lines
}

// NewPlaylistCreator creates a new PlaylistCreator. extended only affects M3U.
func NewPlaylistCreator(format model.PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Extension returns the file extension of the generated playlists.
func (p *PlaylistCreator) Extension() string {
	return p.format.Extension()
}

// CreatePlaylist renders the playlist. Paths are written as plain file names,
// assuming the playlist sits next to the tracks.
func (p *PlaylistCreator) CreatePlaylist(pl Playlist) string {
	switch p.format {
	case model.PlaylistFormatPLS:
		return p.createPLS(pl)
	case model.PlaylistFormatWPL:
		return p.createWPL(pl)
	case model.PlaylistFormatZPL:
		return p.createZPL(pl)
	default:
		return p.createM3U(pl)
	}
}

// createM3U generates an M3U playlist. Durations are unknown and written as -1.
func (p *PlaylistCreator) createM3U(pl Playlist) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
		if pl.Title != "" {
			fmt.Fprintf(&sb, "#PLAYLIST:%s\n", pl.Title)
		}
	}

	for _, e := range pl.Entries {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:-1,%s - %s\n", e.Artist, e.Title)
		}
		sb.WriteString(e.FileName + "\n")
	}

	return sb.String()
}

// createPLS generates an INI-style PLS playlist.
func (p *PlaylistCreator) createPLS(pl Playlist) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")
	for i, e := range pl.Entries {
		idx := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", idx, e.FileName)
		fmt.Fprintf(&sb, "Title%d=%s - %s\n", idx, e.Artist, e.Title)
		fmt.Fprintf(&sb, "Length%d=-1\n", idx)
	}
	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(pl.Entries))
	sb.WriteString("Version=2\n")

	return sb.String()
}

func (p *PlaylistCreator) createWPL(pl Playlist) string {
	var sb strings.Builder

	sb.WriteString("<?wpl version=\"1.0\"?>\n")
	sb.WriteString("<smil>\n  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(pl.Title))
	sb.WriteString("  </head>\n  <body>\n    <seq>\n")
	for _, e := range pl.Entries {
		fmt.Fprintf(&sb, "      <media src=\"%s\"/>\n", escapeXML(e.FileName))
	}
	sb.WriteString("    </seq>\n  </body>\n</smil>\n")

	return sb.String()
}

// createZPL is WPL plus per-track artist and title attributes.
func (p *PlaylistCreator) createZPL(pl Playlist) string {
	var sb strings.Builder

	sb.WriteString("<?zpl version=\"2.0\"?>\n")
	sb.WriteString("<smil>\n  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(pl.Title))
	sb.WriteString("    <meta name=\"Generator\" content=\"musicdl\"/>\n")
	fmt.Fprintf(&sb, "    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(pl.Entries))
	sb.WriteString("  </head>\n  <body>\n    <seq>\n")
	for _, e := range pl.Entries {
		fmt.Fprintf(&sb, "      <media src=\"%s\" trackTitle=\"%s\" trackArtist=\"%s\"/>\n",
			escapeXML(e.FileName), escapeXML(e.Title), escapeXML(e.Artist))
	}
	sb.WriteString("    </seq>\n  </body>\n</smil>\n")

	return sb.String()
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
