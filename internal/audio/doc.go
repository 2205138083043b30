// Package audio writes track metadata into downloaded files and renders
// playlists for collection downloads.
//
// # Tagging
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig(), logger)
//	ok := tagger.Tag(path, meta, model.FormatMP3)
//
// Writers per container:
//   - mp3: ID3v2 TIT2/TPE1/TALB/TYER/TRCK/TCON and an APIC front cover
//   - flac: Vorbis comment block and a PICTURE block
//   - m4a, mp4: ©nam/©ART/©alb/©day/©gen/trkn atoms and covr
//   - opus, ogg: Vorbis comments with METADATA_BLOCK_PICTURE artwork
//
// Tag never returns an error and never removes the audio file; TagE exposes
// the failure reason.
//
// # Playlist Generation
//
//	creator := audio.NewPlaylistCreator(model.PlaylistFormatM3U, true)
//	content := creator.CreatePlaylist(playlist)
//
// Supported formats: M3U (with optional extended info), PLS, WPL, ZPL.
package audio
