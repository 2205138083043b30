package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/musicdl/musicdl/internal/audio"
	ioutils "github.com/musicdl/musicdl/internal/io"
	"github.com/musicdl/musicdl/internal/metadata"
	"github.com/musicdl/musicdl/internal/model"
)

func (a *app) cmdTag() *cobra.Command {
	var (
		meta  model.TrackMetadata
		cover string
		show  bool
	)

	cmd := &cobra.Command{
		Use:   "tag <file>",
		Short: "Write or show the tags of an existing audio file",
		Example: "  musicdl tag \"Daft Punk - Get Lucky.flac\" --title \"Get Lucky\" --artist \"Daft Punk\" --year 2013 --cover cover.jpg\n" +
			"  musicdl tag --show \"Daft Punk - Get Lucky.mp3\"",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			format, err := model.ParseFormat(filepath.Ext(path))
			if err != nil {
				return err
			}

			if show {
				fields, err := audio.ReadTags(path, format)
				if err != nil {
					return err
				}
				printTags(filepath.Base(path), fields)
				return nil
			}

			if cover != "" {
				data, err := os.ReadFile(cover)
				if err != nil {
					return fmt.Errorf("reading cover: %w", err)
				}
				meta.CoverArt, err = ioutils.NewImageService().PrepareCoverArt(context.Background(), data,
					a.settings.CoverArtMaxSize, a.settings.ConvertCoverArtToJPG)
				if err != nil {
					return fmt.Errorf("processing cover: %w", err)
				}
			}

			tagger := audio.NewTagger(tagConfig(cmd, cover != ""), a.logger)
			if err := tagger.TagE(path, metadata.Validate(meta), format); err != nil {
				return err
			}
			successColor.Printf("✓ Tagged %s\n", filepath.Base(path))
			return nil
		},
	}

	cmd.Flags().StringVar(&meta.Title, "title", "", "Track title")
	cmd.Flags().StringVar(&meta.Artist, "artist", "", "Artist")
	cmd.Flags().StringVar(&meta.Album, "album", "", "Album")
	cmd.Flags().StringVar(&meta.ReleaseYear, "year", "", "Release year")
	cmd.Flags().StringVar(&meta.Genre, "genre", "", "Genre")
	cmd.Flags().IntVar(&meta.TrackNumber, "track", 1, "Track number")
	cmd.Flags().StringVar(&cover, "cover", "", "Cover image file")
	cmd.Flags().BoolVar(&show, "show", false, "List the tags already in the file instead of writing")
	return cmd
}

// tagConfig modifies only the fields given on the command line.
func tagConfig(cmd *cobra.Command, withCover bool) *audio.TagConfig {
	action := func(flag string) audio.TagEditAction {
		if cmd.Flags().Changed(flag) {
			return audio.TagModify
		}
		return audio.TagDoNotModify
	}

	return &audio.TagConfig{
		ModifyTags:  true,
		TrackTitle:  action("title"),
		Artist:      action("artist"),
		Album:       action("album"),
		Year:        action("year"),
		TrackNumber: action("track"),
		Genre:       action("genre"),
		CoverArt:    withCover,
	}
}
