package main

import (
	"github.com/spf13/cobra"

	"github.com/musicdl/musicdl/internal/dedupe"
	"github.com/musicdl/musicdl/internal/model"
)

func (a *app) cmdCheck() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "check <dir> <artist> <title>",
		Short: "Check whether a track already exists in a directory",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, artist, title := args[0], args[1], args[2]

			f := a.settings.OutputFormat()
			if format != "" {
				var err error
				if f, err = model.ParseFormat(format); err != nil {
					return err
				}
			}

			key := dedupe.Key(artist, title)
			if dedupe.Exists(dir, artist, title, f) {
				successColor.Printf("✓ %s - %s exists in %s\n", artist, title, dir)
			} else {
				warningColor.Printf("! %s - %s not found in %s\n", artist, title, dir)
			}
			if a.verbose {
				dimColor.Printf("  key %q, format %s\n", key, f)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "File format to look for (default from config)")
	return cmd
}
