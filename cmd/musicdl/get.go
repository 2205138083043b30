package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/musicdl/musicdl/internal/config"
	"github.com/musicdl/musicdl/internal/dedupe"
	"github.com/musicdl/musicdl/internal/download"
	"github.com/musicdl/musicdl/internal/model"
)

func (a *app) cmdGet() *cobra.Command {
	var (
		output   string
		format   string
		video    bool
		force    bool
		ask      bool
		playlist bool
	)

	cmd := &cobra.Command{
		Use:   "get <link>...",
		Short: "Download tracks, albums, playlists or videos",
		Example: "  musicdl get https://open.spotify.com/album/4m2880jivSbbyEGAKfITCa\n" +
			"  musicdl get -f flac -o ~/Music/new https://open.spotify.com/track/0DiWol3AO6WpXZgp0goxAV\n" +
			"  musicdl get --video https://youtu.be/5NV6Rdv1a3I",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, links []string) error {
			settings := a.settings
			if output != "" {
				settings.DownloadsPath = output
			}
			if format != "" {
				settings.Format = format
			}
			if force {
				settings.SkipExisting = false
			}
			if playlist {
				settings.CreatePlaylist = true
			}
			if err := settings.Validate(); err != nil {
				return err
			}

			mode := model.ModeAudio
			if video {
				mode = model.ModeVideo
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.runGet(ctx, settings, links, mode, ask && !force)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (overrides config)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: mp3, flac, m4a, opus or ogg (overrides config)")
	cmd.Flags().BoolVar(&video, "video", false, "Download the video instead of extracting audio")
	cmd.Flags().BoolVar(&force, "force", false, "Download even if the track already exists")
	cmd.Flags().BoolVar(&ask, "ask", false, "Ask before skipping a track that already exists")
	cmd.Flags().BoolVarP(&playlist, "playlist", "p", false, "Create a playlist file for albums and playlists")
	return cmd
}

func (a *app) runGet(ctx context.Context, settings *config.Settings, links []string, mode model.Mode, ask bool) error {
	creds, err := config.LoadCredentials()
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	deps, err := download.NewDependencies(ctx, settings, creds, a.logger)
	if err != nil {
		return err
	}

	printer := newEventPrinter(a.verbose)
	var opts []download.Option
	opts = append(opts, download.WithLogger(a.logger))
	if ask {
		opts = append(opts, download.WithDuplicateQuery(askDuplicate(printer)))
	}
	manager := download.NewManager(settings, deps, printer.print, opts...)

	printHeader()

	failed := 0
	for _, link := range links {
		if ctx.Err() != nil {
			break
		}
		if !manager.Run(ctx, link, mode, settings.DownloadsPath, settings.OutputFormat()) {
			failed++
		}
		printSummary(manager.Summary())
	}

	if ctx.Err() != nil {
		return fmt.Errorf("download cancelled")
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d links produced no downloads", failed, len(links))
	}
	return nil
}

// askDuplicate asks the user whether an existing track should be skipped.
// Tracks that are not present are never asked about.
func askDuplicate(p *eventPrinter) download.DuplicateQuery {
	return func(dir, artist, title string, f model.Format) bool {
		if !dedupe.Exists(dir, artist, title, f) {
			return false
		}

		p.endLine()
		skip := true
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("%s - %s already exists. Skip it?", artist, title),
			Default: true,
		}
		if err := survey.AskOne(prompt, &skip); err != nil {
			return true
		}
		return skip
	}
}
