package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/musicdl/musicdl/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds what every subcommand needs after flag parsing.
type app struct {
	configPath string
	verbose    bool

	settings *config.Settings
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "musicdl",
		Short:        "Download and tag music from Spotify and YouTube links",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Settings file, JSON or YAML (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Show verbose output")

	root.AddCommand(a.cmdGet(), a.cmdCheck(), a.cmdTag())
	return root
}

func (a *app) load() error {
	path := a.configPath
	if path == "" {
		path = config.DefaultPath()
	}

	settings, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.verbose {
		settings.LogLevel = "debug"
	}

	a.settings = settings
	a.logger = settings.NewLogger(os.Stderr)
	slog.SetDefault(a.logger)
	return nil
}
