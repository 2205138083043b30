package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/musicdl/musicdl/internal/config"
	"github.com/musicdl/musicdl/internal/download"
	"github.com/musicdl/musicdl/internal/tui"
)

func main() {
	configFlag := flag.String("config", config.DefaultPath(), "Path to config file")
	flag.Parse()

	if err := run(*configFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}

	creds, err := config.LoadCredentials()
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so diagnostics are dropped.
	logger := settings.NewLogger(io.Discard)

	deps, err := download.NewDependencies(context.Background(), settings, creds, logger)
	if err != nil {
		return err
	}

	return tui.Run(settings, deps)
}
