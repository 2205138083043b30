package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/musicdl/musicdl/internal/config"
	"github.com/musicdl/musicdl/internal/download"
	ioutils "github.com/musicdl/musicdl/internal/io"
	"github.com/musicdl/musicdl/internal/janitor"
	"github.com/musicdl/musicdl/internal/web"
)

func main() {
	var (
		configFlag = flag.String("config", config.DefaultPath(), "Path to config file")
		addrFlag   = flag.String("addr", "", "Listen address (overrides config)")
		dirFlag    = flag.String("dir", "", "Downloads directory (overrides config)")
	)
	flag.Parse()

	if err := run(*configFlag, *addrFlag, *dirFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, addr, dir string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		settings.ListenAddress = addr
	}
	if dir != "" {
		settings.DownloadsPath = dir
	}
	if err := ioutils.EnsureDir(settings.DownloadsPath); err != nil {
		return err
	}

	logger := settings.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	if settings.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	creds, err := config.LoadCredentials()
	if err != nil {
		return err
	}
	deps, err := download.NewDependencies(ctx, settings, creds, logger)
	if err != nil {
		return err
	}

	// Leftovers of tasks interrupted by a previous shutdown.
	if err := os.RemoveAll(filepath.Join(settings.DownloadsPath, web.StagingDir)); err != nil {
		logger.Warn("could not clear staging directory", slog.Any("error", err))
	}

	reservations := janitor.NewReservations()
	server := web.New(settings, deps, reservations, logger)
	sweeper := janitor.New(settings.DownloadsPath, settings.CleanupEvery(), settings.CleanupAge(), reservations, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(ctx) })
	g.Go(func() error { return sweeper.Run(ctx) })
	return g.Wait()
}
