package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/musicdl/musicdl/internal/config"
	"github.com/musicdl/musicdl/internal/dedupe"
	"github.com/musicdl/musicdl/internal/download"
	"github.com/musicdl/musicdl/internal/janitor"
	"github.com/musicdl/musicdl/internal/model"
	"github.com/musicdl/musicdl/internal/youtube"
)

const shutdownTimeout = 10 * time.Second

// Server exposes download batches over HTTP.
type Server struct {
	settings     *config.Settings
	deps         download.Dependencies
	dir          string
	reservations *janitor.Reservations
	tasks        *Tasks
	logger       *slog.Logger
	engine       *gin.Engine

	ctx context.Context
	wg  sync.WaitGroup
}

// New creates a Server serving settings.DownloadsPath. reservations is
// shared with the janitor sweeping the same directory.
func New(settings *config.Settings, deps download.Dependencies, reservations *janitor.Reservations, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if reservations == nil {
		reservations = janitor.NewReservations()
	}

	s := &Server{
		settings:     settings,
		deps:         deps,
		dir:          settings.DownloadsPath,
		reservations: reservations,
		tasks:        NewTasks(),
		logger:       logger,
		ctx:          context.Background(),
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", s.handleHealth)
	r.POST("/download", s.handleDownload)
	r.GET("/progress/:id/status", s.handleProgress)
	r.GET("/files", s.handleListFiles)
	r.GET("/files/:name", s.handleServeFile)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Tasks returns the task table.
func (s *Server) Tasks() *Tasks {
	return s.tasks
}

// Run listens on settings.ListenAddress until ctx is cancelled, then shuts
// down gracefully. Background tasks inherit ctx.
func (s *Server) Run(ctx context.Context) error {
	s.ctx = ctx
	srv := &http.Server{
		Addr:              s.settings.ListenAddress,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", srv.Addr), slog.String("dir", s.dir))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.wg.Wait()
	return nil
}

// Wait blocks until every started task has finished.
func (s *Server) Wait() {
	s.wg.Wait()
}

func (s *Server) start(id, link string, mode model.Mode, format model.Format, batch bool) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runTask(s.ctx, id, link, mode, format, batch)
	}()
}

func (s *Server) runTask(ctx context.Context, id, link string, mode model.Mode, format model.Format, batch bool) {
	staging := filepath.Join(s.dir, StagingDir, id)
	fetcher := newStagedFetcher(s.deps.Fetcher, s.dir, s.reservations)

	deps := s.deps
	deps.Fetcher = fetcher

	var (
		manager   *download.Manager
		lastError string
	)
	sink := func(e download.Event) {
		if e.Level == download.LevelError {
			lastError = e.Message
		}
		done, total := manager.Progress()
		s.tasks.Update(id, func(p *Progress) {
			p.TracksDone, p.TracksAll = done, total
			if e.Kind == download.EventProgress && e.Progress != nil {
				applyFetchProgress(p, *e.Progress)
				return
			}
			p.Details = e.Message
		})
	}

	opts := []download.Option{
		download.WithLogger(s.logger),
		download.WithDuplicateQuery(func(_, artist, title string, f model.Format) bool {
			return dedupe.Exists(s.dir, artist, title, f)
		}),
	}
	if !batch {
		opts = append(opts, download.WithTrackLimit(1))
	}
	manager = download.NewManager(s.settings, deps, sink, opts...)

	s.logger.Info("task started", slog.String("task", id), slog.String("link", link), slog.String("format", format.String()))
	ok := manager.Run(ctx, link, mode, staging, format)

	files, err := fetcher.publish(staging)
	if err != nil {
		s.logger.Error("publishing files failed", slog.String("task", id), slog.Any("error", err))
	}

	s.tasks.Update(id, func(p *Progress) {
		p.Files = files
		if len(files) == 1 {
			p.FileURL = fileURL(files[0])
		}
		if ok {
			p.Status = StatusDone
			return
		}
		p.Status = StatusError
		p.Error = lastError
		if p.Error == "" {
			p.Error = "no track was downloaded"
		}
	})
	s.logger.Info("task finished", slog.String("task", id), slog.Bool("ok", ok), slog.Int("files", len(files)))
}

func applyFetchProgress(p *Progress, fp youtube.Progress) {
	p.Filename = fp.Filename
	p.Downloaded = fp.Downloaded
	p.Total = fp.Total
	p.Percent = int(fp.Percent())
	if fp.Status == youtube.StatusFinished {
		p.Status = StatusFinished
	} else {
		p.Status = StatusDownloading
	}
}

func fileURL(name string) string {
	return "/files/" + url.PathEscape(name)
}

// parseFormat maps the form value onto an output format and mode. "mp4"
// selects video.
func parseFormat(value string) (model.Format, model.Mode, error) {
	if strings.TrimSpace(value) == "" {
		value = "mp3"
	}
	f, err := model.ParseFormat(value)
	if err != nil {
		return 0, 0, fmt.Errorf("unsupported format %q", value)
	}
	if f == model.FormatMP4 {
		return f, model.ModeVideo, nil
	}
	return f, model.ModeAudio, nil
}
