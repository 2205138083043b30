package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/musicdl/musicdl/internal/audio"
	"github.com/musicdl/musicdl/internal/config"
	"github.com/musicdl/musicdl/internal/dedupe"
	ioutils "github.com/musicdl/musicdl/internal/io"
	"github.com/musicdl/musicdl/internal/model"
	"github.com/musicdl/musicdl/internal/spotify"
	"github.com/musicdl/musicdl/internal/spotify/dto"
	"github.com/musicdl/musicdl/internal/youtube"
)

// Resolver turns a link into its ordered track records.
type Resolver interface {
	Resolve(ctx context.Context, link string) (*dto.Collection, error)
}

// Normalizer builds validated metadata from a raw record.
type Normalizer interface {
	Extract(ctx context.Context, raw *dto.Track, position int) model.TrackMetadata
}

// Searcher finds a fetchable target for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Fetcher downloads a task's target and returns the written path.
type Fetcher interface {
	Fetch(ctx context.Context, task model.DownloadTask, onProgress func(youtube.Progress)) (string, error)
}

// Tagger writes metadata into a downloaded file. It never fails the batch.
type Tagger interface {
	Tag(path string, meta model.TrackMetadata, format model.Format) bool
}

// Dependencies are the collaborators of a Manager. Playlist may be nil.
type Dependencies struct {
	Resolver   Resolver
	Normalizer Normalizer
	Searcher   Searcher
	Fetcher    Fetcher
	Tagger     Tagger
	Playlist   *audio.PlaylistCreator
}

// Outcome is the final state of one track.
type Outcome int

const (
	OutcomeSucceeded Outcome = iota
	OutcomeSkipped
	OutcomeNotFound
	OutcomeFailed
	// OutcomeUntagged means the file was downloaded and kept, but not tagged.
	OutcomeUntagged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeNotFound:
		return "not found"
	case OutcomeFailed:
		return "failed"
	case OutcomeUntagged:
		return "untagged"
	default:
		return "ok"
	}
}

// TrackResult records what happened to one track of a batch.
type TrackResult struct {
	Index   int
	Artist  string
	Title   string
	Path    string
	Outcome Outcome
	Err     error
}

// Option configures a Manager.
type Option func(*Manager)

// WithDuplicateQuery replaces dedupe.Exists as the duplicate oracle.
func WithDuplicateQuery(q DuplicateQuery) Option {
	return func(m *Manager) {
		if q != nil {
			m.duplicate = q
		}
	}
}

// WithTrackLimit processes at most n tracks of each batch. n <= 0 means no limit.
func WithTrackLimit(n int) Option {
	return func(m *Manager) { m.trackLimit = n }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// Manager runs download batches. Each batch is processed sequentially, one
// track at a time.
type Manager struct {
	settings   *config.Settings
	deps       Dependencies
	onProgress EventSink
	duplicate  DuplicateQuery
	trackLimit int
	logger     *slog.Logger

	totalTracks int32
	doneTracks  int32

	results []TrackResult
	mu      sync.RWMutex
}

// NewManager creates a Manager. onProgress may be nil.
func NewManager(settings *config.Settings, deps Dependencies, onProgress EventSink, opts ...Option) *Manager {
	m := &Manager{
		settings:   settings,
		deps:       deps,
		onProgress: onProgress,
		duplicate:  dedupe.Exists,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Progress returns how many tracks of the current batch are finished, in
// any outcome, and how many there are in total.
func (m *Manager) Progress() (done, total int) {
	return int(atomic.LoadInt32(&m.doneTracks)), int(atomic.LoadInt32(&m.totalTracks))
}

// Summary returns the per-track results of the last batch.
func (m *Manager) Summary() []TrackResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]TrackResult, len(m.results))
	copy(out, m.results)
	return out
}

// Run downloads every track behind link into dir and reports whether at
// least one track was downloaded and tagged.
//
// Only a resolution failure ends the batch early; it is reported as a single
// status event. Every per-track failure is reported and the loop moves on.
// ctx is checked between tracks; a track already being fetched is aborted
// with its process.
func (m *Manager) Run(ctx context.Context, link string, mode model.Mode, dir string, format model.Format) bool {
	m.reset()

	coll, err := m.deps.Resolver.Resolve(ctx, link)
	if err == nil && (coll == nil || len(coll.Tracks) == 0) {
		err = spotify.ErrNoTracks
	}
	if err != nil {
		m.logger.Warn("resolve failed", slog.String("link", link), slog.Any("error", err))
		if errors.Is(err, spotify.ErrNoTracks) {
			m.status(LevelError, fmt.Sprintf("No tracks found for %s", link))
		} else {
			m.status(LevelError, fmt.Sprintf("Error resolving %s: %v", link, err))
		}
		return false
	}

	tracks := coll.Tracks
	if m.trackLimit > 0 && len(tracks) > m.trackLimit {
		tracks = tracks[:m.trackLimit]
	}
	atomic.StoreInt32(&m.totalTracks, int32(len(tracks)))

	name := coll.Name
	if name == "" {
		name = coll.Kind.String()
	}
	m.status(LevelInfo, fmt.Sprintf("Found %s: %s (%d tracks)", coll.Kind, name, len(tracks)))

	if err := ioutils.EnsureDir(dir); err != nil {
		m.status(LevelError, fmt.Sprintf("Error creating directory: %v", err))
		return false
	}

	format = mode.OutputFormat(format)

	var successCount int
	for i, raw := range tracks {
		if ctx.Err() != nil {
			m.status(LevelWarning, "Cancelled")
			break
		}

		res := m.processTrack(ctx, i+1, raw, mode, dir, format)
		m.record(res)
		if res.Outcome == OutcomeSucceeded {
			successCount++
		}
	}

	if m.settings.CreatePlaylist && successCount > 0 &&
		(coll.Kind == dto.KindAlbum || coll.Kind == dto.KindPlaylist) {
		m.writePlaylist(name, dir)
	}

	if successCount == len(tracks) {
		m.status(LevelSuccess, fmt.Sprintf("Successfully downloaded %s: %s", coll.Kind, name))
	} else {
		m.status(LevelWarning, fmt.Sprintf("Finished %s, %d of %d tracks downloaded", name, successCount, len(tracks)))
	}

	return successCount > 0
}

func (m *Manager) processTrack(ctx context.Context, index int, raw *dto.Track, mode model.Mode, dir string, format model.Format) TrackResult {
	meta := m.extract(ctx, index, raw)
	res := TrackResult{Index: index, Artist: meta.Artist, Title: meta.Title}
	label := meta.Artist + " - " + meta.Title

	if m.settings.SkipExisting && m.duplicate(dir, meta.Artist, meta.Title, format) {
		res.Outcome = OutcomeSkipped
		m.emit(Event{Kind: EventSkipped, Level: LevelVerbose, Index: index, Message: fmt.Sprintf("Skipping existing: %s", label)})
		return res
	}

	target := ""
	if raw != nil {
		target = raw.SourceURL
	}
	if target == "" {
		var err error
		target, err = m.deps.Searcher.Search(ctx, meta.SearchQuery())
		if err != nil {
			res.Outcome, res.Err = OutcomeNotFound, err
			m.emit(Event{Kind: EventFailed, Level: LevelError, Index: index, Message: fmt.Sprintf("No match found for %s: %v", label, err)})
			return res
		}
	}

	task := model.DownloadTask{
		Target:   target,
		Dir:      dir,
		Format:   format,
		Mode:     mode,
		Metadata: meta,
	}

	path, err := m.fetch(ctx, index, label, task)
	if err != nil {
		res.Outcome, res.Err = OutcomeFailed, err
		m.emit(Event{Kind: EventFailed, Level: LevelError, Index: index, Message: fmt.Sprintf("Error downloading %s: %v", label, err)})
		return res
	}
	res.Path = path

	if err := ioutils.WaitForRelease(ctx, path, m.settings.FileReleaseAttempts, m.settings.ReleaseInterval()); err != nil {
		res.Outcome, res.Err = OutcomeUntagged, err
		m.emit(Event{Kind: EventFailed, Level: LevelWarning, Index: index, Message: fmt.Sprintf("Downloaded %s but could not tag it: %v", filepath.Base(path), err)})
		return res
	}

	if !m.deps.Tagger.Tag(path, meta, format) {
		res.Outcome = OutcomeUntagged
		m.emit(Event{Kind: EventFailed, Level: LevelWarning, Index: index, Message: fmt.Sprintf("Downloaded %s but tagging failed", filepath.Base(path))})
		return res
	}

	res.Outcome = OutcomeSucceeded
	m.emit(Event{Kind: EventSucceeded, Level: LevelSuccess, Index: index, Message: fmt.Sprintf("Downloaded: %s", filepath.Base(path))})
	return res
}

// extract runs the normalizer, falling back to the "Track <index>" record
// when there is no raw record or the normalizer panics. metadata.Normalizer
// recovers its own panics into the sentinel record, so with it only the nil
// record case reaches the fallback here.
func (m *Manager) extract(ctx context.Context, index int, raw *dto.Track) (meta model.TrackMetadata) {
	if raw == nil {
		return model.FallbackMetadata(index)
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("normalizer panicked", slog.Int("index", index), slog.Any("panic", r))
			m.emit(Event{Kind: EventStatus, Level: LevelWarning, Index: index, Message: fmt.Sprintf("Could not read metadata of track %d", index)})
			meta = model.FallbackMetadata(index)
		}
	}()
	return m.deps.Normalizer.Extract(ctx, raw, index)
}

func (m *Manager) fetch(ctx context.Context, index int, label string, task model.DownloadTask) (string, error) {
	onProgress := func(p youtube.Progress) {
		m.emit(Event{Kind: EventProgress, Level: LevelVerbose, Index: index, Progress: &p})
	}

	maxRetries := max(m.settings.DownloadMaxRetries, 1)

	var (
		path string
		err  error
	)
	for tries := 0; tries < maxRetries; tries++ {
		path, err = m.deps.Fetcher.Fetch(ctx, task, onProgress)
		if err == nil || ctx.Err() != nil || tries == maxRetries-1 {
			break
		}
		m.emit(Event{Kind: EventStatus, Level: LevelWarning, Index: index, Message: fmt.Sprintf("Retry %d/%d for %s", tries+1, maxRetries-1, label)})
		m.waitForRetry(ctx, tries)
	}
	return path, err
}

func (m *Manager) writePlaylist(name, dir string) {
	if m.deps.Playlist == nil {
		return
	}

	pl := audio.Playlist{Title: name}
	for _, r := range m.Summary() {
		if r.Outcome == OutcomeSucceeded || r.Outcome == OutcomeUntagged {
			pl.Entries = append(pl.Entries, audio.PlaylistEntry{
				FileName: filepath.Base(r.Path),
				Artist:   r.Artist,
				Title:    r.Title,
			})
		}
	}

	path := filepath.Join(dir, ioutils.SanitizeFileName(name)+m.deps.Playlist.Extension())
	if err := ioutils.WriteFile(path, []byte(m.deps.Playlist.CreatePlaylist(pl))); err != nil {
		m.status(LevelWarning, fmt.Sprintf("Error creating playlist: %v", err))
		return
	}
	m.status(LevelSuccess, fmt.Sprintf("Created playlist %s", filepath.Base(path)))
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	select {
	case <-ctx.Done():
	case <-time.After(m.settings.RetryDelay(tries)):
	}
}

func (m *Manager) reset() {
	m.mu.Lock()
	m.results = nil
	m.mu.Unlock()
	atomic.StoreInt32(&m.totalTracks, 0)
	atomic.StoreInt32(&m.doneTracks, 0)
}

func (m *Manager) record(res TrackResult) {
	m.mu.Lock()
	m.results = append(m.results, res)
	m.mu.Unlock()
	atomic.AddInt32(&m.doneTracks, 1)
}

func (m *Manager) status(level ProgressLevel, msg string) {
	m.emit(Event{Kind: EventStatus, Level: level, Message: msg})
}

func (m *Manager) emit(event Event) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
