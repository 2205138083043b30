package web

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/musicdl/musicdl/internal/download"
	ioutils "github.com/musicdl/musicdl/internal/io"
	"github.com/musicdl/musicdl/internal/janitor"
	"github.com/musicdl/musicdl/internal/model"
	"github.com/musicdl/musicdl/internal/youtube"
)

// StagingDir holds per-task directories below the served directory.
const StagingDir = ".staging"

// stagedFetcher reserves the final path of every file before it is fetched
// into a task's staging directory. publish moves the results into the served
// directory and drops the reservations.
type stagedFetcher struct {
	inner        download.Fetcher
	servedDir    string
	reservations *janitor.Reservations

	mu       sync.Mutex
	reserved []string
}

func newStagedFetcher(inner download.Fetcher, servedDir string, reservations *janitor.Reservations) *stagedFetcher {
	return &stagedFetcher{
		inner:        inner,
		servedDir:    servedDir,
		reservations: reservations,
	}
}

func (f *stagedFetcher) Fetch(ctx context.Context, task model.DownloadTask, onProgress func(youtube.Progress)) (string, error) {
	final := filepath.Join(f.servedDir, task.FileName())
	if f.reservations.Reserve(final) {
		f.mu.Lock()
		f.reserved = append(f.reserved, final)
		f.mu.Unlock()
	}
	return f.inner.Fetch(ctx, task, onProgress)
}

// publish moves every regular file of staging into the served directory,
// removes staging and releases the reservations. It returns the published
// file names in sorted order.
func (f *stagedFetcher) publish(staging string) ([]string, error) {
	defer f.release()

	entries, err := os.ReadDir(staging)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var (
		names    []string
		firstErr error
	)
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		dst := filepath.Join(f.servedDir, entry.Name())
		if err := ioutils.MoveFile(filepath.Join(staging, entry.Name()), dst); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	if err := os.RemoveAll(staging); err != nil && firstErr == nil {
		firstErr = err
	}
	return names, firstErr
}

func (f *stagedFetcher) release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.reserved {
		f.reservations.Release(p)
	}
	f.reserved = nil
}
