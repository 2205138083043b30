package janitor

import (
	"path/filepath"
	"sort"
	"sync"
)

// Reservations is a concurrency-safe set of file paths that are being
// written or moved and must be neither deleted nor served.
//
// Paths are cleaned before use, so "a/./b" and "a/b" are the same entry.
type Reservations struct {
	mu    sync.RWMutex
	paths map[string]struct{}
}

// NewReservations creates an empty set.
func NewReservations() *Reservations {
	return &Reservations{paths: make(map[string]struct{})}
}

// Reserve adds path. It reports false if path was already reserved.
func (r *Reservations) Reserve(path string) bool {
	path = filepath.Clean(path)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.paths[path]; ok {
		return false
	}
	r.paths[path] = struct{}{}
	return true
}

// Release removes path. Releasing an unknown path is a no-op.
func (r *Reservations) Release(path string) {
	r.mu.Lock()
	delete(r.paths, filepath.Clean(path))
	r.mu.Unlock()
}

// Reserved reports whether path is currently reserved.
func (r *Reservations) Reserved(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.paths[filepath.Clean(path)]
	return ok
}

// Snapshot returns the reserved paths in sorted order.
func (r *Reservations) Snapshot() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.paths))
	for p := range r.paths {
		out = append(out, p)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}
