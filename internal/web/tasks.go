package web

import (
	"sync"

	"github.com/google/uuid"
)

// Task statuses reported by the progress endpoint.
const (
	StatusQueued      = "queued"
	StatusDownloading = "downloading"
	StatusFinished    = "finished"
	StatusDone        = "done"
	StatusError       = "error"
	StatusUnknown     = "unknown"
)

// Progress is the polled state of one task.
type Progress struct {
	Status     string   `json:"status"`
	Filename   string   `json:"filename,omitempty"`
	Percent    int      `json:"percent"`
	Downloaded int64    `json:"downloaded"`
	Total      int64    `json:"total"`
	Details    string   `json:"details,omitempty"`
	Format     string   `json:"format,omitempty"`
	TracksDone int      `json:"tracks_done"`
	TracksAll  int      `json:"tracks_total"`
	Files      []string `json:"files,omitempty"`
	FileURL    string   `json:"file_url,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Tasks maps task ids to their progress. It is safe for concurrent use.
type Tasks struct {
	mu    sync.RWMutex
	tasks map[string]*Progress
}

// NewTasks creates an empty task table.
func NewTasks() *Tasks {
	return &Tasks{tasks: make(map[string]*Progress)}
}

// Create registers a queued task and returns its id.
func (t *Tasks) Create(format string) string {
	id := uuid.NewString()
	t.mu.Lock()
	t.tasks[id] = &Progress{Status: StatusQueued, Format: format}
	t.mu.Unlock()
	return id
}

// Get returns a copy of the task's progress.
func (t *Tasks) Get(id string) (Progress, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.tasks[id]
	if !ok {
		return Progress{}, false
	}
	c := *p
	c.Files = append([]string(nil), p.Files...)
	return c, true
}

// Update applies fn to the task's progress under the write lock. Unknown ids
// are ignored.
func (t *Tasks) Update(id string, fn func(*Progress)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.tasks[id]; ok {
		fn(p)
	}
}
