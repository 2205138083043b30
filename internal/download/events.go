package download

import (
	"github.com/musicdl/musicdl/internal/model"
	"github.com/musicdl/musicdl/internal/youtube"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

func (l ProgressLevel) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "info"
	}
}

// EventKind distinguishes free-text status updates from per-track outcomes
// and structured fetch progress.
type EventKind int

const (
	EventStatus EventKind = iota
	EventProgress
	EventSkipped
	EventFailed
	EventSucceeded
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventSkipped:
		return "skipped"
	case EventFailed:
		return "failed"
	case EventSucceeded:
		return "succeeded"
	default:
		return "status"
	}
}

// Event is a one-way notification from a running batch.
type Event struct {
	Kind    EventKind
	Level   ProgressLevel
	Message string

	// Index is the 1-based position of the track the event belongs to, or 0
	// for batch-level events.
	Index int

	// Progress is set for EventProgress only.
	Progress *youtube.Progress
}

// EventSink receives events. It is called synchronously from the goroutine
// running the batch and must not block for long.
type EventSink func(Event)

// DuplicateQuery reports whether a track is already present in dir and should
// be skipped.
type DuplicateQuery func(dir, artist, title string, format model.Format) bool
