// Package tui provides a Bubble Tea terminal user interface for musicdl.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/musicdl/musicdl/internal/config"
	"github.com/musicdl/musicdl/internal/download"
	"github.com/musicdl/musicdl/internal/model"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1DB954")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1DB954"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#57CC99"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E63946"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F4D35E"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B3E5C5"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7F8C8D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1DB954")).
			Padding(1, 2)

	trackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F4A261"))
)

// maxLogs is how many log lines stay on screen.
const maxLogs = 10

// audioFormats are the formats offered for cycling.
var audioFormats = []model.Format{
	model.FormatMP3,
	model.FormatFLAC,
	model.FormatM4A,
	model.FormatOpus,
	model.FormatOGG,
}

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	deps      download.Dependencies
	logs      []LogEntry
	summary   []download.TrackResult
	err       error

	// Batch control
	ctx     context.Context
	cancel  context.CancelFunc
	events  chan download.Event
	manager *download.Manager

	// Batch progress
	doneTracks   int
	totalTracks  int
	current      string
	fetchPercent float64

	// Options
	formatIdx    int
	skipExisting bool
	video        bool
	playlist     bool
	verbose      bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings, deps download.Dependencies) Model {
	ti := textinput.New()
	ti.Placeholder = "https://open.spotify.com/album/... or a YouTube link"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	formatIdx := 0
	for i, f := range audioFormats {
		if f == settings.OutputFormat() {
			formatIdx = i
		}
	}

	return Model{
		state:        StateInput,
		textInput:    ti,
		spinner:      sp,
		progress:     prog,
		settings:     settings,
		deps:         deps,
		formatIdx:    formatIdx,
		skipExisting: settings.SkipExisting,
		playlist:     settings.CreatePlaylist,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Messages
type (
	// EventMsg carries one event from the running batch.
	EventMsg struct {
		Event download.Event
	}

	// DownloadDoneMsg is sent when the batch has finished.
	DownloadDoneMsg struct {
		OK      bool
		Summary []download.TrackResult
	}

	// eventsClosedMsg is sent once the event channel is drained.
	eventsClosedMsg struct{}
)

// Format returns the selected output format.
func (m Model) Format() model.Format {
	return audioFormats[m.formatIdx]
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDownloading {
				m.cancel()
				m.logs = appendLog(m.logs, LogEntry{Message: "Cancelling after the current track...", Level: download.LevelWarning})
			}
			return m, nil

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				return m, m.startDownload()
			}
			return m, nil

		case "tab":
			if m.state == StateInput {
				m.formatIdx = (m.formatIdx + 1) % len(audioFormats)
			}
			return m, nil

		case "ctrl+s":
			if m.state == StateInput {
				m.skipExisting = !m.skipExisting
			}
			return m, nil

		case "ctrl+e":
			if m.state == StateInput {
				m.video = !m.video
			}
			return m, nil

		case "ctrl+p":
			if m.state == StateInput {
				m.playlist = !m.playlist
			}
			return m, nil

		case "ctrl+l":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}
			return m, nil

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for new download
				m.state = StateInput
				m.logs = nil
				m.summary = nil
				m.manager = nil
				m.err = nil
				m.doneTracks = 0
				m.totalTracks = 0
				m.current = ""
				m.fetchPercent = 0
				m.textInput.SetValue("")
				m.textInput.Focus()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case EventMsg:
		cmds = append(cmds, m.handleEvent(msg.Event), waitForEvent(m.events))

	case eventsClosedMsg:
		// The batch goroutine sends DownloadDoneMsg itself.

	case DownloadDoneMsg:
		m.summary = msg.Summary
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case !msg.OK:
			m.state = StateError
			m.err = fmt.Errorf("no track was downloaded")
		default:
			m.state = StateComplete
		}
		m.cancel()

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleEvent folds one batch event into the model.
func (m *Model) handleEvent(e download.Event) tea.Cmd {
	if e.Kind == download.EventProgress {
		if e.Progress == nil {
			return nil
		}
		m.current = e.Progress.Filename
		m.fetchPercent = e.Progress.Percent() / 100
		return nil
	}

	if m.manager != nil {
		m.doneTracks, m.totalTracks = m.manager.Progress()
	}

	if e.Level == download.LevelVerbose && !m.verbose {
		return m.trackProgressCmd()
	}
	m.logs = appendLog(m.logs, LogEntry{Message: e.Message, Level: e.Level})
	return m.trackProgressCmd()
}

func (m *Model) trackProgressCmd() tea.Cmd {
	if m.totalTracks <= 0 {
		return nil
	}
	return m.progress.SetPercent(float64(m.doneTracks) / float64(m.totalTracks))
}

func appendLog(logs []LogEntry, entry LogEntry) []LogEntry {
	logs = append(logs, entry)
	if len(logs) > maxLogs {
		logs = logs[len(logs)-maxLogs:]
	}
	return logs
}

// startDownload switches to the download view and starts the batch on its
// own goroutine. Events reach the model through m.events.
func (m *Model) startDownload() tea.Cmd {
	settings := *m.settings
	settings.SkipExisting = m.skipExisting
	settings.CreatePlaylist = m.playlist

	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.events = make(chan download.Event, 64)
	m.state = StateDownloading
	m.textInput.Blur()

	link := strings.TrimSpace(m.textInput.Value())
	mode := model.ModeAudio
	if m.video {
		mode = model.ModeVideo
	}

	ctx, events, format := m.ctx, m.events, m.Format()
	manager := download.NewManager(&settings, m.deps, func(e download.Event) {
		events <- e
	})
	m.manager = manager

	run := func() tea.Msg {
		ok := manager.Run(ctx, link, mode, settings.DownloadsPath, format)
		close(events)
		return DownloadDoneMsg{OK: ok, Summary: manager.Summary()}
	}

	return tea.Batch(run, waitForEvent(events), m.spinner.Tick)
}

func waitForEvent(events <-chan download.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return EventMsg{Event: e}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♫ musicdl"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download and tag music from Spotify links"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter a track, album, playlist or video link:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Format: %s (tab)\n", m.Format())
	fmt.Fprintf(&b, "  %s Skip existing files (ctrl+s)\n", checkbox(m.skipExisting))
	fmt.Fprintf(&b, "  %s Video (ctrl+e)\n", checkbox(m.video))
	fmt.Fprintf(&b, "  %s Create playlist (ctrl+p)\n", checkbox(m.playlist))
	fmt.Fprintf(&b, "  %s Verbose output (ctrl+l)\n", checkbox(m.verbose))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Download path: %s", m.settings.DownloadsPath)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	if m.totalTracks == 0 {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render("Resolving link..."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.progress.View())
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("Tracks: %d/%d", m.doneTracks, m.totalTracks)))
		b.WriteString("\n")
	}

	if m.current != "" {
		b.WriteString(trackStyle.Render(fmt.Sprintf("  ♪ %s %3.0f%%", m.current, m.fetchPercent*100)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	counts := make(map[download.Outcome]int)
	for _, r := range m.summary {
		counts[r.Outcome]++
	}

	box := boxStyle.Render(fmt.Sprintf(
		"✨ Download Complete!\n\n"+
			"Downloaded: %d\n"+
			"Skipped: %d\n"+
			"Not found: %d\n"+
			"Failed: %d",
		counts[download.OutcomeSucceeded],
		counts[download.OutcomeSkipped],
		counts[download.OutcomeNotFound],
		counts[download.OutcomeFailed]+counts[download.OutcomeUntagged],
	))
	return box + "\n" + m.renderLogs()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: format • ctrl+s/e/p/l: toggle options • esc: quit"
	case StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings, deps download.Dependencies) error {
	p := tea.NewProgram(NewModel(settings, deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
