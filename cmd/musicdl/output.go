package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/musicdl/musicdl/internal/audio"
	"github.com/musicdl/musicdl/internal/download"
	"github.com/musicdl/musicdl/internal/youtube"
)

var (
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	infoColor    = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)
)

func printHeader() {
	color.New(color.FgCyan, color.Bold).Println("♫ musicdl")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()
}

// eventPrinter writes batch events to stdout. Fetch progress is redrawn in
// place on a single line.
type eventPrinter struct {
	verbose    bool
	inProgress bool
}

func newEventPrinter(verbose bool) *eventPrinter {
	return &eventPrinter{verbose: verbose}
}

func (p *eventPrinter) print(event download.Event) {
	if event.Kind == download.EventProgress {
		p.printProgress(event.Progress)
		return
	}
	if event.Level == download.LevelVerbose && !p.verbose {
		return
	}

	p.endLine()
	switch event.Level {
	case download.LevelError:
		errorColor.Println("✗ " + event.Message)
	case download.LevelWarning:
		warningColor.Println("! " + event.Message)
	case download.LevelSuccess:
		successColor.Println("✓ " + event.Message)
	case download.LevelInfo:
		infoColor.Println("› " + event.Message)
	default:
		dimColor.Println("  " + event.Message)
	}
}

func (p *eventPrinter) printProgress(progress *youtube.Progress) {
	if progress == nil {
		return
	}
	if progress.Status == youtube.StatusFinished {
		p.endLine()
		return
	}
	fmt.Printf("\r  ↓ %-50.50s %5.1f%%", progress.Filename, progress.Percent())
	p.inProgress = true
}

// endLine terminates a pending progress line.
func (p *eventPrinter) endLine() {
	if p.inProgress {
		fmt.Println()
		p.inProgress = false
	}
}

func printSummary(results []download.TrackResult) {
	if len(results) == 0 {
		return
	}

	fmt.Println()
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Artist", "Title", "Result"})
	table.SetRowLine(false)
	table.SetAutoWrapText(false)
	for _, r := range results {
		result := r.Outcome.String()
		if r.Err != nil {
			result += ": " + r.Err.Error()
		}
		table.Append([]string{strconv.Itoa(r.Index), r.Artist, r.Title, result})
	}
	table.Render()
}

func printTags(name string, fields []audio.TagField) {
	infoColor.Println(name)
	if len(fields) == 0 {
		dimColor.Println("no tags")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Tag", "Value"})
	table.SetAutoWrapText(false)
	for _, f := range fields {
		table.Append([]string{f.Key, f.Value})
	}
	table.Render()
}
