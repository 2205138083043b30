package youtube

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/musicdl/musicdl/internal/model"
)

// ErrOutputMissing is returned when yt-dlp exits cleanly but the expected
// output file does not exist.
var ErrOutputMissing = errors.New("downloader produced no output file")

// Progress statuses.
const (
	StatusDownloading = "downloading"
	StatusFinished    = "finished"
)

const progressPrefix = "[musicdl] "

// Progress is a download progress report. Total is 0 when unknown.
type Progress struct {
	Status     string
	Downloaded int64
	Total      int64
	Filename   string
}

// Percent returns the completed share in [0, 100], or 0 when Total is unknown.
func (p Progress) Percent() float64 {
	if p.Status == StatusFinished {
		return 100
	}
	if p.Total <= 0 {
		return 0
	}
	return min(float64(p.Downloaded)/float64(p.Total)*100, 100)
}

// Fetcher downloads and transcodes videos with yt-dlp.
type Fetcher struct {
	binary string
	ffmpeg string
	runner Runner
}

// NewFetcher creates a Fetcher. ffmpegLocation may be empty to let yt-dlp
// find ffmpeg on PATH.
func NewFetcher(binary, ffmpegLocation string, runner Runner) *Fetcher {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Fetcher{binary: binary, ffmpeg: ffmpegLocation, runner: runner}
}

// Fetch downloads task.Target into task.Path() and returns that path.
//
// onProgress receives "downloading" reports parsed from yt-dlp's output and a
// final "finished" report once the process has exited and the file exists.
func (f *Fetcher) Fetch(ctx context.Context, task model.DownloadTask, onProgress func(Progress)) (string, error) {
	path := task.Path()

	err := f.runner.Run(ctx, f.binary, f.Args(task), func(line string) {
		if p, ok := ParseProgress(line); ok && onProgress != nil {
			p.Filename = filepath.Base(path)
			onProgress(p)
		}
	})
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", task.Target, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutputMissing, filepath.Base(path))
	}

	if onProgress != nil {
		onProgress(Progress{
			Status:     StatusFinished,
			Downloaded: info.Size(),
			Total:      info.Size(),
			Filename:   filepath.Base(path),
		})
	}
	return path, nil
}

// Args builds the yt-dlp command line for task.
func (f *Fetcher) Args(task model.DownloadTask) []string {
	ext := task.Format.Extension()
	stem := strings.TrimSuffix(task.FileName(), ext)
	output := filepath.Join(task.Dir, strings.ReplaceAll(stem, "%", "%%")+".%(ext)s")

	args := []string{
		"--no-playlist", "--newline", "--no-warnings",
		"--progress-template", "download:" + progressPrefix +
			"%(progress.status)s %(progress.downloaded_bytes)s %(progress.total_bytes)s %(progress.total_bytes_estimate)s",
		"-o", output,
	}

	if task.Mode == model.ModeVideo {
		args = append(args,
			"-f", "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
			"--merge-output-format", "mp4",
		)
	} else {
		args = append(args,
			"-f", "bestaudio/best",
			"-x", "--audio-format", AudioCodec(task.Format),
			"--audio-quality", "0",
		)
	}

	if f.ffmpeg != "" {
		args = append(args, "--ffmpeg-location", f.ffmpeg)
	}

	target := task.Target
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "ytsearch1:" + target
	}
	return append(args, target)
}

// AudioCodec maps an output format to yt-dlp's --audio-format value.
func AudioCodec(f model.Format) string {
	switch f {
	case model.FormatOGG:
		return "vorbis"
	case model.FormatMP4:
		return "m4a"
	default:
		return f.String()
	}
}

// ParseProgress decodes a line emitted through the progress template.
func ParseProgress(line string) (Progress, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), progressPrefix)
	if !ok {
		return Progress{}, false
	}

	fields := strings.Fields(rest)
	if len(fields) != 4 || fields[0] != StatusDownloading {
		return Progress{}, false
	}

	p := Progress{Status: fields[0], Downloaded: parseBytes(fields[1])}
	if p.Total = parseBytes(fields[2]); p.Total == 0 {
		p.Total = parseBytes(fields[3])
	}
	return p, true
}

// parseBytes accepts integers, floats and yt-dlp's "NA".
func parseBytes(s string) int64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return int64(v)
}
