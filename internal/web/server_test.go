package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/musicdl/musicdl/internal/config"
	"github.com/musicdl/musicdl/internal/download"
	"github.com/musicdl/musicdl/internal/model"
	"github.com/musicdl/musicdl/internal/spotify/dto"
	"github.com/musicdl/musicdl/internal/youtube"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubResolver struct{ tracks []*dto.Track }

func (r stubResolver) Resolve(context.Context, string) (*dto.Collection, error) {
	return &dto.Collection{Kind: dto.KindPlaylist, Name: "Mix", Tracks: r.tracks}, nil
}

type stubNormalizer struct{}

func (stubNormalizer) Extract(_ context.Context, raw *dto.Track, position int) model.TrackMetadata {
	return model.TrackMetadata{Title: raw.Name, Artist: raw.Artists[0].Name, TrackNumber: position}
}

type stubSearcher struct{ err error }

func (s stubSearcher) Search(context.Context, string) (string, error) {
	return "https://www.youtube.com/watch?v=x", s.err
}

// stubFetcher writes the task's file. When release is set it first signals
// started and waits for release to be closed.
type stubFetcher struct {
	started chan struct{}
	release chan struct{}
}

func (f *stubFetcher) Fetch(_ context.Context, task model.DownloadTask, onProgress func(youtube.Progress)) (string, error) {
	if f.release != nil {
		close(f.started)
		<-f.release
	}
	onProgress(youtube.Progress{Status: youtube.StatusDownloading, Downloaded: 1, Total: 2})
	if err := os.WriteFile(task.Path(), []byte("audio"), 0644); err != nil {
		return "", err
	}
	return task.Path(), nil
}

type stubTagger struct{}

func (stubTagger) Tag(string, model.TrackMetadata, model.Format) bool { return true }

func newTestServer(t *testing.T, fetcher download.Fetcher, searchErr error, tracks ...*dto.Track) *Server {
	t.Helper()
	settings := config.DefaultSettings()
	settings.DownloadsPath = t.TempDir()
	settings.DownloadRetryCooldown = 0
	settings.DownloadMaxRetries = 1
	settings.FileReleaseAttempts = 1
	settings.FileReleaseInterval = 0

	if len(tracks) == 0 {
		tracks = []*dto.Track{{Name: "Get Lucky", Artists: []dto.Artist{{Name: "Daft Punk"}}}}
	}
	deps := download.Dependencies{
		Resolver:   stubResolver{tracks: tracks},
		Normalizer: stubNormalizer{},
		Searcher:   stubSearcher{err: searchErr},
		Fetcher:    fetcher,
		Tagger:     stubTagger{},
	}
	return New(settings, deps, nil, nil)
}

func do(t *testing.T, s *Server, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func startTask(t *testing.T, s *Server, form url.Values) string {
	t.Helper()
	w := do(t, s, http.MethodPost, "/download", form)
	if w.Code != http.StatusAccepted {
		t.Fatalf("POST /download = %d: %s", w.Code, w.Body)
	}
	var resp struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.TaskID == "" {
		t.Fatalf("bad response %s: %v", w.Body, err)
	}
	return resp.TaskID
}

func progressOf(t *testing.T, s *Server, id string) Progress {
	t.Helper()
	w := do(t, s, http.MethodGet, "/progress/"+id+"/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}
	var p Progress
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDownloadFlow(t *testing.T) {
	s := newTestServer(t, &stubFetcher{}, nil)

	id := startTask(t, s, url.Values{"link": {"https://open.spotify.com/track/1"}, "format": {"mp3"}})
	s.Wait()

	p := progressOf(t, s, id)
	if p.Status != StatusDone {
		t.Fatalf("status = %q (%s), want done", p.Status, p.Error)
	}
	const name = "Daft Punk - Get Lucky.mp3"
	if len(p.Files) != 1 || p.Files[0] != name {
		t.Errorf("files = %v, want [%s]", p.Files, name)
	}
	if p.FileURL != "/files/Daft%20Punk%20-%20Get%20Lucky.mp3" {
		t.Errorf("file_url = %q", p.FileURL)
	}
	if p.TracksDone != 1 || p.TracksAll != 1 {
		t.Errorf("tracks = %d/%d, want 1/1", p.TracksDone, p.TracksAll)
	}

	if _, err := os.Stat(filepath.Join(s.dir, StagingDir, id)); !os.IsNotExist(err) {
		t.Errorf("staging directory left behind: %v", err)
	}

	w := do(t, s, http.MethodGet, "/files", nil)
	var listing struct {
		Files []FileInfo `json:"files"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatal(err)
	}
	if len(listing.Files) != 1 || listing.Files[0].Name != name || listing.Files[0].Locked {
		t.Errorf("listing = %+v", listing.Files)
	}

	w = do(t, s, http.MethodGet, p.FileURL, nil)
	if w.Code != http.StatusOK || w.Body.String() != "audio" {
		t.Errorf("GET file = %d %q", w.Code, w.Body)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestServeFileLockedWhileDownloading(t *testing.T) {
	f := &stubFetcher{started: make(chan struct{}), release: make(chan struct{})}
	s := newTestServer(t, f, nil)

	id := startTask(t, s, url.Values{"link": {"x"}})
	<-f.started

	target := "/files/" + url.PathEscape("Daft Punk - Get Lucky.mp3")
	if w := do(t, s, http.MethodGet, target, nil); w.Code != http.StatusLocked {
		t.Errorf("GET during download = %d, want 423", w.Code)
	}
	if p := progressOf(t, s, id); p.Status != StatusQueued || p.TracksAll != 1 {
		t.Errorf("progress during download = %+v", p)
	}

	close(f.release)
	s.Wait()

	if w := do(t, s, http.MethodGet, target, nil); w.Code != http.StatusOK {
		t.Errorf("GET after download = %d, want 200", w.Code)
	}
}

func TestBatchFalseTakesFirstTrack(t *testing.T) {
	tracks := []*dto.Track{
		{Name: "One", Artists: []dto.Artist{{Name: "A"}}},
		{Name: "Two", Artists: []dto.Artist{{Name: "A"}}},
	}
	s := newTestServer(t, &stubFetcher{}, nil, tracks...)

	id := startTask(t, s, url.Values{"link": {"x"}, "batch": {"false"}})
	s.Wait()

	if p := progressOf(t, s, id); len(p.Files) != 1 || p.Files[0] != "A - One.mp3" {
		t.Errorf("files = %v, want only the first track", p.Files)
	}
}

func TestTaskError(t *testing.T) {
	s := newTestServer(t, &stubFetcher{}, errors.New("no results"))

	id := startTask(t, s, url.Values{"link": {"x"}, "format": {"flac"}})
	s.Wait()

	p := progressOf(t, s, id)
	if p.Status != StatusError || p.Error == "" {
		t.Errorf("progress = %+v, want an error", p)
	}
	if p.Format != "flac" {
		t.Errorf("format = %q, want flac", p.Format)
	}
}

func TestDownloadValidation(t *testing.T) {
	s := newTestServer(t, &stubFetcher{}, nil)

	tests := []struct {
		name string
		form url.Values
	}{
		{"missing link", url.Values{"format": {"mp3"}}},
		{"unknown format", url.Values{"link": {"x"}, "format": {"wav"}}},
		{"bad batch", url.Values{"link": {"x"}, "batch": {"maybe"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(t, s, http.MethodPost, "/download", tt.form); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in     string
		format model.Format
		mode   model.Mode
	}{
		{"", model.FormatMP3, model.ModeAudio},
		{"mp3", model.FormatMP3, model.ModeAudio},
		{"M4A", model.FormatM4A, model.ModeAudio},
		{"mp4", model.FormatMP4, model.ModeVideo},
	}
	for _, tt := range tests {
		f, m, err := parseFormat(tt.in)
		if err != nil || f != tt.format || m != tt.mode {
			t.Errorf("parseFormat(%q) = %v, %v, %v", tt.in, f, m, err)
		}
	}
}

func TestServeFileNotFound(t *testing.T) {
	s := newTestServer(t, &stubFetcher{}, nil)
	if err := os.MkdirAll(filepath.Join(s.dir, StagingDir), 0755); err != nil {
		t.Fatal(err)
	}

	for _, target := range []string{"/files/missing.mp3", "/files/.staging"} {
		if w := do(t, s, http.MethodGet, target, nil); w.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", target, w.Code)
		}
	}
	if w := do(t, s, http.MethodGet, "/progress/nope/status", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown task = %d, want 404", w.Code)
	}
	if w := do(t, s, http.MethodGet, "/healthz", nil); w.Code != http.StatusOK {
		t.Errorf("healthz = %d", w.Code)
	}
}
