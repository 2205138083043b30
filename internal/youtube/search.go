package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/tidwall/gjson"
)

// ErrNotFound is returned when a search yields no candidates.
var ErrNotFound = errors.New("no search results")

// DefaultCandidates is how many search results are considered.
const DefaultCandidates = 5

// Candidate is one search result.
type Candidate struct {
	ID    string
	Title string
	URL   string
}

// Searcher finds the video for a track query.
type Searcher struct {
	binary     string
	candidates int
	runner     Runner
}

// SearchOption configures a Searcher.
type SearchOption func(*Searcher)

// WithCandidates sets how many results are fetched and scored.
func WithCandidates(n int) SearchOption {
	return func(s *Searcher) {
		if n > 0 {
			s.candidates = n
		}
	}
}

// WithSearchRunner replaces the process runner.
func WithSearchRunner(r Runner) SearchOption {
	return func(s *Searcher) { s.runner = r }
}

// NewSearcher creates a Searcher that invokes binary (usually "yt-dlp").
func NewSearcher(binary string, opts ...SearchOption) *Searcher {
	s := &Searcher{
		binary:     binary,
		candidates: DefaultCandidates,
		runner:     ExecRunner{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns the URL of the candidate whose title is closest to query.
// The first result wins ties. Returns ErrNotFound when there are no results.
func (s *Searcher) Search(ctx context.Context, query string) (string, error) {
	var candidates []Candidate
	args := []string{
		"--dump-json", "--flat-playlist", "--no-warnings", "--skip-download",
		fmt.Sprintf("ytsearch%d:%s", s.candidates, query),
	}
	err := s.runner.Run(ctx, s.binary, args, func(line string) {
		if c, ok := ParseCandidate(line); ok {
			candidates = append(candidates, c)
		}
	})
	if err != nil {
		return "", fmt.Errorf("search %q: %w", query, err)
	}

	best, ok := Best(strings.TrimSuffix(query, " audio"), candidates)
	if !ok {
		return "", fmt.Errorf("%w for %q", ErrNotFound, query)
	}
	return best.URL, nil
}

// ParseCandidate decodes one yt-dlp JSON line.
func ParseCandidate(line string) (Candidate, bool) {
	if !gjson.Valid(line) {
		return Candidate{}, false
	}
	res := gjson.Parse(line)

	c := Candidate{
		ID:    res.Get("id").String(),
		Title: res.Get("title").String(),
		URL:   res.Get("webpage_url").String(),
	}
	if c.URL == "" {
		c.URL = res.Get("url").String()
	}
	if c.URL == "" && c.ID != "" {
		c.URL = "https://www.youtube.com/watch?v=" + url.QueryEscape(c.ID)
	}
	return c, c.URL != ""
}

// Best picks the candidate with the highest Jaro-Winkler similarity between
// its title and want. Ties keep the earlier candidate.
func Best(want string, candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	want = strings.ToLower(want)
	best, bestScore := candidates[0], float32(-1)
	for _, c := range candidates {
		score, err := edlib.StringsSimilarity(want, strings.ToLower(c.Title), edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, true
}
