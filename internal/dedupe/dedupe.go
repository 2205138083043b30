// Package dedupe decides whether a track already exists in an output
// directory by comparing normalized artist/title keys derived from file names.
//
// File names are expected in the "<artist> - <title>.<ext>" shape produced by
// model.FileName. The comparison is a heuristic: two tracks that differ only
// in punctuation, casing or a parenthetical suffix ("(Live)", "[Remix]",
// "feat. X") share a key and are treated as duplicates.
package dedupe

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/musicdl/musicdl/internal/model"
)

// Separator splits artist from title in a file stem.
const Separator = " - "

var (
	parenthetical = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
	featuring     = regexp.MustCompile(`(?i)(^|\s)(feat\.?|ft\.|featuring)\s.*$`)
)

// Normalize lower-cases s and strips parentheticals, brackets, "feat." tails
// and every character that is not a letter or a digit.
func Normalize(s string) string {
	s = parenthetical.ReplaceAllString(s, " ")
	s = featuring.ReplaceAllString(s, "")

	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Key returns the comparison key of an artist/title pair, or "" when either
// part normalizes to nothing.
func Key(artist, title string) string {
	a, t := Normalize(artist), Normalize(title)
	if a == "" || t == "" {
		return ""
	}
	return a + t
}

// SplitStem splits a file stem at the first separator. A stem without a
// separator is all title with an empty artist.
func SplitStem(stem string) (artist, title string) {
	if i := strings.Index(stem, Separator); i >= 0 {
		return stem[:i], stem[i+len(Separator):]
	}
	return "", stem
}

// Exists reports whether dir holds a file of the given format whose name
// normalizes to the same key as artist and title.
//
// Unreadable or missing directories count as "no duplicate". Extension
// comparison is case-insensitive.
func Exists(dir, artist, title string, format model.Format) bool {
	key := Key(artist, title)
	if key == "" {
		return false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}

	ext := format.Extension()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ext) {
			continue
		}
		a, t := SplitStem(strings.TrimSuffix(name, filepath.Ext(name)))
		if Key(a, t) == key {
			return true
		}
	}
	return false
}
