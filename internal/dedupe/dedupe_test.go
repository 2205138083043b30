package dedupe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/musicdl/musicdl/internal/model"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Daft Punk", "daftpunk"},
		{"daft-punk", "daftpunk"},
		{"GET LUCKY!!", "getlucky"},
		{"Get Lucky (feat. Pharrell Williams)", "getlucky"},
		{"Song [Remastered 2011]", "song"},
		{"Daft Punk feat. Pharrell", "daftpunk"},
		{"Artist ft. Guest", "artist"},
		{"Café del Mar", "cafédelmar"},
		{"Left", "left"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKey_EmptyParts(t *testing.T) {
	if Key("", "Title") != "" {
		t.Error("missing artist should give an empty key")
	}
	if Key("Artist", "!!!") != "" {
		t.Error("title with no alphanumerics should give an empty key")
	}
}

func TestSplitStem(t *testing.T) {
	tests := []struct {
		stem   string
		artist string
		title  string
	}{
		{"Daft Punk - Get Lucky", "Daft Punk", "Get Lucky"},
		{"A - B - C", "A", "B - C"},
		{"JustATitle", "", "JustATitle"},
		{"Dash-Without-Spaces", "", "Dash-Without-Spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.stem, func(t *testing.T) {
			a, ti := SplitStem(tt.stem)
			if a != tt.artist || ti != tt.title {
				t.Errorf("SplitStem(%q) = (%q, %q), want (%q, %q)", tt.stem, a, ti, tt.artist, tt.title)
			}
		})
	}
}

func TestExists_Reflexive(t *testing.T) {
	dir := t.TempDir()
	artist, title := "Daft Punk", "Get Lucky (feat. Pharrell Williams)"
	touch(t, dir, model.FileName(artist, title, model.FormatMP3))

	if !Exists(dir, artist, title, model.FormatMP3) {
		t.Error("a file written under the canonical name must be detected")
	}
}

func TestExists_CaseAndPunctuationInsensitive(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Daft Punk - Get Lucky.mp3")

	if !Exists(dir, "daft-punk", "GET LUCKY!!", model.FormatMP3) {
		t.Error("expected case/punctuation-insensitive match")
	}
}

func TestExists_PunctuationOnlyDifferenceIsDuplicate(t *testing.T) {
	// Known false positive: different recordings whose names differ only in
	// a parenthetical collapse to the same key.
	dir := t.TempDir()
	touch(t, dir, "Nirvana - Lithium (Live).mp3")

	if !Exists(dir, "Nirvana", "Lithium (Remix)", model.FormatMP3) {
		t.Error("parenthetical-only differences are expected to collide")
	}
}

func TestExists_ExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Daft Punk - Get Lucky.FLAC")

	if Exists(dir, "Daft Punk", "Get Lucky", model.FormatMP3) {
		t.Error("a flac file must not satisfy an mp3 query")
	}
	if !Exists(dir, "Daft Punk", "Get Lucky", model.FormatFLAC) {
		t.Error("extension comparison should be case-insensitive")
	}
}

func TestExists_NoSeparator(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Get Lucky.mp3")

	if Exists(dir, "Daft Punk", "Get Lucky", model.FormatMP3) {
		t.Error("a title-only file has no artist and must not match")
	}
}

func TestExists_MissingDirectory(t *testing.T) {
	if Exists(filepath.Join(t.TempDir(), "nope"), "A", "B", model.FormatMP3) {
		t.Error("missing directory should report no duplicate")
	}
}

func TestExists_EmptyKey(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, " - .mp3")

	if Exists(dir, "", "", model.FormatMP3) {
		t.Error("empty artist/title must return false")
	}
}

func TestExists_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "Daft Punk - Get Lucky.mp3"), 0755); err != nil {
		t.Fatal(err)
	}

	if Exists(dir, "Daft Punk", "Get Lucky", model.FormatMP3) {
		t.Error("directories must be ignored")
	}
}
