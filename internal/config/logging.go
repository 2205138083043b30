package config

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds a text logger at the configured level. Unknown levels
// fall back to info.
func (s *Settings) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
