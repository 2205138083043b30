package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v2"

	"github.com/musicdl/musicdl/internal/model"
)

// AppName names the configuration directory and the default download folder.
const AppName = "musicdl"

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	DownloadsPath         string  `json:"downloads_path" yaml:"downloads_path"`
	Format                string  `json:"format" yaml:"format"`
	SkipExisting          bool    `json:"skip_existing" yaml:"skip_existing"`
	DownloadMaxRetries    int     `json:"download_max_retries" yaml:"download_max_retries"`
	DownloadRetryCooldown float64 `json:"download_retry_cooldown" yaml:"download_retry_cooldown"`
	DownloadRetryExponent float64 `json:"download_retry_exponent" yaml:"download_retry_exponent"`
	FileReleaseAttempts   int     `json:"file_release_attempts" yaml:"file_release_attempts"`
	FileReleaseInterval   float64 `json:"file_release_interval" yaml:"file_release_interval"`

	// External tools
	YtDlpPath        string `json:"yt_dlp_path" yaml:"yt_dlp_path"`
	FFmpegLocation   string `json:"ffmpeg_location" yaml:"ffmpeg_location"`
	SearchCandidates int    `json:"search_candidates" yaml:"search_candidates"`

	// Cover art settings
	SaveCoverArtInTags   bool    `json:"save_cover_art_in_tags" yaml:"save_cover_art_in_tags"`
	CoverArtMaxSize      int     `json:"cover_art_max_size" yaml:"cover_art_max_size"`
	ConvertCoverArtToJPG bool    `json:"convert_cover_art_to_jpg" yaml:"convert_cover_art_to_jpg"`
	CoverArtTimeout      float64 `json:"cover_art_timeout" yaml:"cover_art_timeout"`

	// Tag settings
	ModifyTags bool `json:"modify_tags" yaml:"modify_tags"`

	// Playlist settings
	CreatePlaylist bool   `json:"create_playlist" yaml:"create_playlist"`
	PlaylistFormat string `json:"playlist_format" yaml:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `json:"m3u_extended" yaml:"m3u_extended"`

	// Web service settings
	ListenAddress   string  `json:"listen_address" yaml:"listen_address"`
	CleanupInterval float64 `json:"cleanup_interval" yaml:"cleanup_interval"`
	CleanupMaxAge   float64 `json:"cleanup_max_age" yaml:"cleanup_max_age"`

	LogLevel string `json:"log_level" yaml:"log_level"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	music := xdg.UserDirs.Music
	if music == "" {
		home, _ := os.UserHomeDir()
		music = filepath.Join(home, "Music")
	}

	return &Settings{
		DownloadsPath:         filepath.Join(music, AppName),
		Format:                "mp3",
		SkipExisting:          true,
		DownloadMaxRetries:    3,
		DownloadRetryCooldown: 1.0,
		DownloadRetryExponent: 2.0,
		FileReleaseAttempts:   10,
		FileReleaseInterval:   1.0,

		YtDlpPath:        "yt-dlp",
		SearchCandidates: 5,

		SaveCoverArtInTags:   true,
		CoverArtMaxSize:      1000,
		ConvertCoverArtToJPG: true,
		CoverArtTimeout:      10,

		ModifyTags: true,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,

		ListenAddress:   ":8000",
		CleanupInterval: 1800,
		CleanupMaxAge:   3600,

		LogLevel: "info",
	}
}

// DefaultPath returns the settings file location under the XDG config home.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "settings.json")
}

// isYAML reports whether path should be read and written as YAML.
func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads settings from a JSON or YAML file, chosen by extension.
// Fields missing from the file keep their defaults; a missing file yields
// DefaultSettings.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, err
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks enumerated and numeric options.
func (s *Settings) Validate() error {
	if _, err := model.ParseFormat(s.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if _, err := model.ParsePlaylistFormat(s.PlaylistFormat); err != nil {
		return fmt.Errorf("playlist_format: %w", err)
	}
	if s.DownloadMaxRetries < 1 {
		return fmt.Errorf("download_max_retries must be at least 1, got %d", s.DownloadMaxRetries)
	}
	if s.FileReleaseAttempts < 1 {
		return fmt.Errorf("file_release_attempts must be at least 1, got %d", s.FileReleaseAttempts)
	}
	return nil
}

// OutputFormat returns the parsed Format, falling back to mp3.
func (s *Settings) OutputFormat() model.Format {
	f, err := model.ParseFormat(s.Format)
	if err != nil {
		return model.FormatMP3
	}
	return f
}

// ToPlaylistFormat returns the parsed playlist format, falling back to M3U.
func (s *Settings) ToPlaylistFormat() model.PlaylistFormat {
	pf, err := model.ParsePlaylistFormat(s.PlaylistFormat)
	if err != nil {
		return model.PlaylistFormatM3U
	}
	return pf
}

// RetryDelay is the wait after failed attempt number tries, counted from 0:
// cooldown * exponent^tries seconds.
func (s *Settings) RetryDelay(tries int) time.Duration {
	d := s.DownloadRetryCooldown
	for i := 0; i < tries; i++ {
		d *= s.DownloadRetryExponent
	}
	return seconds(d)
}

// ReleaseInterval is the pause between file release attempts.
func (s *Settings) ReleaseInterval() time.Duration {
	return seconds(s.FileReleaseInterval)
}

// CoverArtRequestTimeout bounds a single artwork download.
func (s *Settings) CoverArtRequestTimeout() time.Duration {
	return seconds(s.CoverArtTimeout)
}

// CleanupEvery is the janitor sweep interval.
func (s *Settings) CleanupEvery() time.Duration {
	return seconds(s.CleanupInterval)
}

// CleanupAge is the minimum age of a file before the janitor removes it.
func (s *Settings) CleanupAge() time.Duration {
	return seconds(s.CleanupMaxAge)
}

func seconds(f float64) time.Duration {
	if f <= 0 {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}
