package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	ioutils "github.com/handiism/hydr0-downloader/internal/io"
	"github.com/handiism/hydr0-downloader/internal/ledger"
)

// DefaultFileName is the config file looked up when no path is given.
const DefaultFileName = "hydr0-dl.toml"

// ErrInvalidSettings wraps every validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings holds all configuration options.
type Settings struct {
	// Input and output locations
	DownloadsPath string       `toml:"downloads_path"`
	LedgerDir     string       `toml:"ledger_dir"`
	TracksFile    string       `toml:"tracks_file"`
	LedgerNames   ledger.Names `toml:"ledger_names"`

	// Download settings
	Workers               int     `toml:"workers"`
	FetchTimeout          int     `toml:"fetch_timeout"` // seconds
	DownloadMaxRetries    int     `toml:"download_max_retries"`
	DownloadRetryCooldown float64 `toml:"download_retry_cooldown"` // seconds
	DownloadRetryExponent float64 `toml:"download_retry_exponent"`
	UserAgent             string  `toml:"user_agent"`

	// Resolver settings
	NormalURL    string  `toml:"normal_url"`
	AlternateURL string  `toml:"alternate_url"`
	ResolveRate  float64 `toml:"resolve_rate"` // requests per second, 0 = unlimited

	// Tag settings
	ModifyTags bool `toml:"modify_tags"`

	// Playlist settings
	CreatePlaylist bool   `toml:"create_playlist"`
	PlaylistName   string `toml:"playlist_name"`
	M3UExtended    bool   `toml:"m3u_extended"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		DownloadsPath: filepath.Join(ioutils.HomeDir(), "Downloads"),
		LedgerDir:     ".",
		TracksFile:    "tracks.txt",
		LedgerNames:   ledger.DefaultNames(),

		Workers:               5,
		FetchTimeout:          300,
		DownloadMaxRetries:    0,
		DownloadRetryCooldown: 0.2,
		DownloadRetryExponent: 4.0,
		UserAgent:             "hydr0-downloader",

		NormalURL:    "https://{query}.hydr0.org",
		AlternateURL: "https://hydr0.org/artist/{query}/",
		ResolveRate:  2,

		ModifyTags: true,

		CreatePlaylist: false,
		PlaylistName:   "session.m3u",
		M3UExtended:    true,
	}
}

// Load reads settings from a TOML file. Keys absent from the file keep
// their default values; a missing file yields the defaults.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if _, err := toml.Decode(string(data), settings); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a TOML file.
func (s *Settings) Save(path string) error {
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Validate checks values that would make the pipeline unusable.
func (s *Settings) Validate() error {
	switch {
	case s.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidSettings, s.Workers)
	case s.FetchTimeout < 0:
		return fmt.Errorf("%w: fetch_timeout must not be negative", ErrInvalidSettings)
	case s.DownloadMaxRetries < 0:
		return fmt.Errorf("%w: download_max_retries must not be negative", ErrInvalidSettings)
	case s.DownloadsPath == "":
		return fmt.Errorf("%w: downloads_path is empty", ErrInvalidSettings)
	case s.ResolveRate < 0:
		return fmt.Errorf("%w: resolve_rate must not be negative", ErrInvalidSettings)
	}
	return nil
}

// FetchTimeoutDuration returns the per-request timeout. Zero disables it.
func (s *Settings) FetchTimeoutDuration() time.Duration {
	return time.Duration(s.FetchTimeout) * time.Second
}

// PlaylistPath returns where the session playlist is written.
func (s *Settings) PlaylistPath() string {
	return filepath.Join(s.DownloadsPath, s.PlaylistName)
}
