package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 5, s.Workers)
	assert.Equal(t, 0, s.DownloadMaxRetries)
	assert.Equal(t, "Downloads", filepath.Base(s.DownloadsPath))
	assert.Equal(t, "scraped.txt", s.LedgerNames.Downloaded)
	assert.Equal(t, "missing.txt", s.LedgerNames.Unresolved)
	assert.True(t, s.ModifyTags)
	require.NoError(t, s.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	content := "workers = 8\ndownloads_path = \"/music\"\n\n[ledger_names]\nunresolved = \"failed.txt\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, s.Workers)
	assert.Equal(t, "/music", s.DownloadsPath)
	assert.Equal(t, "failed.txt", s.LedgerNames.Unresolved)
	assert.Equal(t, "scraped.txt", s.LedgerNames.Downloaded)
	assert.Equal(t, 300, s.FetchTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", "workers = = 3"},
		{"zero workers", "workers = 0"},
		{"negative retries", "download_max_retries = -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultFileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSettings_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)
	s := DefaultSettings()
	s.Workers = 3
	s.DownloadMaxRetries = 2
	s.CreatePlaylist = true

	require.NoError(t, s.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}
