package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile_UsesDefaults(t *testing.T) {
	t.Setenv("CHATWIN_STORE", "")
	t.Setenv("CHATWIN_FEED", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, cfg.Source)
	require.Equal(t, 100, cfg.List.RowsPerPage)
	require.Equal(t, 10000, cfg.List.MaxRowsLength)
	require.Equal(t, 60, cfg.ScrollFPS)
	require.Equal(t, "en", cfg.Language)
}

func TestLoad_FromTOMLWithEnv(t *testing.T) {
	t.Setenv("CHATWIN_STORE", "")
	t.Setenv("CHATWIN_FEED", "/tmp/override.jsonl")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
store_path = "/data/messages.db"
feed_path = "/data/feed.jsonl"
log_level = "debug"

[list]
rows_per_page = 50
max_rows_length = 500
row_padding = 10

[features]
markdown = true
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/data/messages.db", cfg.StorePath)
	require.Equal(t, "/tmp/override.jsonl", cfg.FeedPath, "env overrides feed path")

	opts := cfg.ListOptions()
	require.Equal(t, 50, opts.RowsPerPage)
	require.Equal(t, 500, opts.MaxRowsLength)
	require.Equal(t, 10, opts.RowPadding)
	require.Equal(t, 2, opts.PrefetchThreshold, "unset keys keep defaults")
	require.True(t, cfg.Enabled("markdown"))
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("rows_per_page = = 1"), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}

func TestApplyKVOverrides(t *testing.T) {
	cfg, err := ApplyKVOverrides(Default(), []string{
		"list.rows_per_page=25",
		"list.max_rows_length = 250",
		"features.exact_anchoring=true",
		"features.live_feed=false",
		"language=zh",
		"unknown=1",
		"malformed",
	})
	require.NoError(t, err)
	require.Equal(t, 25, cfg.List.RowsPerPage)
	require.Equal(t, 250, cfg.List.MaxRowsLength)
	require.True(t, cfg.ListOptions().ExactAnchoring, "exact anchoring reaches list options")
	require.False(t, cfg.Enabled("live_feed"))
	require.Equal(t, "zh", cfg.Language)

	_, err = ApplyKVOverrides(Default(), []string{"list.rows_per_page=many"})
	require.Error(t, err)
}

func TestEnabled_FallsBackToConfigKeys(t *testing.T) {
	cfg := Default()
	require.True(t, cfg.Enabled("live_feed"), "live_feed defaults to enabled")
	cfg.List.Debug = true
	require.True(t, cfg.ListOptions().Debug)
	cfg.Features = map[string]bool{"debug_pages": false}
	require.False(t, cfg.ListOptions().Debug, "explicit feature override wins")
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("CHATWIN_STORE", "")
	t.Setenv("CHATWIN_FEED", "")

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.List.RowsPerPage = 40
	cfg.Features = map[string]bool{"markdown": true}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 40, loaded.List.RowsPerPage)
	require.True(t, loaded.Features["markdown"])
}
