package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sv")
	path := filepath.Join(dir, DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	require.FileExists(t, path)
	require.Equal(t, filepath.Join(dir, DefaultDBName), cfg.DBPath)
	require.Equal(t, DefaultStartDate, cfg.StartDate)
	require.Equal(t, []int{3, 7, 30}, cfg.BadgeThresholds)
	require.Equal(t, 1500*time.Millisecond, cfg.AckDuration())

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	require.Equal(t, cfg, again)
}

func TestLoadOrCreateFillsMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`content_source = "verses.yaml"
[keys]
quit = "x"
`), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	require.Equal(t, "verses.yaml", cfg.ContentSource)
	require.Equal(t, "x", cfg.Keys.Quit)
	require.Equal(t, "j", cfg.Keys.Down, "unset keys keep defaults")
	require.Equal(t, filepath.Join(dir, DefaultDBName), cfg.DBPath)
	require.Equal(t, []int{3, 7, 30}, cfg.BadgeThresholds)
}

func TestLoadOrCreateRejectsBadStartDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`start_date = "tomorrow"`), 0o644))
	_, err := LoadOrCreate(path)
	require.Error(t, err)
}

func TestLoadOrCreateRejectsBadThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`badge_thresholds = [3, 0]`), 0o644))
	_, err := LoadOrCreate(path)
	require.Error(t, err)
}

func TestLoadOrCreateRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`db_path = `), 0o644))
	_, err := LoadOrCreate(path)
	require.Error(t, err)
}

func TestResolveConfigPathHonorsEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/custom.toml")
	require.Equal(t, "/tmp/custom.toml", ResolveConfigPath())
}
