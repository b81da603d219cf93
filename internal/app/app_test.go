package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sacredverse/internal/config"
	"sacredverse/internal/content"
	"sacredverse/internal/daily"
	"sacredverse/internal/storage"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.LoadOrCreate(filepath.Join(t.TempDir(), config.DefaultConfigFileName))
	require.NoError(t, err)
	return cfg
}

func clockAt(t *testing.T, date string) daily.FixedClock {
	t.Helper()
	d, err := daily.ParseDate(date)
	require.NoError(t, err)
	return daily.FixedClock(d.Add(10 * time.Hour))
}

func TestOpenFallsBackToBuiltInContent(t *testing.T) {
	cfg := testConfig(t)
	a, err := Open(context.Background(), cfg, zaptest.NewLogger(t),
		WithClock(clockAt(t, "2025-09-25")), WithKV(storage.NewMemStore()))
	require.NoError(t, err)
	defer a.Close()

	require.True(t, a.Fallback)
	idx, entry := a.Today()
	require.Equal(t, 0, idx)
	require.Equal(t, "Greet with kindness", entry.Title)
}

func TestToggleTodayPersistsToSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	clock := clockAt(t, "2025-09-24")

	a, err := Open(ctx, cfg, zaptest.NewLogger(t), WithClock(clock))
	require.NoError(t, err)

	_, saved, err := a.LastSaved(ctx)
	require.NoError(t, err)
	require.False(t, saved)

	res, err := a.ToggleToday(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, 1, res.Day)
	require.True(t, res.Checked)
	require.True(t, res.Completed)
	require.Equal(t, 1, res.Streak)

	_, err = a.ToggleToday(ctx, 1)
	require.Error(t, err, "fallback entry has a single deed")
	require.NoError(t, a.Close())

	reopened, err := Open(ctx, cfg, zaptest.NewLogger(t), WithClock(clock))
	require.NoError(t, err)
	defer reopened.Close()
	require.True(t, reopened.Tracker.Done(1, 0))
	require.Equal(t, 1, reopened.Tracker.Meta().TotalPoints)
	at, saved, err := reopened.LastSaved(ctx)
	require.NoError(t, err)
	require.True(t, saved)
	require.False(t, at.IsZero())
}

func TestSetEntriesChangesModulus(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "content.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
 {"id":1,"title":"a","text":"","deeds":["x"]},
 {"id":2,"title":"b","text":"","deeds":["x"]},
 {"id":3,"title":"c","text":"","deeds":["x"]}
]`), 0o644))
	cfg.ContentSource = path

	a, err := Open(context.Background(), cfg, zaptest.NewLogger(t),
		WithClock(clockAt(t, "2025-09-25")), WithKV(storage.NewMemStore()))
	require.NoError(t, err)
	require.False(t, a.Fallback)

	idx, _ := a.Today()
	require.Equal(t, 2, idx)

	a.SetEntries(content.FallbackEntries())
	idx, _ = a.Today()
	require.Equal(t, 0, idx)

	a.SetEntries(nil)
	require.Len(t, a.Entries(), 2)
}

func TestShareText(t *testing.T) {
	require.Contains(t, ShareText(7), "7-day kindness streak")
	require.Equal(t, "T\n\nbody", VerseText(content.Entry{Title: "T", Text: "body"}))
}
