// Package app wires configuration, storage, content and the two core
// components into one session shared by the CLI commands and the TUI.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"sacredverse/internal/config"
	"sacredverse/internal/content"
	"sacredverse/internal/daily"
	"sacredverse/internal/progress"
	"sacredverse/internal/storage"
)

type App struct {
	Config   config.Config
	Logger   *zap.Logger
	Loader   *content.Loader
	Selector *daily.Selector
	Tracker  *progress.Tracker
	// Fallback is true when the built-in entries replaced the configured source.
	Fallback bool

	store   *storage.Store
	mu      sync.RWMutex
	entries []content.Entry
}

type Option func(*options)

type options struct {
	clock daily.Clock
	kv    progress.KV
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c daily.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithKV bypasses the SQLite database.
func WithKV(kv progress.KV) Option {
	return func(o *options) { o.kv = kv }
}

func Open(ctx context.Context, cfg config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	o := options{clock: daily.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sel, err := daily.NewSelector(cfg.StartDate, o.clock)
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Loader:   content.NewLoader(logger.Named("content")),
		Selector: sel,
	}

	kv := o.kv
	if kv == nil {
		store, err := storage.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.store = store
		kv = store
	}

	a.Tracker = progress.Load(ctx, kv, o.clock,
		progress.WithThresholds(cfg.BadgeThresholds),
		progress.WithLogger(logger.Named("progress")))
	a.entries, a.Fallback = a.Loader.LoadOrFallback(ctx, cfg.ContentSource)
	return a, nil
}

func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *App) Entries() []content.Entry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.entries
}

// SetEntries swaps the content after a reload. Empty input is ignored so the
// entry count never drops to zero.
func (a *App) SetEntries(entries []content.Entry) {
	if len(entries) == 0 {
		return
	}
	a.mu.Lock()
	a.entries = entries
	a.Fallback = false
	a.mu.Unlock()
}

// Today returns the index and entry for the current reference date.
func (a *App) Today() (int, content.Entry) {
	entries := a.Entries()
	idx := a.Selector.Index(len(entries))
	return idx, entries[idx]
}

// ToggleToday flips deed (zero-based) of today's entry.
func (a *App) ToggleToday(ctx context.Context, deed int) (progress.Result, error) {
	idx, entry := a.Today()
	if deed < 0 || deed >= len(entry.Deeds) {
		return progress.Result{}, fmt.Errorf("deed %d out of range (today has %d)", deed+1, len(entry.Deeds))
	}
	return a.Tracker.Toggle(ctx, idx, deed)
}

// LastSaved reports when progress was last written to the database. ok is
// false for in-memory sessions and for databases with no records yet.
func (a *App) LastSaved(ctx context.Context) (time.Time, bool, error) {
	if a.store == nil {
		return time.Time{}, false, nil
	}
	records, err := a.store.FetchRecords(ctx)
	if err != nil {
		return time.Time{}, false, err
	}
	var latest time.Time
	for _, r := range records {
		if r.UpdatedAt.After(latest) {
			latest = r.UpdatedAt
		}
	}
	return latest, !latest.IsZero(), nil
}

// VerseText is what gets copied to the clipboard for today's entry.
func VerseText(e content.Entry) string {
	return e.Title + "\n\n" + e.Text
}

func ShareText(threshold int) string {
	return fmt.Sprintf("I earned a %d-day kindness streak on SacredVerse 🌱, small daily deeds, big heart.", threshold)
}
