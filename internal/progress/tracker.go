// Package progress records which deeds were done and derives the streak,
// lifetime points and unlocked badges from those toggles.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"sacredverse/internal/daily"
)

// Acknowledgment is shown briefly after every toggle.
const Acknowledgment = "Lovely, you did a good thing! 🌟"

// KV is the record storage the tracker persists into.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Result describes the outcome of one toggle.
type Result struct {
	Day     int
	Deed    int
	Checked bool
	// Completed is true only when the day went from no deed done to at least one.
	Completed   bool
	Streak      int
	TotalPoints int
	NewBadges   []int
	Ack         string
}

type Tracker struct {
	kv         KV
	clock      daily.Clock
	thresholds []int
	logger     *zap.Logger

	progress Store
	meta     Meta
}

type Option func(*Tracker)

func WithThresholds(thresholds []int) Option {
	return func(t *Tracker) {
		t.thresholds = slices.Clone(thresholds)
		slices.Sort(t.thresholds)
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// Load reads both records from kv. Absent, unreadable or malformed records
// fall back to defaults and are logged, never returned.
func Load(ctx context.Context, kv KV, clock daily.Clock, opts ...Option) *Tracker {
	t := &Tracker{
		kv:         kv,
		clock:      clock,
		thresholds: slices.Clone(DefaultBadgeThresholds),
		logger:     zap.NewNop(),
		progress:   Store{},
		meta:       Meta{Badges: []int{}},
	}
	if t.clock == nil {
		t.clock = daily.SystemClock{}
	}
	for _, opt := range opts {
		opt(t)
	}

	if data, ok := t.read(ctx, ProgressKey); ok {
		s, err := decodeStore(data)
		if err != nil {
			t.logger.Warn("discarding malformed progress record", zap.Error(err))
		} else {
			t.progress = s
		}
	}
	if data, ok := t.read(ctx, MetaKey); ok {
		m, err := decodeMeta(data)
		if err != nil {
			t.logger.Warn("discarding malformed meta record", zap.Error(err))
		} else {
			t.meta = m
		}
	}
	t.meta.TotalPoints = t.progress.CountAll()
	return t
}

func (t *Tracker) read(ctx context.Context, key string) ([]byte, bool) {
	data, ok, err := t.kv.Get(ctx, key)
	if err != nil {
		t.logger.Warn("record read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return data, ok
}

// Progress returns a copy of the per-day completion flags.
func (t *Tracker) Progress() Store { return t.progress.clone() }

// Meta returns a copy of the streak/points/badge record.
func (t *Tracker) Meta() Meta { return t.meta.clone() }

func (t *Tracker) Thresholds() []int { return slices.Clone(t.thresholds) }

func (t *Tracker) Done(day, deed int) bool { return t.progress.Done(day, deed) }

// DoneOn returns how many deeds are done on day.
func (t *Tracker) DoneOn(day int) int { return t.progress.CountDay(day) }

// Toggle flips the done flag of (day, deed) and applies the streak rules.
// The in-memory state is updated even when persisting fails; the error
// reports the failed write.
func (t *Tracker) Toggle(ctx context.Context, day, deed int) (Result, error) {
	if day < 0 || deed < 0 {
		return Result{}, fmt.Errorf("toggle day %d deed %d: negative index", day, deed)
	}
	wasComplete := t.progress.AnyDone(day)
	checked := t.progress.flip(day, deed)
	isComplete := t.progress.AnyDone(day)

	t.meta.TotalPoints = t.progress.CountAll()

	res := Result{
		Day:     day,
		Deed:    deed,
		Checked: checked,
		Ack:     Acknowledgment,
	}
	if !wasComplete && isComplete {
		res.Completed = true
		res.NewBadges = t.advanceStreak()
	}
	res.Streak = t.meta.Streak
	res.TotalPoints = t.meta.TotalPoints

	t.logger.Debug("deed toggled",
		zap.Int("day", day),
		zap.Int("deed", deed),
		zap.Bool("checked", checked),
		zap.Int("streak", res.Streak),
		zap.Int("total_points", res.TotalPoints))
	for _, b := range res.NewBadges {
		t.logger.Info("badge unlocked", zap.Int("threshold", b))
	}

	return res, t.save(ctx)
}

func (t *Tracker) advanceStreak() []int {
	now := t.clock.Now()
	today := daily.DateString(now)
	if t.meta.LastCompletedDate != nil && *t.meta.LastCompletedDate == daily.PreviousDate(now) {
		t.meta.Streak++
	} else {
		t.meta.Streak = 1
	}
	t.meta.LastCompletedDate = &today

	var unlocked []int
	for _, threshold := range t.thresholds {
		if threshold != t.meta.Streak || t.meta.HasBadge(threshold) {
			continue
		}
		t.meta.Badges = append(t.meta.Badges, threshold)
		unlocked = append(unlocked, threshold)
	}
	slices.Sort(t.meta.Badges)
	return unlocked
}

func (t *Tracker) save(ctx context.Context) error {
	progress, err := json.Marshal(t.progress)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	meta, err := json.Marshal(t.meta.clone())
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}
	if err := t.kv.Put(ctx, ProgressKey, progress); err != nil {
		t.logger.Error("persist progress", zap.Error(err))
		return err
	}
	if err := t.kv.Put(ctx, MetaKey, meta); err != nil {
		t.logger.Error("persist meta", zap.Error(err))
		return err
	}
	return nil
}
