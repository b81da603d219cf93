package ui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sacredverse/internal/app"
	"sacredverse/internal/config"
	"sacredverse/internal/content"
	"sacredverse/internal/daily"
	"sacredverse/internal/progress"
	"sacredverse/internal/storage"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

var threeDeeds = []content.Entry{
	{ID: 1, Title: "Share a meal", Text: "Offer food.", Deeds: []string{"Share lunch", "Say thanks", "Wash up"}},
	{ID: 2, Title: "Listen", Text: "Listen well.", Deeds: []string{"Hear a friend out"}},
}

func newTestModel(t *testing.T, date string) (Model, *testClock, *[]string) {
	t.Helper()
	return newTestModelWithKV(t, date, storage.NewMemStore())
}

func newTestModelWithKV(t *testing.T, date string, kv progress.KV) (Model, *testClock, *[]string) {
	t.Helper()
	cfg, err := config.LoadOrCreate(filepath.Join(t.TempDir(), config.DefaultConfigFileName))
	require.NoError(t, err)

	d, err := daily.ParseDate(date)
	require.NoError(t, err)
	clock := &testClock{now: d.Add(8 * time.Hour)}

	a, err := app.Open(context.Background(), cfg, zaptest.NewLogger(t),
		app.WithClock(clock), app.WithKV(kv))
	require.NoError(t, err)
	a.SetEntries(threeDeeds)

	copied := &[]string{}
	m := New(context.Background(), a)
	m.copyText = func(s string) error {
		*copied = append(*copied, s)
		return nil
	}
	return m, clock, copied
}

// threeDays gives every date of a three-day run its own entry.
func threeDays() []content.Entry {
	return append(append([]content.Entry(nil), threeDeeds...),
		content.Entry{ID: 3, Title: "Rest", Text: "Sleep early.", Deeds: []string{"Lights out by ten"}})
}

type flakyKV struct {
	*storage.MemStore
	failPut bool
}

func (f *flakyKV) Put(ctx context.Context, key string, value []byte) error {
	if f.failPut {
		return errors.New("disk full")
	}
	return f.MemStore.Put(ctx, key, value)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestToggleMarksDeedAndFlashesAck(t *testing.T) {
	m, _, _ := newTestModel(t, "2025-09-23")
	require.Equal(t, 0, m.todayIndex)

	m, _ = update(t, m, keyRune('j'))
	require.Equal(t, 1, m.cursor)

	m, cmd := update(t, m, space)
	require.NotNil(t, cmd)
	require.True(t, m.app.Tracker.Done(0, 1))
	require.Equal(t, "Lovely, you did a good thing! 🌟", m.status)
	require.Contains(t, m.View(), "Done ]")

	m, _ = update(t, m, ackExpiredMsg{seq: m.statusSeq})
	require.Empty(t, m.status)
}

func TestStaleAckDoesNotClearNewerStatus(t *testing.T) {
	m, _, _ := newTestModel(t, "2025-09-23")
	m, _ = update(t, m, space)
	first := m.statusSeq
	m, _ = update(t, m, space)
	require.NotEmpty(t, m.status)

	m, _ = update(t, m, ackExpiredMsg{seq: first})
	require.NotEmpty(t, m.status)
}

func TestCursorStaysInRange(t *testing.T) {
	m, _, _ := newTestModel(t, "2025-09-23")
	for i := 0; i < 5; i++ {
		m, _ = update(t, m, keyRune('j'))
	}
	require.Equal(t, 2, m.cursor)
	for i := 0; i < 5; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	}
	require.Equal(t, 0, m.cursor)
}

func TestDayRolloverSwitchesEntry(t *testing.T) {
	m, clock, _ := newTestModel(t, "2025-09-23")
	m, _ = update(t, m, keyRune('j'))

	clock.now = clock.now.AddDate(0, 0, 1)
	m, cmd := update(t, m, dayChangedMsg{index: 1})
	require.NotNil(t, cmd)
	require.Equal(t, 1, m.todayIndex)
	require.Equal(t, "Listen", m.entry.Title)
	require.Equal(t, 0, m.cursor)
	require.Contains(t, m.View(), "2 / 2")
}

func TestContentReloadRecomputesIndex(t *testing.T) {
	m, _, _ := newTestModel(t, "2025-09-25")
	require.Equal(t, 0, m.todayIndex)

	m, _ = update(t, m, contentReloadedMsg{entries: threeDays()})
	require.Equal(t, 2, m.todayIndex)
	require.Equal(t, "Rest", m.entry.Title)
}

func TestThirdDayShowsBadgeModal(t *testing.T) {
	m, clock, copied := newTestModel(t, "2025-09-23")
	m, _ = update(t, m, contentReloadedMsg{entries: threeDays()})

	for day := 0; day < 3; day++ {
		if day > 0 {
			clock.now = clock.now.AddDate(0, 0, 1)
			m, _ = update(t, m, dayChangedMsg{index: day})
		}
		require.Equal(t, day, m.todayIndex)
		m, _ = update(t, m, space)
	}

	require.Equal(t, 3, m.app.Tracker.Meta().Streak)
	require.Equal(t, []int{3}, m.celebrate)
	require.Contains(t, m.View(), "3-day streak!")

	m, _ = update(t, m, keyRune('s'))
	require.Empty(t, m.celebrate)
	require.Len(t, *copied, 1)
	require.Contains(t, (*copied)[0], "3-day kindness streak")
}

func TestBadgeModalShownWhenSaveFails(t *testing.T) {
	kv := &flakyKV{MemStore: storage.NewMemStore()}
	m, clock, _ := newTestModelWithKV(t, "2025-09-23", kv)
	m, _ = update(t, m, contentReloadedMsg{entries: threeDays()})

	m, _ = update(t, m, space)
	clock.now = clock.now.AddDate(0, 0, 1)
	m, _ = update(t, m, dayChangedMsg{index: 1})
	m, _ = update(t, m, space)

	kv.failPut = true
	clock.now = clock.now.AddDate(0, 0, 1)
	m, _ = update(t, m, dayChangedMsg{index: 2})
	m, _ = update(t, m, space)

	require.Equal(t, "save failed: disk full", m.status)
	require.Equal(t, []int{3}, m.app.Tracker.Meta().Badges)
	require.Equal(t, []int{3}, m.celebrate)
	require.Contains(t, m.View(), "3-day streak!")
}

func TestBadgesView(t *testing.T) {
	m, _, copied := newTestModel(t, "2025-09-23")
	m, _ = update(t, m, keyRune('b'))
	require.Equal(t, modeBadges, m.mode)
	view := m.View()
	require.Contains(t, view, "Your Badges")
	require.Contains(t, view, "30-day streak")

	m, _ = update(t, m, keyRune('s'))
	require.Empty(t, *copied, "nothing to share yet")
	require.Contains(t, m.status, "No badges yet")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, modeToday, m.mode)
}

func TestCopyVerse(t *testing.T) {
	m, _, copied := newTestModel(t, "2025-09-23")
	m, _ = update(t, m, keyRune('c'))
	require.Equal(t, []string{"Share a meal\n\nOffer food."}, *copied)
	require.Equal(t, "Copied today's verse.", m.status)

	m.copyText = func(string) error { return errors.New("no clipboard") }
	m, _ = update(t, m, keyRune('c'))
	require.Contains(t, m.status, "copy failed")
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t, "2025-09-23")
	_, cmd := update(t, m, keyRune('q'))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}
