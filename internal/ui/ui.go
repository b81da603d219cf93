package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"sacredverse/internal/app"
	"sacredverse/internal/content"
	"sacredverse/internal/daily"
)

const tagline = "Small actions. Big kindness."

type mode int

const (
	modeToday mode = iota
	modeBadges
)

type dayChangedMsg struct {
	index int
}

type contentReloadedMsg struct {
	entries []content.Entry
}

// ackExpiredMsg clears the status line unless a newer message replaced it.
type ackExpiredMsg struct {
	seq int
}

type Model struct {
	ctx  context.Context
	app  *app.App
	keys keyMap
	help help.Model

	todayIndex int
	entry      content.Entry
	cursor     int
	mode       mode

	// badges unlocked by the last completion, shown one at a time
	celebrate []int

	status    string
	statusSeq int
	width     int

	copyText func(string) error
}

func New(ctx context.Context, a *app.App) Model {
	m := Model{
		ctx:      ctx,
		app:      a,
		keys:     newKeyMap(a.Config.Keys),
		help:     help.New(),
		copyText: clipboard.WriteAll,
	}
	m.todayIndex, m.entry = a.Today()
	return m
}

func Run(ctx context.Context, a *app.App) error {
	m := New(ctx, a)
	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())

	// program.Send returns once the program has exited, so the callback
	// never holds up sched.Stop.
	sched := daily.NewScheduler(a.Selector, func() int { return len(a.Entries()) }, func(index int) {
		program.Send(dayChangedMsg{index: index})
	}, daily.WithLogger(a.Logger.Named("daily")))
	sched.Start(ctx)
	defer sched.Stop()

	if src := a.Config.ContentSource; a.Config.WatchContent && src != "" && !content.IsURL(src) {
		w, err := content.NewWatcher(src, a.Loader, func(entries []content.Entry) {
			program.Send(contentReloadedMsg{entries: entries})
		})
		if err != nil {
			a.Logger.Warn("content watch disabled", zap.Error(err))
		} else {
			w.Start(ctx)
			defer w.Close()
		}
	}

	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if len(m.celebrate) > 0 {
			return m.updateBadgeModal(msg)
		}
		if m.mode == modeBadges {
			return m.updateBadgesMode(msg)
		}
		return m.updateTodayMode(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case dayChangedMsg:
		m.app.Logger.Debug("day changed", zap.Int("index", msg.index))
		return m.refreshToday(fmt.Sprintf("A new day (%s). Fresh verse, fresh deeds.", m.app.Selector.Today()))
	case contentReloadedMsg:
		m.app.SetEntries(msg.entries)
		return m.refreshToday(fmt.Sprintf("Content reloaded: %d entries.", len(msg.entries)))
	case ackExpiredMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
	}
	return m, nil
}

func (m Model) refreshToday(note string) (tea.Model, tea.Cmd) {
	idx, entry := m.app.Today()
	if idx != m.todayIndex {
		m.cursor = 0
	}
	m.todayIndex, m.entry = idx, entry
	m.cursor = clampCursor(m.cursor, len(m.entry.Deeds))
	return m.flash(note)
}

// flash shows a transient status line that expires after the ack duration.
func (m Model) flash(text string) (tea.Model, tea.Cmd) {
	m.statusSeq++
	m.status = text
	seq := m.statusSeq
	return m, tea.Tick(m.app.Config.AckDuration(), func(time.Time) tea.Msg {
		return ackExpiredMsg{seq: seq}
	})
}

func (m Model) updateTodayMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.entry.Deeds))
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.entry.Deeds))
	case key.Matches(msg, m.keys.Toggle):
		return m.toggle()
	case key.Matches(msg, m.keys.Badges):
		m.mode = modeBadges
	case key.Matches(msg, m.keys.Copy):
		if err := m.copyText(app.VerseText(m.entry)); err != nil {
			return m.flash(fmt.Sprintf("copy failed: %v", err))
		}
		return m.flash("Copied today's verse.")
	}
	return m, nil
}

func (m Model) toggle() (tea.Model, tea.Cmd) {
	if len(m.entry.Deeds) == 0 {
		return m, nil
	}
	res, err := m.app.Tracker.Toggle(m.ctx, m.todayIndex, m.cursor)
	// the toggle applies in memory even when saving fails
	m.celebrate = append(m.celebrate, res.NewBadges...)
	if err != nil {
		m.app.Logger.Error("toggle not saved", zap.Error(err))
		return m.flash(fmt.Sprintf("save failed: %v", err))
	}
	return m.flash(res.Ack)
}

func (m Model) updateBadgeModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Share):
		threshold := m.celebrate[0]
		m.celebrate = m.celebrate[1:]
		return m.share(threshold)
	case key.Matches(msg, m.keys.Dismiss), key.Matches(msg, m.keys.Toggle):
		m.celebrate = m.celebrate[1:]
	}
	return m, nil
}

func (m Model) updateBadgesMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Dismiss), key.Matches(msg, m.keys.Badges):
		m.mode = modeToday
	case key.Matches(msg, m.keys.Share):
		badges := m.app.Tracker.Meta().Badges
		if len(badges) == 0 {
			return m.flash("No badges yet. Keep going!")
		}
		return m.share(badges[len(badges)-1])
	}
	return m, nil
}

func (m Model) share(threshold int) (tea.Model, tea.Cmd) {
	if err := m.copyText(app.ShareText(threshold)); err != nil {
		return m.flash(fmt.Sprintf("copy failed: %v", err))
	}
	return m.flash(fmt.Sprintf("Share text for your %d-day badge copied.", threshold))
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch {
	case len(m.celebrate) > 0:
		b.WriteString(m.renderBadgeModal())
	case m.mode == modeBadges:
		b.WriteString(m.renderBadges())
	default:
		b.WriteString(Card.Render(m.renderEntry()))
	}

	b.WriteString("\n\n")
	if m.status != "" {
		b.WriteString(Good.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(Muted.Render(tagline))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHeader() string {
	meta := m.app.Tracker.Meta()
	var b strings.Builder
	b.WriteString(Heading(IconLeaf, "SacredVerse"))
	b.WriteString("  ")
	b.WriteString(Muted.Render("Daily kindness in small steps"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s / %d", Muted.Render("Day"), Headline.Render(fmt.Sprint(m.todayIndex+1)), len(m.app.Entries())))
	if m.app.Fallback {
		b.WriteString(Muted.Render("  (sample content)"))
	}
	b.WriteString("\n")
	b.WriteString(strings.Join([]string{
		Stat(IconPoints+" Good Points", m.app.Tracker.DoneOn(m.todayIndex)),
		Stat(IconFire+" Streak", meta.Streak),
		Stat(IconSpark+" Total", meta.TotalPoints),
	}, "   "))
	return b.String()
}

func (m Model) renderEntry() string {
	var b strings.Builder
	b.WriteString(Headline.Render(m.entry.Title))
	b.WriteString("\n")
	b.WriteString(Copy.Render(m.entry.Text))
	b.WriteString("\n\n")
	for i, deed := range m.entry.Deeds {
		cursor := " "
		if i == m.cursor {
			cursor = Selected.Render(">")
		}
		button := Muted.Render("[ Mark done ]")
		if m.app.Tracker.Done(m.todayIndex, i) {
			button = Good.Render("[ " + IconDone + " Done ]")
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, button, deed))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderBadges() string {
	meta := m.app.Tracker.Meta()
	var b strings.Builder
	b.WriteString(Headline.Render("Your Badges"))
	b.WriteString("\n\n")
	for _, threshold := range m.app.Tracker.Thresholds() {
		b.WriteString(BadgeLine(threshold, meta.HasBadge(threshold)))
		b.WriteString("\n")
	}
	return Card.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderBadgeModal() string {
	n := m.celebrate[0]
	body := fmt.Sprintf("%s\n\n%s\n%s",
		Gold.Render(fmt.Sprintf("%s Nice, %d-day streak!", IconMedal, n)),
		fmt.Sprintf("You've completed good deeds %d days in a row. Keep going, small steps build habit.", n),
		Muted.Render(fmt.Sprintf("%s sweet!  •  %s share", label(m.app.Config.Keys.Dismiss), label(m.app.Config.Keys.Share))),
	)
	return Modal.Render(body)
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
