package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	IconLeaf   = "🌱"
	IconFire   = "🔥"
	IconSpark  = "✨"
	IconMedal  = "🏅"
	IconLock   = "🔒"
	IconDone   = "✓"
	IconError  = "🧨"
	IconPoints = "💚"
)

var (
	cGreen = lipgloss.Color("35")
	cText  = lipgloss.Color("252")
	cMuted = lipgloss.Color("244")
	cGold  = lipgloss.Color("220")
	cBad   = lipgloss.Color("196")
)

var (
	Brand    = lipgloss.NewStyle().Bold(true).Foreground(cGreen)
	Headline = lipgloss.NewStyle().Bold(true).Foreground(cText)
	Muted    = lipgloss.NewStyle().Foreground(cMuted)
	Good     = lipgloss.NewStyle().Bold(true).Foreground(cGreen)
	Gold     = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Bad      = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Copy     = lipgloss.NewStyle().Foreground(cText)

	Card     = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	Modal    = lipgloss.NewStyle().BorderStyle(lipgloss.DoubleBorder()).BorderForeground(cGold).Padding(1, 2)
	Selected = lipgloss.NewStyle().Bold(true).Foreground(cGold)
)

func Stat(label string, value any) string {
	return fmt.Sprintf("%s %s", Muted.Render(label+":"), Good.Render(fmt.Sprint(value)))
}

func Heading(icon, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Brand.Render(icon + title)
}

// BadgeLine renders one threshold as unlocked or locked.
func BadgeLine(threshold int, unlocked bool) string {
	if unlocked {
		return Gold.Render(fmt.Sprintf("%s %d-day streak", IconMedal, threshold))
	}
	return Muted.Render(fmt.Sprintf("%s %d-day streak", IconLock, threshold))
}
