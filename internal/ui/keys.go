package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"sacredverse/internal/config"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Badges  key.Binding
	Copy    key.Binding
	Share   key.Binding
	Dismiss key.Binding
	Quit    key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys(k.Up, "up"), key.WithHelp(label(k.Up)+"/↑", "up")),
		Down:    key.NewBinding(key.WithKeys(k.Down, "down"), key.WithHelp(label(k.Down)+"/↓", "down")),
		Toggle:  key.NewBinding(key.WithKeys(k.Toggle, "enter"), key.WithHelp(label(k.Toggle), "mark done")),
		Badges:  key.NewBinding(key.WithKeys(k.Badges), key.WithHelp(label(k.Badges), "badges")),
		Copy:    key.NewBinding(key.WithKeys(k.Copy), key.WithHelp(label(k.Copy), "copy verse")),
		Share:   key.NewBinding(key.WithKeys(k.Share), key.WithHelp(label(k.Share), "share badge")),
		Dismiss: key.NewBinding(key.WithKeys(k.Dismiss), key.WithHelp(label(k.Dismiss), "close")),
		Quit:    key.NewBinding(key.WithKeys(k.Quit, "ctrl+c"), key.WithHelp(label(k.Quit), "quit")),
	}
}

func label(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Badges, k.Copy, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Badges, k.Copy, k.Share, k.Dismiss, k.Quit},
	}
}
