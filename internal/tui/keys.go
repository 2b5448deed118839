package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Open       key.Binding
	Upload     key.Binding
	Ask        key.Binding
	Reset      key.Binding
	Cancel     key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Open:       key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "select file")),
		Upload:     key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "upload")),
		Ask:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ask")),
		Reset:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "start over")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close picker")),
		ScrollUp:   key.NewBinding(key.WithKeys("pgup", "up"), key.WithHelp("↑/pgup", "scroll")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown", "down"), key.WithHelp("↓/pgdn", "scroll")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Upload, k.Ask, k.Reset, k.ScrollDown, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Cancel, k.ScrollUp}}
}
