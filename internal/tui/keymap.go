package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the duplicate-review keyboard shortcuts.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Keep   key.Binding
	Skip   key.Binding
	Accept key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Keep: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "import anyway"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "finish review"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
