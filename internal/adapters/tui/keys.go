package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start  key.Binding
	Pause  key.Binding
	Resume key.Binding
	Stop   key.Binding
	Mode   key.Binding
	Rotate key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Start: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "remote start"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "remote pause"),
	),
	Resume: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "remote resume"),
	),
	Stop: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "remote stop"),
	),
	Mode: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "remote mode"),
	),
	Rotate: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rotate"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Rotate, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Pause, k.Resume},
		{k.Stop, k.Mode, k.Rotate},
		{k.Help, k.Quit},
	}
}
