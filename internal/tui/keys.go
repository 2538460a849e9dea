package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Undo    key.Binding
	Pause   key.Binding
	Resume  key.Binding
	Restart key.Binding
	NewText key.Binding
	Copy    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Undo: key.NewBinding(
			key.WithKeys("backspace", "delete"),
			key.WithHelp("⌫", "undo"),
		),
		Pause: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "pause"),
		),
		Resume: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "resume"),
		),
		Restart: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "restart"),
		),
		NewText: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new text"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy result"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// bindingsFor returns the bindings that apply in the current state, for the help line.
func (k keyMap) bindingsFor(focused, finished bool) []key.Binding {
	switch {
	case finished:
		return []key.Binding{k.Copy, k.Restart, k.NewText, k.Quit}
	case !focused:
		return []key.Binding{k.Resume, k.Restart, k.NewText, k.Quit}
	default:
		return []key.Binding{k.Undo, k.Pause, k.Restart, k.NewText, k.Quit}
	}
}
