package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the dashboard.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	NextCat key.Binding
	PrevCat key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	View    key.Binding
	Query   key.Binding
	Flag    key.Binding
	Clear   key.Binding
	Reload  key.Binding
	Dismiss key.Binding
	Submit  key.Binding
	Cancel  key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keybinding configuration.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "plot"),
		),
		NextCat: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "band"),
		),
		PrevCat: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev band"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("]", "right", "l"),
			key.WithHelp("]", "next plot"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("[", "left", "h"),
			key.WithHelp("[", "prev plot"),
		),
		View: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "view"),
		),
		Query: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "query"),
		),
		Flag: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "flag"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear query"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// InputKeyMap returns keybindings active while a prompt has focus. Only
// submit and cancel are handled by the model; the prompt gets every other
// key.
func InputKeyMap() KeyMap {
	km := DefaultKeyMap()
	for _, b := range []*key.Binding{
		&km.Up, &km.Down, &km.Toggle, &km.NextCat, &km.PrevCat, &km.NextTab,
		&km.PrevTab, &km.View, &km.Query, &km.Flag, &km.Clear, &km.Reload,
		&km.Dismiss,
	} {
		b.SetEnabled(false)
	}
	km.Quit = key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	)
	return km
}
