package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit       key.Binding
	Help       key.Binding
	ToggleView key.Binding
	Refresh    key.Binding
	Cancel     key.Binding
	Approve    key.Binding
	Open       key.Binding
	Up         key.Binding
	Down       key.Binding
	PrevPage   key.Binding
	NextPage   key.Binding
}

var Keys = KeyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	ToggleView: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "pending/recent")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Cancel:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cancel run")),
	Approve:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "approve run")),
	Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	PrevPage:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h/left", "prev page")),
	NextPage:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l/right", "next page")),
}
