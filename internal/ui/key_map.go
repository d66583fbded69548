package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	prev    key.Binding
	next    key.Binding
	add     key.Binding
	focus   key.Binding
	submit  key.Binding
	restart key.Binding
	back    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
		next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		add:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select files")),
		focus:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "quit")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.add, k.focus, k.submit},
		{k.prev, k.next, k.restart},
		{k.back, k.quit},
	}
}
