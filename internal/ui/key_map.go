package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
//
// Letter keys only apply outside text inputs; the ctrl bindings work everywhere.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	focus   key.Binding
	another key.Binding
	copy    key.Binding
	share   key.Binding
	add     key.Binding
	page    key.Binding
	locale  key.Binding
	theme   key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		down:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		focus:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "focus")),
		another: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "analyze another")),
		copy:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		share:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "add to community")),
		add:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new entry")),
		page:    key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "switch page")),
		locale:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "language")),
		theme:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.page, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back, k.focus},
		{k.another, k.copy, k.share, k.add},
		{k.page, k.locale, k.theme, k.quit},
	}
}
