package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	next     key.Binding
	enter    key.Binding
	back     key.Binding
	yes      key.Binding
	no       key.Binding
	refresh  key.Binding
	remove   key.Binding
	open     key.Binding
	copyURL  key.Binding
	search   key.Binding
	google   key.Binding
	register key.Binding
	logout   key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:       key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		remove:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		copyURL:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "short url")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		google:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "google sign-in")),
		register: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "register")),
		logout:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
		quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func loginHelp(k keyMap) []key.Binding {
	return []key.Binding{k.next, k.enter, k.google, k.register, k.quit}
}

func registerHelp(k keyMap) []key.Binding {
	return []key.Binding{k.next, k.enter, k.back, k.quit}
}

func dashboardHelp(k keyMap) []key.Binding {
	return []key.Binding{k.next, k.refresh, k.remove, k.open, k.copyURL, k.search, k.logout, k.quit}
}

func confirmHelp(k keyMap) []key.Binding {
	return []key.Binding{k.yes, k.no}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.enter, k.back},
		{k.refresh, k.remove, k.open, k.search},
		{k.google, k.register, k.logout, k.quit},
	}
}
