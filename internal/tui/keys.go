package tui

import "github.com/charmbracelet/bubbles/key"

// DashboardKeyMap is shown at the bottom of the dashboard.
type DashboardKeyMap struct {
	Add      key.Binding
	Refresh  key.Binding
	Resume   key.Binding
	Settings key.Binding
	Quit     key.Binding
}

// InputKeyMap is shown inside the add-download popup.
type InputKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

// SettingsKeyMap is shown on the settings page.
type SettingsKeyMap struct {
	Tab   key.Binding
	Close key.Binding
}

var DashboardKeys = DashboardKeyMap{
	Add:      key.NewBinding(key.WithKeys("a", "g"), key.WithHelp("a", "add download")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Resume:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "resume polling")),
	Settings: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var InputKeys = InputKeyMap{
	Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next / start")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

var SettingsKeys = SettingsKeyMap{
	Tab:   key.NewBinding(key.WithKeys("tab", "right", "left", "1", "2", "3"), key.WithHelp("tab/1-3", "switch tab")),
	Close: key.NewBinding(key.WithKeys("esc", "q", "s"), key.WithHelp("esc", "back")),
}

func (k DashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Refresh, k.Resume, k.Settings, k.Quit}
}

func (k DashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func (k InputKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Submit, k.Cancel}
}

func (k InputKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func (k SettingsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Close}
}

func (k SettingsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
