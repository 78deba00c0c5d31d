package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	// Layout
	NextTab     key.Binding
	PrevTab     key.Binding
	NextPane    key.Binding
	PrevPane    key.Binding
	SplitRight  key.Binding
	SplitDown   key.Binding
	Grow        key.Binding
	Shrink      key.Binding
	CloseTab    key.Binding
	Detach      key.Binding
	NextSurface key.Binding

	// Actions
	Open        key.Binding
	Installed   key.Binding
	Filter      key.Binding
	General     key.Binding
	Files       key.Binding
	Browse      key.Binding
	Back        key.Binding
	ThemeTab    key.Binding
	Sync        key.Binding
	HideOutput  key.Binding
	Help        key.Binding
	Quit        key.Binding
	ApplyFilter key.Binding
}

// DefaultKeyMap returns the default key bindings.
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
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("ctrl+u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("ctrl+d", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous tab"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "next pane"),
		),
		PrevPane: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "previous pane"),
		),
		SplitRight: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("ctrl+v", "split right"),
		),
		SplitDown: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "split down"),
		),
		Grow: key.NewBinding(
			key.WithKeys("ctrl+right"),
			key.WithHelp("ctrl+→", "grow pane"),
		),
		Shrink: key.NewBinding(
			key.WithKeys("ctrl+left"),
			key.WithHelp("ctrl+←", "shrink pane"),
		),
		CloseTab: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "close tab"),
		),
		Detach: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "detach tab"),
		),
		NextSurface: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "next window"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Installed: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "open installed"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		General: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "general"),
		),
		Files: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "files"),
		),
		Browse: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open url"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close view"),
		),
		ThemeTab: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "theme"),
		),
		Sync: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "sync databases"),
		),
		HideOutput: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("ctrl+k", "hide output"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1", "?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
		ApplyFilter: key.NewBinding(
			key.WithKeys("enter"),
		),
	}
}

// ShortHelp returns key bindings to be shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Open, k.Filter, k.Back, k.Help, k.Quit}
}

// FullHelp returns key bindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.NextTab, k.PrevTab, k.NextPane, k.PrevPane, k.NextSurface},
		{k.SplitRight, k.SplitDown, k.Grow, k.Shrink, k.Detach, k.CloseTab},
		{k.Open, k.Installed, k.Filter, k.General, k.Files, k.Browse, k.Back},
		{k.ThemeTab, k.Sync, k.HideOutput, k.Help, k.Quit},
	}
}
