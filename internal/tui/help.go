package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel wraps the bubbles help component for both the footer line and
// the full overlay.
type HelpModel struct {
	help   help.Model
	keymap KeyMap
}

// NewHelpModel creates a new help model.
func NewHelpModel(keymap KeyMap) HelpModel {
	return HelpModel{
		help:   help.New(),
		keymap: keymap,
	}
}

// Short renders the one-line footer.
func (m HelpModel) Short(width int) string {
	m.help.Width = width
	m.help.ShowAll = false
	return m.help.View(m.keymap)
}

// Overlay renders every binding inside a bordered box.
func (m HelpModel) Overlay(width int, border lipgloss.Style) string {
	m.help.Width = width - 8 // Account for padding and border
	m.help.ShowAll = true
	return border.Padding(1, 2).Render(m.help.View(m.keymap))
}
