package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/h0rv/pacfront/internal/config"
	"github.com/h0rv/pacfront/internal/workspace"
)

// Theme editor keys. They only apply inside the theme tab.
var (
	themeDeactivate = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "use terminal colours"))
	themeLight      = key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "light/dark"))
	themePreset     = key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "next preset"))
)

func (m AppModel) renderTheme(tab *workspace.ThemeTab, width, height int) string {
	st := m.styles
	if m.theme == nil {
		return strings.Join([]string{
			st.Heading.Render("Custom colours"),
			"",
			st.Normal.Render("The terminal palette is in use."),
			st.Dim.Render("Press enter to activate a custom theme."),
		}, "\n")
	}

	mode := "dark"
	if m.theme.Light {
		mode = "light"
	}
	lines := []string{
		st.Heading.Render("Custom colours"),
		st.Normal.Render(fmt.Sprintf("Preset: %s", config.Presets[m.presetIdx].Name)) +
			st.Dim.Render("  (p next, l "+mode+", a deactivate)"),
		"",
	}

	labelW := 0
	for _, name := range config.SlotNames {
		labelW = max(labelW, len(name))
	}
	start, end := window(tab.Slot, config.SlotCount, height-len(lines))
	for i := start; i < end; i++ {
		c := m.theme.Colors[i]
		value := c.Hex()
		if m.mode == modeHex && m.inputTarget == tab && i == tab.Slot {
			value = m.input.View()
		}
		row := pad(config.SlotNames[i], labelW) + "  " + st.Swatch(c).Render("") + "  " + value
		if i == tab.Slot {
			lines = append(lines, st.Selected.Render("> ")+row)
		} else {
			lines = append(lines, "  "+row)
		}
	}
	for i, l := range lines {
		lines[i] = truncate(l, width)
	}
	return strings.Join(lines, "\n")
}

func (m *AppModel) handleThemeKey(tab *workspace.ThemeTab, msg tea.KeyMsg) {
	if key.Matches(msg, m.keymap.Back) {
		tab.ForceClose = true
		return
	}
	if m.theme == nil {
		if key.Matches(msg, m.keymap.Open) {
			m.setTheme(config.DefaultTheme())
			m.presetIdx = 0
		}
		return
	}

	if c, ok := m.listKey(msg, tab.Slot, config.SlotCount); ok {
		tab.Slot = c
		return
	}
	switch {
	case key.Matches(msg, themeDeactivate):
		m.setTheme(nil)
	case key.Matches(msg, themeLight):
		t := *m.theme
		t.Light = !t.Light
		m.setTheme(&t)
	case key.Matches(msg, themePreset):
		m.presetIdx = (m.presetIdx + 1) % len(config.Presets)
		t := config.Presets[m.presetIdx].Theme
		t.Light = m.theme.Light
		m.setTheme(&t)
	case key.Matches(msg, m.keymap.Open):
		m.startInput(modeHex, tab, m.theme.Colors[tab.Slot].Hex())
	}
}

// applyHex stores the edited colour of the selected slot.
func (m *AppModel) applyHex(tab *workspace.ThemeTab, value string) {
	if m.theme == nil {
		return
	}
	c, err := config.ParseRGB(value)
	if err != nil {
		m.notice = err.Error()
		return
	}
	t := *m.theme
	t.Colors[tab.Slot] = c
	m.setTheme(&t)
}

// setTheme replaces the active theme (nil for terminal colours) and
// rebuilds the styles from it.
func (m *AppModel) setTheme(t *config.Theme) {
	m.theme = t
	m.styles = ThemeStyles(t)
}
