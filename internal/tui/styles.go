package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/pacfront/internal/config"
)

// Styles is the palette every view renders with. It is rebuilt whenever the
// colour theme changes.
type Styles struct {
	Title       lipgloss.Style
	Heading     lipgloss.Style
	Normal      lipgloss.Style
	Dim         lipgloss.Style
	Selected    lipgloss.Style
	Link        lipgloss.Style
	Unresolved  lipgloss.Style
	Error       lipgloss.Style
	Notice      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Panel       lipgloss.Style
	FocusPanel  lipgloss.Style
	Help        lipgloss.Style
	Swatch      func(config.RGB) lipgloss.Style
}

// DefaultStyles uses the terminal's 256-colour palette.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")), // Purple
		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")), // Light gray
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")), // Dark gray
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")). // Light purple
			Bold(true),
		Link: lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")).
			Underline(true),
		Unresolved: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true),
		Notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true),
		ActiveTab: lipgloss.NewStyle().
			Background(lipgloss.Color("205")).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1),
		InactiveTab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")),
		FocusPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Swatch: swatch,
	}
}

func swatch(c config.RGB) lipgloss.Style {
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Padding(0, 2)
}

// ThemeStyles derives a palette from a custom theme. Light themes swap the
// background and text ends of the scale.
func ThemeStyles(t *config.Theme) Styles {
	if t == nil {
		return DefaultStyles()
	}
	c := func(slot int) lipgloss.Color {
		return lipgloss.Color(t.Colors[slot].Hex())
	}

	text, muted, bg := c(config.SlotText), c(config.SlotTextMuted), c(config.SlotSubtleBackground)
	if t.Light {
		text, bg = c(config.SlotBackground), c(config.SlotText)
	}

	s := DefaultStyles()
	s.Title = s.Title.Foreground(c(config.SlotSolid))
	s.Heading = s.Heading.Foreground(c(config.SlotSolidHover))
	s.Normal = s.Normal.Foreground(text)
	s.Dim = s.Dim.Foreground(muted)
	s.Selected = s.Selected.Foreground(c(config.SlotElementActive)).Background(bg)
	s.Link = s.Link.Foreground(c(config.SlotBorderHover))
	s.Unresolved = s.Unresolved.Foreground(muted)
	s.Notice = s.Notice.Foreground(c(config.SlotTextMuted))
	s.ActiveTab = s.ActiveTab.Background(c(config.SlotSolid)).Foreground(bg)
	s.InactiveTab = s.InactiveTab.Foreground(muted)
	s.Panel = s.Panel.BorderForeground(c(config.SlotSubtleBorder))
	s.FocusPanel = s.FocusPanel.BorderForeground(c(config.SlotBorder))
	s.Help = s.Help.Foreground(muted)
	return s
}
