package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/pacfront/internal/dock"
	"github.com/h0rv/pacfront/internal/workspace"
)

const (
	minPaneWidth  = 12
	minPaneHeight = 4
)

// renderSurface draws the layout tree of the focused surface into a
// width x height box.
func (m AppModel) renderSurface(width, height int) string {
	loc, ok := m.ws.Dock.Focused()
	if !ok {
		return ""
	}
	root := m.ws.Dock.Root(loc.Surface)
	if root == nil {
		return ""
	}
	return m.renderNode(loc, root, width, height)
}

func (m AppModel) renderNode(focus dock.Location, n *dock.Node[workspace.Tab], width, height int) string {
	if n.IsLeaf() {
		return m.renderLeaf(n.Leaf(), n.ID() == focus.Node, width, height)
	}

	dir, fraction, first, second := n.Split()
	if dir == dock.Horizontal {
		w1 := max(int(float64(width)*fraction), minPaneWidth)
		w2 := max(width-w1, minPaneWidth)
		return lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderNode(focus, first, w1, height),
			m.renderNode(focus, second, w2, height))
	}
	h1 := max(int(float64(height)*fraction), minPaneHeight)
	h2 := max(height-h1, minPaneHeight)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderNode(focus, first, width, h1),
		m.renderNode(focus, second, width, h2))
}

// renderLeaf draws a bordered pane: the tab bar and the active tab's view.
func (m AppModel) renderLeaf(leaf *dock.Leaf[workspace.Tab], focused bool, width, height int) string {
	border := m.styles.Panel
	if focused {
		border = m.styles.FocusPanel
	}
	innerW, innerH := max(width-2, 1), max(height-2, 1)

	var titles []string
	for i, tab := range leaf.Tabs {
		title := truncate(m.tabTitle(tab), max(innerW/2, 8))
		if i == leaf.Active {
			titles = append(titles, m.styles.ActiveTab.Render(title))
		} else {
			titles = append(titles, m.styles.InactiveTab.Render(title))
		}
	}
	bar := truncate(strings.Join(titles, ""), innerW)

	body := ""
	if tab, ok := leaf.ActiveTab(); ok {
		body = m.renderTab(tab, innerW, innerH-1)
	}
	body = clipLines(body, innerH-1)

	return border.Width(innerW).Height(innerH).Render(bar + "\n" + body)
}

func (m AppModel) renderTab(tab workspace.Tab, width, height int) string {
	switch tab := tab.(type) {
	case *workspace.LocalListTab:
		return m.renderLocalList(tab, width, height)
	case *workspace.RemoteListTab:
		return m.renderRemoteList(tab, width, height)
	case *workspace.PackageTab:
		return m.renderPackage(tab, width, height)
	case *workspace.ThemeTab:
		return m.renderTheme(tab, width, height)
	}
	return ""
}

// tabTitle decorates list titles with their row counts.
func (m AppModel) tabTitle(tab workspace.Tab) string {
	switch tab.(type) {
	case *workspace.LocalListTab:
		return fmt.Sprintf("%s (%d)", tab.Title(), len(m.localRows))
	case *workspace.RemoteListTab:
		return fmt.Sprintf("%s (%d)", tab.Title(), len(m.remoteRows))
	}
	return tab.Title()
}

// surfaceIndicator names the focused surface when more than one exists.
func (m AppModel) surfaceIndicator() string {
	surfaces := m.ws.Dock.Surfaces()
	if len(surfaces) < 2 {
		return ""
	}
	loc, _ := m.ws.Dock.Focused()
	for i, id := range surfaces {
		if id == loc.Surface {
			return fmt.Sprintf("window %d/%d", i+1, len(surfaces))
		}
	}
	return ""
}

func clipLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
