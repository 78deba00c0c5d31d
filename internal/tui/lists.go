package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/pacfront/internal/domain"
	"github.com/h0rv/pacfront/internal/workspace"
	rtruncate "github.com/muesli/reflow/truncate"
)

// Layout constants
const (
	maxNameWidth    = 40
	maxVersionWidth = 20
	pageJumpSize    = 10 // Number of rows to jump with Ctrl+D/U
)

// filterLocal keeps packages whose name, description or provisions contain
// filter, ignoring case.
func filterLocal(list []*domain.Package, filter string) []*domain.Package {
	if filter == "" {
		return list
	}
	lo := strings.ToLower(filter)
	out := make([]*domain.Package, 0, len(list))
	for _, p := range list {
		if matchesPackage(p, lo) || providesMatch(p, lo) {
			out = append(out, p)
		}
	}
	return out
}

// filterRemote keeps packages whose name or description contain filter.
func filterRemote(list []*domain.Package, filter string) []*domain.Package {
	if filter == "" {
		return list
	}
	lo := strings.ToLower(filter)
	out := make([]*domain.Package, 0, len(list))
	for _, p := range list {
		if matchesPackage(p, lo) {
			out = append(out, p)
		}
	}
	return out
}

func matchesPackage(p *domain.Package, lo string) bool {
	return strings.Contains(strings.ToLower(p.Name), lo) ||
		strings.Contains(strings.ToLower(p.Description), lo)
}

func providesMatch(p *domain.Package, lo string) bool {
	for _, prov := range p.Provides {
		if strings.Contains(strings.ToLower(prov.Name), lo) {
			return true
		}
	}
	return false
}

// window returns the half-open range of rows to show so that cursor stays
// visible in height rows.
func window(cursor, total, height int) (int, int) {
	if height < 1 {
		height = 1
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := min(start+height, total)
	return start, end
}

func clampCursor(cursor, total int) int {
	if cursor >= total {
		cursor = total - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

// truncate shortens s to width cells, marking the cut with an ellipsis.
// Styled strings are cut without breaking their escape sequences.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return rtruncate.StringWithTail(s, uint(width), "…")
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

type listRow struct {
	name        string
	version     string
	description string
	installed   bool
}

// renderList draws a package table: a status line, a header and the rows
// around cursor. Column widths fit the visible rows only.
func renderList(st Styles, status string, total int, row func(int) listRow, cursor, width, height int) string {
	lines := []string{status}
	start, end := window(cursor, total, height-2)

	rows := make([]listRow, 0, end-start)
	nameW, verW := len("Name"), len("Version")
	for i := start; i < end; i++ {
		r := row(i)
		if r.installed {
			r.name += " [installed]"
		}
		if r.description == "" {
			r.description = "<missing description>"
		}
		nameW = max(nameW, len(r.name))
		verW = max(verW, len(r.version))
		rows = append(rows, r)
	}
	nameW = min(nameW, maxNameWidth, max(width/3, 8))
	verW = min(verW, maxVersionWidth)
	descW := width - nameW - verW - 6

	header := "  " + pad("Name", nameW) + "  " + pad("Version", verW) + "  " + "Description"
	lines = append(lines, st.Heading.Render(truncate(header, width)))

	if total == 0 {
		lines = append(lines, st.Dim.Render("(no packages)"))
		return strings.Join(lines, "\n")
	}

	for i, r := range rows {
		line := pad(truncate(r.name, nameW), nameW) + "  " +
			pad(truncate(r.version, verW), verW) + "  " +
			truncate(r.description, descW)
		if start+i == cursor {
			lines = append(lines, st.Selected.Render("> "+truncate(line, width-2)))
		} else {
			lines = append(lines, st.Normal.Render("  "+truncate(line, width-2)))
		}
	}
	return strings.Join(lines, "\n")
}

func (m AppModel) renderLocalList(tab *workspace.LocalListTab, width, height int) string {
	row := func(i int) listRow {
		p := m.localRows[i]
		return listRow{name: p.Name, version: p.Version, description: p.Description}
	}
	status := m.filterStatus(tab, tab.Filter, fmt.Sprintf("%d packages listed", len(m.localRows)), width)
	return renderList(m.styles, status, len(m.localRows), row, tab.Cursor, width, height)
}

func (m AppModel) renderRemoteList(tab *workspace.RemoteListTab, width, height int) string {
	row := func(i int) listRow {
		p := m.remoteRows[i]
		return listRow{
			name:        p.ID().String(),
			version:     p.Version,
			description: p.Description,
			installed:   m.db.IsInstalled(p.Name),
		}
	}
	status := m.filterStatus(tab, tab.Filter, fmt.Sprintf("%d packages listed", len(m.remoteRows)), width)
	return renderList(m.styles, status, len(m.remoteRows), row, tab.Cursor, width, height)
}

// filterStatus renders the line above a list: the live filter input while
// editing this tab's filter, otherwise the current filter and a count.
func (m AppModel) filterStatus(tab workspace.Tab, filter, count string, width int) string {
	left := m.styles.Dim.Render("/ to filter")
	if m.mode == modeFilter && m.inputTarget == tab {
		left = m.input.View()
	} else if filter != "" {
		left = m.styles.Normal.Render("filter: " + filter)
	}
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(count), 1)
	return left + strings.Repeat(" ", gap) + m.styles.Dim.Render(count)
}

// listKey handles navigation shared by both list tabs and reports the new
// cursor.
func (m AppModel) listKey(msg tea.KeyMsg, cursor, total int) (int, bool) {
	switch {
	case key.Matches(msg, m.keymap.Up):
		cursor--
	case key.Matches(msg, m.keymap.Down):
		cursor++
	case key.Matches(msg, m.keymap.PageUp):
		cursor -= pageJumpSize
	case key.Matches(msg, m.keymap.PageDown):
		cursor += pageJumpSize
	case key.Matches(msg, m.keymap.Top):
		cursor = 0
	case key.Matches(msg, m.keymap.Bottom):
		cursor = total - 1
	default:
		return cursor, false
	}
	return clampCursor(cursor, total), true
}

func (m *AppModel) handleLocalListKey(tab *workspace.LocalListTab, msg tea.KeyMsg) {
	if c, ok := m.listKey(msg, tab.Cursor, len(m.localRows)); ok {
		tab.Cursor = c
		return
	}
	switch {
	case key.Matches(msg, m.keymap.Open):
		if tab.Cursor < len(m.localRows) {
			m.queue.Push(workspace.OpenPackageTab{ID: m.localRows[tab.Cursor].ID()})
		}
	case key.Matches(msg, m.keymap.Filter):
		m.startInput(modeFilter, tab, tab.Filter)
	}
}

func (m *AppModel) handleRemoteListKey(tab *workspace.RemoteListTab, msg tea.KeyMsg) {
	if c, ok := m.listKey(msg, tab.Cursor, len(m.remoteRows)); ok {
		tab.Cursor = c
		return
	}
	if tab.Cursor >= len(m.remoteRows) {
		if key.Matches(msg, m.keymap.Filter) {
			m.startInput(modeFilter, tab, tab.Filter)
		}
		return
	}
	pkg := m.remoteRows[tab.Cursor]
	switch {
	case key.Matches(msg, m.keymap.Open):
		m.queue.Push(workspace.OpenPackageTab{ID: pkg.ID()})
	case key.Matches(msg, m.keymap.Installed):
		if m.db.IsInstalled(pkg.Name) {
			m.queue.Push(workspace.OpenPackageTab{ID: domain.LocalID(pkg.Name)})
		}
	case key.Matches(msg, m.keymap.Filter):
		m.startInput(modeFilter, tab, tab.Filter)
	}
}

// refilter recomputes the rows of a list tab from its filter.
func (m *AppModel) refilter(tab workspace.Tab) {
	switch tab := tab.(type) {
	case *workspace.LocalListTab:
		m.localRows = filterLocal(m.db.Local(), tab.Filter)
		tab.Cursor = clampCursor(tab.Cursor, len(m.localRows))
	case *workspace.RemoteListTab:
		m.remoteRows = filterRemote(m.db.SyncPackages(), tab.Filter)
		tab.Cursor = clampCursor(tab.Cursor, len(m.remoteRows))
	}
}
