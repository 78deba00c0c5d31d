package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/h0rv/pacfront/internal/domain"
	"github.com/h0rv/pacfront/internal/files"
	"github.com/h0rv/pacfront/internal/pacdb"
	"github.com/h0rv/pacfront/internal/workspace"
	"github.com/muesli/reflow/wordwrap"
)

const (
	descWrapWidth  = 78
	suggestCount   = 5
	dateTimeFormat = "2006-01-02 15:04"
)

type lineKind int

const (
	lineText lineKind = iota
	lineHeading
	lineDim
	lineLink       // opens target
	lineURL        // opens url in the browser
	lineUnresolved // dependency with no satisfying package
)

// pkgLine is one line of the general view. Lines are produced fresh on every
// render and key press; nothing about resolution is cached.
type pkgLine struct {
	kind   lineKind
	text   string
	target domain.PackageID
	url    string
}

// packageLines lays out the general view of the package id.
func packageLines(db Provider, id domain.PackageID) []pkgLine {
	pkg, err := db.Lookup(id)
	if err != nil {
		return unresolvedLines(db, id)
	}

	var lines []pkgLine
	add := func(kind lineKind, text string) {
		lines = append(lines, pkgLine{kind: kind, text: text})
	}
	link := func(text string, target domain.PackageID) {
		lines = append(lines, pkgLine{kind: lineLink, text: text, target: target})
	}

	header := pkg.ID().String() + " " + pkg.Version
	add(lineHeading, header)
	if id.IsRemote() && db.IsInstalled(pkg.Name) {
		link("[installed]", domain.LocalID(pkg.Name))
	}
	add(lineText, "")

	if pkg.Description == "" {
		add(lineDim, "<no description>")
	} else {
		for _, l := range strings.Split(wordwrap.String(pkg.Description, descWrapWidth), "\n") {
			add(lineText, l)
		}
	}
	if pkg.URL != "" {
		lines = append(lines, pkgLine{kind: lineURL, text: "URL " + pkg.URL, url: pkg.URL})
	}
	add(lineText, "")
	for _, kv := range details(pkg) {
		add(lineText, kv)
	}

	list := db.ResolutionList(id)

	add(lineHeading, fmt.Sprintf("Dependencies (%d)", len(pkg.Depends)))
	if len(pkg.Depends) == 0 {
		add(lineDim, "<none>")
	}
	for _, dep := range pkg.Depends {
		target, ok := pacdb.Resolve(list, dep)
		if !ok {
			add(lineUnresolved, dep.String()+" (unresolved)")
			continue
		}
		label := dep.String()
		if target.Name != dep.Name {
			label = fmt.Sprintf("%s (%s)", label, target.Name)
		}
		link(label, target.ID())
	}

	add(lineHeading, fmt.Sprintf("Optional dependencies (%d)", len(pkg.OptDepends)))
	if len(pkg.OptDepends) == 0 {
		add(lineDim, "<none>")
	}
	for _, dep := range pkg.OptDepends {
		label := dep.String()
		if dep.Description != "" {
			label += ": " + dep.Description
		}
		target, ok := pacdb.Resolve(list, dep)
		if !ok {
			add(lineUnresolved, label+" (unresolved)")
			continue
		}
		if target.Name != dep.Name {
			label = fmt.Sprintf("%s (%s)", label, target.Name)
		}
		link(label, target.ID())
	}

	names := func(heading string, names []string) {
		add(lineHeading, fmt.Sprintf("%s (%d)", heading, len(names)))
		if len(names) == 0 {
			add(lineDim, "<none>")
		}
		for _, name := range names {
			if target, ok := pacdb.ResolveName(list, name); ok {
				link(name, target.ID())
			} else {
				add(lineUnresolved, name+" (unresolved)")
			}
		}
	}
	names("Required by", pkg.RequiredBy)
	names("Optional for", pkg.OptionalFor)

	specs := func(heading string, deps []domain.Depend) {
		add(lineHeading, fmt.Sprintf("%s (%d)", heading, len(deps)))
		if len(deps) == 0 {
			add(lineDim, "<none>")
		}
		for _, d := range deps {
			add(lineText, d.String())
		}
	}
	specs("Provides", pkg.Provides)
	specs("Conflicts with", pkg.Conflicts)
	specs("Replaces", pkg.Replaces)

	return lines
}

// details lists the scalar metadata of pkg that is present.
func details(pkg *domain.Package) []string {
	var out []string
	kv := func(k, v string) {
		if v != "" {
			out = append(out, fmt.Sprintf("%-16s %s", k, v))
		}
	}
	date := func(unix int64) string {
		if unix == 0 {
			return ""
		}
		t := time.Unix(unix, 0)
		return fmt.Sprintf("%s (%s)", t.Format(dateTimeFormat), humanize.Time(t))
	}
	size := func(n int64) string {
		if n <= 0 {
			return ""
		}
		return humanize.IBytes(uint64(n))
	}

	kv("Architecture", pkg.Arch)
	kv("Licenses", strings.Join(pkg.Licenses, ", "))
	kv("Groups", strings.Join(pkg.Groups, ", "))
	kv("Packager", pkg.Packager)
	kv("Installed size", size(pkg.InstalledSize))
	kv("Download size", size(pkg.DownloadSize))
	kv("Build date", date(pkg.BuildDate))
	kv("Install date", date(pkg.InstallDate))
	if pkg.Repo == domain.LocalRepo {
		kv("Install reason", pkg.Reason.String())
	}
	return out
}

// unresolvedLines is the placeholder for an id with no package, offering the
// closest names from the same list.
func unresolvedLines(db Provider, id domain.PackageID) []pkgLine {
	lines := []pkgLine{
		{kind: lineHeading, text: id.String()},
		{kind: lineUnresolved, text: "<Unresolved package>"},
	}
	list := db.ResolutionList(id)
	suggestions := pacdb.Suggest(list, id.Name, suggestCount)
	if len(suggestions) == 0 {
		return lines
	}
	lines = append(lines, pkgLine{kind: lineText}, pkgLine{kind: lineHeading, text: "Did you mean"})
	for _, name := range suggestions {
		if p, ok := pacdb.ResolveName(list, name); ok {
			lines = append(lines, pkgLine{kind: lineLink, text: p.ID().String(), target: p.ID()})
		}
	}
	return lines
}

// fileEntries is the deduplicated, filtered manifest of id.
func fileEntries(db Provider, id domain.PackageID, filter string) []domain.File {
	pkg, err := db.Lookup(id)
	if err != nil {
		return nil
	}
	return files.Collect(files.Filter(files.Dedupe(pkg.Files), filter))
}

func (m AppModel) renderPackage(tab *workspace.PackageTab, width, height int) string {
	st := m.styles
	general, filesView := st.InactiveTab.Render("[1] General"), st.InactiveTab.Render("[2] Files")
	if tab.SubView == workspace.SubViewFiles {
		filesView = st.ActiveTab.Render("[2] Files")
	} else {
		general = st.ActiveTab.Render("[1] General")
	}
	out := []string{general + " " + filesView}
	height--

	if tab.SubView == workspace.SubViewFiles {
		return strings.Join(append(out, m.renderFiles(tab, width, height)...), "\n")
	}

	lines := packageLines(m.db, tab.ID)
	start, end := window(tab.Cursor, len(lines), height)
	for i := start; i < end; i++ {
		l := lines[i]
		text := truncate(l.text, width-2)
		var styled string
		switch l.kind {
		case lineHeading:
			styled = st.Heading.Render(text)
		case lineDim:
			styled = st.Dim.Render(text)
		case lineLink, lineURL:
			styled = st.Link.Render(text)
		case lineUnresolved:
			styled = st.Unresolved.Render(text)
		default:
			styled = st.Normal.Render(text)
		}
		if i == tab.Cursor {
			styled = st.Selected.Render("> ") + styled
		} else {
			styled = "  " + styled
		}
		out = append(out, styled)
	}
	return strings.Join(out, "\n")
}

func (m AppModel) renderFiles(tab *workspace.PackageTab, width, height int) []string {
	st := m.styles
	entries := fileEntries(m.db, tab.ID, tab.FileFilter)

	status := m.filterStatus(tab, tab.FileFilter, fmt.Sprintf("%d files", len(entries)), width)
	out := []string{status}
	if len(entries) == 0 {
		return append(out, st.Dim.Render("<no files>"))
	}

	start, end := window(tab.FileCursor, len(entries), height-1)
	for i := start; i < end; i++ {
		name := entries[i].Path
		if entries[i].IsDir {
			name += "/"
		}
		name = truncate(name, width-2)
		if i == tab.FileCursor {
			out = append(out, st.Selected.Render("> "+name))
		} else {
			out = append(out, "  "+st.Link.Render(name))
		}
	}
	return out
}

func (m *AppModel) handlePackageKey(tab *workspace.PackageTab, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.Back):
		tab.ForceClose = true
		return nil
	case key.Matches(msg, m.keymap.General):
		tab.SubView = workspace.SubViewGeneral
		return nil
	case key.Matches(msg, m.keymap.Files):
		tab.SubView = workspace.SubViewFiles
		return nil
	case key.Matches(msg, m.keymap.Browse):
		if pkg, err := m.db.Lookup(tab.ID); err == nil && pkg.URL != "" {
			return openURL(m.opener, pkg.URL)
		}
		return nil
	}

	if tab.SubView == workspace.SubViewFiles {
		entries := fileEntries(m.db, tab.ID, tab.FileFilter)
		if c, ok := m.listKey(msg, tab.FileCursor, len(entries)); ok {
			tab.FileCursor = c
			return nil
		}
		switch {
		case key.Matches(msg, m.keymap.Filter):
			m.startInput(modeFilter, tab, tab.FileFilter)
		case key.Matches(msg, m.keymap.Open):
			if tab.FileCursor < len(entries) {
				return openFile(m.opener, entries[tab.FileCursor].Path)
			}
		}
		return nil
	}

	lines := packageLines(m.db, tab.ID)
	if c, ok := m.listKey(msg, tab.Cursor, len(lines)); ok {
		tab.Cursor = c
		return nil
	}
	if key.Matches(msg, m.keymap.Open) && tab.Cursor < len(lines) {
		l := lines[tab.Cursor]
		switch l.kind {
		case lineLink:
			m.queue.Push(workspace.OpenPackageTab{ID: l.target})
		case lineURL:
			return openURL(m.opener, l.url)
		}
	}
	return nil
}
