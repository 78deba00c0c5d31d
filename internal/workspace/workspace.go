// Package workspace owns the open tabs and applies the commands views raise
// while handling input. Views never touch the layout directly: they push
// commands onto a Queue, and the owner applies the queue once per update.
package workspace

import (
	"github.com/h0rv/pacfront/internal/dock"
	"github.com/h0rv/pacfront/internal/domain"
)

// Command is a layout request raised by a view.
type Command interface {
	command()
}

// OpenPackageTab focuses the tab showing ID, opening one if none exists.
type OpenPackageTab struct {
	ID domain.PackageID
}

func (OpenPackageTab) command() {}

// Queue buffers commands until the next ApplyCommands.
type Queue struct {
	cmds []Command
}

// Push appends cmd. It has no effect until the queue is applied.
func (q *Queue) Push(cmd Command) {
	q.cmds = append(q.cmds, cmd)
}

// Len returns the number of pending commands.
func (q *Queue) Len() int {
	return len(q.cmds)
}

// Drain returns the pending commands in FIFO order and empties the queue.
func (q *Queue) Drain() []Command {
	cmds := q.cmds
	q.cmds = nil
	return cmds
}

// Workspace is the tab layout shown by the UI.
type Workspace struct {
	Dock *dock.State[Tab]
}

// New returns a workspace holding the pinned list tabs.
func New() *Workspace {
	return &Workspace{
		Dock: dock.New([]Tab{&LocalListTab{}, &RemoteListTab{}}),
	}
}

// ApplyCommands drains q and applies each command in order.
func (w *Workspace) ApplyCommands(q *Queue) {
	for _, cmd := range q.Drain() {
		switch cmd := cmd.(type) {
		case OpenPackageTab:
			w.openPackage(cmd.ID)
		}
	}
}

func (w *Workspace) openPackage(id domain.PackageID) {
	if w.focusExisting(func(t Tab) bool {
		pt, ok := t.(*PackageTab)
		return ok && pt.ID == id
	}) {
		return
	}
	w.pushTab(&PackageTab{ID: id})
}

// focusExisting activates every tab matching match within its leaf and
// focuses the leaf of the last one. It reports whether any tab matched.
func (w *Workspace) focusExisting(match func(Tab) bool) bool {
	var found []dock.TabLocation
	for tl, tab := range w.Dock.Tabs() {
		if match(tab) {
			found = append(found, tl)
		}
	}
	for _, tl := range found {
		w.Dock.SetActive(tl)
	}
	if len(found) == 0 {
		return false
	}
	w.Dock.SetFocused(found[len(found)-1].Location)
	return true
}

// pushTab opens tab in the last main-surface leaf that hosts no list tab,
// or in the first leaf when every leaf hosts one.
func (w *Workspace) pushTab(tab Tab) {
	if loc, ok := w.destination(); ok {
		w.Dock.Push(loc, tab)
		w.Dock.SetFocused(loc)
		return
	}
	w.Dock.PushToFirstLeaf(tab)
}

func (w *Workspace) destination() (dock.Location, bool) {
	var dest dock.Location
	found := false
	for _, loc := range w.Dock.Leaves(dock.Main) {
		hostsList := false
		for _, t := range w.Dock.Leaf(loc).Tabs {
			if IsListTab(t) {
				hostsList = true
				break
			}
		}
		if !hostsList {
			dest = loc
			found = true
		}
	}
	return dest, found
}

// OpenTheme focuses the theme tab, opening it if necessary.
func (w *Workspace) OpenTheme() {
	if w.focusExisting(func(t Tab) bool {
		_, ok := t.(*ThemeTab)
		return ok
	}) {
		return
	}
	w.pushTab(&ThemeTab{})
}

// Prune removes the tabs whose views requested their own closure.
func (w *Workspace) Prune() int {
	return w.Dock.Retain(func(t Tab) bool { return !forceClosed(t) })
}

// CloseActive closes the active tab of the focused leaf unless it is pinned.
func (w *Workspace) CloseActive() bool {
	tab, tl, ok := w.Dock.ActiveTab()
	if !ok || !tab.Closeable() {
		return false
	}
	_, ok = w.Dock.CloseTab(tl)
	return ok
}

// ActiveTab returns the active tab of the focused leaf.
func (w *Workspace) ActiveTab() (Tab, bool) {
	tab, _, ok := w.Dock.ActiveTab()
	return tab, ok
}

// PackageTabs returns the number of open tabs showing id.
func (w *Workspace) PackageTabs(id domain.PackageID) int {
	n := 0
	for _, tab := range w.Dock.Tabs() {
		if pt, ok := tab.(*PackageTab); ok && pt.ID == id {
			n++
		}
	}
	return n
}
