// Package dock models a tabbed docking layout: one or more surfaces, each a
// binary tree of split nodes whose leaves hold an ordered list of tabs and an
// active-tab index. Surface 0 is the main surface and is never removed.
package dock

import (
	"iter"
)

// Dir is the axis along which a split node divides its area.
type Dir int

const (
	Horizontal Dir = iota // children side by side
	Vertical              // children stacked
)

// SurfaceID identifies a surface. Main is always present.
type SurfaceID int

// Main is the surface created by New.
const Main SurfaceID = 0

// NodeID identifies a node within the whole State. IDs are never reused.
type NodeID int

// Location addresses a node on a surface.
type Location struct {
	Surface SurfaceID
	Node    NodeID
}

// TabLocation addresses a single tab.
type TabLocation struct {
	Location
	Tab int
}

// Leaf holds the tabs of a leaf node.
type Leaf[T any] struct {
	Tabs   []T
	Active int
}

// ActiveTab returns the active tab of the leaf.
func (l *Leaf[T]) ActiveTab() (T, bool) {
	var zero T
	if l == nil || l.Active < 0 || l.Active >= len(l.Tabs) {
		return zero, false
	}
	return l.Tabs[l.Active], true
}

// Node is either a leaf or a split with two children.
type Node[T any] struct {
	id     NodeID
	parent *Node[T]

	leaf *Leaf[T]

	dir      Dir
	fraction float64 // share of the area given to first
	first    *Node[T]
	second   *Node[T]
}

// ID returns the node id.
func (n *Node[T]) ID() NodeID { return n.id }

// IsLeaf reports whether n holds tabs.
func (n *Node[T]) IsLeaf() bool { return n.leaf != nil }

// Leaf returns the leaf data, or nil for a split node.
func (n *Node[T]) Leaf() *Leaf[T] { return n.leaf }

// Split returns the split parameters of a split node.
func (n *Node[T]) Split() (dir Dir, fraction float64, first, second *Node[T]) {
	return n.dir, n.fraction, n.first, n.second
}

type surface[T any] struct {
	id   SurfaceID
	root *Node[T] // nil when empty
}

// State is the whole layout.
type State[T any] struct {
	surfaces    []*surface[T]
	nextNode    NodeID
	nextSurface SurfaceID

	focused  Location
	hasFocus bool
}

// New returns a layout whose main surface holds a single leaf with tabs.
// With no tabs the main surface starts empty.
func New[T any](tabs []T) *State[T] {
	s := &State[T]{nextSurface: Main + 1}
	main := &surface[T]{id: Main}
	s.surfaces = append(s.surfaces, main)
	if len(tabs) > 0 {
		main.root = s.newLeaf(append([]T(nil), tabs...))
		s.focused = Location{Surface: Main, Node: main.root.id}
		s.hasFocus = true
	}
	return s
}

func (s *State[T]) newLeaf(tabs []T) *Node[T] {
	n := &Node[T]{id: s.nextNode, leaf: &Leaf[T]{Tabs: tabs}}
	s.nextNode++
	return n
}

func (s *State[T]) surface(id SurfaceID) *surface[T] {
	for _, sf := range s.surfaces {
		if sf.id == id {
			return sf
		}
	}
	return nil
}

func (s *State[T]) node(loc Location) *Node[T] {
	sf := s.surface(loc.Surface)
	if sf == nil {
		return nil
	}
	return find(sf.root, loc.Node)
}

func find[T any](n *Node[T], id NodeID) *Node[T] {
	if n == nil {
		return nil
	}
	if n.id == id {
		return n
	}
	if f := find(n.first, id); f != nil {
		return f
	}
	return find(n.second, id)
}

func leavesOf[T any](n *Node[T], yield func(*Node[T]) bool) bool {
	if n == nil {
		return true
	}
	if n.leaf != nil {
		return yield(n)
	}
	return leavesOf(n.first, yield) && leavesOf(n.second, yield)
}

// Surfaces returns the ids of all surfaces, main first.
func (s *State[T]) Surfaces() []SurfaceID {
	ids := make([]SurfaceID, len(s.surfaces))
	for i, sf := range s.surfaces {
		ids[i] = sf.id
	}
	return ids
}

// Root returns the root node of a surface, nil when the surface is empty or
// does not exist.
func (s *State[T]) Root(id SurfaceID) *Node[T] {
	if sf := s.surface(id); sf != nil {
		return sf.root
	}
	return nil
}

// Nodes iterates over every leaf of every surface in layout order.
func (s *State[T]) Nodes() iter.Seq2[Location, *Leaf[T]] {
	return func(yield func(Location, *Leaf[T]) bool) {
		for _, sf := range s.surfaces {
			ok := leavesOf(sf.root, func(n *Node[T]) bool {
				return yield(Location{Surface: sf.id, Node: n.id}, n.leaf)
			})
			if !ok {
				return
			}
		}
	}
}

// Tabs iterates over every tab of every leaf in layout order.
func (s *State[T]) Tabs() iter.Seq2[TabLocation, T] {
	return func(yield func(TabLocation, T) bool) {
		for loc, leaf := range s.Nodes() {
			for i, tab := range leaf.Tabs {
				if !yield(TabLocation{Location: loc, Tab: i}, tab) {
					return
				}
			}
		}
	}
}

// Leaves returns the locations of the leaves on one surface in layout order.
func (s *State[T]) Leaves(id SurfaceID) []Location {
	sf := s.surface(id)
	if sf == nil {
		return nil
	}
	var locs []Location
	leavesOf(sf.root, func(n *Node[T]) bool {
		locs = append(locs, Location{Surface: id, Node: n.id})
		return true
	})
	return locs
}

// Leaf returns the leaf at loc, or nil if loc is not a leaf.
func (s *State[T]) Leaf(loc Location) *Leaf[T] {
	n := s.node(loc)
	if n == nil {
		return nil
	}
	return n.leaf
}

// Focused returns the focused leaf.
func (s *State[T]) Focused() (Location, bool) {
	return s.focused, s.hasFocus
}

// SetFocused focuses the leaf at loc. It reports false if loc is not a leaf.
func (s *State[T]) SetFocused(loc Location) bool {
	if s.Leaf(loc) == nil {
		return false
	}
	s.focused = loc
	s.hasFocus = true
	return true
}

// Push appends tab to the leaf at loc and makes it active.
func (s *State[T]) Push(loc Location, tab T) (TabLocation, bool) {
	leaf := s.Leaf(loc)
	if leaf == nil {
		return TabLocation{}, false
	}
	leaf.Tabs = append(leaf.Tabs, tab)
	leaf.Active = len(leaf.Tabs) - 1
	return TabLocation{Location: loc, Tab: leaf.Active}, true
}

// PushToFirstLeaf appends tab to the first leaf of the main surface,
// creating it when the surface is empty, and focuses that leaf.
func (s *State[T]) PushToFirstLeaf(tab T) TabLocation {
	main := s.surfaces[0]
	if main.root == nil {
		main.root = s.newLeaf(nil)
	}
	var first *Node[T]
	leavesOf(main.root, func(n *Node[T]) bool {
		first = n
		return false
	})
	loc := Location{Surface: Main, Node: first.id}
	tl, _ := s.Push(loc, tab)
	s.SetFocused(loc)
	return tl
}

// SetActive makes the tab at tl the active tab of its leaf.
func (s *State[T]) SetActive(tl TabLocation) bool {
	leaf := s.Leaf(tl.Location)
	if leaf == nil || tl.Tab < 0 || tl.Tab >= len(leaf.Tabs) {
		return false
	}
	leaf.Active = tl.Tab
	return true
}

// ActiveTab returns the active tab of the focused leaf.
func (s *State[T]) ActiveTab() (T, TabLocation, bool) {
	var zero T
	if !s.hasFocus {
		return zero, TabLocation{}, false
	}
	leaf := s.Leaf(s.focused)
	tab, ok := leaf.ActiveTab()
	if !ok {
		return zero, TabLocation{}, false
	}
	return tab, TabLocation{Location: s.focused, Tab: leaf.Active}, true
}

// CloseTab removes the tab at tl. A leaf left without tabs is removed from
// its tree; a secondary surface left without leaves is removed entirely.
func (s *State[T]) CloseTab(tl TabLocation) (T, bool) {
	var zero T
	n := s.node(tl.Location)
	if n == nil || n.leaf == nil || tl.Tab < 0 || tl.Tab >= len(n.leaf.Tabs) {
		return zero, false
	}

	leaf := n.leaf
	tab := leaf.Tabs[tl.Tab]
	leaf.Tabs = append(leaf.Tabs[:tl.Tab], leaf.Tabs[tl.Tab+1:]...)
	if leaf.Active > tl.Tab || leaf.Active >= len(leaf.Tabs) {
		leaf.Active--
	}
	if leaf.Active < 0 {
		leaf.Active = 0
	}

	if len(leaf.Tabs) == 0 {
		s.removeNode(tl.Surface, n)
	}
	return tab, true
}

// removeNode detaches an empty leaf, promoting its sibling into the parent's
// place, and repairs focus.
func (s *State[T]) removeNode(id SurfaceID, n *Node[T]) {
	sf := s.surface(id)
	parent := n.parent

	var replacement *Node[T]
	if parent == nil {
		sf.root = nil
	} else {
		sibling := parent.first
		if sibling == n {
			sibling = parent.second
		}
		sibling.parent = parent.parent
		switch {
		case parent.parent == nil:
			sf.root = sibling
		case parent.parent.first == parent:
			parent.parent.first = sibling
		default:
			parent.parent.second = sibling
		}
		replacement = sibling
	}

	if sf.root == nil && id != Main {
		s.removeSurface(id)
	}

	if s.hasFocus && s.node(s.focused) == nil {
		s.hasFocus = false
		if replacement != nil {
			leavesOf(replacement, func(l *Node[T]) bool {
				s.focused = Location{Surface: id, Node: l.id}
				s.hasFocus = true
				return false
			})
			return
		}
		s.focusFirstLeaf()
	}
}

func (s *State[T]) removeSurface(id SurfaceID) {
	for i, sf := range s.surfaces {
		if sf.id == id {
			s.surfaces = append(s.surfaces[:i], s.surfaces[i+1:]...)
			return
		}
	}
}

func (s *State[T]) focusFirstLeaf() {
	for loc := range s.Nodes() {
		s.focused = loc
		s.hasFocus = true
		return
	}
	s.hasFocus = false
}

// Retain removes every tab for which keep returns false and reports how many
// were removed.
func (s *State[T]) Retain(keep func(T) bool) int {
	var doomed []TabLocation
	for tl, tab := range s.Tabs() {
		if !keep(tab) {
			doomed = append(doomed, tl)
		}
	}
	// close back to front so earlier locations stay valid
	for i := len(doomed) - 1; i >= 0; i-- {
		s.CloseTab(doomed[i])
	}
	return len(doomed)
}

// SplitFocused moves the active tab of the focused leaf into a new sibling
// leaf along dir and focuses it. The leaf must hold at least two tabs.
func (s *State[T]) SplitFocused(dir Dir) bool {
	if !s.hasFocus {
		return false
	}
	n := s.node(s.focused)
	if n == nil || n.leaf == nil || len(n.leaf.Tabs) < 2 {
		return false
	}

	tab, _ := s.CloseTab(TabLocation{Location: s.focused, Tab: n.leaf.Active})
	moved := s.newLeaf([]T{tab})
	split := &Node[T]{
		id:       s.nextNode,
		parent:   n.parent,
		dir:      dir,
		fraction: 0.5,
		first:    n,
		second:   moved,
	}
	s.nextNode++

	sf := s.surface(s.focused.Surface)
	switch {
	case n.parent == nil:
		sf.root = split
	case n.parent.first == n:
		n.parent.first = split
	default:
		n.parent.second = split
	}
	n.parent = split
	moved.parent = split

	s.focused = Location{Surface: s.focused.Surface, Node: moved.id}
	return true
}

// Detach moves the active tab of the focused leaf onto a new surface and
// focuses it. The last tab of a surface cannot be detached.
func (s *State[T]) Detach() (SurfaceID, bool) {
	if !s.hasFocus {
		return 0, false
	}
	count := 0
	for tl := range s.Tabs() {
		if tl.Surface == s.focused.Surface {
			count++
		}
	}
	if count < 2 {
		return 0, false
	}

	leaf := s.Leaf(s.focused)
	tab, _ := s.CloseTab(TabLocation{Location: s.focused, Tab: leaf.Active})

	sf := &surface[T]{id: s.nextSurface, root: s.newLeaf([]T{tab})}
	s.nextSurface++
	s.surfaces = append(s.surfaces, sf)
	s.focused = Location{Surface: sf.id, Node: sf.root.id}
	s.hasFocus = true
	return sf.id, true
}

// FocusNextLeaf moves focus delta leaves forward on the focused surface,
// wrapping around.
func (s *State[T]) FocusNextLeaf(delta int) bool {
	if !s.hasFocus {
		return false
	}
	leaves := s.Leaves(s.focused.Surface)
	if len(leaves) == 0 {
		return false
	}
	cur := 0
	for i, loc := range leaves {
		if loc == s.focused {
			cur = i
		}
	}
	s.focused = leaves[wrap(cur+delta, len(leaves))]
	return true
}

// CycleTab moves the active tab of the focused leaf by delta, wrapping around.
func (s *State[T]) CycleTab(delta int) bool {
	if !s.hasFocus {
		return false
	}
	leaf := s.Leaf(s.focused)
	if leaf == nil || len(leaf.Tabs) == 0 {
		return false
	}
	leaf.Active = wrap(leaf.Active+delta, len(leaf.Tabs))
	return true
}

// FocusSurface focuses the first leaf of the surface delta positions away
// from the focused one, wrapping around.
func (s *State[T]) FocusSurface(delta int) bool {
	cur := 0
	for i, sf := range s.surfaces {
		if s.hasFocus && sf.id == s.focused.Surface {
			cur = i
		}
	}
	for range s.surfaces {
		cur = wrap(cur+delta, len(s.surfaces))
		if leaves := s.Leaves(s.surfaces[cur].id); len(leaves) > 0 {
			s.focused = leaves[0]
			s.hasFocus = true
			return true
		}
		if delta == 0 {
			break
		}
	}
	return false
}

// Resize grows the focused leaf's share of its parent split by delta.
func (s *State[T]) Resize(delta float64) bool {
	if !s.hasFocus {
		return false
	}
	n := s.node(s.focused)
	if n == nil || n.parent == nil {
		return false
	}
	p := n.parent
	if p.second == n {
		delta = -delta
	}
	p.fraction = min(max(p.fraction+delta, 0.1), 0.9)
	return true
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
