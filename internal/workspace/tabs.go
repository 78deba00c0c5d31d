package workspace

import "github.com/h0rv/pacfront/internal/domain"

// Tab is one of the views the dock can hold: *LocalListTab, *RemoteListTab,
// *PackageTab or *ThemeTab. Tabs are stored by pointer so their view state
// survives layout changes.
type Tab interface {
	Title() string
	// Closeable is false for the pinned list tabs.
	Closeable() bool

	tab()
}

// LocalListTab lists installed packages.
type LocalListTab struct {
	Filter string
	Cursor int
}

func (*LocalListTab) Title() string   { return "Local packages" }
func (*LocalListTab) Closeable() bool { return false }
func (*LocalListTab) tab()            {}

// RemoteListTab lists sync repository packages.
type RemoteListTab struct {
	Filter string
	Cursor int
}

func (*RemoteListTab) Title() string   { return "Remote packages" }
func (*RemoteListTab) Closeable() bool { return false }
func (*RemoteListTab) tab()            {}

// SubView selects the section shown by a package tab.
type SubView int

const (
	SubViewGeneral SubView = iota
	SubViewFiles
)

func (v SubView) String() string {
	switch v {
	case SubViewFiles:
		return "Files"
	default:
		return "General"
	}
}

// PackageTab shows a single package. The package is looked up by ID on every
// render; an ID with no matching package renders a placeholder.
type PackageTab struct {
	ID         domain.PackageID
	SubView    SubView
	FileFilter string
	Cursor     int  // selected line of the general view
	FileCursor int  // selected entry of the file list
	ForceClose bool // set by the view to close itself on the next pass
}

func (t *PackageTab) Title() string {
	if t.ID.IsRemote() {
		return t.ID.String()
	}
	return t.ID.Name
}
func (*PackageTab) Closeable() bool { return true }
func (*PackageTab) tab()            {}

// ThemeTab edits the colour theme.
type ThemeTab struct {
	Slot       int // selected colour slot
	ForceClose bool
}

func (*ThemeTab) Title() string   { return "Theme" }
func (*ThemeTab) Closeable() bool { return true }
func (*ThemeTab) tab()            {}

// IsListTab reports whether t is one of the pinned package lists.
func IsListTab(t Tab) bool {
	switch t.(type) {
	case *LocalListTab, *RemoteListTab:
		return true
	}
	return false
}

func forceClosed(t Tab) bool {
	switch t := t.(type) {
	case *PackageTab:
		return t.ForceClose
	case *ThemeTab:
		return t.ForceClose
	}
	return false
}
