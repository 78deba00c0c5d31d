package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/pacfront/internal/config"
	"github.com/h0rv/pacfront/internal/dock"
	"github.com/h0rv/pacfront/internal/domain"
	"github.com/h0rv/pacfront/internal/workspace"
	"github.com/sirupsen/logrus"
)

const resizeStep = 0.05

// Provider is the read-only package database the views render from.
type Provider interface {
	Local() []*domain.Package
	SyncPackages() []*domain.Package
	Lookup(id domain.PackageID) (*domain.Package, error)
	IsInstalled(name string) bool
	ResolutionList(id domain.PackageID) []*domain.Package
}

// inputMode selects what the text input is editing.
type inputMode int

const (
	modeNormal inputMode = iota
	modeFilter           // filter of inputTarget, applied on every keystroke
	modeHex              // colour of the selected theme slot, applied on enter
)

// Options configures NewAppModel.
type Options struct {
	DB       Provider
	Config   config.Config
	Settings config.Settings
	Logger   logrus.FieldLogger
	Opener   Opener          // defaults to the system browser
	Changes  <-chan struct{} // local database change notifications, optional
}

// AppModel is the root Bubble Tea model. It owns the workspace and applies
// the commands raised by the views after every input.
type AppModel struct {
	// Dependencies
	db       Provider
	settings config.Settings
	log      logrus.FieldLogger
	opener   Opener
	changes  <-chan struct{}

	// Layout
	ws    *workspace.Workspace
	queue workspace.Queue

	// UI components
	styles Styles
	keymap KeyMap
	help   HelpModel
	input  textinput.Model
	output outputPanel

	// State
	mode        inputMode
	inputTarget workspace.Tab
	inputOrig   string // value restored when an edit is cancelled
	theme       *config.Theme
	presetIdx   int
	localRows   []*domain.Package
	remoteRows  []*domain.Package
	notice      string
	showHelp    bool

	// View dimensions
	width  int
	height int
}

// NewAppModel creates the app with the pinned list tabs open.
func NewAppModel(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Opener == nil {
		opts.Opener = NewBrowserOpener()
	}

	keymap := DefaultKeyMap()
	ti := textinput.New()
	ti.CharLimit = 256

	m := AppModel{
		db:         opts.DB,
		settings:   opts.Settings,
		log:        opts.Logger,
		opener:     opts.Opener,
		changes:    opts.Changes,
		ws:         workspace.New(),
		keymap:     keymap,
		help:       NewHelpModel(keymap),
		input:      ti,
		output:     newOutputPanel(),
		localRows:  opts.DB.Local(),
		remoteRows: opts.DB.SyncPackages(),
	}
	m.setTheme(opts.Config.ColorTheme)
	m.presetIdx = presetIndex(m.theme)
	return m
}

// presetIndex finds the preset t was derived from, ignoring light mode.
func presetIndex(t *config.Theme) int {
	if t == nil {
		return 0
	}
	for i, p := range config.Presets {
		if p.Theme.Colors == t.Colors {
			return i
		}
	}
	return 0
}

// Config returns the persisted part of the app state.
func (m AppModel) Config() config.Config {
	return config.Config{ColorTheme: m.theme}
}

// Init starts listening for database changes.
func (m AppModel) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// Update handles a message, then applies queued layout commands and closes
// the tabs that asked to be closed.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.output.resize(msg.Width)
		return m, nil

	case dbChangedMsg:
		m.notice = "The package database changed on disk; restart to reload"
		return m, waitForChange(m.changes)

	case outputTickMsg:
		return m, m.pollOutput()

	case spinner.TickMsg:
		if !m.output.running() {
			return m, nil
		}
		var cmd tea.Cmd
		m.output.spinner, cmd = m.output.spinner.Update(msg)
		return m, cmd

	case openResultMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).WithField("target", msg.target).Warn("open failed")
			m.notice = fmt.Sprintf("Could not open %s: %v", msg.target, msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.ws.ApplyCommands(&m.queue)
		if n := m.ws.Prune(); n > 0 {
			m.log.WithField("count", n).Debug("closed tabs")
		}
		return m, cmd
	}

	return m, nil
}

func (m *AppModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keymap.Quit) {
		return tea.Quit
	}
	if m.mode != modeNormal {
		return m.handleInputKey(msg)
	}
	if m.showHelp {
		if key.Matches(msg, m.keymap.Help) || key.Matches(msg, m.keymap.Back) {
			m.showHelp = false
		}
		return nil
	}
	m.notice = ""

	d := m.ws.Dock
	switch {
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
	case key.Matches(msg, m.keymap.NextTab):
		d.CycleTab(1)
	case key.Matches(msg, m.keymap.PrevTab):
		d.CycleTab(-1)
	case key.Matches(msg, m.keymap.NextPane):
		d.FocusNextLeaf(1)
	case key.Matches(msg, m.keymap.PrevPane):
		d.FocusNextLeaf(-1)
	case key.Matches(msg, m.keymap.SplitRight):
		if !d.SplitFocused(dock.Horizontal) {
			m.notice = "A pane needs two tabs to split"
		}
	case key.Matches(msg, m.keymap.SplitDown):
		if !d.SplitFocused(dock.Vertical) {
			m.notice = "A pane needs two tabs to split"
		}
	case key.Matches(msg, m.keymap.Grow):
		d.Resize(resizeStep)
	case key.Matches(msg, m.keymap.Shrink):
		d.Resize(-resizeStep)
	case key.Matches(msg, m.keymap.CloseTab):
		m.ws.CloseActive()
	case key.Matches(msg, m.keymap.Detach):
		if _, ok := d.Detach(); !ok {
			m.notice = "A window needs two tabs to detach one"
		}
	case key.Matches(msg, m.keymap.NextSurface):
		d.FocusSurface(1)
	case key.Matches(msg, m.keymap.ThemeTab):
		m.ws.OpenTheme()
	case key.Matches(msg, m.keymap.Sync):
		return m.startSync()
	case key.Matches(msg, m.keymap.HideOutput):
		m.output.visible = !m.output.visible
	default:
		return m.handleTabKey(msg)
	}
	return nil
}

// handleTabKey routes a key to the active tab of the focused pane.
func (m *AppModel) handleTabKey(msg tea.KeyMsg) tea.Cmd {
	tab, ok := m.ws.ActiveTab()
	if !ok {
		return nil
	}
	switch tab := tab.(type) {
	case *workspace.LocalListTab:
		m.handleLocalListKey(tab, msg)
	case *workspace.RemoteListTab:
		m.handleRemoteListKey(tab, msg)
	case *workspace.PackageTab:
		return m.handlePackageKey(tab, msg)
	case *workspace.ThemeTab:
		m.handleThemeKey(tab, msg)
	}
	return nil
}

// startInput focuses the text input on value for the given tab.
func (m *AppModel) startInput(mode inputMode, tab workspace.Tab, value string) {
	m.mode = mode
	m.inputTarget = tab
	m.inputOrig = value
	m.input.Prompt = "/"
	if mode == modeHex {
		m.input.Prompt = "colour: "
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *AppModel) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.ApplyFilter):
		m.finishInput(true)
		return nil
	case key.Matches(msg, m.keymap.Back):
		m.finishInput(false)
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeFilter {
		m.setFilter(m.inputTarget, m.input.Value())
	}
	return cmd
}

// finishInput leaves input mode. A cancelled filter is restored; a hex
// value is only applied when committed.
func (m *AppModel) finishInput(commit bool) {
	switch m.mode {
	case modeFilter:
		if !commit {
			m.setFilter(m.inputTarget, m.inputOrig)
		}
	case modeHex:
		if tab, ok := m.inputTarget.(*workspace.ThemeTab); ok && commit {
			m.applyHex(tab, m.input.Value())
		}
	}
	m.mode = modeNormal
	m.inputTarget = nil
	m.input.Blur()
}

func (m *AppModel) setFilter(tab workspace.Tab, value string) {
	switch tab := tab.(type) {
	case *workspace.LocalListTab:
		tab.Filter = value
		m.refilter(tab)
	case *workspace.RemoteListTab:
		tab.Filter = value
		m.refilter(tab)
	case *workspace.PackageTab:
		tab.FileFilter = value
		tab.FileCursor = 0
	}
}

// View renders the focused window, the output panel and the status line.
func (m AppModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.help.Overlay(m.width, m.styles.FocusPanel))
	}

	height := m.height - 1
	if m.output.visible {
		height -= outputHeight
	}

	parts := []string{m.renderSurface(m.width, max(height, minPaneHeight))}
	if m.output.visible {
		parts = append(parts, m.renderOutput(m.width))
	}
	parts = append(parts, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m AppModel) renderFooter() string {
	var left string
	switch {
	case m.notice != "":
		left = m.styles.Notice.Render(m.notice)
	case m.surfaceIndicator() != "":
		left = m.styles.Dim.Render(m.surfaceIndicator())
	}
	right := m.help.Short(max(m.width-lipgloss.Width(left)-2, 0))
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return truncate(left+strings.Repeat(" ", gap)+right, m.width)
}
