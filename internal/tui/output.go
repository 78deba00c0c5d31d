package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/h0rv/pacfront/internal/runner"
)

const (
	outputHeight   = 10 // panel height including its border
	maxOutputLines = 1000
)

// outputPanel shows the output of the sync command. The process is polled
// on a timer so Update never blocks on it.
type outputPanel struct {
	proc     *runner.Process
	lines    []string
	viewport viewport.Model
	spinner  spinner.Model
	visible  bool
}

func newOutputPanel() outputPanel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return outputPanel{
		viewport: viewport.New(80, outputHeight-3),
		spinner:  sp,
	}
}

func (o *outputPanel) running() bool {
	return o.proc != nil && !o.proc.Finished()
}

func (o *outputPanel) resize(width int) {
	o.viewport.Width = max(width-2, 1)
	o.viewport.Height = outputHeight - 3
	o.viewport.GotoBottom()
}

func (o *outputPanel) append(lines ...string) {
	o.lines = append(o.lines, lines...)
	if over := len(o.lines) - maxOutputLines; over > 0 {
		o.lines = o.lines[over:]
	}
	o.viewport.SetContent(strings.Join(o.lines, "\n"))
	o.viewport.GotoBottom()
}

// startSync runs the configured sync command and shows the panel.
func (m *AppModel) startSync() tea.Cmd {
	if m.output.running() {
		m.notice = "a command is already running"
		return nil
	}
	m.output.visible = true

	var name string
	var args []string
	if len(m.settings.SyncCommand) > 0 {
		name, args = m.settings.SyncCommand[0], m.settings.SyncCommand[1:]
	}
	proc, err := runner.Start(m.log, name, args...)
	if err != nil {
		m.log.WithError(err).Error("starting sync command")
		m.output.append(m.styles.Error.Render("error: " + err.Error()))
		return nil
	}
	m.output.proc = proc
	m.output.append(m.styles.Dim.Render("$ " + proc.Name))
	return tea.Batch(outputTick(), m.output.spinner.Tick)
}

// pollOutput moves the available output into the panel and keeps ticking
// while the command runs.
func (m *AppModel) pollOutput() tea.Cmd {
	if m.output.proc == nil {
		return nil
	}
	for _, ev := range m.output.proc.Poll() {
		line := ev.String()
		switch ev.Kind {
		case runner.Stderr:
			line = m.styles.Dim.Render(line)
		case runner.Failed:
			line = m.styles.Error.Render(line)
		case runner.Exited:
			line = m.styles.Notice.Render(line)
			if ev.ExitCode == 0 {
				m.notice = "sync finished; restart to load the new databases"
			}
		}
		m.output.append(line)
	}
	if m.output.proc.Finished() {
		return nil
	}
	return outputTick()
}

func (m AppModel) renderOutput(width int) string {
	title := "Output"
	if m.output.running() {
		title = m.output.spinner.View() + " " + m.output.proc.Name
	} else if m.output.proc != nil {
		title = fmt.Sprintf("Output: %s", m.output.proc.Name)
	}
	body := m.styles.Title.Render(truncate(title, width-2)) + "\n" + m.output.viewport.View()
	return m.styles.Panel.Width(width - 2).Render(body)
}
