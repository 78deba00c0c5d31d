// Package tui provides the Bubble Tea models for the package browser.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// outputPollInterval is how often a running command's output is collected.
const outputPollInterval = 100 * time.Millisecond

// dbChangedMsg is emitted when the local database changes on disk.
type dbChangedMsg struct{}

// outputTickMsg asks the app to poll the running command.
type outputTickMsg struct{}

// openResultMsg reports the outcome of handing a path or URL to the host.
type openResultMsg struct {
	target string
	err    error
}

func outputTick() tea.Cmd {
	return tea.Tick(outputPollInterval, func(time.Time) tea.Msg {
		return outputTickMsg{}
	})
}

// waitForChange blocks on the watcher channel inside a command, never in
// Update.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return dbChangedMsg{}
	}
}
