package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
)

// Opener hands paths and URLs to the host's default handler.
type Opener interface {
	OpenFile(path string) error
	OpenURL(url string) error
}

type browserOpener struct{}

// NewBrowserOpener returns an Opener backed by xdg-open (via pkg/browser).
// The helper's own output is discarded so it cannot draw over the UI.
func NewBrowserOpener() Opener {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return browserOpener{}
}

func (browserOpener) OpenFile(path string) error { return browser.OpenFile(path) }
func (browserOpener) OpenURL(url string) error   { return browser.OpenURL(url) }

func openFile(o Opener, path string) tea.Cmd {
	return func() tea.Msg {
		return openResultMsg{target: path, err: o.OpenFile(path)}
	}
}

func openURL(o Opener, url string) tea.Cmd {
	return func() tea.Msg {
		return openResultMsg{target: url, err: o.OpenURL(url)}
	}
}
