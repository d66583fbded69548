package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/photoyarn/internal/upload"
)

var (
	_ tea.Msg = uploadResolvedMsg{}
	_ tea.Msg = browserOpenedMsg{}
)

// uploadResolvedMsg carries an attempt's result back to the event loop, where it is resolved.
type uploadResolvedMsg struct {
	result upload.Result
}

// browserOpenedMsg reports the outcome of opening a story page.
type browserOpenedMsg struct {
	url string
	err error
}
