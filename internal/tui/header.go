package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeaderModel renders the top bar: title, version, session time and status.
type HeaderModel struct {
	startTime time.Time
	module    string
	version   string
	busy      bool
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(module, version string) HeaderModel {
	return HeaderModel{startTime: time.Now(), module: module, version: version}
}

// SetBusy switches the status indicator.
func (h *HeaderModel) SetBusy(busy bool) { h.busy = busy }

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) { h.width = w }

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "pydemo console: " + h.module
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	left := titleStyle.Render(titleText) + dimStyle.Render(" | ") +
		dimStyle.Render(fmt.Sprintf("session %s", time.Since(h.startTime).Truncate(time.Second)))

	status := statusReadyStyle.Render("READY")
	if h.busy {
		status = statusBusyStyle.Render("BUSY")
	}

	gap := max(h.width-2-lipgloss.Width(left)-lipgloss.Width(status), 1)
	return headerStyle.Width(h.width).Render(left + spaces(gap) + status)
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
