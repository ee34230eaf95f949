package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/pydemo/internal/ui"
)

// Styles are rebuilt from the ui theme by initTUIStyles.
var (
	panelStyle       lipgloss.Style
	panelTitleStyle  lipgloss.Style
	headerStyle      lipgloss.Style
	titleStyle       lipgloss.Style
	dimStyle         lipgloss.Style
	promptStyle      lipgloss.Style
	inputEchoStyle   lipgloss.Style
	resultStyle      lipgloss.Style
	errorStyle       lipgloss.Style
	signatureStyle   lipgloss.Style
	statLabelStyle   lipgloss.Style
	statValueStyle   lipgloss.Style
	sparklineStyle   lipgloss.Style
	statusBusyStyle  lipgloss.Style
	statusReadyStyle lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme. Run calls it
// again after the application has applied --no-color.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)
	panelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	dimStyle = lipgloss.NewStyle().Foreground(t.Dim)
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	inputEchoStyle = lipgloss.NewStyle().Foreground(t.Text)
	resultStyle = lipgloss.NewStyle().Foreground(t.Success)
	errorStyle = lipgloss.NewStyle().Foreground(t.Error)
	signatureStyle = lipgloss.NewStyle().Foreground(t.Text)
	statLabelStyle = lipgloss.NewStyle().Foreground(t.Dim)
	statValueStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	sparklineStyle = lipgloss.NewStyle().Foreground(t.Accent)
	statusBusyStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Error)
	statusReadyStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Success)
}
