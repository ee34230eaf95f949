// Package ui provides theme and color support for pydemo's terminal output.
// It owns the ANSI palette used by the line-oriented commands, the lipgloss
// palette used by the interactive console, and terminal detection.
package ui
