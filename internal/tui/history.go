package tui

import (
	"strings"
	"time"

	"github.com/agbru/pydemo/internal/format"
)

// maxHistoryEntries bounds the scrollback kept in memory.
const maxHistoryEntries = 500

// Entry is one evaluated input line and its outcome.
type Entry struct {
	Input   string
	Output  []string
	Err     string
	Elapsed time.Duration
}

// History holds evaluated entries and the input recall list.
type History struct {
	entries []Entry
	inputs  []string
	cursor  int
}

// Add appends an entry, dropping the oldest past maxHistoryEntries.
func (h *History) Add(e Entry) {
	h.entries = append(h.entries, e)
	if len(h.entries) > maxHistoryEntries {
		h.entries = h.entries[len(h.entries)-maxHistoryEntries:]
	}
	if n := len(h.inputs); n == 0 || h.inputs[n-1] != e.Input {
		h.inputs = append(h.inputs, e.Input)
	}
	h.cursor = len(h.inputs)
}

// Entries returns the recorded entries, oldest first.
func (h *History) Entries() []Entry { return h.entries }

// Clear drops all entries but keeps input recall.
func (h *History) Clear() { h.entries = nil }

// Prev moves the recall cursor back and returns the input there.
func (h *History) Prev() (string, bool) {
	if h.cursor == 0 {
		return "", false
	}
	h.cursor--
	return h.inputs[h.cursor], true
}

// Next moves the recall cursor forward. Past the newest input it returns ""
// so the input line is cleared.
func (h *History) Next() (string, bool) {
	if h.cursor >= len(h.inputs) {
		return "", false
	}
	h.cursor++
	if h.cursor == len(h.inputs) {
		return "", true
	}
	return h.inputs[h.cursor], true
}

// Render formats all entries for the history viewport.
func (h *History) Render() string {
	if len(h.entries) == 0 {
		return dimStyle.Render("Type a Lua expression such as rust_python_demo.fibonacci(10),\nor a direct call such as: add 2 3")
	}
	var b strings.Builder
	for i, e := range h.entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(promptStyle.Render(">>> "))
		b.WriteString(inputEchoStyle.Render(e.Input))
		b.WriteByte('\n')
		for _, line := range e.Output {
			b.WriteString(resultStyle.Render(line))
			b.WriteByte('\n')
		}
		if e.Err != "" {
			b.WriteString(errorStyle.Render(e.Err))
			b.WriteByte('\n')
		}
		b.WriteString(dimStyle.Render(format.FormatExecutionDuration(e.Elapsed)))
	}
	return b.String()
}
