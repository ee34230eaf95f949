package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/pydemo/internal/binding"
	apperrors "github.com/agbru/pydemo/internal/errors"
	"github.com/agbru/pydemo/internal/format"
	"github.com/agbru/pydemo/internal/luahost"
)

// Layout constants for the console.
const (
	headerHeight      = 1
	inputHeight       = 3
	helpHeight        = 1
	minBodyHeight     = 6
	SidePanelWidthPct = 35
	latencyWindowSize = 64
	tickInterval      = time.Second
)

// evalResultMsg carries the outcome of one evaluation back to Update.
type evalResultMsg struct {
	entry Entry
	err   error
}

// tickMsg refreshes the header clock.
type tickMsg time.Time

// LayoutManager holds terminal dimensions and derives panel sizes.
type LayoutManager struct {
	width  int
	height int
}

func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-inputHeight-helpHeight, minBodyHeight)
}

func (l LayoutManager) sideWidth() int {
	return l.width * SidePanelWidthPct / 100
}

func (l LayoutManager) historyWidth() int {
	return l.width - l.sideWidth()
}

// Model is the root bubbletea model of the console.
type Model struct {
	header   HeaderModel
	history  History
	viewport viewport.Model
	input    textinput.Model
	help     help.Model
	keymap   KeyMap

	LayoutManager

	ctx     context.Context
	module  *binding.Module
	session *luahost.Session
	printed *bytes.Buffer
	timeout time.Duration

	busy     bool
	calls    int
	failures int
	latency  *LatencyWindow
}

// NewModel creates a console over m. Lua evaluations run in a session of
// runner; timeout bounds each evaluation (zero disables the limit).
func NewModel(ctx context.Context, m *binding.Module, runner *luahost.Runner, timeout time.Duration, version string) Model {
	printed := &bytes.Buffer{}

	in := textinput.New()
	in.Prompt = ">>> "
	in.PromptStyle = promptStyle
	in.Placeholder = m.Name() + ".add(2, 3)"
	in.CharLimit = 4096
	in.Focus()

	return Model{
		header:   NewHeaderModel(m.Name(), version),
		viewport: viewport.New(0, 0),
		input:    in,
		help:     help.New(),
		keymap:   DefaultKeyMap(),
		ctx:      ctx,
		module:   m,
		session:  runner.NewSession(printed),
		printed:  printed,
		timeout:  timeout,
		latency:  NewLatencyWindow(latencyWindowSize),
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd(), watchContextCmd(m.ctx))
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case evalResultMsg:
		m.busy = false
		m.header.SetBusy(false)
		m.calls++
		if msg.err != nil {
			m.failures++
		}
		m.latency.Push(msg.entry.Elapsed)
		m.history.Add(msg.entry)
		m.refreshHistory()
		return m, nil

	case tickMsg:
		return m, tickCmd()

	case contextDoneMsg:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit) && (msg.String() != "q" || m.input.Value() == ""):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Submit):
		line := strings.TrimSpace(m.input.Value())
		if line == "" || m.busy {
			return m, nil
		}
		m.input.SetValue("")
		m.busy = true
		m.header.SetBusy(true)
		return m, m.evalCmd(line)

	case key.Matches(msg, m.keymap.Prev):
		if s, ok := m.history.Prev(); ok {
			m.input.SetValue(s)
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Next):
		if s, ok := m.history.Next(); ok {
			m.input.SetValue(s)
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keymap.Clear):
		m.history.Clear()
		m.refreshHistory()
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// evalCmd evaluates line off the UI goroutine. At most one evaluation runs at
// a time (guarded by busy), so the session and print buffer are not shared.
func (m Model) evalCmd(line string) tea.Cmd {
	ctx, module, session, printed, timeout := m.ctx, m.module, m.session, m.printed, m.timeout
	return func() tea.Msg {
		return evaluate(ctx, module, session, printed, timeout, line)
	}
}

// evaluate runs one console line: "fn arg..." calls the module directly,
// anything else is Lua.
func evaluate(ctx context.Context, module *binding.Module, session *luahost.Session, printed *bytes.Buffer, timeout time.Duration, line string) evalResultMsg {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	entry := Entry{Input: line}
	start := time.Now()

	var err error
	if fields := strings.Fields(line); len(fields) > 1 && module.Has(fields[0]) && !strings.ContainsAny(line, "()") {
		var result any
		result, err = module.Call(ctx, fields[0], format.ParseArgs(fields[1:])...)
		if err == nil {
			entry.Output = []string{format.FormatValue(result)}
		}
	} else {
		printed.Reset()
		var values []string
		values, err = session.Eval(ctx, line)
		if out := strings.TrimRight(printed.String(), "\n"); out != "" {
			entry.Output = append(entry.Output, strings.Split(out, "\n")...)
		}
		if len(values) > 0 {
			entry.Output = append(entry.Output, strings.Join(values, "\t"))
		}
	}
	entry.Elapsed = time.Since(start)
	if err != nil {
		entry.Err = err.Error()
	}
	return evalResultMsg{entry: entry, err: err}
}

func (m *Model) layout() {
	m.header.SetWidth(m.width)
	m.help.Width = m.width
	m.input.Width = max(m.width-8, 10)
	m.viewport.Width = max(m.historyWidth()-4, 10)
	m.viewport.Height = max(m.bodyHeight()-2, 1)
	m.refreshHistory()
}

func (m *Model) refreshHistory() {
	m.viewport.SetContent(m.history.Render())
	m.viewport.GotoBottom()
}

// View renders the console.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	historyPanel := panelStyle.
		Width(m.historyWidth() - 2).
		Height(m.bodyHeight() - 2).
		Render(m.viewport.View())

	side := lipgloss.JoinVertical(lipgloss.Left, m.functionsView(), m.statsView())
	sidePanel := panelStyle.
		Width(m.sideWidth() - 2).
		Height(m.bodyHeight() - 2).
		Render(side)

	body := lipgloss.JoinHorizontal(lipgloss.Top, historyPanel, sidePanel)
	inputPanel := panelStyle.Width(m.width - 2).Render(m.input.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(), body, inputPanel, m.help.View(m.keymap))
}

func (m Model) functionsView() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Functions"))
	for _, sig := range m.module.Signatures() {
		b.WriteString("\n")
		b.WriteString(signatureStyle.Render(sig.String()))
	}
	return b.String()
}

func (m Model) statsView() string {
	rows := []string{
		"",
		panelTitleStyle.Render("Calls"),
		statLabelStyle.Render("total  ") + statValueStyle.Render(fmt.Sprint(m.calls)),
		statLabelStyle.Render("errors ") + statValueStyle.Render(fmt.Sprint(m.failures)),
		statLabelStyle.Render("last   ") + statValueStyle.Render(format.FormatExecutionDuration(m.latency.Last())),
		statLabelStyle.Render("peak   ") + statValueStyle.Render(format.FormatExecutionDuration(m.latency.Max())),
		sparklineStyle.Render(RenderSparkline(m.latency.Slice(), max(m.sideWidth()-6, 1))),
	}
	return strings.Join(rows, "\n")
}

// Run starts the console and blocks until the user quits or ctx is canceled.
func Run(ctx context.Context, m *binding.Module, runner *luahost.Runner, timeout time.Duration, version string) error {
	initTUIStyles()

	p := tea.NewProgram(NewModel(ctx, m, runner, timeout, version), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return apperrors.WrapError(err, "console")
	}
	return nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type contextDoneMsg struct{}

// watchContextCmd quits the program when ctx is canceled.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return contextDoneMsg{}
	}
}
