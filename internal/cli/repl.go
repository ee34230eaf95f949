package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/agbru/pydemo/internal/binding"
	"github.com/agbru/pydemo/internal/luahost"
	"github.com/agbru/pydemo/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Timeout is the maximum duration of a single evaluation.
	Timeout time.Duration
	// ShowDuration prints how long each evaluation took.
	ShowDuration bool
}

// REPL is an interactive Lua prompt with the module preloaded as a global.
type REPL struct {
	config  REPLConfig
	module  *binding.Module
	runner  *luahost.Runner
	session *luahost.Session
	in      io.Reader
	out     io.Writer
}

// NewREPL creates a new REPL evaluating lines with runner.
func NewREPL(m *binding.Module, runner *luahost.Runner, config REPLConfig) *REPL {
	return &REPL{
		config: config,
		module: m,
		runner: runner,
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

type readResult struct {
	line string
	err  error
}

// Start runs the prompt until "exit", EOF or ctx is canceled. Input is read
// on a separate goroutine so cancellation is noticed while waiting for a
// line; that goroutine exits at the next line or EOF.
func (r *REPL) Start(ctx context.Context) {
	r.session = r.runner.NewSession(r.out)
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	lines := make(chan readResult)
	next := make(chan struct{})
	go r.readLines(ctx, lines, next)
	defer close(next)

	for {
		fmt.Fprint(r.out, ui.Paint(ui.ColorPrimary(), ">>> "))

		var res readResult
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		case res = <-lines:
		}

		if res.err != nil {
			if !errors.Is(res.err, io.EOF) {
				fmt.Fprintln(r.out, ui.Paint(ui.ColorError(), fmt.Sprintf("Read error: %v", res.err)))
			}
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}

		input := strings.TrimSpace(res.line)
		if input != "" && !r.processCommand(ctx, input) {
			return
		}
		if ctx.Err() != nil {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
		next <- struct{}{}
	}
}

// readLines sends one line per request on next, so no input is consumed
// after Start returns.
func (r *REPL) readLines(ctx context.Context, lines chan<- readResult, next <-chan struct{}) {
	reader := bufio.NewReader(r.in)
	for {
		line, err := reader.ReadString('\n')
		if err != nil && line != "" && errors.Is(err, io.EOF) {
			// Final line without a trailing newline.
			err = nil
		}
		select {
		case lines <- readResult{line: line, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
		if _, ok := <-next; !ok {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "%s%s interactive prompt%s (Lua)\n", ui.ColorBold(), r.module.Name(), ui.ColorReset())
	fmt.Fprintf(r.out, "%sThe module is loaded as the global %q.%s\n", ui.ColorInfo(), r.module.Name(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %s<lua expression>%s   - Evaluate Lua, e.g. %s.add(2, 3)\n", ui.ColorWarning(), ui.ColorReset(), r.module.Name())
	fmt.Fprintf(r.out, "  %s<function> <args>%s  - Call a module function directly, e.g. fibonacci 10\n", ui.ColorWarning(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %slist%s               - List module functions\n", ui.ColorWarning(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s               - Display this help\n", ui.ColorWarning(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s        - Exit interactive mode\n", ui.ColorWarning(), ui.ColorReset(), ui.ColorWarning(), ui.ColorReset())
}

// processCommand handles one input line. Returns false if the REPL should exit.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)

	switch strings.ToLower(input) {
	case "help", "?":
		r.printHelp()
		return true
	case "list", "ls":
		_ = DisplayFunctionList(r.out, r.module, OutputConfig{})
		return true
	case "exit", "quit":
		fmt.Fprintln(r.out, ui.Paint(ui.ColorSuccess(), "Goodbye!"))
		return false
	}

	if len(parts) > 1 && r.module.Has(parts[0]) && !strings.ContainsAny(input, "()") {
		_ = RunCall(ctx, r.module, parts[0], parts[1:], r.config.Timeout, OutputConfig{ShowDuration: r.config.ShowDuration}, r.out)
		return true
	}

	r.eval(ctx, input)
	return true
}

func (r *REPL) eval(ctx context.Context, line string) {
	start := time.Now()
	results, err := r.session.Eval(ctx, line)
	if err != nil {
		fmt.Fprintln(r.out, ui.Paint(ui.ColorError(), err.Error()))
		return
	}
	if len(results) > 0 {
		fmt.Fprintln(r.out, ui.Paint(ui.ColorSuccess(), strings.Join(results, "\t")))
	}
	if r.config.ShowDuration {
		fmt.Fprintf(r.out, "%s(%s)%s\n", ui.ColorSecondary(), time.Since(start), ui.ColorReset())
	}
}
