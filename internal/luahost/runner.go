package luahost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Shopify/go-lua"

	"github.com/agbru/pydemo/internal/binding"
	apperrors "github.com/agbru/pydemo/internal/errors"
	"github.com/agbru/pydemo/internal/logging"
)

// hookInstructionCount is how many VM instructions run between two
// cancellation checks.
const hookInstructionCount = 1000

// Runner executes Lua chunks against a binding module. Each run gets a fresh
// interpreter state; a Runner itself is safe for concurrent use.
type Runner struct {
	module  *binding.Module
	out     io.Writer
	timeout time.Duration
	logger  logging.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithOutput redirects the Lua print function (default os.Stdout).
func WithOutput(w io.Writer) RunnerOption {
	return func(r *Runner) { r.out = w }
}

// WithTimeout bounds the wall-clock time of a single run or evaluation.
// Zero disables the bound.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) { r.timeout = d }
}

// WithLogger sets the logger used for script lifecycle events. Without it
// the runner logs nothing.
func WithLogger(l logging.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// NewRunner creates a Runner exposing m to scripts.
func NewRunner(m *binding.Module, opts ...RunnerOption) *Runner {
	r := &Runner{module: m, out: os.Stdout, logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunString executes chunk as a script named "=(command line)".
func (r *Runner) RunString(ctx context.Context, chunk string) error {
	return r.run(ctx, "=(command line)", func(l *lua.State) error {
		return lua.LoadBuffer(l, chunk, "=(command line)", "")
	})
}

// RunFile executes the script stored at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	return r.run(ctx, path, func(l *lua.State) error {
		return lua.LoadFile(l, path, "")
	})
}

func (r *Runner) run(ctx context.Context, script string, load func(*lua.State) error) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	s := r.newSession(r.out)
	s.ctx = ctx

	start := time.Now()
	if err := load(s.l); err != nil {
		return apperrors.ScriptError{Script: script, Cause: err}
	}
	if err := s.l.ProtectedCall(0, 0, 0); err != nil {
		err = r.interpret(ctx, err)
		r.logger.Error("lua script failed", err, logging.String("script", script))
		return apperrors.ScriptError{Script: script, Cause: err}
	}
	r.logger.Debug("lua script completed",
		logging.String("script", script),
		logging.Duration("elapsed", time.Since(start)))
	return nil
}

func (r *Runner) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return context.WithCancel(ctx)
}

// interpret replaces an interpreter error caused by the hook with the
// context's own reason.
func (r *Runner) interpret(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.TimeoutError{Operation: "lua", Limit: r.timeout}
	case errors.Is(ctx.Err(), context.Canceled):
		return context.Canceled
	}
	return err
}

// Session is a long-lived interpreter state whose globals persist between
// evaluations, as in an interactive prompt. A Session is not safe for
// concurrent use.
type Session struct {
	runner *Runner
	l      *lua.State
	ctx    context.Context
}

// NewSession creates a session whose print output goes to out.
func (r *Runner) NewSession(out io.Writer) *Session {
	return r.newSession(out)
}

func (r *Runner) newSession(out io.Writer) *Session {
	s := &Session{runner: r, l: lua.NewState(), ctx: context.Background()}
	lua.OpenLibraries(s.l)
	s.l.Register("print", printTo(out))
	Open(s.l, r.module, func() context.Context { return s.ctx })
	lua.SetDebugHook(s.l, func(l *lua.State, _ lua.Debug) {
		if err := s.ctx.Err(); err != nil {
			lua.Errorf(l, "execution interrupted: %v", err)
		}
	}, lua.MaskCount, hookInstructionCount)
	return s
}

// Eval evaluates one line. An expression's values are returned formatted with
// Lua's tostring; a statement returns no values.
func (s *Session) Eval(ctx context.Context, line string) ([]string, error) {
	ctx, cancel := s.runner.withTimeout(ctx)
	defer cancel()
	s.ctx = ctx
	defer func() { s.ctx = context.Background() }()

	l := s.l
	base := l.Top()
	if err := lua.LoadBuffer(l, "return "+line, "=stdin", ""); err != nil {
		l.SetTop(base)
		if err := lua.LoadBuffer(l, line, "=stdin", ""); err != nil {
			l.SetTop(base)
			return nil, err
		}
	}
	if err := l.ProtectedCall(0, lua.MultipleReturns, 0); err != nil {
		l.SetTop(base)
		return nil, s.runner.interpret(ctx, err)
	}

	results := make([]string, 0, l.Top()-base)
	for i := base + 1; i <= l.Top(); i++ {
		results = append(results, tostring(l, i))
	}
	l.SetTop(base)
	return results, nil
}

func printTo(w io.Writer) lua.Function {
	return func(l *lua.State) int {
		n := l.Top()
		parts := make([]string, n)
		for i := 1; i <= n; i++ {
			parts[i-1] = tostring(l, i)
		}
		fmt.Fprintln(w, strings.Join(parts, "\t"))
		return 0
	}
}

// tostring formats the value at index the way Lua's tostring does, expanding
// array tables one level so sequences print readably.
func tostring(l *lua.State, index int) string {
	if l.TypeOf(index) == lua.TypeTable {
		if s, ok := arrayString(l, index); ok {
			return s
		}
	}
	top := l.Top()
	s, _ := lua.ToStringMeta(l, index)
	l.SetTop(top)
	return s
}

func arrayString(l *lua.State, index int) (string, bool) {
	index = l.AbsIndex(index)
	n := l.RawLength(index)
	if n == 0 {
		return "{}", true
	}
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		l.RawGetInt(index, i)
		if l.TypeOf(-1) == lua.TypeTable {
			l.Pop(1)
			return "", false
		}
		top := l.Top()
		s, _ := lua.ToStringMeta(l, -1)
		l.SetTop(top - 1)
		parts = append(parts, s)
	}
	return "{" + strings.Join(parts, ", ") + "}", true
}
