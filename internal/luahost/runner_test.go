package luahost

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/agbru/pydemo/internal/binding"
	apperrors "github.com/agbru/pydemo/internal/errors"
	"github.com/agbru/pydemo/internal/logging"
)

func newTestRunner(t *testing.T, out io.Writer, opts ...RunnerOption) *Runner {
	t.Helper()
	m, err := binding.NewDemoModule(binding.DefaultDemoOptions())
	if err != nil {
		t.Fatalf("NewDemoModule: %v", err)
	}
	quiet := logging.NewStdLoggerAdapter(log.New(io.Discard, "", 0))
	return NewRunner(m, append([]RunnerOption{WithOutput(out), WithLogger(quiet)}, opts...)...)
}

func TestRunner_RunString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		chunk string
		want  string
	}{
		{
			name:  "require returns the module",
			chunk: `local demo = require("rust_python_demo"); print(demo.add(2, 3))`,
			want:  "5\n",
		},
		{
			name:  "module is also a global",
			chunk: `print(rust_python_demo.add(-4, 1))`,
			want:  "-3\n",
		},
		{
			name:  "fibonacci returns a 1-based array",
			chunk: `local s = rust_python_demo.fibonacci(10); print(#s, s[1], s[2], s[10])`,
			want:  "10\t0\t1\t34\n",
		},
		{
			name:  "empty sequence",
			chunk: `print(#rust_python_demo.fibonacci(0))`,
			want:  "0\n",
		},
		{
			name:  "terms beyond 2^53 are decimal strings",
			chunk: `local s = rust_python_demo.fibonacci(94); print(type(s[79]), type(s[80]), s[94])`,
			want:  "number\tstring\t12200160415121876738\n",
		},
		{
			name:  "invocation errors are catchable",
			chunk: `local ok, err = pcall(rust_python_demo.fibonacci, -1); print(ok, err)`,
			want:  "false\tOverflowError: fibonacci(): argument \"n\" must be non-negative, got -1\n",
		},
		{
			name:  "strings are not coerced",
			chunk: `print(pcall(rust_python_demo.add, "1", 2))`,
			want:  "false\tTypeError: add(): argument \"a\" must be an integer, got string\n",
		},
		{
			name:  "tables report their Lua type",
			chunk: `print(pcall(rust_python_demo.add, {}, 2))`,
			want:  "false\tTypeError: add(): argument \"a\" must be an integer, got table\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			r := newTestRunner(t, &out)
			if err := r.RunString(context.Background(), tt.chunk); err != nil {
				t.Fatalf("RunString: %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRunner_RunString_Errors(t *testing.T) {
	t.Parallel()

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()
		r := newTestRunner(t, io.Discard)
		err := r.RunString(context.Background(), "local = 1")
		var scriptErr apperrors.ScriptError
		if !errors.As(err, &scriptErr) {
			t.Fatalf("error = %v, want ScriptError", err)
		}
	})

	t.Run("uncaught invocation error", func(t *testing.T) {
		t.Parallel()
		r := newTestRunner(t, io.Discard)
		err := r.RunString(context.Background(), "rust_python_demo.add(1)")
		if err == nil || !strings.Contains(err.Error(), "ArgumentError") {
			t.Errorf("error = %v, want ArgumentError", err)
		}
	})

	t.Run("timeout interrupts infinite loops", func(t *testing.T) {
		t.Parallel()
		r := newTestRunner(t, io.Discard, WithTimeout(50*time.Millisecond))
		err := r.RunString(context.Background(), "while true do end")
		var timeoutErr apperrors.TimeoutError
		if !errors.As(err, &timeoutErr) {
			t.Fatalf("error = %v, want TimeoutError", err)
		}
		if apperrors.ExitCodeFor(err) != apperrors.ExitErrorTimeout {
			t.Errorf("exit code = %d, want %d", apperrors.ExitCodeFor(err), apperrors.ExitErrorTimeout)
		}
	})

	t.Run("cancellation", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := newTestRunner(t, io.Discard)
		err := r.RunString(ctx, "for i = 1, 1e9 do end")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestRunner_RunFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "demo.lua")
	script := `
local demo = require("rust_python_demo")
local total = 0
for _, v in ipairs(demo.fibonacci(10)) do
  total = demo.add(total, v)
end
print(total)
`
	if err := os.WriteFile(path, []byte(script), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := newTestRunner(t, &out).RunFile(context.Background(), path); err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "88" {
		t.Errorf("sum of first 10 Fibonacci numbers = %q, want 88", got)
	}

	err := newTestRunner(t, io.Discard).RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua"))
	if err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestSession_Eval(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	s := newTestRunner(t, &out).NewSession(&out)
	ctx := context.Background()

	got, err := s.Eval(ctx, "rust_python_demo.add(40, 2)")
	if err != nil || !slices.Equal(got, []string{"42"}) {
		t.Fatalf("Eval(add) = %v, %v; want [42]", got, err)
	}

	got, err = s.Eval(ctx, "rust_python_demo.fibonacci(5)")
	if err != nil || !slices.Equal(got, []string{"{0, 1, 1, 2, 3}"}) {
		t.Fatalf("Eval(fibonacci) = %v, %v", got, err)
	}

	if _, err := s.Eval(ctx, "x = rust_python_demo.add(1, 1)"); err != nil {
		t.Fatalf("Eval(statement): %v", err)
	}
	got, err = s.Eval(ctx, "x, x * 2")
	if err != nil || !slices.Equal(got, []string{"2", "4"}) {
		t.Errorf("globals should persist: got %v, %v", got, err)
	}

	if _, err := s.Eval(ctx, "rust_python_demo.nope()"); err == nil {
		t.Error("calling a missing function should fail")
	}
	if _, err := s.Eval(ctx, "1 +"); err == nil {
		t.Error("syntax errors should be reported")
	}
}

// Not parallel: replaces os.Stderr for the duration of the test.
func TestNewRunner_DefaultLoggerIsSilent(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	stderr := os.Stderr
	os.Stderr = w
	t.Cleanup(func() { os.Stderr = stderr })

	m, err := binding.NewDemoModule(binding.DefaultDemoOptions())
	if err != nil {
		t.Fatalf("NewDemoModule: %v", err)
	}
	runner := NewRunner(m, WithOutput(io.Discard))
	ctx := context.Background()
	if err := runner.RunString(ctx, "print(fibonacci(10)[10])"); err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if err := runner.RunString(ctx, "error('boom')"); err == nil {
		t.Fatal("RunString of a failing script returned nil")
	}

	os.Stderr = stderr
	w.Close()
	logged, _ := io.ReadAll(r)
	if len(logged) != 0 {
		t.Errorf("default runner wrote to stderr: %s", logged)
	}
}
