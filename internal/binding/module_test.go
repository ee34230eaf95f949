package binding

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	apperrors "github.com/agbru/pydemo/internal/errors"
)

func echoFunction(_ context.Context, args []any) (any, error) {
	return args, nil
}

func sig(name string, params ...string) Signature {
	s := Signature{Name: name, Returns: "any"}
	for _, p := range params {
		s.Params = append(s.Params, Param{Name: p, Type: "any"})
	}
	return s
}

func TestNewModule_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		module  string
		opts    []Option
		wantErr string
	}{
		{"empty module name", "", nil, "module name cannot be empty"},
		{"empty function name", "m", []Option{WithFunction(sig(""), echoFunction)}, "function name cannot be empty"},
		{"nil implementation", "m", []Option{WithFunction(sig("f"), nil)}, "has no implementation"},
		{
			"duplicate function",
			"m",
			[]Option{WithFunction(sig("f"), echoFunction), WithFunction(sig("f"), echoFunction)},
			"duplicate function name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewModule(tt.module, tt.opts...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("NewModule error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestModule_RegistrationOrder(t *testing.T) {
	t.Parallel()
	m, err := NewModule("m",
		WithFunction(sig("zeta"), echoFunction),
		WithFunction(sig("alpha"), echoFunction),
		WithFunction(sig("mid"), echoFunction),
	)
	if err != nil {
		t.Fatalf("NewModule: %v", err)
	}

	want := []string{"zeta", "alpha", "mid"}
	if got := m.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	names := m.Names()
	names[0] = "mutated"
	if m.Names()[0] != "zeta" {
		t.Error("Names() must return a copy")
	}

	sigs := m.Signatures()
	for i, s := range sigs {
		if s.Name != want[i] {
			t.Errorf("Signatures()[%d].Name = %q, want %q", i, s.Name, want[i])
		}
	}
}

func TestModule_Call(t *testing.T) {
	t.Parallel()
	m, err := NewModule("m", WithFunction(sig("pair", "a", "b"), echoFunction))
	if err != nil {
		t.Fatalf("NewModule: %v", err)
	}

	t.Run("dispatches by name", func(t *testing.T) {
		t.Parallel()
		got, err := m.Call(context.Background(), "pair", 1, "x")
		if err != nil {
			t.Fatalf("Call: %v", err)
		}
		if args := got.([]any); len(args) != 2 || args[0] != 1 || args[1] != "x" {
			t.Errorf("Call returned %v", got)
		}
	})

	t.Run("unknown name is a NameError", func(t *testing.T) {
		t.Parallel()
		_, err := m.Call(context.Background(), "missing")
		if KindOf(err) != apperrors.KindName {
			t.Errorf("kind = %s, want NameError (err=%v)", KindOf(err), err)
		}
		if m.Has("missing") {
			t.Error("Has(missing) = true")
		}
	})

	t.Run("wrong arity is an ArgumentError", func(t *testing.T) {
		t.Parallel()
		_, err := m.Call(context.Background(), "pair", 1)
		var invErr *apperrors.InvocationError
		if !errors.As(err, &invErr) || invErr.Kind != apperrors.KindArgument {
			t.Fatalf("err = %v, want ArgumentError", err)
		}
		want := "takes 2 positional arguments but 1 was given"
		if invErr.Message != want {
			t.Errorf("message = %q, want %q", invErr.Message, want)
		}
	})
}

func TestModule_MiddlewareOrder(t *testing.T) {
	t.Parallel()
	var trace []string
	record := func(label string) Middleware {
		return func(next Function) Function {
			return func(ctx context.Context, args []any) (any, error) {
				trace = append(trace, label+">"+FunctionNameFrom(ctx))
				res, err := next(ctx, args)
				trace = append(trace, "<"+label)
				return res, err
			}
		}
	}

	m, err := NewModule("m",
		WithMiddleware(record("outer")),
		WithMiddleware(record("inner")),
		WithFunction(sig("f"), echoFunction),
	)
	if err != nil {
		t.Fatalf("NewModule: %v", err)
	}
	if _, err := m.Call(context.Background(), "f"); err != nil {
		t.Fatalf("Call: %v", err)
	}

	want := []string{"outer>f", "inner>f", "<inner", "<outer"}
	if !slices.Equal(trace, want) {
		t.Errorf("trace = %v, want %v", trace, want)
	}
}

func TestFunctionNameFrom_OutsideCall(t *testing.T) {
	t.Parallel()
	if got := FunctionNameFrom(context.Background()); got != "unknown" {
		t.Errorf("FunctionNameFrom = %q, want unknown", got)
	}
}

func TestSignature_String(t *testing.T) {
	t.Parallel()
	if got, want := AddSignature().String(), "add(a: integer, b: integer) -> integer"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
