package binding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agbru/pydemo/internal/calc"
	apperrors "github.com/agbru/pydemo/internal/errors"
)

// ModuleName is the host-visible name of the module.
const ModuleName = "rust_python_demo"

// Exported function names. They are part of the module's compatibility
// contract and must not change.
const (
	FuncAdd            = "add"
	FuncFibonacci      = "fibonacci"
	FuncFibonacciExact = "fibonacci_exact"
)

// OverflowPolicy selects what the module does when a result does not fit its
// native integer type.
type OverflowPolicy string

const (
	// PolicyWrap returns the wrapped two's-complement / modulo 2^64 result,
	// matching Go's built-in arithmetic.
	PolicyWrap OverflowPolicy = "wrap"
	// PolicyFail raises an OverflowError instead of returning a result.
	PolicyFail OverflowPolicy = "fail"
)

// ParseOverflowPolicy parses "wrap" or "fail" (case-insensitive).
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch p := OverflowPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyWrap, PolicyFail:
		return p, nil
	case "":
		return PolicyWrap, nil
	default:
		return "", fmt.Errorf("unknown overflow policy %q (want %q or %q)", s, PolicyWrap, PolicyFail)
	}
}

// DemoOptions configures the rust_python_demo module.
type DemoOptions struct {
	// Overflow is the overflow policy applied to both functions.
	Overflow OverflowPolicy
	// MaxTerms is the largest n fibonacci accepts; <= 0 means unbounded.
	MaxTerms int
	// Extensions adds fibonacci_exact, which returns decimal strings and never
	// overflows. The module exports exactly add and fibonacci without it.
	Extensions bool
}

// DefaultDemoOptions returns the wrap policy, no length guard and no
// extensions: every non-negative n is accepted.
func DefaultDemoOptions() DemoOptions {
	return DemoOptions{Overflow: PolicyWrap}
}
}

// AddSignature describes add(a, b).
func AddSignature() Signature {
	return Signature{
		Name:    FuncAdd,
		Params:  []Param{{Name: "a", Type: "integer"}, {Name: "b", Type: "integer"}},
		Returns: "integer",
		Doc:     "Return the sum of two signed 64-bit integers.",
	}
}

// FibonacciSignature describes fibonacci(n).
func FibonacciSignature() Signature {
	return Signature{
		Name:    FuncFibonacci,
		Params:  []Param{{Name: "n", Type: "non-negative integer"}},
		Returns: "sequence of non-negative integers",
		Doc:     "Return the first n Fibonacci numbers, starting 0, 1.",
	}
}

// FibonacciExactSignature describes fibonacci_exact(n).
func FibonacciExactSignature() Signature {
	return Signature{
		Name:    FuncFibonacciExact,
		Params:  []Param{{Name: "n", Type: "non-negative integer"}},
		Returns: "sequence of decimal strings",
		Doc:     "Return the first n Fibonacci numbers with arbitrary precision.",
	}
}

// NewDemoModule builds the rust_python_demo module. add is registered before
// fibonacci, so Names() always reports them in that order.
func NewDemoModule(opts DemoOptions, mw ...Middleware) (*Module, error) {
	if opts.Overflow == "" {
		opts.Overflow = PolicyWrap
	}
	if _, err := ParseOverflowPolicy(string(opts.Overflow)); err != nil {
		return nil, err
	}

	moduleOpts := []Option{
		WithMiddleware(mw...),
		WithFunction(AddSignature(), addFunction(opts.Overflow)),
		WithFunction(FibonacciSignature(), fibonacciFunction(opts.Overflow, opts.MaxTerms)),
	}
	if opts.Extensions {
		moduleOpts = append(moduleOpts, WithFunction(FibonacciExactSignature(), fibonacciExactFunction(opts.MaxTerms)))
	}
	return NewModule(ModuleName, moduleOpts...)
}

func addFunction(policy OverflowPolicy) Function {
	return func(_ context.Context, args []any) (any, error) {
		a, err := Int64Arg(FuncAdd, args, 0, "a")
		if err != nil {
			return nil, err
		}
		b, err := Int64Arg(FuncAdd, args, 1, "b")
		if err != nil {
			return nil, err
		}

		if policy == PolicyWrap {
			return calc.Add(a, b), nil
		}
		sum, err := calc.AddChecked(a, b)
		if err != nil {
			return nil, resultOverflow(FuncAdd, err, "%d + %d does not fit in a signed 64-bit integer", a, b)
		}
		return sum, nil
	}
}

func fibonacciFunction(policy OverflowPolicy, maxTerms int) Function {
	return func(_ context.Context, args []any) (any, error) {
		n, err := CountArg(FuncFibonacci, args, 0, "n", maxTerms)
		if err != nil {
			return nil, err
		}

		if policy == PolicyWrap {
			return calc.Fibonacci(n), nil
		}
		seq, err := calc.FibonacciChecked(n)
		if err != nil {
			return nil, resultOverflow(FuncFibonacci, err,
				"a sequence of %d terms exceeds the unsigned 64-bit range (at most %d terms)", n, calc.MaxExactTerms)
		}
		return seq, nil
	}
}

func fibonacciExactFunction(maxTerms int) Function {
	return func(_ context.Context, args []any) (any, error) {
		n, err := CountArg(FuncFibonacciExact, args, 0, "n", maxTerms)
		if err != nil {
			return nil, err
		}
		terms := calc.FibonacciExact(n)
		out := make([]string, len(terms))
		for i, t := range terms {
			out[i] = t.String()
		}
		return out, nil
	}
}

func resultOverflow(function string, cause error, format string, a ...any) error {
	if !errors.Is(cause, calc.ErrOverflow) {
		return cause
	}
	invErr := apperrors.NewInvocationError(apperrors.KindOverflow, function, format, a...)
	invErr.Cause = cause
	return invErr
}
