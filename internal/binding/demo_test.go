package binding

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/agbru/pydemo/internal/calc"
	apperrors "github.com/agbru/pydemo/internal/errors"
)

func newDemo(t *testing.T, opts DemoOptions) *Module {
	t.Helper()
	m, err := NewDemoModule(opts)
	if err != nil {
		t.Fatalf("NewDemoModule: %v", err)
	}
	return m
}

func TestNewDemoModule_NamingContract(t *testing.T) {
	t.Parallel()
	m := newDemo(t, DefaultDemoOptions())

	if m.Name() != "rust_python_demo" {
		t.Errorf("Name() = %q, want rust_python_demo", m.Name())
	}
	if got, want := m.Names(), []string{"add", "fibonacci"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	add, _ := m.Signature("add")
	if add.Params[0].Name != "a" || add.Params[1].Name != "b" {
		t.Errorf("add parameters = %+v, want a, b", add.Params)
	}
	fib, _ := m.Signature("fibonacci")
	if len(fib.Params) != 1 || fib.Params[0].Name != "n" {
		t.Errorf("fibonacci parameters = %+v, want n", fib.Params)
	}
}

func TestNewDemoModule_Extensions(t *testing.T) {
	t.Parallel()
	m := newDemo(t, DemoOptions{Extensions: true, MaxTerms: 200})
	if got, want := m.Names(), []string{"add", "fibonacci", "fibonacci_exact"}; !slices.Equal(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	got, err := m.Call(context.Background(), FuncFibonacciExact, 100)
	if err != nil {
		t.Fatalf("fibonacci_exact: %v", err)
	}
	terms := got.([]string)
	if terms[99] != "218922995834555169026" {
		t.Errorf("F(99) = %s, want 218922995834555169026", terms[99])
	}
}

func TestNewDemoModule_InvalidPolicy(t *testing.T) {
	t.Parallel()
	if _, err := NewDemoModule(DemoOptions{Overflow: "saturate"}); err == nil {
		t.Error("expected an error for an unknown overflow policy")
	}
}

func TestDemoModule_Add(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	wrap := newDemo(t, DefaultDemoOptions())
	fail := newDemo(t, DemoOptions{Overflow: PolicyFail})

	got, err := wrap.Call(ctx, "add", 2, 3)
	if err != nil || got != int64(5) {
		t.Fatalf("add(2, 3) = %v, %v; want 5", got, err)
	}

	got, err = wrap.Call(ctx, "add", int64(math.MaxInt64), 1)
	if err != nil || got != int64(math.MinInt64) {
		t.Errorf("wrap policy: add(max, 1) = %v, %v; want MinInt64", got, err)
	}

	_, err = fail.Call(ctx, "add", int64(math.MaxInt64), 1)
	if KindOf(err) != apperrors.KindOverflow || !errors.Is(err, calc.ErrOverflow) {
		t.Errorf("fail policy: add(max, 1) error = %v, want OverflowError wrapping ErrOverflow", err)
	}

	_, err = wrap.Call(ctx, "add", "1", 2)
	if KindOf(err) != apperrors.KindType {
		t.Errorf("add(\"1\", 2) error = %v, want TypeError", err)
	}

	_, err = wrap.Call(ctx, "add", 1)
	if KindOf(err) != apperrors.KindArgument {
		t.Errorf("add(1) error = %v, want ArgumentError", err)
	}
}

func TestDemoModule_Fibonacci(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := newDemo(t, DefaultDemoOptions())

	tests := []struct {
		n    any
		want []uint64
	}{
		{0, []uint64{}},
		{1, []uint64{0}},
		{2, []uint64{0, 1}},
		{10.0, []uint64{0, 1, 1, 2, 3, 5, 8, 13, 21, 34}},
	}
	for _, tt := range tests {
		got, err := m.Call(ctx, "fibonacci", tt.n)
		if err != nil {
			t.Fatalf("fibonacci(%v): %v", tt.n, err)
		}
		if !slices.Equal(got.([]uint64), tt.want) {
			t.Errorf("fibonacci(%v) = %v, want %v", tt.n, got, tt.want)
		}
	}

	if _, err := m.Call(ctx, "fibonacci", -1); KindOf(err) != apperrors.KindOverflow {
		t.Errorf("fibonacci(-1) error = %v, want OverflowError", err)
	}
	bounded := newDemo(t, DemoOptions{MaxTerms: 100})
	if _, err := bounded.Call(ctx, "fibonacci", 101); KindOf(err) != apperrors.KindValue {
		t.Errorf("fibonacci(max+1) error = %v, want ValueError", err)
	}
}

func TestDemoModule_DefaultIsUnbounded(t *testing.T) {
	t.Parallel()
	m := newDemo(t, DefaultDemoOptions())
	got, err := m.Call(context.Background(), "fibonacci", 10_001)
	if err != nil {
		t.Fatalf("fibonacci(10001): %v", err)
	}
	if seq := got.([]uint64); len(seq) != 10_001 {
		t.Errorf("len = %d, want 10001", len(seq))
	}
}

func TestDemoModule_FibonacciOverflowPolicy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	n := calc.MaxExactTerms + 1

	wrap := newDemo(t, DefaultDemoOptions())
	got, err := wrap.Call(ctx, "fibonacci", n)
	if err != nil {
		t.Fatalf("wrap policy: %v", err)
	}
	if len(got.([]uint64)) != n {
		t.Errorf("wrap policy returned %d terms, want %d", len(got.([]uint64)), n)
	}

	fail := newDemo(t, DemoOptions{Overflow: PolicyFail, MaxTerms: 1000})
	if _, err := fail.Call(ctx, "fibonacci", calc.MaxExactTerms); err != nil {
		t.Errorf("fail policy at the exact limit: %v", err)
	}
	if _, err := fail.Call(ctx, "fibonacci", n); KindOf(err) != apperrors.KindOverflow {
		t.Errorf("fail policy beyond the limit: error = %v, want OverflowError", err)
	}
}

func TestParseOverflowPolicy(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    OverflowPolicy
		wantErr bool
	}{
		{"", PolicyWrap, false},
		{"wrap", PolicyWrap, false},
		{" FAIL ", PolicyFail, false},
		{"panic", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOverflowPolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOverflowPolicy(%q) = %q, %v", tt.in, got, err)
		}
	}
}
