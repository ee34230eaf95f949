package binding

import (
	"context"
	"fmt"

	apperrors "github.com/agbru/pydemo/internal/errors"
)

// Function is the host-facing calling convention of a module function.
// args holds one host value per declared parameter.
type Function func(ctx context.Context, args []any) (any, error)

// Param describes one positional parameter.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Signature describes an exported function.
type Signature struct {
	Name    string  `json:"name"`
	Params  []Param `json:"params"`
	Returns string  `json:"returns"`
	Doc     string  `json:"doc,omitempty"`
}

// String renders the signature as "name(a: integer, b: integer) -> integer".
func (s Signature) String() string {
	params := ""
	for i, p := range s.Params {
		if i > 0 {
			params += ", "
		}
		params += p.Name + ": " + p.Type
	}
	return fmt.Sprintf("%s(%s) -> %s", s.Name, params, s.Returns)
}

// Module is an immutable collection of named functions. Once created via
// NewModule, functions cannot be added or removed, so lookups need no locking
// and a Module may be shared by any number of goroutines.
type Module struct {
	name    string
	order   []string
	entries map[string]entry
}

type entry struct {
	sig Signature
	fn  Function
}

// moduleBuilder accumulates configuration during module construction.
type moduleBuilder struct {
	order      []string
	entries    map[string]entry
	middleware []Middleware
	errors     []error
}

// Option configures a Module under construction.
type Option func(*moduleBuilder)

// NewModule creates an immutable Module named name.
// Functions keep the order in which they were registered. Returns an error if
// the module name is empty or a function name is empty or registered twice.
//
// Example usage:
//
//	m, err := NewModule("rust_python_demo",
//	    WithMiddleware(RecoverMiddleware()),
//	    WithFunction(AddSignature(), addFn),
//	)
func NewModule(name string, opts ...Option) (*Module, error) {
	if name == "" {
		return nil, fmt.Errorf("module name cannot be empty")
	}

	b := &moduleBuilder{entries: make(map[string]entry)}
	for _, opt := range opts {
		opt(b)
	}
	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	// Middleware applies in FIFO order: the first one registered is outermost.
	entries := make(map[string]entry, len(b.entries))
	for fname, e := range b.entries {
		wrapped := checkArity(e.sig, e.fn)
		for i := len(b.middleware) - 1; i >= 0; i-- {
			wrapped = b.middleware[i](wrapped)
		}
		entries[fname] = entry{sig: e.sig, fn: wrapped}
	}

	return &Module{name: name, order: b.order, entries: entries}, nil
}

// WithFunction registers fn under sig.Name.
func WithFunction(sig Signature, fn Function) Option {
	return func(b *moduleBuilder) {
		switch {
		case sig.Name == "":
			b.errors = append(b.errors, fmt.Errorf("function name cannot be empty"))
		case fn == nil:
			b.errors = append(b.errors, fmt.Errorf("function %q has no implementation", sig.Name))
		default:
			if _, exists := b.entries[sig.Name]; exists {
				b.errors = append(b.errors, fmt.Errorf("duplicate function name: %q", sig.Name))
				return
			}
			b.entries[sig.Name] = entry{sig: sig, fn: fn}
			b.order = append(b.order, sig.Name)
		}
	}
}

// WithMiddleware adds middleware applied to every function of the module.
func WithMiddleware(mw ...Middleware) Option {
	return func(b *moduleBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// Names returns the exported function names in registration order.
func (m *Module) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Has reports whether the module exports a function called name.
func (m *Module) Has(name string) bool {
	_, ok := m.entries[name]
	return ok
}

// Signature returns the signature of the named function.
func (m *Module) Signature(name string) (Signature, bool) {
	e, ok := m.entries[name]
	return e.sig, ok
}

// Signatures returns every signature in registration order.
func (m *Module) Signatures() []Signature {
	out := make([]Signature, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.entries[name].sig)
	}
	return out
}

// Call invokes the named function with host values. Any failure is reported
// as an *apperrors.InvocationError.
func (m *Module) Call(ctx context.Context, name string, args ...any) (any, error) {
	e, ok := m.entries[name]
	if !ok {
		return nil, apperrors.NewInvocationError(apperrors.KindName,
			"", "module %q has no function %q", m.name, name)
	}
	return e.fn(withFunctionName(ctx, name), args)
}

func checkArity(sig Signature, fn Function) Function {
	return func(ctx context.Context, args []any) (any, error) {
		if want := len(sig.Params); len(args) != want {
			return nil, apperrors.NewInvocationError(apperrors.KindArgument, sig.Name,
				"takes %d positional argument%s but %d %s given",
				want, plural(want), len(args), wasWere(len(args)))
		}
		return fn(ctx, args)
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func wasWere(n int) string {
	if n == 1 {
		return "was"
	}
	return "were"
}

type functionNameKey struct{}

func withFunctionName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, functionNameKey{}, name)
}

// FunctionNameFrom returns the name of the module function being invoked, as
// seen from inside a Middleware. It returns "unknown" outside a call.
func FunctionNameFrom(ctx context.Context) string {
	if name, ok := ctx.Value(functionNameKey{}).(string); ok {
		return name
	}
	return "unknown"
}
