//go:generate mockgen -source=invoker.go -destination=mocks/mock_invoker.go -package=mocks

package server

import (
	"context"

	"github.com/agbru/pydemo/internal/binding"
)

// Invoker is the module surface the server needs. *binding.Module
// implements it.
type Invoker interface {
	// Name returns the module name used in routes.
	Name() string
	// Signatures describes the exported functions in registration order.
	Signatures() []binding.Signature
	// Call invokes a function by name.
	Call(ctx context.Context, name string, args ...any) (any, error)
}

var _ Invoker = (*binding.Module)(nil)
