package binding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/agbru/pydemo/internal/errors"
	"github.com/agbru/pydemo/internal/logging"
)

// Middleware wraps a Function to add cross-cutting behavior. Middleware
// executes in FIFO order (first registered wraps first, onion model). Use
// FunctionNameFrom to learn which function is being invoked.
type Middleware func(next Function) Function

// tracerName identifies spans emitted by this package.
const tracerName = "github.com/agbru/pydemo/internal/binding"

// RecoverMiddleware converts a panic inside a function into a RuntimeError
// instead of crashing the host.
func RecoverMiddleware() Middleware {
	return func(next Function) Function {
		return func(ctx context.Context, args []any) (result any, err error) {
			defer func() {
				if r := recover(); r != nil {
					result = nil
					err = apperrors.NewInvocationError(apperrors.KindRuntime,
						FunctionNameFrom(ctx), "panic: %v", r)
				}
			}()
			return next(ctx, args)
		}
	}
}

// LoggingMiddleware logs every invocation at debug level. Failures caused by
// the caller's arguments stay at debug level; RuntimeError is logged as an
// error.
func LoggingMiddleware(logger logging.Logger) Middleware {
	return func(next Function) Function {
		return func(ctx context.Context, args []any) (any, error) {
			name := FunctionNameFrom(ctx)
			start := time.Now()
			result, err := next(ctx, args)
			elapsed := time.Since(start)
			if err != nil {
				kind := KindOf(err)
				if kind == apperrors.KindRuntime {
					logger.Error("module function failed", err,
						logging.String("function", name),
						logging.Duration("elapsed", elapsed))
				} else {
					logger.Debug("module function rejected call",
						logging.String("function", name),
						logging.String("kind", string(kind)),
						logging.Err(err))
				}
				return result, err
			}
			logger.Debug("module function completed",
				logging.String("function", name),
				logging.Int("args", len(args)),
				logging.Duration("elapsed", elapsed))
			return result, nil
		}
	}
}

// TracingMiddleware starts an OpenTelemetry span per invocation using the
// globally registered tracer provider.
func TracingMiddleware(moduleName string) Middleware {
	tracer := otel.Tracer(tracerName)
	return func(next Function) Function {
		return func(ctx context.Context, args []any) (any, error) {
			name := FunctionNameFrom(ctx)
			ctx, span := tracer.Start(ctx, fmt.Sprintf("%s.%s", moduleName, name))
			defer span.End()
			span.SetAttributes(
				attribute.String("binding.module", moduleName),
				attribute.String("binding.function", name),
				attribute.Int("binding.args", len(args)),
			)

			result, err := next(ctx, args)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				span.SetAttributes(attribute.String("binding.error_kind", string(KindOf(err))))
			}
			return result, err
		}
	}
}

// KindOf returns the invocation kind of err, or KindRuntime for errors that
// did not originate in the binding layer.
func KindOf(err error) apperrors.InvocationKind {
	var invErr *apperrors.InvocationError
	if errors.As(err, &invErr) {
		return invErr.Kind
	}
	return apperrors.KindRuntime
}
