package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess         = 0   // Indicates successful execution.
	ExitErrorGeneric    = 1   // Indicates a generic error.
	ExitErrorTimeout    = 2   // Indicates the operation timed out.
	ExitErrorConfig     = 4   // Indicates a configuration error.
	ExitErrorInvocation = 5   // Indicates a module function rejected its arguments.
	ExitErrorCanceled   = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
//
// Returns:
//   - string: The error message string.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// InvocationKind classifies a failed module function call the way a dynamic
// host runtime would report it to its caller.
type InvocationKind string

// Invocation error kinds.
const (
	// KindType reports an argument of the wrong type (a string where an
	// integer is expected, a fractional number, a boolean...).
	KindType InvocationKind = "TypeError"
	// KindValue reports an argument of the right type but an unacceptable
	// value, such as a negative sequence length.
	KindValue InvocationKind = "ValueError"
	// KindOverflow reports a value that does not fit the native integer type,
	// either as an argument or as a result.
	KindOverflow InvocationKind = "OverflowError"
	// KindArgument reports a call with the wrong number of arguments.
	KindArgument InvocationKind = "ArgumentError"
	// KindName reports a call to a function the module does not export.
	KindName InvocationKind = "NameError"
	// KindRuntime reports an unexpected failure inside the function.
	KindRuntime InvocationKind = "RuntimeError"
)

// InvocationError is returned when a host-facing call into a module function
// cannot be completed. It is the only error a host ever sees from the
// binding layer.
type InvocationError struct {
	// Kind is the host-level classification of the failure.
	Kind InvocationKind
	// Function is the exported name of the function being called.
	Function string
	// Message is a human-readable explanation.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns "<Kind>: <function>(): <message>".
func (e *InvocationError) Error() string {
	if e.Function == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s(): %s", e.Kind, e.Function, e.Message)
}

// Unwrap returns the underlying cause.
func (e *InvocationError) Unwrap() error { return e.Cause }

// NewInvocationError creates an InvocationError with a formatted message.
func NewInvocationError(kind InvocationKind, function, format string, a ...any) *InvocationError {
	return &InvocationError{Kind: kind, Function: function, Message: fmt.Sprintf(format, a...)}
}

// ScriptError wraps a failure raised while a host script was running.
type ScriptError struct {
	// Script names the chunk that failed (a file path or "=(command line)").
	Script string
	// Cause is the underlying error reported by the interpreter.
	Cause error
}

// Error returns the script name followed by the interpreter's message.
//
// Returns:
//   - string: The error message string.
func (e ScriptError) Error() string {
	return fmt.Sprintf("script %s: %v", e.Script, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
//
// Returns:
//   - error: The underlying cause of the ScriptError.
func (e ScriptError) Unwrap() error { return e.Cause }

// TimeoutError represents an operation timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
//
// Returns:
//   - string: The error message string.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
//
// Returns:
//   - string: The error message string.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error is a context error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error returned by a command to the process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		configErr     ConfigError
		validationErr ValidationError
		timeoutErr    TimeoutError
		invocationErr *InvocationError
	)
	switch {
	case errors.As(err, &configErr), errors.As(err, &validationErr):
		return ExitErrorConfig
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &invocationErr):
		return ExitErrorInvocation
	}
	return ExitErrorGeneric
}
