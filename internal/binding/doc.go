// Package binding is the registration adapter between the pure functions in
// package calc and whatever host runtime calls them.
//
// A Module is an immutable, named table of functions. Each function receives
// its arguments as host-neutral Go values ([]any) and returns a Go value; the
// helpers in args.go convert those values to native types and report
// mismatches as *apperrors.InvocationError, the way a dynamic host runtime
// raises TypeError or OverflowError. Hosts (the Lua interpreter, the HTTP
// transport, the CLI) only ever talk to a Module, never to calc directly.
//
// NewDemoModule builds the rust_python_demo module with its two functions,
// add and fibonacci, registered in that order.
package binding
