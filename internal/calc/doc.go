// Package calc implements the two numeric functions exported by the
// rust_python_demo module: integer addition and Fibonacci sequence
// generation.
//
// The functions are pure and carry no knowledge of any host runtime. Both
// follow Go's native overflow semantics (two's-complement wrap for Add,
// modular uint64 arithmetic for Fibonacci). Callers that need overflow to be
// reported instead use AddChecked and FibonacciChecked, which return
// ErrOverflow. FibonacciExact produces the sequence without any bound.
package calc
