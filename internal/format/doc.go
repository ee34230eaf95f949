// Package format renders module call results and durations for display, and
// converts command-line tokens into call arguments.
package format
