// Package logging provides a unified logging interface for pydemo.
// It abstracts the underlying logging implementation, allowing consistent logging
// across the binding layer, the hosts and the server while supporting multiple
// backends (zerolog and the standard library logger).
package logging
