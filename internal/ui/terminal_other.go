//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package ui

// IsTerminal always reports true on platforms without termios; NO_COLOR and
// --no-color still disable colors there.
func IsTerminal(fd uintptr) bool { return true }
