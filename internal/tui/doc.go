// Package tui implements "pydemo tui", an interactive bubbletea console over
// a binding module. Lines are evaluated as Lua (or as direct "fn args" calls)
// and results are kept in a scrollable history next to the module's
// function list and call statistics.
package tui
