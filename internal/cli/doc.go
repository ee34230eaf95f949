// Package cli implements pydemo's line-oriented commands: calling a module
// function, listing the module, running Lua scripts, the interactive prompt
// and shell completion.
//
// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a formatted string without performing I/O.
//   - Run* functions execute a command and return its error.
package cli
