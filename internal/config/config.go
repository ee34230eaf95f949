// Package config parses pydemo's command line and environment into an
// AppConfig.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/agbru/pydemo/internal/binding"
	apperrors "github.com/agbru/pydemo/internal/errors"
	"github.com/agbru/pydemo/internal/logging"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "PYDEMO_"

// Commands understood by the application.
const (
	CmdCall       = "call"
	CmdList       = "list"
	CmdLua        = "lua"
	CmdREPL       = "repl"
	CmdTUI        = "tui"
	CmdServe      = "serve"
	CmdCompletion = "completion"
)

// Commands lists every command in help order.
var Commands = []string{CmdCall, CmdList, CmdLua, CmdREPL, CmdTUI, CmdServe, CmdCompletion}

// Default values.
const (
	DefaultAddr     = ":8080"
	DefaultTimeout  = 30 * time.Second
	DefaultLogLevel = "info"

	// DefaultServeMaxTerms bounds fibonacci's n for "serve" when --max-terms
	// is not given, so a single request cannot exhaust memory.
	DefaultServeMaxTerms = 10_000
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Command is the command to run (call, list, lua, ...).
	Command string
	// Args are the command's positional arguments.
	Args []string

	// Overflow is the module overflow policy, "wrap" or "fail".
	Overflow string
	// MaxTerms bounds the n accepted by fibonacci; 0 means unbounded.
	MaxTerms int
	// Extensions registers fibonacci_exact in the module.
	Extensions bool

	// JSON prints results as JSON instead of host-style text.
	JSON bool
	// NoColor disables colored output.
	NoColor bool
	// LogLevel is the zerolog level name.
	LogLevel string

	// Addr is the listen address for serve.
	Addr string
	// Timeout bounds a script run, an HTTP request or a single call.
	Timeout time.Duration
	// BatchConcurrency bounds concurrent calls within one batch request.
	BatchConcurrency int
}

// DemoOptions converts the module-related settings for binding.NewDemoModule.
// Validate must have succeeded first.
func (c AppConfig) DemoOptions() binding.DemoOptions {
	policy, _ := binding.ParseOverflowPolicy(c.Overflow)
	return binding.DemoOptions{Overflow: policy, MaxTerms: c.MaxTerms, Extensions: c.Extensions}
}

// Validate checks the configuration for values no command can work with.
func (c AppConfig) Validate() error {
	if _, err := binding.ParseOverflowPolicy(c.Overflow); err != nil {
		return apperrors.NewConfigError("invalid --overflow: %v", err)
	}
	if c.MaxTerms < 0 {
		return apperrors.NewConfigError("--max-terms must not be negative, got %d", c.MaxTerms)
	}
	if c.Timeout < 0 {
		return apperrors.NewConfigError("--timeout must not be negative, got %s", c.Timeout)
	}
	if c.BatchConcurrency <= 0 {
		return apperrors.NewConfigError("--batch-concurrency must be positive, got %d", c.BatchConcurrency)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("invalid --log-level: %v", err)
	}
	switch c.Command {
	case "":
		return apperrors.NewConfigError("no command given (want one of %v)", Commands)
	case CmdCall:
		if len(c.Args) == 0 {
			return apperrors.NewConfigError("call requires a function name")
		}
	case CmdCompletion:
		if len(c.Args) != 1 {
			return apperrors.NewConfigError("completion requires exactly one shell name")
		}
	case CmdList, CmdLua, CmdREPL, CmdTUI, CmdServe:
	default:
		return apperrors.NewConfigError("unknown command %q (want one of %v)", c.Command, Commands)
	}
	return nil
}

// ParseConfig parses command-line arguments, applies PYDEMO_ environment
// overrides for flags that were not set explicitly, and validates the result.
// Priority is: CLI flags > environment variables > defaults.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	fs.StringVar(&config.Overflow, "overflow", string(binding.PolicyWrap), "Overflow policy for add and fibonacci: 'wrap' or 'fail'.")
	fs.IntVar(&config.MaxTerms, "max-terms", 0, "Largest n accepted by fibonacci (0 is unbounded; 'serve' defaults to 10000).")
	fs.BoolVar(&config.Extensions, "extensions", false, "Also export fibonacci_exact (arbitrary precision).")
	fs.BoolVar(&config.JSON, "json", false, "Print results as JSON.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also honors NO_COLOR).")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error, disabled.")
	fs.StringVar(&config.Addr, "addr", DefaultAddr, "Listen address for 'serve'.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Time limit for a script, request or call (0 disables).")
	fs.IntVar(&config.BatchConcurrency, "batch-concurrency", EstimateBatchConcurrency(), "Concurrent calls per batch request.")

	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [flags] <command> [args]\n\n", programName)
		fmt.Fprintf(errorWriter, "Commands:\n")
		fmt.Fprintf(errorWriter, "  call <function> [args...]   Call a module function (add, fibonacci)\n")
		fmt.Fprintf(errorWriter, "  list                        List the functions exported by rust_python_demo\n")
		fmt.Fprintf(errorWriter, "  lua [-e chunk] [file]       Run Lua code with the module preloaded\n")
		fmt.Fprintf(errorWriter, "  repl                        Interactive Lua prompt\n")
		fmt.Fprintf(errorWriter, "  tui                         Interactive terminal console\n")
		fmt.Fprintf(errorWriter, "  serve                       Serve the module over HTTP\n")
		fmt.Fprintf(errorWriter, "  completion <shell>          Print a shell completion script\n\n")
		fmt.Fprintf(errorWriter, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}

	if err := applyEnvOverrides(&config, fs); err != nil {
		return AppConfig{}, err
	}

	if rest := fs.Args(); len(rest) > 0 {
		config.Command = rest[0]
		config.Args = rest[1:]
	}
	if config.Command == CmdServe && !maxTermsExplicit(fs) {
		config.MaxTerms = DefaultServeMaxTerms
	}

	if err := config.Validate(); err != nil {
		fmt.Fprintf(errorWriter, "Error: %v\n\n", err)
		fs.Usage()
		return AppConfig{}, err
	}
	return config, nil
}
