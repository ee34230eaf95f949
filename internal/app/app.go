package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/agbru/pydemo/internal/binding"
	"github.com/agbru/pydemo/internal/cli"
	"github.com/agbru/pydemo/internal/config"
	apperrors "github.com/agbru/pydemo/internal/errors"
	"github.com/agbru/pydemo/internal/logging"
	"github.com/agbru/pydemo/internal/luahost"
	"github.com/agbru/pydemo/internal/metrics"
	"github.com/agbru/pydemo/internal/server"
	"github.com/agbru/pydemo/internal/ui"
)

// Application represents the pydemo application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	Stdin     io.Reader

	logger   logging.Logger
	registry *prometheus.Registry
	module   *binding.Module
	runner   *luahost.Runner
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithStdin sets the reader used by the lua and repl commands.
func WithStdin(r io.Reader) AppOption {
	return func(a *Application) { a.Stdin = r }
}

// WithRegistry shares a Prometheus registry with the caller.
func WithRegistry(reg *prometheus.Registry) AppOption {
	return func(a *Application) { a.registry = reg }
}

// New creates a new Application by parsing command-line arguments. args[0]
// is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, Stdin: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}

	programName := "pydemo"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the configured command and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	err := a.run(ctx, out)
	if err != nil && !reported(err) {
		fmt.Fprintln(a.ErrWriter, cli.FormatError(err))
	}
	return apperrors.ExitCodeFor(err)
}

func (a *Application) run(ctx context.Context, out io.Writer) error {
	f, _ := out.(*os.File)
	ui.InitTheme(a.Config.NoColor || f == nil, f)

	if err := a.setup(out); err != nil {
		return err
	}

	outputCfg := cli.OutputConfig{JSON: a.Config.JSON}
	switch a.Config.Command {
	case config.CmdCall:
		err := cli.RunCall(ctx, a.module, a.Config.Args[0], a.Config.Args[1:], a.Config.Timeout, outputCfg, out)
		return markReported(err)
	case config.CmdList:
		return cli.DisplayFunctionList(out, a.module, outputCfg)
	case config.CmdLua:
		return cli.RunLua(ctx, a.runner, a.Config.Args, a.Stdin, a.ErrWriter)
	case config.CmdREPL:
		return a.runREPL(ctx, out)
	case config.CmdTUI:
		return a.runTUI(ctx)
	case config.CmdServe:
		return a.runServe(ctx)
	case config.CmdCompletion:
		return a.runCompletion(out)
	}
	return apperrors.NewConfigError("unknown command %q", a.Config.Command)
}

// setup builds the logger, the metrics registry, the module and the Lua
// runner shared by every command.
func (a *Application) setup(out io.Writer) error {
	level, err := logging.ParseLevel(a.Config.LogLevel)
	if err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if a.Config.Command == config.CmdTUI {
		level = zerolog.Disabled
	}
	zerolog.SetGlobalLevel(level)
	a.logger = logging.NewLogger(a.ErrWriter, "pydemo")

	if a.registry == nil {
		a.registry = metrics.NewRegistry()
	}
	invocations := metrics.NewInvocations(a.registry)

	// Outermost first: recovery sits innermost so a panic is seen by the
	// other layers as a RuntimeError.
	m, err := binding.NewDemoModule(a.Config.DemoOptions(),
		binding.TracingMiddleware(binding.ModuleName),
		invocations.Middleware(binding.ModuleName),
		binding.LoggingMiddleware(a.logger),
		binding.RecoverMiddleware(),
	)
	if err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	a.module = m

	a.runner = luahost.NewRunner(m,
		luahost.WithOutput(out),
		luahost.WithTimeout(a.Config.Timeout),
		luahost.WithLogger(a.logger),
	)
	return nil
}

func (a *Application) runServe(ctx context.Context) error {
	srv := server.NewServer(a.module, server.Config{
		Addr:             a.Config.Addr,
		Timeout:          a.Config.Timeout,
		BatchConcurrency: a.Config.BatchConcurrency,
		Security:         server.DefaultSecurityConfig(),
	},
		server.WithLogger(a.logger),
		server.WithMetrics(server.NewMetrics(a.registry)),
	)
	err := srv.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *Application) runCompletion(out io.Writer) error {
	if err := cli.GenerateCompletion(out, a.Config.Args[0], a.module.Names()); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	return nil
}

// reportedError marks an error the command already displayed.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

func markReported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err}
}

func reported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
