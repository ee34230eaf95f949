package app

import (
	"context"
	"io"

	"github.com/agbru/pydemo/internal/cli"
	"github.com/agbru/pydemo/internal/tui"
)

// runREPL starts the line-oriented prompt on Stdin.
func (a *Application) runREPL(ctx context.Context, out io.Writer) error {
	repl := cli.NewREPL(a.module, a.runner, cli.REPLConfig{
		Timeout:      a.Config.Timeout,
		ShowDuration: !a.Config.JSON,
	})
	repl.SetInput(a.Stdin)
	repl.SetOutput(out)
	repl.Start(ctx)
	return nil
}

// runTUI launches the full-screen console.
func (a *Application) runTUI(ctx context.Context) error {
	err := tui.Run(ctx, a.module, a.runner, a.Config.Timeout, Version)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
