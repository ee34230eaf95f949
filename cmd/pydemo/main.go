package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/pydemo/internal/app"
	apperrors "github.com/agbru/pydemo/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitCodeFor(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := application.Run(ctx, os.Stdout)
	stop()
	os.Exit(exitCode)
}
