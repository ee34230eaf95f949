package cli

import (
	"context"
	"flag"
	"io"

	apperrors "github.com/agbru/pydemo/internal/errors"
	"github.com/agbru/pydemo/internal/luahost"
)

// RunLua implements "pydemo lua [-e chunk] [file]". With neither a chunk nor
// a file, the script is read from in.
func RunLua(ctx context.Context, runner *luahost.Runner, args []string, in io.Reader, errOut io.Writer) error {
	fs := flag.NewFlagSet("lua", flag.ContinueOnError)
	fs.SetOutput(errOut)
	chunk := fs.String("e", "", "Execute the given Lua chunk.")
	if err := fs.Parse(args); err != nil {
		return apperrors.NewConfigError("lua: %v", err)
	}

	rest := fs.Args()
	switch {
	case *chunk != "" && len(rest) > 0:
		return apperrors.NewConfigError("lua: -e and a script file are mutually exclusive")
	case len(rest) > 1:
		return apperrors.NewConfigError("lua: at most one script file, got %d", len(rest))
	case *chunk != "":
		return runner.RunString(ctx, *chunk)
	case len(rest) == 1 && rest[0] != "-":
		return runner.RunFile(ctx, rest[0])
	}

	src, err := io.ReadAll(in)
	if err != nil {
		return apperrors.WrapError(err, "lua: reading script from stdin")
	}
	return runner.RunString(ctx, string(src))
}
