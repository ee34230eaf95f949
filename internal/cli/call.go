package cli

import (
	"context"
	"io"
	"time"

	"github.com/agbru/pydemo/internal/binding"
	"github.com/agbru/pydemo/internal/format"
)

// RunCall invokes function on m with arguments parsed from tokens and
// displays the outcome. The returned error is the invocation error, if any,
// so the caller can derive the exit code; it has already been displayed.
func RunCall(ctx context.Context, m *binding.Module, function string, tokens []string, timeout time.Duration, cfg OutputConfig, out io.Writer) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := m.Call(ctx, function, format.ParseArgs(tokens)...)
	elapsed := time.Since(start)
	if err != nil {
		DisplayCallError(out, err, cfg)
		return err
	}
	return DisplayCallResult(out, function, result, elapsed, cfg)
}
