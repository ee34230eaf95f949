package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agbru/pydemo/internal/binding"
	apperrors "github.com/agbru/pydemo/internal/errors"
	"github.com/agbru/pydemo/internal/format"
	"github.com/agbru/pydemo/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// JSON prints machine-readable objects instead of host-style text.
	JSON bool
	// ShowDuration appends the call duration to text output.
	ShowDuration bool
}

// callResultJSON is the --json form of a successful call.
type callResultJSON struct {
	Function string `json:"function"`
	Result   any    `json:"result"`
	Elapsed  string `json:"elapsed,omitempty"`
}

// callErrorJSON is the --json form of a failed call.
type callErrorJSON struct {
	Function string `json:"function,omitempty"`
	Error    string `json:"error"`
	Message  string `json:"message"`
}

// DisplayCallResult writes the result of a successful call.
func DisplayCallResult(out io.Writer, function string, result any, elapsed time.Duration, cfg OutputConfig) error {
	if cfg.JSON {
		payload := callResultJSON{Function: function, Result: format.JSONValue(result)}
		if cfg.ShowDuration {
			payload.Elapsed = elapsed.String()
		}
		return json.NewEncoder(out).Encode(payload)
	}

	fmt.Fprintln(out, ui.Paint(ui.ColorSuccess(), format.FormatValue(result)))
	if cfg.ShowDuration {
		fmt.Fprintf(out, "%s(%s)%s\n", ui.ColorSecondary(), format.FormatExecutionDuration(elapsed), ui.ColorReset())
	}
	return nil
}

// DisplayCallError writes a failed call the way a host reports an uncaught
// exception: "<Kind>: <message>".
func DisplayCallError(out io.Writer, err error, cfg OutputConfig) {
	var invErr *apperrors.InvocationError
	if cfg.JSON {
		payload := callErrorJSON{Error: string(binding.KindOf(err)), Message: err.Error()}
		if errors.As(err, &invErr) {
			payload.Function = invErr.Function
			payload.Message = invErr.Message
		}
		_ = json.NewEncoder(out).Encode(payload)
		return
	}
	fmt.Fprintln(out, ui.Paint(ui.ColorError(), FormatError(err)))
}

// FormatError renders an error for the terminal. Invocation errors keep their
// host-style form; anything else is prefixed with "error:".
func FormatError(err error) string {
	var invErr *apperrors.InvocationError
	if errors.As(err, &invErr) {
		return invErr.Error()
	}
	return "error: " + err.Error()
}

// DisplayFunctionList writes the module's exported functions in registration
// order.
func DisplayFunctionList(out io.Writer, m *binding.Module, cfg OutputConfig) error {
	sigs := m.Signatures()
	if cfg.JSON {
		return json.NewEncoder(out).Encode(struct {
			Module    string              `json:"module"`
			Functions []binding.Signature `json:"functions"`
		}{Module: m.Name(), Functions: sigs})
	}

	fmt.Fprintf(out, "%s%s%s\n", ui.ColorBold(), m.Name(), ui.ColorReset())
	width := 0
	for _, sig := range sigs {
		width = max(width, len(sig.String()))
	}
	for _, sig := range sigs {
		s := sig.String()
		fmt.Fprintf(out, "  %s%s%s%s", ui.ColorPrimary(), s, ui.ColorReset(), strings.Repeat(" ", width-len(s)))
		if sig.Doc != "" {
			fmt.Fprintf(out, "  %s%s%s", ui.ColorSecondary(), sig.Doc, ui.ColorReset())
		}
		fmt.Fprintln(out)
	}
	return nil
}
