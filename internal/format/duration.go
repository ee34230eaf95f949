package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats a call or script duration for display:
// microseconds below a millisecond, milliseconds below a second, and
// time.Duration's own notation above that.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}
