package calc

import "errors"

// ─────────────────────────────────────────────────────────────────────────────
// Sequence Limits
// ─────────────────────────────────────────────────────────────────────────────

const (
	// MaxExactTerms is the largest sequence length whose every term fits in a
	// uint64. F(93) = 12200160415121876738 is the last representable term, so
	// a sequence of 94 terms (F(0)..F(93)) is exact and F(94) wraps.
	MaxExactTerms = 94

	// MaxLuaExactTerm is the largest Fibonacci index whose value is exactly
	// representable as an IEEE-754 double (F(78) < 2^53 < F(79)).
	MaxLuaExactTerm = 78
)

// ErrOverflow is returned by the checked variants when a result is not
// representable in the target integer type.
var ErrOverflow = errors.New("integer overflow")
