package calc

// Add returns a + b.
//
// Overflow wraps around using two's-complement arithmetic, which is the
// behavior of Go's built-in integer addition.
func Add(a, b int64) int64 {
	return a + b
}

// AddChecked returns a + b, or ErrOverflow if the mathematical sum lies
// outside the int64 range.
func AddChecked(a, b int64) (int64, error) {
	sum := a + b
	// Overflow happened iff both operands share a sign that the sum does not.
	if (a >= 0) == (b >= 0) && (sum >= 0) != (a >= 0) {
		return 0, ErrOverflow
	}
	return sum, nil
}
