package calc

// Fibonacci returns the first n terms of the Fibonacci sequence, starting
// 0, 1, 1, 2, 3, ...
//
// n <= 0 yields an empty (non-nil) slice, n == 1 yields [0] and n == 2 yields
// [0 1]. Terms beyond F(93) wrap modulo 2^64.
func Fibonacci(n int) []uint64 {
	sequence := make([]uint64, max(n, 0))
	FillFibonacci(sequence)
	return sequence
}

// FillFibonacci writes F(0)..F(len(dst)-1) into dst, wrapping like
// Fibonacci. It lets callers that own the buffer avoid an allocation.
func FillFibonacci(dst []uint64) {
	seed := [2]uint64{0, 1}
	copy(dst, seed[:])
	for i := 2; i < len(dst); i++ {
		dst[i] = dst[i-1] + dst[i-2]
	}
}

// FibonacciChecked is like Fibonacci but returns ErrOverflow, and no partial
// sequence, when a term would not fit in a uint64.
func FibonacciChecked(n int) ([]uint64, error) {
	if n > MaxExactTerms {
		return nil, ErrOverflow
	}
	return Fibonacci(n), nil
}
