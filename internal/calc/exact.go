//go:build !gmp

package calc

import "math/big"

// FibonacciExact returns the first n terms of the Fibonacci sequence as
// arbitrary-precision integers. It never overflows.
func FibonacciExact(n int) []*big.Int {
	if n <= 0 {
		return []*big.Int{}
	}
	sequence := make([]*big.Int, 0, n)
	prev, curr := big.NewInt(0), big.NewInt(1)
	for i := 0; i < n; i++ {
		sequence = append(sequence, new(big.Int).Set(prev))
		prev.Add(prev, curr)
		prev, curr = curr, prev
	}
	return sequence
}
