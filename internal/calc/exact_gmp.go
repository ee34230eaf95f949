//go:build gmp

package calc

import (
	"math/big"

	"github.com/ncw/gmp"
)

// FibonacciExact returns the first n terms of the Fibonacci sequence as
// arbitrary-precision integers. This build accumulates with GMP and converts
// each term to math/big on the way out.
func FibonacciExact(n int) []*big.Int {
	if n <= 0 {
		return []*big.Int{}
	}
	sequence := make([]*big.Int, 0, n)
	prev, curr := gmp.NewInt(0), gmp.NewInt(1)
	for i := 0; i < n; i++ {
		term, _ := new(big.Int).SetString(prev.String(), 10)
		sequence = append(sequence, term)
		prev.Add(prev, curr)
		prev, curr = curr, prev
	}
	return sequence
}
