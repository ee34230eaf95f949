package main

import "github.com/agbru/pydemo/internal/calc"

// fillSequence writes the first min(n, len(dst)) Fibonacci terms to dst and
// returns n.
func fillSequence(n uint64, dst []uint64) uint64 {
	if uint64(len(dst)) > n {
		dst = dst[:n]
	}
	calc.FillFibonacci(dst)
	return n
}
