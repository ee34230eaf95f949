package calc

import (
	"math/big"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestAdd_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("add is commutative", prop.ForAll(
		func(a, b int64) bool {
			return Add(a, b) == Add(b, a)
		},
		gen.Int64(), gen.Int64(),
	))

	properties.Property("zero is the identity", prop.ForAll(
		func(a int64) bool {
			return Add(a, 0) == a && Add(0, a) == a
		},
		gen.Int64(),
	))

	properties.Property("checked add agrees with big.Int arithmetic", prop.ForAll(
		func(a, b int64) bool {
			exact := new(big.Int).Add(big.NewInt(a), big.NewInt(b))
			got, err := AddChecked(a, b)
			if !exact.IsInt64() {
				return err == ErrOverflow
			}
			return err == nil && got == exact.Int64() && got == Add(a, b)
		},
		gen.Int64(), gen.Int64(),
	))

	properties.TestingRun(t)
}

// TestFibonacci_PropertyBased verifies the structural properties of the
// generated sequence: exact length, the recurrence, and that every sequence
// is a prefix of the next longer one.
func TestFibonacci_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("length equals n", prop.ForAll(
		func(n int) bool {
			return len(Fibonacci(n)) == n
		},
		gen.IntRange(0, 2000),
	))

	properties.Property("recurrence F(i) = F(i-1) + F(i-2)", prop.ForAll(
		func(n int) bool {
			seq := Fibonacci(n)
			for i := 2; i < n; i++ {
				if seq[i] != seq[i-1]+seq[i-2] {
					return false
				}
			}
			return true
		},
		gen.IntRange(3, 2000),
	))

	properties.Property("fibonacci(n) is a prefix of fibonacci(n+1)", prop.ForAll(
		func(n int) bool {
			return slices.Equal(Fibonacci(n), Fibonacci(n + 1)[:n])
		},
		gen.IntRange(0, 2000),
	))

	properties.Property("exact sequence matches uint64 sequence modulo 2^64", prop.ForAll(
		func(n int) bool {
			exact := FibonacciExact(n)
			fast := Fibonacci(n)
			mask := new(big.Int).Lsh(big.NewInt(1), 64)
			for i := range fast {
				if new(big.Int).Mod(exact[i], mask).Uint64() != fast[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 300),
	))

	properties.TestingRun(t)
}
