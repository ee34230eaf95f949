// Command generate-golden writes the golden Fibonacci sequences used by the
// calc package tests. Every term is computed with math/big, independently of
// the code under test.
//
// Usage:
//
//	go run ./cmd/generate-golden -out internal/calc/testdata/fibonacci_golden.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
)

// Lengths checked against the uint64 sequence; 94 is the longest sequence
// whose terms all fit in a uint64.
var uint64Lengths = []uint64{0, 1, 2, 3, 10, 20, 50, 93, 94}

// Lengths checked against the arbitrary-precision sequence only.
var exactLengths = []uint64{95, 100, 120}

type goldenCase struct {
	N     uint64   `json:"n"`
	Terms []string `json:"terms"`
}

type goldenFile struct {
	Generator string       `json:"generator"`
	Uint64    []goldenCase `json:"uint64"`
	Exact     []goldenCase `json:"exact"`
}

func main() {
	out := flag.String("out", "internal/calc/testdata/fibonacci_golden.json", "output file")
	flag.Parse()

	data, err := json.MarshalIndent(buildGolden(), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encoding golden data: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, append(data, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "writing %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *out)
}

func buildGolden() goldenFile {
	g := goldenFile{Generator: "generate-golden"}
	for _, n := range uint64Lengths {
		g.Uint64 = append(g.Uint64, goldenCase{N: n, Terms: sequence(n)})
	}
	for _, n := range exactLengths {
		g.Exact = append(g.Exact, goldenCase{N: n, Terms: sequence(n)})
	}
	return g
}

// sequence returns F(0)..F(n-1) as decimal strings.
func sequence(n uint64) []string {
	terms := make([]string, n)
	for i := range n {
		terms[i] = fibBig(i).String()
	}
	return terms
}

// fibBig is the oracle: F(n) by plain iteration over math/big.
func fibBig(n uint64) *big.Int {
	a, b := big.NewInt(0), big.NewInt(1)
	for range n {
		a.Add(a, b)
		a, b = b, a
	}
	return a
}
