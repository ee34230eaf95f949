//go:build !cgo

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "pydemo-ffi must be built with cgo enabled and -buildmode=c-shared")
	os.Exit(1)
}
