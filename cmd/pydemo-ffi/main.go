//go:build cgo

// Command pydemo-ffi builds the module's functions as a C shared library:
//
//	go build -buildmode=c-shared -o librust_python_demo.so ./cmd/pydemo-ffi
//
// The exported symbols follow the wrap policy and never fail:
//
//	int64_t add(int64_t a, int64_t b);
//	size_t  fibonacci(size_t n, uint64_t *out, size_t cap);
package main

/*
#include <stddef.h>
#include <stdint.h>
*/
import "C"

import (
	"unsafe"

	"github.com/agbru/pydemo/internal/calc"
)

//export add
func add(a, b C.int64_t) C.int64_t {
	return C.int64_t(calc.Add(int64(a), int64(b)))
}

// fibonacci writes min(n, capacity) terms to out and returns n, so a caller
// can size its buffer with a first call passing capacity 0.
//
//export fibonacci
func fibonacci(n C.size_t, out *C.uint64_t, capacity C.size_t) C.size_t {
	var dst []uint64
	if out != nil && capacity > 0 {
		dst = unsafe.Slice((*uint64)(unsafe.Pointer(out)), int(capacity))
	}
	return C.size_t(fillSequence(uint64(n), dst))
}

func main() {}
