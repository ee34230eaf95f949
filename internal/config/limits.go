package config

import "runtime"

// Batch concurrency resolution chain (highest priority first):
//   1. CLI flag (--batch-concurrency)
//   2. Environment variable (PYDEMO_BATCH_CONCURRENCY)
//   3. Hardware estimation (this file)

// EstimateBatchConcurrency returns a default bound on the number of calls a
// single batch request evaluates concurrently. The module functions are
// CPU-bound, so more workers than cores only adds scheduling overhead.
func EstimateBatchConcurrency() int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU <= 1:
		return 1
	case numCPU <= 4:
		return numCPU
	default:
		// Leave headroom for the HTTP server's own goroutines.
		return numCPU - 1
	}
}
