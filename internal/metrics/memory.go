package metrics

import "runtime"

// MemorySnapshot holds a point-in-time runtime reading, reported by the
// server's health endpoint.
type MemorySnapshot struct {
	HeapAlloc   uint64 `json:"heap_alloc"`   // bytes in use by application
	Sys         uint64 `json:"sys"`          // total bytes obtained from OS
	NumGC       uint32 `json:"num_gc"`       // number of completed GC cycles
	HeapObjects uint64 `json:"heap_objects"` // number of allocated heap objects
	Goroutines  int    `json:"goroutines"`
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:   m.HeapAlloc,
		Sys:         m.Sys,
		NumGC:       m.NumGC,
		HeapObjects: m.HeapObjects,
		Goroutines:  runtime.NumGoroutine(),
	}
}
