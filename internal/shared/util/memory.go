package util

import (
	"runtime"
)

// RuntimeStats is a snapshot reported by the health endpoint.
type RuntimeStats struct {
	HeapAllocMB uint64 `json:"heap_alloc_mb"`
	Goroutines  int    `json:"goroutines"`
}

func ReadRuntimeStats() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeStats{
		HeapAllocMB: m.Alloc / 1024 / 1024,
		Goroutines:  runtime.NumGoroutine(),
	}
}
