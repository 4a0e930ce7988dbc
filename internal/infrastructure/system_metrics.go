package infrastructure

import (
	"runtime"
	"time"
)

// SystemStats is a snapshot of the Go runtime for health reporting. The
// same figures are exported continuously by the Prometheus Go collector.
type SystemStats struct {
	GoRoutines     int       `json:"goroutines"`
	HeapAllocBytes uint64    `json:"heap_alloc_bytes"`
	SysBytes       uint64    `json:"sys_bytes"`
	GCCount        uint32    `json:"gc_count"`
	CPUCount       int       `json:"cpu_count"`
	Uptime         string    `json:"uptime"`
	Timestamp      time.Time `json:"timestamp"`
}

// CollectSystemStats reads runtime statistics. startTime is the process
// start used for uptime.
func CollectSystemStats(startTime time.Time) SystemStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return SystemStats{
		GoRoutines:     runtime.NumGoroutine(),
		HeapAllocBytes: memStats.HeapAlloc,
		SysBytes:       memStats.Sys,
		GCCount:        memStats.NumGC,
		CPUCount:       runtime.NumCPU(),
		Uptime:         time.Since(startTime).Round(time.Second).String(),
		Timestamp:      time.Now().UTC(),
	}
}
