package dto

import "time"

// ResourceUsage is one host resource reading.
type ResourceUsage struct {
	CPUUsage    float64 `json:"cpu_usage"`
	MemoryUsage float64 `json:"memory_usage"`
	DiskUsage   float64 `json:"disk_usage"`
}

// SystemStatusResponse is one supervisor snapshot as served by the ops
// API, with the workers map decoded.
type SystemStatusResponse struct {
	ID          int64           `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	CPUUsage    float64         `json:"cpu_usage"`
	MemoryUsage float64         `json:"memory_usage"`
	DiskUsage   float64         `json:"disk_usage"`
	DBSize      int64           `json:"db_size"`
	Workers     map[string]bool `json:"workers"`
}
