package repository

import (
	"context"
	"fmt"

	"stock-signal-pipeline/internal/monitor/dto"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// ResourceRepository reads host resource utilization.
type ResourceRepository interface {
	Snapshot(ctx context.Context, diskPath string) (*dto.ResourceUsage, error)
}

// NewResourceRepository creates a new instance of ResourceRepository.
func NewResourceRepository() ResourceRepository {
	return &resourceRepository{}
}

type resourceRepository struct{}

// Snapshot reads CPU, memory and disk utilization. CPU is measured since
// the previous call, so the first reading of a fresh process is zero.
func (r *resourceRepository) Snapshot(ctx context.Context, diskPath string) (*dto.ResourceUsage, error) {
	cpuPercents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return nil, fmt.Errorf("failed to read cpu usage: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read memory usage: %w", err)
	}
	du, err := disk.UsageWithContext(ctx, diskPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read disk usage for %s: %w", diskPath, err)
	}

	usage := &dto.ResourceUsage{
		MemoryUsage: vm.UsedPercent,
		DiskUsage:   du.UsedPercent,
	}
	if len(cpuPercents) > 0 {
		usage.CPUUsage = cpuPercents[0]
	}
	return usage, nil
}
