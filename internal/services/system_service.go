package services

import (
	"runtime"

	"github.com/geoincidents/backend/internal/dto"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemStatus captures a host resource snapshot for the admin dashboard.
// Individual probe failures leave that section zeroed rather than failing the
// whole snapshot.
func SystemStatus() *dto.SystemStatus {
	status := &dto.SystemStatus{GoroutineCount: runtime.NumGoroutine()}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		status.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status.MemoryTotalBytes = vm.Total
		status.MemoryUsedBytes = vm.Used
		status.MemoryUsedPercent = vm.UsedPercent
	}
	if usage, err := disk.Usage("/"); err == nil {
		status.DiskTotalBytes = usage.Total
		status.DiskUsedBytes = usage.Used
		status.DiskUsedPercent = usage.UsedPercent
	}
	return status
}
