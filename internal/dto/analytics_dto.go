package dto

// RefreshAnalyticsResponse summarizes an ML sync run.
type RefreshAnalyticsResponse struct {
	ZonesStored       int    `json:"zones_stored"`
	PredictionsStored int    `json:"predictions_stored"`
	IncidentsAnalyzed int    `json:"incidents_analyzed"`
	ModelVersion      string `json:"model_version"`
}

// SystemStatus is a point-in-time resource snapshot for the admin dashboard.
type SystemStatus struct {
	CPUPercent        float64 `json:"cpu_percent"`
	MemoryTotalBytes  uint64  `json:"memory_total_bytes"`
	MemoryUsedBytes   uint64  `json:"memory_used_bytes"`
	MemoryUsedPercent float64 `json:"memory_used_percent"`
	DiskTotalBytes    uint64  `json:"disk_total_bytes"`
	DiskUsedBytes     uint64  `json:"disk_used_bytes"`
	DiskUsedPercent   float64 `json:"disk_used_percent"`
	GoroutineCount    int     `json:"goroutine_count"`
}
