package entity

import (
	"time"

	"gorm.io/datatypes"
)

// SystemStatusSnapshot is one supervisor observation: host resource usage,
// store size and the liveness of every watched worker role. Workers is a
// role name to running-boolean map; the role set is configuration, so it is
// stored as jsonb rather than fixed columns.
type SystemStatusSnapshot struct {
	ID          int64          `gorm:"primaryKey" json:"id"`
	Timestamp   time.Time      `gorm:"not null;index" json:"timestamp"`
	CPUUsage    float64        `gorm:"column:cpu_usage" json:"cpu_usage"`
	MemoryUsage float64        `json:"memory_usage"`
	DiskUsage   float64        `json:"disk_usage"`
	DBSize      int64          `gorm:"column:db_size" json:"db_size"`
	Workers     datatypes.JSON `gorm:"type:jsonb" json:"workers"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the SystemStatusSnapshot model.
func (SystemStatusSnapshot) TableName() string {
	return "system_status"
}
