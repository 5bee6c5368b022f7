package models

import (
	"time"

	"gorm.io/datatypes"
)

// Sync directions. Each direction keeps its own watermark and lease.
const (
	DirectionSheetsToDB = "sheets_to_db"
	DirectionDBToSheets = "db_to_sheets"
)

// SyncCheckpoint is the durable high-water mark for one sync direction. After
// a successful run the engine stores the run's start time here; the next
// incremental pass picks up changes after it. When no checkpoint exists yet
// the engine falls back to a 24h lookback window.
type SyncCheckpoint struct {
	Direction string    `gorm:"primaryKey;type:varchar(32)" json:"direction"`
	Watermark time.Time `gorm:"not null" json:"watermark"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (SyncCheckpoint) TableName() string {
	return "sync_checkpoints"
}

// SyncLease is an advisory lock preventing two runs of the same direction
// from overlapping. A lease whose ExpiresAt has passed is free for the
// taking, so a crashed run never wedges the engine.
type SyncLease struct {
	Direction  string    `gorm:"primaryKey;type:varchar(32)" json:"direction"`
	Holder     string    `gorm:"type:varchar(64);not null" json:"holder"`
	AcquiredAt time.Time `gorm:"not null" json:"acquired_at"`
	ExpiresAt  time.Time `gorm:"not null;index" json:"expires_at"`
}

// TableName specifies the table name
func (SyncLease) TableName() string {
	return "sync_leases"
}

// Expired reports whether the lease is stale at the given instant.
func (l *SyncLease) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// SyncRun records one reconciliation attempt for the status endpoint and for
// post-mortem inspection. Details holds the per-entity result breakdown.
type SyncRun struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Direction      string         `gorm:"type:varchar(32);not null;index" json:"direction"`
	Status         string         `gorm:"type:varchar(16);not null;index" json:"status"` // "success", "partial", "error"
	StartedAt      time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	Duration       int            `gorm:"default:0" json:"duration"` // milliseconds
	TotalProcessed int            `gorm:"default:0" json:"total_processed"`
	Inserted       int            `gorm:"default:0" json:"inserted"`
	Updated        int            `gorm:"default:0" json:"updated"`
	Errors         int            `gorm:"default:0" json:"errors"`
	Details        datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
	CreatedAt      time.Time      `json:"-"`
}

// TableName specifies the table name
func (SyncRun) TableName() string {
	return "sync_runs"
}
