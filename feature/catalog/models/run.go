package models

import "time"

// SyncType identifies the pipeline stage a run belongs to.
type SyncType string

const (
	SyncCrawl   SyncType = "dropbox_crawl"
	SyncLinks   SyncType = "dropbox_links"
	SyncMapping SyncType = "sku_mapping"
	// SyncAccess is written by the external access-token refresher.
	SyncAccess SyncType = "dropbox_access"
)

// ParseSyncType validates a sync type name.
func ParseSyncType(s string) (SyncType, bool) {
	switch t := SyncType(s); t {
	case SyncCrawl, SyncLinks, SyncMapping, SyncAccess:
		return t, true
	default:
		return "", false
	}
}

// RunStatus is the lifecycle state of a sync run.
type RunStatus string

const (
	StatusRunning RunStatus = "running"
	StatusSuccess RunStatus = "success"
	StatusFailed  RunStatus = "failed"
)

// SyncRun is an append-only audit record of one pipeline invocation.
// CompletedAt and DurationSeconds are nil exactly while Status is running.
type SyncRun struct {
	ID              uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SyncType        SyncType   `gorm:"column:sync_type;size:32;not null;index" json:"sync_type"`
	Operator        string     `gorm:"column:operator;size:191;not null" json:"operator"`
	Status          RunStatus  `gorm:"column:status;size:16;not null;index" json:"status"`
	StartedAt       time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	CompletedAt     *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	DurationSeconds *float64   `gorm:"column:duration_seconds" json:"duration_seconds,omitempty"`
	// ItemsSynced is negative for bulk-deletion runs.
	ItemsSynced  int     `gorm:"column:items_synced;not null;default:0" json:"items_synced"`
	ErrorMessage *string `gorm:"column:error_message;type:text" json:"error_message,omitempty"`
}

// TableName overrides the table name.
func (SyncRun) TableName() string {
	return "sync_runs"
}
