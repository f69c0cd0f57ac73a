package model

import "time"

const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// WorkflowRun is one execution attempt of a workflow. The terminal status is
// written exactly once; the record is immutable afterwards.
type WorkflowRun struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	WorkflowID string `gorm:"type:varchar(36);not null;index"`
	UserID     string `gorm:"type:varchar(36);not null;index"`
	Status     string `gorm:"type:varchar(20);not null"` // running/success/failed
	StartedAt  time.Time
	FinishedAt *time.Time
}

// NodeRun is one execution attempt of a single node within a WorkflowRun.
// At most one exists per (run, node) pair.
type NodeRun struct {
	ID     string `gorm:"primaryKey;type:varchar(36)"`
	RunID  string `gorm:"type:varchar(36);not null;uniqueIndex:idx_run_node"`
	NodeID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_run_node"`
	Status string `gorm:"type:varchar(20);not null"` // running/success/failed
	// Result holds the handler's success payload, Error the failure message.
	Result     string `gorm:"type:text"`
	Error      string `gorm:"type:text"`
	StartedAt  time.Time
	FinishedAt *time.Time
}
