package model

import (
	"encoding/json"
	"time"
)

const (
	NodeKindTrigger = "trigger"
	NodeKindAction  = "action"
)

const (
	TriggerManual  = "manual"
	TriggerWebhook = "webhook"
	TriggerCron    = "cron"
)

const (
	PlatformTelegram = "telegram"
	PlatformResend   = "resend"
)

type Workflow struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	Title       string `gorm:"type:varchar(255);not null"`
	Enabled     bool   `gorm:"not null;default:true"`
	UserID      string `gorm:"type:varchar(36);not null;index"`
	Nodes       []Node       `gorm:"foreignKey:WorkflowID;constraint:OnDelete:CASCADE"`
	Connections []Connection `gorm:"foreignKey:WorkflowID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Node struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	WorkflowID string `gorm:"type:varchar(36);not null;index"`
	Kind       string `gorm:"type:varchar(20);not null"` // trigger/action
	// TriggerType is set for trigger nodes: manual/webhook/cron.
	TriggerType string `gorm:"type:varchar(20)"`
	// ActionPlatform is set for action nodes, e.g. telegram/resend.
	ActionPlatform string `gorm:"type:varchar(20)"`
	// Config is an opaque JSON object consumed by the matching action handler.
	Config string `gorm:"type:text"`
}

// Data decodes the node's JSON config. A node without config decodes to an
// empty map.
func (n *Node) Data() (map[string]any, error) {
	data := map[string]any{}
	if n.Config == "" {
		return data, nil
	}
	if err := json.Unmarshal([]byte(n.Config), &data); err != nil {
		return nil, err
	}
	return data, nil
}

// Connection is a directed dependency edge between two nodes of the same
// workflow.
type Connection struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	WorkflowID   string `gorm:"type:varchar(36);not null;index"`
	SourceNodeID string `gorm:"type:varchar(36);not null"`
	TargetNodeID string `gorm:"type:varchar(36);not null"`
}
