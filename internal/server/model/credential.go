package model

import (
	"encoding/json"
	"time"
)

// Credential stores a user's platform credential as an opaque JSON object.
// The engine and handlers only ever read it.
type Credential struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_platform"`
	Platform  string `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_platform"`
	Data      string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Credential) DataMap() (map[string]any, error) {
	data := map[string]any{}
	if err := json.Unmarshal([]byte(c.Data), &data); err != nil {
		return nil, err
	}
	return data, nil
}
