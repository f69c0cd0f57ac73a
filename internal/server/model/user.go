package model

import "time"

type User struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Username  string `gorm:"type:varchar(255);not null;unique"`
	Password  string `gorm:"type:varchar(255);not null"` // sha256 hex
	CreatedAt time.Time
	UpdatedAt time.Time
}
