package models

import (
	"time"

	"github.com/google/uuid"
)

// Setting is a per-user key/value preference, e.g. company letterhead
// fields or the default VAT rate.
type Setting struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Key       string    `gorm:"column:key;not null;uniqueIndex:idx_settings_user_key" json:"key"`
	Value     string    `gorm:"column:value;not null" json:"value"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_settings_user_key;index" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string { return "settings" }
