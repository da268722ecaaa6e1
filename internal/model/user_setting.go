package model

import (
	"time"

	"gorm.io/gorm"
)

// UserSetting holds a user's own LLM endpoint for timeline/estimate
// generation. APIKey is stored AES-GCM encrypted.
type UserSetting struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	BaseURL   string         `gorm:"type:varchar(512)" json:"base_url"`
	APIKey    string         `gorm:"type:varchar(512)" json:"-"`
	Model     string         `gorm:"type:varchar(128)" json:"model"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserSetting) TableName() string { return "user_settings" }
