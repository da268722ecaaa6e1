package model

import (
	"time"

	"gorm.io/gorm"
)

// Project statuses. Status is an independent lifecycle field and is never
// derived from completion_percentage.
const (
	ProjectStatusPlanning   = "planning"
	ProjectStatusActive     = "active"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
	ProjectStatusCancelled  = "cancelled"
)

type Project struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Title        string `gorm:"type:varchar(128);not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	ProjectType  string `gorm:"type:varchar(64)" json:"project_type"`
	BudgetMin    int64  `json:"budget_min"`
	BudgetMax    int64  `json:"budget_max"`
	Location     string `gorm:"type:varchar(128)" json:"location"`
	Timeline     string `gorm:"type:varchar(128)" json:"timeline"`
	OwnerID      uint   `gorm:"not null;index" json:"owner_id"`
	ContractorID *uint  `gorm:"index" json:"contractor_id"`
	Status       string `gorm:"type:varchar(12);default:planning;index" json:"status"`

	// CompletionPercentage caches the weighted sum of completed milestones.
	// Updated imperatively after every milestone mutation, never by trigger.
	// The stored value is the raw sum and may exceed 100.
	CompletionPercentage int `gorm:"default:0" json:"completion_percentage"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Owner      *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Contractor *User `gorm:"foreignKey:ContractorID" json:"contractor,omitempty"`
}

func (Project) TableName() string { return "projects" }
