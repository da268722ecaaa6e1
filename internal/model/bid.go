package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	BidStatusPending   = "pending"
	BidStatusAccepted  = "accepted"
	BidStatusRejected  = "rejected"
	BidStatusWithdrawn = "withdrawn"
)

type Bid struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ProjectID    uint           `gorm:"not null;index" json:"project_id"`
	ContractorID uint           `gorm:"not null;index" json:"contractor_id"`
	Amount       int64          `gorm:"not null" json:"amount"`
	TimelineDays int            `json:"timeline_days"`
	Message      string         `gorm:"type:text" json:"message"`
	Status       string         `gorm:"type:varchar(12);default:pending;index" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Project    *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Contractor *User    `gorm:"foreignKey:ContractorID" json:"contractor,omitempty"`
}

func (Bid) TableName() string { return "bids" }
