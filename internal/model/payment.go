package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	PaymentStatusHeld     = "held"
	PaymentStatusReleased = "released"
	PaymentStatusRefunded = "refunded"
)

// Payment is an escrow-style record tied to a project and optionally to a
// single milestone. Amounts are in cents.
type Payment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Reference   string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"reference"`
	ProjectID   uint           `gorm:"not null;index" json:"project_id"`
	MilestoneID *uint          `gorm:"index" json:"milestone_id"`
	PayerID     uint           `gorm:"not null" json:"payer_id"`
	PayeeID     uint           `gorm:"not null" json:"payee_id"`
	Amount      int64          `gorm:"not null" json:"amount"`
	Status      string         `gorm:"type:varchar(12);default:held;index" json:"status"`
	ReleasedAt  *time.Time     `json:"released_at"`
	RefundedAt  *time.Time     `json:"refunded_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Project   *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Milestone *Milestone `gorm:"foreignKey:MilestoneID" json:"milestone,omitempty"`
	Payer     *User      `gorm:"foreignKey:PayerID" json:"payer,omitempty"`
	Payee     *User      `gorm:"foreignKey:PayeeID" json:"payee,omitempty"`
}

func (Payment) TableName() string { return "payments" }
