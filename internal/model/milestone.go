package model

import "time"

// Milestone statuses. "overdue" exists in the enum for historical reasons
// but is never written by the toggle path; it is derived at read time from
// due_date. See Milestone.IsOverdue.
const (
	MilestoneStatusPending    = "pending"
	MilestoneStatusInProgress = "in_progress"
	MilestoneStatusCompleted  = "completed"
	MilestoneStatusOverdue    = "overdue"
)

const DefaultProgressWeight = 10

type Milestone struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProjectID   uint       `gorm:"not null;index" json:"project_id"`
	Title       string     `gorm:"type:varchar(256);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	DueDate     *time.Time `json:"due_date"`
	// CompletedDate is stamped only by the dedicated toggle action, not by
	// the general update path.
	CompletedDate *time.Time `json:"completed_date"`
	Status        string     `gorm:"type:varchar(12);default:pending;index" json:"status"`
	// Position orders siblings within a project. Not unique; ties are broken
	// by creation order.
	Position       int       `gorm:"not null;default:0" json:"position"`
	ProgressWeight int       `gorm:"not null;default:10" json:"progress_weight"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (Milestone) TableName() string { return "milestones" }

// IsOverdue reports whether the milestone has passed its due date without
// being completed. Overdue is a display concept, never persisted.
func (m *Milestone) IsOverdue(now time.Time) bool {
	return m.DueDate != nil && m.DueDate.Before(now) && m.Status != MilestoneStatusCompleted
}

// EffectiveStatus is the stored status with overdue derived on top.
func (m *Milestone) EffectiveStatus(now time.Time) string {
	if m.IsOverdue(now) {
		return MilestoneStatusOverdue
	}
	return m.Status
}
