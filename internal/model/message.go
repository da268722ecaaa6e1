package model

import (
	"time"

	"gorm.io/gorm"
)

// Conversation links a homeowner and a contractor around one project.
type Conversation struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ProjectID    uint           `gorm:"not null;uniqueIndex:uk_project_pair,priority:1" json:"project_id"`
	HomeownerID  uint           `gorm:"not null;uniqueIndex:uk_project_pair,priority:2" json:"homeowner_id"`
	ContractorID uint           `gorm:"not null;uniqueIndex:uk_project_pair,priority:3" json:"contractor_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// project_id participates in the pair uniqueness so the same two users
	// can talk separately about different projects.
	Project    *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Homeowner  *User    `gorm:"foreignKey:HomeownerID" json:"homeowner,omitempty"`
	Contractor *User    `gorm:"foreignKey:ContractorID" json:"contractor,omitempty"`
}

func (Conversation) TableName() string { return "conversations" }

type Message struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ConversationID uint       `gorm:"not null;index" json:"conversation_id"`
	SenderID       uint       `gorm:"not null" json:"sender_id"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	ReadAt         *time.Time `json:"read_at"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`

	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (Message) TableName() string { return "messages" }
