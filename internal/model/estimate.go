package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type EstimateLine struct {
	Item    string `json:"item"`
	CostMin int64  `json:"cost_min"`
	CostMax int64  `json:"cost_max"`
	Note    string `json:"note,omitempty"`
}

type EstimateBreakdown []EstimateLine

func (b EstimateBreakdown) Value() (driver.Value, error) {
	if b == nil {
		return "[]", nil
	}
	bytes, err := json.Marshal(b)
	return string(bytes), err
}

func (b *EstimateBreakdown) Scan(value interface{}) error {
	if value == nil {
		*b = EstimateBreakdown{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case string:
		bytes = []byte(v)
	case []byte:
		bytes = v
	}
	return json.Unmarshal(bytes, b)
}

// Estimate is an AI-generated cost estimate snapshot for a project. A
// project keeps every estimate it has requested; the newest one wins in UI.
type Estimate struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ProjectID  uint              `gorm:"not null;index" json:"project_id"`
	CostMin    int64             `gorm:"not null" json:"cost_min"`
	CostMax    int64             `gorm:"not null" json:"cost_max"`
	Confidence string            `gorm:"type:varchar(12)" json:"confidence"`
	Breakdown  EstimateBreakdown `gorm:"type:json" json:"breakdown"`
	Model      string            `gorm:"type:varchar(128)" json:"model,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (Estimate) TableName() string { return "estimates" }
