package service

import (
	"fmt"
	"time"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/progress"
	"gorm.io/gorm"
)

type MilestoneService struct {
	db *gorm.DB
}

func NewMilestoneService(db *gorm.DB) *MilestoneService {
	return &MilestoneService{db: db}
}

// Create inserts a milestone and recomputes the project completion in the
// same transaction. New milestones always start pending with no completed
// date, whatever the caller sends.
func (s *MilestoneService) Create(m *model.Milestone) error {
	if m.Title == "" {
		return fmt.Errorf("40001:里程碑标题不能为空")
	}

	var count int64
	s.db.Model(&model.Project{}).Where("id = ?", m.ProjectID).Count(&count)
	if count == 0 {
		return fmt.Errorf("40402:项目不存在")
	}

	m.Status = model.MilestoneStatusPending
	m.CompletedDate = nil
	if m.ProgressWeight == 0 {
		m.ProgressWeight = model.DefaultProgressWeight
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		_, err := progress.Recompute(tx, m.ProjectID)
		return err
	})
}

// ListByProject returns the full milestone set for a project, ordered by
// position with creation order as tiebreak. No pagination: a single
// project's set is small enough for one view.
func (s *MilestoneService) ListByProject(projectID uint) ([]model.Milestone, error) {
	var milestones []model.Milestone
	if err := s.db.Where("project_id = ?", projectID).
		Order("position asc, id asc").Find(&milestones).Error; err != nil {
		return nil, err
	}
	return milestones, nil
}

func (s *MilestoneService) GetByID(id uint) (*model.Milestone, error) {
	var m model.Milestone
	if err := s.db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// Update merges the given fields into the record. This path deliberately
// does not touch completed_date even when the status field is set to
// completed; the dedicated toggle is the only stamping path.
func (s *MilestoneService) Update(id uint, updates map[string]interface{}) (*model.Milestone, error) {
	m, err := s.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("40406:里程碑不存在")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&model.Milestone{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		_, err := progress.Recompute(tx, m.ProjectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// ToggleComplete flips a milestone between completed and pending. Completing
// stamps completed_date; reverting clears it. Toggling is the only path that
// writes completed_date.
func (s *MilestoneService) ToggleComplete(id uint) (*model.Milestone, error) {
	m, err := s.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("40406:里程碑不存在")
	}

	updates := make(map[string]interface{})
	if m.Status == model.MilestoneStatusCompleted {
		updates["status"] = model.MilestoneStatusPending
		updates["completed_date"] = nil
	} else {
		now := time.Now()
		updates["status"] = model.MilestoneStatusCompleted
		updates["completed_date"] = &now
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Milestone{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		_, err := progress.Recompute(tx, m.ProjectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete removes the record permanently. Sibling positions and weights are
// left untouched; the next recompute simply sums over whatever remains.
func (s *MilestoneService) Delete(id uint) error {
	m, err := s.GetByID(id)
	if err != nil {
		return fmt.Errorf("40406:里程碑不存在")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Milestone{}, id).Error; err != nil {
			return err
		}
		_, err := progress.Recompute(tx, m.ProjectID)
		return err
	})
}

// CreateBatch persists a generated milestone set all-or-nothing and
// recomputes once after the whole batch, not per milestone.
func (s *MilestoneService) CreateBatch(projectID uint, milestones []model.Milestone) error {
	if len(milestones) == 0 {
		return fmt.Errorf("40001:里程碑列表不能为空")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range milestones {
			m := &milestones[i]
			if m.Title == "" {
				return fmt.Errorf("40001:里程碑标题不能为空")
			}
			m.ProjectID = projectID
			m.Status = model.MilestoneStatusPending
			m.CompletedDate = nil
			if m.ProgressWeight == 0 {
				m.ProgressWeight = model.DefaultProgressWeight
			}
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		_, err := progress.Recompute(tx, projectID)
		return err
	})
}

// GetCompletion computes the weighted completion live from the milestone
// set, bypassing the denormalized cache.
func (s *MilestoneService) GetCompletion(projectID uint) (int, error) {
	milestones, err := s.ListByProject(projectID)
	if err != nil {
		return 0, err
	}
	return progress.Completion(milestones), nil
}
