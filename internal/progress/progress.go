package progress

import (
	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"gorm.io/gorm"
)

// Completion returns the weighted completion of a milestone set: the sum of
// progress_weight over milestones whose status is completed. Milestones in
// any other status contribute zero. The result is NOT clamped to 100:
// weights are an open-ended sum, not a normalized percentage, and callers
// displaying a progress bar clamp for presentation themselves.
func Completion(milestones []model.Milestone) int {
	total := 0
	for _, m := range milestones {
		if m.Status == model.MilestoneStatusCompleted {
			total += m.ProgressWeight
		}
	}
	return total
}

// Recompute recalculates a project's completion from its current milestone
// set and writes the denormalized completion_percentage. It is called after
// every milestone mutation, inside the same transaction as the mutation.
func Recompute(tx *gorm.DB, projectID uint) (int, error) {
	var milestones []model.Milestone
	if err := tx.Where("project_id = ?", projectID).Find(&milestones).Error; err != nil {
		return 0, err
	}
	completion := Completion(milestones)
	if err := tx.Model(&model.Project{}).Where("id = ?", projectID).
		Update("completion_percentage", completion).Error; err != nil {
		return 0, err
	}
	return completion, nil
}
