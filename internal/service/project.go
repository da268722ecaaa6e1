package service

import (
	"fmt"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

func (s *ProjectService) Create(p *model.Project) (*model.Project, error) {
	if p.BudgetMin > p.BudgetMax && p.BudgetMax != 0 {
		return nil, fmt.Errorf("40002:预算下限不能大于上限")
	}
	p.Status = model.ProjectStatusPlanning
	p.CompletionPercentage = 0
	if err := s.db.Create(p).Error; err != nil {
		return nil, err
	}
	s.db.Preload("Owner").First(p, p.ID)
	return p, nil
}

// List returns projects visible to the user. Admins see everything;
// homeowners see their own postings; contractors see their assigned
// projects plus open postings (scope=open).
func (s *ProjectService) List(userID uint, isAdmin bool, scope, keyword, status, projectType string, page, pageSize int, sortBy, order string) ([]model.Project, int64, error) {
	query := s.db.Model(&model.Project{})

	if !isAdmin {
		switch scope {
		case "open":
			query = query.Where("status = ?", model.ProjectStatusPlanning)
		case "assigned":
			query = query.Where("contractor_id = ?", userID)
		default:
			query = query.Where("owner_id = ? OR contractor_id = ?", userID, userID)
		}
	}
	if keyword != "" {
		query = query.Where("title LIKE ?", "%"+keyword+"%")
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if projectType != "" {
		query = query.Where("project_type = ?", projectType)
	}

	var total int64
	query.Count(&total)

	query = query.Order(sortClause(projectSortColumns, sortBy, "updated_at", order))

	var projects []model.Project
	if err := query.Preload("Owner").Preload("Contractor").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (s *ProjectService) GetByID(id uint) (*model.Project, error) {
	var project model.Project
	if err := s.db.Preload("Owner").Preload("Contractor").First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *ProjectService) Update(id uint, updates map[string]interface{}) (*model.Project, error) {
	if err := s.db.Model(&model.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// UpdateStatus moves the independent project lifecycle. It never touches
// completion_percentage; the two fields are deliberately decoupled.
func (s *ProjectService) UpdateStatus(id uint, status string) (*model.Project, error) {
	valid := map[string]bool{
		model.ProjectStatusPlanning:   true,
		model.ProjectStatusActive:     true,
		model.ProjectStatusInProgress: true,
		model.ProjectStatusCompleted:  true,
		model.ProjectStatusCancelled:  true,
	}
	if !valid[status] {
		return nil, fmt.Errorf("40002:无效的项目状态 %s", status)
	}
	if err := s.db.Model(&model.Project{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *ProjectService) Delete(id uint) error {
	var pendingPayments int64
	s.db.Model(&model.Payment{}).
		Where("project_id = ? AND status = ?", id, model.PaymentStatusHeld).
		Count(&pendingPayments)
	if pendingPayments > 0 {
		return fmt.Errorf("40003:项目存在未释放的托管款项，无法删除")
	}
	return s.db.Delete(&model.Project{}, id).Error
}

// CanAccess reports whether the user may view/modify the project: the
// posting homeowner, the assigned contractor, or an admin.
func (s *ProjectService) CanAccess(project *model.Project, userID uint, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	if project.OwnerID == userID {
		return true
	}
	return project.ContractorID != nil && *project.ContractorID == userID
}

func (s *ProjectService) GetMilestoneCount(projectID uint) int64 {
	var count int64
	s.db.Model(&model.Milestone{}).Where("project_id = ?", projectID).Count(&count)
	return count
}

func (s *ProjectService) GetBidCount(projectID uint) int64 {
	var count int64
	s.db.Model(&model.Bid{}).Where("project_id = ?", projectID).Count(&count)
	return count
}

func (s *ProjectService) GetLatestEstimate(projectID uint) *model.Estimate {
	var est model.Estimate
	if err := s.db.Where("project_id = ?", projectID).Order("created_at desc").First(&est).Error; err != nil {
		return nil
	}
	return &est
}
