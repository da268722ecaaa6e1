package handler

import (
	"time"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/middleware"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/notify"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type MilestoneHandler struct {
	milestoneService *service.MilestoneService
	projectService   *service.ProjectService
	notifier         notify.Notifier
	audit            *auditor
}

func NewMilestoneHandler(milestoneService *service.MilestoneService, projectService *service.ProjectService, notifier notify.Notifier, authService *service.AuthService) *MilestoneHandler {
	return &MilestoneHandler{
		milestoneService: milestoneService,
		projectService:   projectService,
		notifier:         notifier,
		audit:            &auditor{authService: authService},
	}
}

// POST /projects/:id/milestones
func (h *MilestoneHandler) Create(c *gin.Context) {
	project, ok := h.loadProject(c, c.Param("id"))
	if !ok {
		return
	}

	var req struct {
		Title          string     `json:"title" binding:"required,max=256"`
		Description    string     `json:"description" binding:"max=10000"`
		DueDate        *time.Time `json:"due_date"`
		Position       int        `json:"position"`
		ProgressWeight int        `json:"progress_weight" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "参数校验失败: "+err.Error())
		return
	}

	m := &model.Milestone{
		ProjectID:      project.ID,
		Title:          req.Title,
		Description:    req.Description,
		DueDate:        req.DueDate,
		Position:       req.Position,
		ProgressWeight: req.ProgressWeight,
	}
	if err := h.milestoneService.Create(m); err != nil {
		ServiceError(c, err)
		return
	}

	h.audit.log(c, "create", "milestone", m.ID, model.JSONMap{"project_id": project.ID, "title": m.Title})
	Success(c, milestoneJSON(m))
}

// GET /projects/:id/milestones
func (h *MilestoneHandler) ListByProject(c *gin.Context) {
	project, ok := h.loadProject(c, c.Param("id"))
	if !ok {
		return
	}

	milestones, err := h.milestoneService.ListByProject(project.ID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(milestones))
	for i := range milestones {
		list = append(list, milestoneJSON(&milestones[i]))
	}
	Success(c, gin.H{
		"list":                  list,
		"completion_percentage": project.CompletionPercentage,
	})
}

// GET /projects/:id/completion
func (h *MilestoneHandler) GetCompletion(c *gin.Context) {
	project, ok := h.loadProject(c, c.Param("id"))
	if !ok {
		return
	}

	completion, err := h.milestoneService.GetCompletion(project.ID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{
		"project_id":            project.ID,
		"completion_percentage": completion,
	})
}

// PATCH /milestones/:id
func (h *MilestoneHandler) Update(c *gin.Context) {
	milestone, ok := h.loadMilestone(c)
	if !ok {
		return
	}

	var req struct {
		Title          *string    `json:"title" binding:"omitempty,max=256"`
		Description    *string    `json:"description" binding:"omitempty,max=10000"`
		DueDate        *time.Time `json:"due_date"`
		Status         *string    `json:"status"`
		Position       *int       `json:"position"`
		ProgressWeight *int       `json:"progress_weight" binding:"omitempty,gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "参数校验失败: "+err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		if *req.Title == "" {
			BadRequest(c, 40001, "里程碑标题不能为空")
			return
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DueDate != nil {
		updates["due_date"] = req.DueDate
	}
	if req.Status != nil {
		switch *req.Status {
		case model.MilestoneStatusPending, model.MilestoneStatusInProgress, model.MilestoneStatusCompleted:
		default:
			BadRequest(c, 40002, "无效的里程碑状态 "+*req.Status)
			return
		}
		updates["status"] = *req.Status
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.ProgressWeight != nil {
		updates["progress_weight"] = *req.ProgressWeight
	}
	if len(updates) == 0 {
		BadRequest(c, 40001, "没有需要更新的字段")
		return
	}

	milestone, err := h.milestoneService.Update(milestone.ID, updates)
	if err != nil {
		ServiceError(c, err)
		return
	}

	h.audit.log(c, "update", "milestone", milestone.ID, model.JSONMap{"fields": keysOf(updates)})
	Success(c, milestoneJSON(milestone))
}

// POST /milestones/:id/toggle
func (h *MilestoneHandler) ToggleComplete(c *gin.Context) {
	milestone, ok := h.loadMilestone(c)
	if !ok {
		return
	}

	milestone, err := h.milestoneService.ToggleComplete(milestone.ID)
	if err != nil {
		ServiceError(c, err)
		return
	}

	completion, _ := h.milestoneService.GetCompletion(milestone.ProjectID)
	completed := milestone.Status == model.MilestoneStatusCompleted

	if project, perr := h.projectService.GetByID(milestone.ProjectID); perr == nil {
		recipient := project.OwnerID
		if middleware.GetCurrentUserID(c) == project.OwnerID && project.ContractorID != nil {
			recipient = *project.ContractorID
		}
		_ = h.notifier.NotifyMilestoneCompleted(c.Request.Context(), notify.MilestoneCompletedEvent{
			MilestoneID:  milestone.ID,
			ProjectID:    project.ID,
			ProjectTitle: project.Title,
			Title:        milestone.Title,
			Completed:    completed,
			Completion:   completion,
			RecipientID:  recipient,
		})
	}

	action := "complete"
	if !completed {
		action = "revert"
	}
	h.audit.log(c, action, "milestone", milestone.ID, model.JSONMap{"project_id": milestone.ProjectID})

	data := milestoneJSON(milestone)
	data["completion_percentage"] = completion
	Success(c, data)
}

// DELETE /milestones/:id
func (h *MilestoneHandler) Delete(c *gin.Context) {
	milestone, ok := h.loadMilestone(c)
	if !ok {
		return
	}

	if err := h.milestoneService.Delete(milestone.ID); err != nil {
		ServiceError(c, err)
		return
	}

	h.audit.log(c, "delete", "milestone", milestone.ID, model.JSONMap{"project_id": milestone.ProjectID, "title": milestone.Title})
	Success(c, nil)
}

func (h *MilestoneHandler) loadProject(c *gin.Context, idParam string) (*model.Project, bool) {
	return h.loadProjectByID(c, parseID(idParam))
}

func (h *MilestoneHandler) loadMilestone(c *gin.Context) (*model.Milestone, bool) {
	milestone, err := h.milestoneService.GetByID(parseID(c.Param("id")))
	if err != nil {
		NotFound(c, 40406, "里程碑不存在")
		return nil, false
	}
	if _, ok := h.loadProjectByID(c, milestone.ProjectID); !ok {
		return nil, false
	}
	return milestone, true
}

func (h *MilestoneHandler) loadProjectByID(c *gin.Context, projectID uint) (*model.Project, bool) {
	project, err := h.projectService.GetByID(projectID)
	if err != nil {
		NotFound(c, 40402, "项目不存在")
		return nil, false
	}
	if !h.projectService.CanAccess(project, middleware.GetCurrentUserID(c), middleware.GetCurrentUserIsAdmin(c)) {
		Forbidden(c, 40302, "无权访问该项目")
		return nil, false
	}
	return project, true
}

// milestoneJSON serializes a milestone with the derived overdue view on top
// of the stored status.
func milestoneJSON(m *model.Milestone) gin.H {
	now := time.Now()
	return gin.H{
		"id":               m.ID,
		"project_id":       m.ProjectID,
		"title":            m.Title,
		"description":      m.Description,
		"due_date":         m.DueDate,
		"completed_date":   m.CompletedDate,
		"status":           m.Status,
		"effective_status": m.EffectiveStatus(now),
		"is_overdue":       m.IsOverdue(now),
		"position":         m.Position,
		"progress_weight":  m.ProgressWeight,
		"created_at":       m.CreatedAt,
		"updated_at":       m.UpdatedAt,
	}
}
