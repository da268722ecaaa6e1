package handler

import (
	"github.com/Imactuallyjuan/Terrin-sub000/internal/middleware"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	audit          *auditor
}

func NewProjectHandler(projectService *service.ProjectService, authService *service.AuthService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		audit:          &auditor{authService: authService},
	}
}

// POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required,max=128"`
		Description string `json:"description" binding:"max=10000"`
		ProjectType string `json:"project_type" binding:"max=64"`
		BudgetMin   int64  `json:"budget_min"`
		BudgetMax   int64  `json:"budget_max"`
		Location    string `json:"location" binding:"max=128"`
		Timeline    string `json:"timeline" binding:"max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "参数校验失败: "+err.Error())
		return
	}

	project := &model.Project{
		Title:       req.Title,
		Description: req.Description,
		ProjectType: req.ProjectType,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		Location:    req.Location,
		Timeline:    req.Timeline,
		OwnerID:     middleware.GetCurrentUserID(c),
	}
	project, err := h.projectService.Create(project)
	if err != nil {
		ServiceError(c, err)
		return
	}

	h.audit.log(c, "create", "project", project.ID, model.JSONMap{"title": project.Title})
	Success(c, h.projectJSON(project))
}

// GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	page, pageSize := parsePage(c)
	userID := middleware.GetCurrentUserID(c)
	isAdmin := middleware.GetCurrentUserIsAdmin(c)
	scope := c.Query("scope")
	keyword := c.Query("keyword")
	status := c.Query("status")
	projectType := c.Query("project_type")
	sortBy := c.DefaultQuery("sort_by", "updated_at")
	order := c.DefaultQuery("order", "desc")

	projects, total, err := h.projectService.List(userID, isAdmin, scope, keyword, status, projectType, page, pageSize, sortBy, order)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(projects))
	for _, p := range projects {
		item := gin.H{
			"id":                    p.ID,
			"title":                 p.Title,
			"project_type":          p.ProjectType,
			"budget_min":            p.BudgetMin,
			"budget_max":            p.BudgetMax,
			"location":              p.Location,
			"status":                p.Status,
			"completion_percentage": p.CompletionPercentage,
			"milestone_count":       h.projectService.GetMilestoneCount(p.ID),
			"bid_count":             h.projectService.GetBidCount(p.ID),
			"created_at":            p.CreatedAt,
			"updated_at":            p.UpdatedAt,
		}
		if p.Owner != nil {
			item["owner"] = p.Owner.Brief()
		}
		if p.Contractor != nil {
			item["contractor"] = p.Contractor.Brief()
		}
		list = append(list, item)
	}
	SuccessPaged(c, list, total, page, pageSize)
}

// GET /projects/:id
func (h *ProjectHandler) GetDetail(c *gin.Context) {
	project, ok := h.loadAccessible(c)
	if !ok {
		return
	}

	data := h.projectJSON(project)
	data["milestone_count"] = h.projectService.GetMilestoneCount(project.ID)
	data["bid_count"] = h.projectService.GetBidCount(project.ID)
	if est := h.projectService.GetLatestEstimate(project.ID); est != nil {
		data["latest_estimate"] = gin.H{
			"id":         est.ID,
			"cost_min":   est.CostMin,
			"cost_max":   est.CostMax,
			"confidence": est.Confidence,
			"breakdown":  est.Breakdown,
			"created_at": est.CreatedAt,
		}
	}
	Success(c, data)
}

// PUT /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	project, ok := h.loadOwned(c)
	if !ok {
		return
	}

	var req struct {
		Title       *string `json:"title" binding:"omitempty,max=128"`
		Description *string `json:"description" binding:"omitempty,max=10000"`
		ProjectType *string `json:"project_type" binding:"omitempty,max=64"`
		BudgetMin   *int64  `json:"budget_min"`
		BudgetMax   *int64  `json:"budget_max"`
		Location    *string `json:"location" binding:"omitempty,max=128"`
		Timeline    *string `json:"timeline" binding:"omitempty,max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "参数校验失败: "+err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ProjectType != nil {
		updates["project_type"] = *req.ProjectType
	}
	if req.BudgetMin != nil {
		updates["budget_min"] = *req.BudgetMin
	}
	if req.BudgetMax != nil {
		updates["budget_max"] = *req.BudgetMax
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Timeline != nil {
		updates["timeline"] = *req.Timeline
	}
	if len(updates) == 0 {
		BadRequest(c, 40001, "没有需要更新的字段")
		return
	}

	project, err := h.projectService.Update(project.ID, updates)
	if err != nil {
		ServiceError(c, err)
		return
	}

	h.audit.log(c, "update", "project", project.ID, model.JSONMap{"fields": keysOf(updates)})
	Success(c, h.projectJSON(project))
}

// PUT /projects/:id/status
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	project, ok := h.loadAccessible(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "参数校验失败: "+err.Error())
		return
	}

	project, err := h.projectService.UpdateStatus(project.ID, req.Status)
	if err != nil {
		ServiceError(c, err)
		return
	}

	h.audit.log(c, "update_status", "project", project.ID, model.JSONMap{"status": req.Status})
	Success(c, h.projectJSON(project))
}

// DELETE /projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	project, ok := h.loadOwned(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(project.ID); err != nil {
		ServiceError(c, err)
		return
	}

	h.audit.log(c, "delete", "project", project.ID, model.JSONMap{"title": project.Title})
	Success(c, nil)
}

// loadAccessible fetches the project and enforces view access.
func (h *ProjectHandler) loadAccessible(c *gin.Context) (*model.Project, bool) {
	project, err := h.projectService.GetByID(parseID(c.Param("id")))
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

// loadOwned fetches the project and requires the posting homeowner (or an
// admin): edits and deletion are not open to the assigned contractor.
func (h *ProjectHandler) loadOwned(c *gin.Context) (*model.Project, bool) {
	project, err := h.projectService.GetByID(parseID(c.Param("id")))
	if err != nil {
		NotFound(c, 40402, "项目不存在")
		return nil, false
	}
	if !middleware.GetCurrentUserIsAdmin(c) && project.OwnerID != middleware.GetCurrentUserID(c) {
		Forbidden(c, 40302, "只有项目业主可以执行该操作")
		return nil, false
	}
	return project, true
}

func (h *ProjectHandler) projectJSON(p *model.Project) gin.H {
	data := gin.H{
		"id":                    p.ID,
		"title":                 p.Title,
		"description":           p.Description,
		"project_type":          p.ProjectType,
		"budget_min":            p.BudgetMin,
		"budget_max":            p.BudgetMax,
		"location":              p.Location,
		"timeline":              p.Timeline,
		"status":                p.Status,
		"completion_percentage": p.CompletionPercentage,
		"created_at":            p.CreatedAt,
		"updated_at":            p.UpdatedAt,
	}
	if p.Owner != nil {
		data["owner"] = p.Owner.Brief()
	}
	if p.Contractor != nil {
		data["contractor"] = p.Contractor.Brief()
	}
	return data
}

func keysOf(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
