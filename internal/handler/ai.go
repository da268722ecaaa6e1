package handler

import (
	"github.com/Imactuallyjuan/Terrin-sub000/internal/estimate"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/middleware"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/service"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/timeline"
	"github.com/gin-gonic/gin"
)

// AIHandler exposes the LLM-backed generation endpoints: timeline proposals
// and cost estimates.
type AIHandler struct {
	projectService *service.ProjectService
	settingService *service.SettingService
	generator      *timeline.Generator
	estimator      *estimate.Estimator
	audit          *auditor
}

func NewAIHandler(projectService *service.ProjectService, settingService *service.SettingService, generator *timeline.Generator, estimator *estimate.Estimator, authService *service.AuthService) *AIHandler {
	return &AIHandler{
		projectService: projectService,
		settingService: settingService,
		generator:      generator,
		estimator:      estimator,
		audit:          &auditor{authService: authService},
	}
}

// POST /projects/:id/generate-timeline
func (h *AIHandler) GenerateTimeline(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	client := h.settingService.ClientFor(middleware.GetCurrentUserID(c))
	result, err := h.generator.Generate(c.Request.Context(), client, project)
	if err != nil {
		ServiceError(c, err)
		return
	}

	h.audit.log(c, "generate_timeline", "project", project.ID, model.JSONMap{
		"milestones_created": result.MilestonesCreated,
	})

	list := make([]gin.H, 0, len(result.Milestones))
	for i := range result.Milestones {
		list = append(list, milestoneJSON(&result.Milestones[i]))
	}
	Success(c, gin.H{
		"milestones_created":  result.MilestonesCreated,
		"total_duration_days": result.TotalDurationDays,
		"phases":              result.Phases,
		"milestones":          list,
	})
}

// POST /projects/:id/estimate
func (h *AIHandler) EstimateCost(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	client := h.settingService.ClientFor(middleware.GetCurrentUserID(c))
	est, err := h.estimator.Estimate(c.Request.Context(), client, project)
	if err != nil {
		ServiceError(c, err)
		return
	}

	h.audit.log(c, "estimate_cost", "project", project.ID, model.JSONMap{
		"cost_min": est.CostMin,
		"cost_max": est.CostMax,
	})

	Success(c, gin.H{
		"id":         est.ID,
		"project_id": est.ProjectID,
		"cost_min":   est.CostMin,
		"cost_max":   est.CostMax,
		"confidence": est.Confidence,
		"breakdown":  est.Breakdown,
		"model":      est.Model,
		"created_at": est.CreatedAt,
	})
}

// GET /projects/:id/estimates
func (h *AIHandler) ListEstimates(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	est := h.projectService.GetLatestEstimate(project.ID)
	if est == nil {
		Success(c, nil)
		return
	}
	Success(c, gin.H{
		"id":         est.ID,
		"project_id": est.ProjectID,
		"cost_min":   est.CostMin,
		"cost_max":   est.CostMax,
		"confidence": est.Confidence,
		"breakdown":  est.Breakdown,
		"model":      est.Model,
		"created_at": est.CreatedAt,
	})
}

func (h *AIHandler) loadProject(c *gin.Context) (*model.Project, bool) {
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
