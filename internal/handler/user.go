package handler

import (
	"strconv"
	"time"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/middleware"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	authService *service.AuthService
}

func NewUserHandler(authService *service.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// GET /contractors/search
func (h *UserHandler) SearchContractors(c *gin.Context) {
	keyword := c.Query("keyword")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 50 {
		limit = 20
	}

	users, err := h.authService.SearchContractors(keyword, limit)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(users))
	for _, u := range users {
		list = append(list, gin.H{
			"id":           u.ID,
			"name":         u.Name,
			"avatar":       u.Avatar,
			"company_name": u.CompanyName,
		})
	}
	Success(c, list)
}

// GET /admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, pageSize := parsePage(c)
	keyword := c.Query("keyword")
	role := c.Query("role")
	sortBy := c.DefaultQuery("sort_by", "created_at")
	order := c.DefaultQuery("order", "desc")

	var status *int
	if s := c.Query("status"); s != "" {
		v, err := strconv.Atoi(s)
		if err == nil {
			status = &v
		}
	}

	users, total, err := h.authService.ListUsers(keyword, role, status, page, pageSize, sortBy, order)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(users))
	for _, u := range users {
		list = append(list, gin.H{
			"id":            u.ID,
			"name":          u.Name,
			"avatar":        u.Avatar,
			"email":         u.Email,
			"role":          u.Role,
			"company_name":  u.CompanyName,
			"is_admin":      u.IsAdmin,
			"status":        u.Status,
			"last_login_at": u.LastLoginAt,
			"created_at":    u.CreatedAt,
		})
	}
	SuccessPaged(c, list, total, page, pageSize)
}

// PUT /admin/users/:id/status
func (h *UserHandler) UpdateUserStatus(c *gin.Context) {
	var req struct {
		Status *int `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "参数校验失败: "+err.Error())
		return
	}
	if *req.Status != 0 && *req.Status != 1 {
		BadRequest(c, 40002, "status 只能为 0 或 1")
		return
	}

	user, err := h.authService.UpdateUserStatus(parseID(c.Param("id")), *req.Status)
	if err != nil {
		NotFound(c, 40401, "用户不存在")
		return
	}
	Success(c, gin.H{"id": user.ID, "status": user.Status})
}

// PUT /admin/users/:id/admin
func (h *UserHandler) ToggleAdmin(c *gin.Context) {
	var req struct {
		IsAdmin *bool `json:"is_admin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "参数校验失败: "+err.Error())
		return
	}

	targetID := parseID(c.Param("id"))
	if targetID == middleware.GetCurrentUserID(c) && !*req.IsAdmin {
		BadRequest(c, 40003, "不能撤销自己的管理员权限")
		return
	}

	user, err := h.authService.ToggleAdmin(targetID, *req.IsAdmin)
	if err != nil {
		NotFound(c, 40401, "用户不存在")
		return
	}
	Success(c, gin.H{"id": user.ID, "is_admin": user.IsAdmin})
}

// GET /admin/operation-logs
func (h *UserHandler) ListOperationLogs(c *gin.Context) {
	page, pageSize := parsePage(c)
	action := c.Query("action")
	resourceType := c.Query("resource_type")

	var userID *uint
	if s := c.Query("user_id"); s != "" {
		v := parseID(s)
		userID = &v
	}

	var startTime, endTime *time.Time
	if s := c.Query("start_time"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			startTime = &t
		}
	}
	if s := c.Query("end_time"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			endTime = &t
		}
	}

	logs, total, err := h.authService.GetOperationLogs(userID, action, resourceType, startTime, endTime, page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(logs))
	for _, l := range logs {
		item := gin.H{
			"id":            l.ID,
			"user_id":       l.UserID,
			"action":        l.Action,
			"resource_type": l.ResourceType,
			"resource_id":   l.ResourceID,
			"detail":        l.Detail,
			"ip":            l.IP,
			"created_at":    l.CreatedAt,
		}
		if l.User != nil {
			item["user"] = l.User.Brief()
		}
		list = append(list, item)
	}
	SuccessPaged(c, list, total, page, pageSize)
}
