package handler

import (
	"github.com/Imactuallyjuan/Terrin-sub000/internal/middleware"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		IDToken string `json:"id_token" binding:"required"`
		Role    string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "参数校验失败: "+err.Error())
		return
	}

	user, token, expireAt, isNew, err := h.authService.Login(req.IDToken, req.Role)
	if err != nil {
		Unauthorized(c, 40103, "登录失败: "+err.Error())
		return
	}

	Success(c, gin.H{
		"token":     token,
		"expire_at": expireAt,
		"is_new":    isNew,
		"user":      user.Brief(),
	})
}

// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	token, expireAt, err := h.authService.RefreshToken(userID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{
		"token":     token,
		"expire_at": expireAt,
	})
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		Unauthorized(c, 40103, "未登录")
		return
	}
	Success(c, gin.H{
		"id":            user.ID,
		"name":          user.Name,
		"avatar":        user.Avatar,
		"email":         user.Email,
		"phone":         user.Phone,
		"role":          user.Role,
		"company_name":  user.CompanyName,
		"is_admin":      user.IsAdmin,
		"last_login_at": user.LastLoginAt,
		"created_at":    user.CreatedAt,
	})
}

// PUT /auth/me
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name        *string `json:"name"`
		Avatar      *string `json:"avatar"`
		Phone       *string `json:"phone"`
		CompanyName *string `json:"company_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "参数校验失败: "+err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.CompanyName != nil {
		updates["company_name"] = *req.CompanyName
	}
	if len(updates) == 0 {
		BadRequest(c, 40001, "没有需要更新的字段")
		return
	}

	user, err := h.authService.UpdateProfile(middleware.GetCurrentUserID(c), updates)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, user.Brief())
}

// PUT /auth/me/role
func (h *AuthHandler) UpdateRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "参数校验失败: "+err.Error())
		return
	}

	user, err := h.authService.UpdateRole(middleware.GetCurrentUserID(c), req.Role)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, user.Brief())
}
