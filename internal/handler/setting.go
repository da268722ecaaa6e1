package handler

import (
	"github.com/Imactuallyjuan/Terrin-sub000/internal/middleware"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type SettingHandler struct {
	settingService *service.SettingService
}

func NewSettingHandler(settingService *service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// GET /settings/llm
func (h *SettingHandler) Get(c *gin.Context) {
	setting, err := h.settingService.GetByUserID(middleware.GetCurrentUserID(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	if setting == nil {
		Success(c, gin.H{"configured": false})
		return
	}
	// Never echo the key back, even encrypted.
	Success(c, gin.H{
		"configured":  true,
		"base_url":    setting.BaseURL,
		"model":       setting.Model,
		"has_api_key": setting.APIKey != "",
		"updated_at":  setting.UpdatedAt,
	})
}

// PUT /settings/llm
func (h *SettingHandler) Upsert(c *gin.Context) {
	var req struct {
		BaseURL string `json:"base_url" binding:"required,url,max=512"`
		APIKey  string `json:"api_key" binding:"max=512"`
		Model   string `json:"model" binding:"max=128"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "参数校验失败: "+err.Error())
		return
	}

	setting, err := h.settingService.Upsert(middleware.GetCurrentUserID(c), req.BaseURL, req.APIKey, req.Model)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{
		"configured":  true,
		"base_url":    setting.BaseURL,
		"model":       setting.Model,
		"has_api_key": setting.APIKey != "",
		"updated_at":  setting.UpdatedAt,
	})
}
