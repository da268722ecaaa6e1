package handler

import (
	"github.com/Imactuallyjuan/Terrin-sub000/internal/middleware"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// auditor writes best-effort operation log rows for mutating endpoints.
// Failures are swallowed: an audit miss must never fail the request.
type auditor struct {
	authService *service.AuthService
}

func (a *auditor) log(c *gin.Context, action, resourceType string, resourceID uint, detail model.JSONMap) {
	if a == nil || a.authService == nil {
		return
	}
	_ = a.authService.CreateOperationLog(&model.OperationLog{
		UserID:       middleware.GetCurrentUserID(c),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Detail:       detail,
		IP:           c.ClientIP(),
	})
}
