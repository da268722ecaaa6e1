package handler

import (
	"io"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/middleware"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/notify"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	projectService *service.ProjectService
	notifier       notify.Notifier
	audit          *auditor
}

func NewPaymentHandler(paymentService *service.PaymentService, projectService *service.ProjectService, notifier notify.Notifier, authService *service.AuthService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		projectService: projectService,
		notifier:       notifier,
		audit:          &auditor{authService: authService},
	}
}

// POST /projects/:id/payments
func (h *PaymentHandler) Fund(c *gin.Context) {
	var req struct {
		Amount      int64 `json:"amount" binding:"required,gt=0"`
		MilestoneID *uint `json:"milestone_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "参数校验失败: "+err.Error())
		return
	}

	payment, err := h.paymentService.Fund(parseID(c.Param("id")), req.MilestoneID, middleware.GetCurrentUserID(c), req.Amount)
	if err != nil {
		ServiceError(c, err)
		return
	}

	h.audit.log(c, "fund", "payment", payment.ID, model.JSONMap{"project_id": payment.ProjectID, "amount": payment.Amount})
	Success(c, paymentJSON(payment))
}

// GET /projects/:id/payments
func (h *PaymentHandler) ListByProject(c *gin.Context) {
	project, err := h.projectService.GetByID(parseID(c.Param("id")))
	if err != nil {
		NotFound(c, 40402, "项目不存在")
		return
	}
	if !h.projectService.CanAccess(project, middleware.GetCurrentUserID(c), middleware.GetCurrentUserIsAdmin(c)) {
		Forbidden(c, 40302, "无权访问该项目")
		return
	}

	payments, err := h.paymentService.ListByProject(project.ID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(payments))
	for i := range payments {
		list = append(list, paymentJSON(&payments[i]))
	}
	Success(c, list)
}

// POST /payments/:id/release
func (h *PaymentHandler) Release(c *gin.Context) {
	payment, err := h.paymentService.Release(parseID(c.Param("id")), middleware.GetCurrentUserID(c), middleware.GetCurrentUserIsAdmin(c))
	if err != nil {
		ServiceError(c, err)
		return
	}

	projectTitle := ""
	if project, perr := h.projectService.GetByID(payment.ProjectID); perr == nil {
		projectTitle = project.Title
	}
	_ = h.notifier.NotifyPaymentReleased(c.Request.Context(), notify.PaymentReleasedEvent{
		PaymentID:    payment.ID,
		ProjectID:    payment.ProjectID,
		ProjectTitle: projectTitle,
		Amount:       payment.Amount,
		PayeeID:      payment.PayeeID,
	})

	h.audit.log(c, "release", "payment", payment.ID, model.JSONMap{"amount": payment.Amount})
	Success(c, paymentJSON(payment))
}

// POST /payments/:id/refund
func (h *PaymentHandler) Refund(c *gin.Context) {
	payment, err := h.paymentService.Refund(parseID(c.Param("id")), middleware.GetCurrentUserID(c), middleware.GetCurrentUserIsAdmin(c))
	if err != nil {
		ServiceError(c, err)
		return
	}

	h.audit.log(c, "refund", "payment", payment.ID, model.JSONMap{"amount": payment.Amount})
	Success(c, paymentJSON(payment))
}

// POST /payments/webhook
//
// Provider callback, unauthenticated. The HMAC signature on the raw body is
// the only trust anchor, so the body must be read before binding.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		BadRequest(c, 40001, "读取请求体失败")
		return
	}

	if err := h.paymentService.VerifyWebhook(body, c.GetHeader("X-Signature")); err != nil {
		ServiceError(c, err)
		return
	}

	Success(c, nil)
}

func paymentJSON(p *model.Payment) gin.H {
	data := gin.H{
		"id":           p.ID,
		"reference":    p.Reference,
		"project_id":   p.ProjectID,
		"milestone_id": p.MilestoneID,
		"payer_id":     p.PayerID,
		"payee_id":     p.PayeeID,
		"amount":       p.Amount,
		"status":       p.Status,
		"released_at":  p.ReleasedAt,
		"refunded_at":  p.RefundedAt,
		"created_at":   p.CreatedAt,
	}
	if p.Milestone != nil {
		data["milestone"] = gin.H{
			"id":    p.Milestone.ID,
			"title": p.Milestone.Title,
		}
	}
	if p.Payer != nil {
		data["payer"] = p.Payer.Brief()
	}
	if p.Payee != nil {
		data["payee"] = p.Payee.Brief()
	}
	return data
}
