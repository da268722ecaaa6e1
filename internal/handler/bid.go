package handler

import (
	"github.com/Imactuallyjuan/Terrin-sub000/internal/middleware"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/notify"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type BidHandler struct {
	bidService     *service.BidService
	projectService *service.ProjectService
	notifier       notify.Notifier
	audit          *auditor
}

func NewBidHandler(bidService *service.BidService, projectService *service.ProjectService, notifier notify.Notifier, authService *service.AuthService) *BidHandler {
	return &BidHandler{
		bidService:     bidService,
		projectService: projectService,
		notifier:       notifier,
		audit:          &auditor{authService: authService},
	}
}

// POST /projects/:id/bids
func (h *BidHandler) Create(c *gin.Context) {
	var req struct {
		Amount       int64  `json:"amount" binding:"required,gt=0"`
		TimelineDays int    `json:"timeline_days" binding:"gte=0"`
		Message      string `json:"message" binding:"max=5000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, 40001, "参数校验失败: "+err.Error())
		return
	}

	user := middleware.GetCurrentUser(c)
	bid := &model.Bid{
		ProjectID:    parseID(c.Param("id")),
		ContractorID: user.ID,
		Amount:       req.Amount,
		TimelineDays: req.TimelineDays,
		Message:      req.Message,
	}
	if err := h.bidService.Create(bid); err != nil {
		ServiceError(c, err)
		return
	}

	if project, err := h.projectService.GetByID(bid.ProjectID); err == nil {
		_ = h.notifier.NotifyBidReceived(c.Request.Context(), notify.BidReceivedEvent{
			BidID:          bid.ID,
			ProjectID:      project.ID,
			ProjectTitle:   project.Title,
			ContractorName: user.Name,
			Amount:         bid.Amount,
			OwnerID:        project.OwnerID,
		})
	}

	h.audit.log(c, "create", "bid", bid.ID, model.JSONMap{"project_id": bid.ProjectID, "amount": bid.Amount})
	Success(c, bidJSON(bid))
}

// GET /projects/:id/bids
func (h *BidHandler) ListByProject(c *gin.Context) {
	project, err := h.projectService.GetByID(parseID(c.Param("id")))
	if err != nil {
		NotFound(c, 40402, "项目不存在")
		return
	}

	// The owner and admins see every bid; a contractor only sees their own.
	userID := middleware.GetCurrentUserID(c)
	isAdmin := middleware.GetCurrentUserIsAdmin(c)

	bids, err := h.bidService.ListByProject(project.ID)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(bids))
	for i := range bids {
		b := &bids[i]
		if !isAdmin && project.OwnerID != userID && b.ContractorID != userID {
			continue
		}
		list = append(list, bidJSON(b))
	}
	Success(c, list)
}

// GET /bids/mine
func (h *BidHandler) ListMine(c *gin.Context) {
	page, pageSize := parsePage(c)
	bids, total, err := h.bidService.ListByContractor(middleware.GetCurrentUserID(c), page, pageSize)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	list := make([]gin.H, 0, len(bids))
	for i := range bids {
		item := bidJSON(&bids[i])
		if bids[i].Project != nil {
			item["project"] = gin.H{
				"id":     bids[i].Project.ID,
				"title":  bids[i].Project.Title,
				"status": bids[i].Project.Status,
			}
		}
		list = append(list, item)
	}
	SuccessPaged(c, list, total, page, pageSize)
}

// POST /bids/:id/accept
func (h *BidHandler) Accept(c *gin.Context) {
	bid, err := h.bidService.GetByID(parseID(c.Param("id")))
	if err != nil {
		NotFound(c, 40407, "报价不存在")
		return
	}

	project, err := h.projectService.GetByID(bid.ProjectID)
	if err != nil {
		NotFound(c, 40402, "项目不存在")
		return
	}
	user := middleware.GetCurrentUser(c)
	if !user.IsAdmin && project.OwnerID != user.ID {
		Forbidden(c, 40302, "只有项目业主可以接受报价")
		return
	}

	bid, err = h.bidService.Accept(bid.ID)
	if err != nil {
		ServiceError(c, err)
		return
	}

	_ = h.notifier.NotifyBidAccepted(c.Request.Context(), notify.BidAcceptedEvent{
		BidID:        bid.ID,
		ProjectID:    project.ID,
		ProjectTitle: project.Title,
		OwnerName:    user.Name,
		ContractorID: bid.ContractorID,
	})

	h.audit.log(c, "accept", "bid", bid.ID, model.JSONMap{"project_id": bid.ProjectID, "contractor_id": bid.ContractorID})
	Success(c, bidJSON(bid))
}

// POST /bids/:id/withdraw
func (h *BidHandler) Withdraw(c *gin.Context) {
	bidID := parseID(c.Param("id"))
	if err := h.bidService.Withdraw(bidID, middleware.GetCurrentUserID(c)); err != nil {
		ServiceError(c, err)
		return
	}

	h.audit.log(c, "withdraw", "bid", bidID, nil)
	Success(c, nil)
}

func bidJSON(b *model.Bid) gin.H {
	data := gin.H{
		"id":            b.ID,
		"project_id":    b.ProjectID,
		"contractor_id": b.ContractorID,
		"amount":        b.Amount,
		"timeline_days": b.TimelineDays,
		"message":       b.Message,
		"status":        b.Status,
		"created_at":    b.CreatedAt,
	}
	if b.Contractor != nil {
		data["contractor"] = b.Contractor.Brief()
	}
	return data
}
