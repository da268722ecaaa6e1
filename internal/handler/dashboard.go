package handler

import (
	"time"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/middleware"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// GET /dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var myProjects int64
	h.db.Model(&model.Project{}).
		Where("owner_id = ? OR contractor_id = ?", userID, userID).
		Count(&myProjects)

	var activeProjects int64
	h.db.Model(&model.Project{}).
		Where("(owner_id = ? OR contractor_id = ?) AND status IN ?", userID, userID,
			[]string{model.ProjectStatusActive, model.ProjectStatusInProgress}).
		Count(&activeProjects)

	var pendingBids int64
	h.db.Model(&model.Bid{}).
		Where("contractor_id = ? AND status = ?", userID, model.BidStatusPending).
		Count(&pendingBids)

	var receivedBids int64
	h.db.Model(&model.Bid{}).
		Joins("JOIN projects ON bids.project_id = projects.id").
		Where("projects.owner_id = ? AND bids.status = ?", userID, model.BidStatusPending).
		Count(&receivedBids)

	var heldPayments int64
	h.db.Model(&model.Payment{}).
		Where("(payer_id = ? OR payee_id = ?) AND status = ?", userID, userID, model.PaymentStatusHeld).
		Count(&heldPayments)

	var unreadMessages int64
	h.db.Model(&model.Message{}).
		Joins("JOIN conversations ON messages.conversation_id = conversations.id").
		Where("(conversations.homeowner_id = ? OR conversations.contractor_id = ?) AND messages.sender_id != ? AND messages.read_at IS NULL",
			userID, userID, userID).
		Count(&unreadMessages)

	// Milestones due within 7 days on the user's projects, not yet completed
	var dueSoon []model.Milestone
	now := time.Now()
	weekOut := now.Add(7 * 24 * time.Hour)
	h.db.Preload("Project").
		Joins("JOIN projects ON milestones.project_id = projects.id").
		Where("(projects.owner_id = ? OR projects.contractor_id = ?)", userID, userID).
		Where("milestones.status != ? AND milestones.due_date IS NOT NULL AND milestones.due_date <= ?",
			model.MilestoneStatusCompleted, weekOut).
		Order("milestones.due_date asc").Limit(10).Find(&dueSoon)

	upcoming := make([]gin.H, 0, len(dueSoon))
	for i := range dueSoon {
		m := &dueSoon[i]
		item := gin.H{
			"milestone_id": m.ID,
			"title":        m.Title,
			"due_date":     m.DueDate,
			"is_overdue":   m.IsOverdue(now),
		}
		if m.Project != nil {
			item["project"] = gin.H{"id": m.Project.ID, "title": m.Project.Title}
		}
		upcoming = append(upcoming, item)
	}

	Success(c, gin.H{
		"my_projects":         myProjects,
		"active_projects":     activeProjects,
		"pending_bids":        pendingBids,
		"received_bids":       receivedBids,
		"held_payments":       heldPayments,
		"unread_messages":     unreadMessages,
		"upcoming_milestones": upcoming,
	})
}

// GET /admin/dashboard/stats
func (h *DashboardHandler) GetAdminStats(c *gin.Context) {
	var totalUsers, totalProjects, totalBids, heldPayments int64
	h.db.Model(&model.User{}).Count(&totalUsers)
	h.db.Model(&model.Project{}).Count(&totalProjects)
	h.db.Model(&model.Bid{}).Count(&totalBids)
	h.db.Model(&model.Payment{}).Where("status = ?", model.PaymentStatusHeld).Count(&heldPayments)

	statusCounts := make(map[string]int64)
	var rows []struct {
		Status string
		Count  int64
	}
	h.db.Model(&model.Project{}).Select("status, count(*) as count").Group("status").Scan(&rows)
	for _, r := range rows {
		statusCounts[r.Status] = r.Count
	}

	Success(c, gin.H{
		"total_users":        totalUsers,
		"total_projects":     totalProjects,
		"total_bids":         totalBids,
		"held_payments":      heldPayments,
		"projects_by_status": statusCounts,
	})
}
