package router

import (
	"github.com/Imactuallyjuan/Terrin-sub000/internal/handler"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

type Deps struct {
	DB               *gorm.DB
	JWTSecret        string
	AuthHandler      *handler.AuthHandler
	UserHandler      *handler.UserHandler
	ProjectHandler   *handler.ProjectHandler
	MilestoneHandler *handler.MilestoneHandler
	BidHandler       *handler.BidHandler
	MessageHandler   *handler.MessageHandler
	PaymentHandler   *handler.PaymentHandler
	AIHandler        *handler.AIHandler
	SettingHandler   *handler.SettingHandler
	DashboardHandler *handler.DashboardHandler
	WSHandler        *handler.WSHandler
}

func Setup(r *gin.Engine, deps Deps) {
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.MetricsMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// Public routes (no auth)
	api.POST("/auth/login", deps.AuthHandler.Login)
	api.POST("/payments/webhook", deps.PaymentHandler.Webhook)

	// Authenticated routes
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(deps.JWTSecret, deps.DB))
	{
		// Auth
		authed.GET("/auth/me", deps.AuthHandler.Me)
		authed.PUT("/auth/me", deps.AuthHandler.UpdateProfile)
		authed.PUT("/auth/me/role", deps.AuthHandler.UpdateRole)
		authed.POST("/auth/refresh", deps.AuthHandler.Refresh)

		// Contractor search (all authenticated users)
		authed.GET("/contractors/search", deps.UserHandler.SearchContractors)

		// Admin routes
		admin := authed.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/users", deps.UserHandler.ListUsers)
			admin.PUT("/users/:id/admin", deps.UserHandler.ToggleAdmin)
			admin.PUT("/users/:id/status", deps.UserHandler.UpdateUserStatus)
			admin.GET("/operation-logs", deps.UserHandler.ListOperationLogs)
			admin.GET("/dashboard/stats", deps.DashboardHandler.GetAdminStats)
		}

		// Projects
		projects := authed.Group("/projects")
		{
			projects.POST("", middleware.RequireRole("homeowner"), deps.ProjectHandler.Create)
			projects.GET("", deps.ProjectHandler.List)
			projects.GET("/:id", deps.ProjectHandler.GetDetail)
			projects.PUT("/:id", deps.ProjectHandler.Update)
			projects.PUT("/:id/status", deps.ProjectHandler.UpdateStatus)
			projects.DELETE("/:id", deps.ProjectHandler.Delete)

			// Milestones under projects
			projects.POST("/:id/milestones", deps.MilestoneHandler.Create)
			projects.GET("/:id/milestones", deps.MilestoneHandler.ListByProject)
			projects.GET("/:id/completion", deps.MilestoneHandler.GetCompletion)

			// Bids under projects
			projects.POST("/:id/bids", middleware.RequireRole("contractor"), deps.BidHandler.Create)
			projects.GET("/:id/bids", deps.BidHandler.ListByProject)

			// Payments under projects
			projects.POST("/:id/payments", middleware.RequireRole("homeowner"), deps.PaymentHandler.Fund)
			projects.GET("/:id/payments", deps.PaymentHandler.ListByProject)

			// AI generation
			projects.POST("/:id/generate-timeline", deps.AIHandler.GenerateTimeline)
			projects.POST("/:id/estimate", deps.AIHandler.EstimateCost)
			projects.GET("/:id/estimates", deps.AIHandler.ListEstimates)
		}

		// Milestones (standalone)
		milestones := authed.Group("/milestones")
		{
			milestones.PATCH("/:id", deps.MilestoneHandler.Update)
			milestones.POST("/:id/toggle", deps.MilestoneHandler.ToggleComplete)
			milestones.DELETE("/:id", deps.MilestoneHandler.Delete)
		}

		// Bids (standalone)
		bids := authed.Group("/bids")
		{
			bids.GET("/mine", middleware.RequireRole("contractor"), deps.BidHandler.ListMine)
			bids.POST("/:id/accept", deps.BidHandler.Accept)
			bids.POST("/:id/withdraw", middleware.RequireRole("contractor"), deps.BidHandler.Withdraw)
		}

		// Messaging
		conversations := authed.Group("/conversations")
		{
			conversations.POST("", deps.MessageHandler.OpenConversation)
			conversations.GET("", deps.MessageHandler.ListConversations)
			conversations.GET("/:id/messages", deps.MessageHandler.ListMessages)
			conversations.POST("/:id/messages", deps.MessageHandler.Send)
			conversations.POST("/:id/read", deps.MessageHandler.MarkRead)
		}
		authed.GET("/messages/unread-count", deps.MessageHandler.UnreadCount)

		// Payments (standalone)
		payments := authed.Group("/payments")
		{
			payments.POST("/:id/release", deps.PaymentHandler.Release)
			payments.POST("/:id/refund", deps.PaymentHandler.Refund)
		}

		// Settings
		settings := authed.Group("/settings")
		{
			settings.GET("/llm", deps.SettingHandler.Get)
			settings.PUT("/llm", deps.SettingHandler.Upsert)
		}

		// Dashboard
		authed.GET("/dashboard/stats", deps.DashboardHandler.GetStats)

		// Realtime events
		authed.GET("/ws", deps.WSHandler.Serve)
	}
}
