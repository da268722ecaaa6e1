package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/config"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/estimate"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/handler"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/notify"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/router"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/service"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/timeline"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/ws"
	"github.com/Imactuallyjuan/Terrin-sub000/pkg/identity"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	// Load config
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Database
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	// Auto migrate
	if err := db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Milestone{},
		&model.Bid{},
		&model.Conversation{},
		&model.Message{},
		&model.Payment{},
		&model.Estimate{},
		&model.OperationLog{},
		&model.UserSetting{},
	); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Core components
	hub := ws.NewHub(rdb)
	notifier := notify.NewWSNotifier(hub)
	idClient := identity.NewClient(cfg.Identity.ProjectID, cfg.Identity.APIKey)

	// Services
	authService := service.NewAuthService(db, idClient, cfg.JWT.Secret, cfg.JWT.ExpireHours)
	projectService := service.NewProjectService(db)
	milestoneService := service.NewMilestoneService(db)
	bidService := service.NewBidService(db)
	messageService := service.NewMessageService(db)
	paymentService := service.NewPaymentService(db, cfg.Payment.WebhookSecret)
	settingService := service.NewSettingService(db, cfg.Encrypt.AESKey, cfg.AI)

	// AI components
	generator := timeline.NewGenerator(milestoneService, cfg.AI.TimeoutSeconds)
	estimator := estimate.NewEstimator(db, cfg.AI.TimeoutSeconds)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService, authService)
	milestoneHandler := handler.NewMilestoneHandler(milestoneService, projectService, notifier, authService)
	bidHandler := handler.NewBidHandler(bidService, projectService, notifier, authService)
	messageHandler := handler.NewMessageHandler(messageService, projectService, notifier)
	paymentHandler := handler.NewPaymentHandler(paymentService, projectService, notifier, authService)
	aiHandler := handler.NewAIHandler(projectService, settingService, generator, estimator, authService)
	settingHandler := handler.NewSettingHandler(settingService)
	dashboardHandler := handler.NewDashboardHandler(db)
	wsHandler := handler.NewWSHandler(hub)

	// Gin engine
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Setup routes
	router.Setup(r, router.Deps{
		DB:               db,
		JWTSecret:        cfg.JWT.Secret,
		AuthHandler:      authHandler,
		UserHandler:      userHandler,
		ProjectHandler:   projectHandler,
		MilestoneHandler: milestoneHandler,
		BidHandler:       bidHandler,
		MessageHandler:   messageHandler,
		PaymentHandler:   paymentHandler,
		AIHandler:        aiHandler,
		SettingHandler:   settingHandler,
		DashboardHandler: dashboardHandler,
		WSHandler:        wsHandler,
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
