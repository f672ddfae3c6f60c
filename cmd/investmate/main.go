package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"investmate/internal/api"
	"investmate/internal/api/handlers"
	"investmate/internal/repository"
	"investmate/internal/service"
	"investmate/internal/telegram"
	"investmate/pkg/auth"
	"investmate/pkg/config"
	"investmate/pkg/logger"
	"investmate/pkg/objectstore"
	"investmate/pkg/postgres"

	"go.uber.org/zap"
)

// @title InvestMate API
// @version 1.0
// @description Property assistant backend for real-estate agents

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting InvestMate service")

	// Initialize database
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	agentRepo := repository.NewAgentRepository(db, appLogger)
	propertyRepo := repository.NewPropertyRepository(db, appLogger)
	conversationRepo := repository.NewConversationRepository(db, appLogger)
	analyticsRepo := repository.NewAnalyticsRepository(db, appLogger)
	cacheRepo := repository.NewCriteriaCacheRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize object storage
	store, err := objectstore.New(&cfg.S3, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Initialize services
	completer, err := service.NewCompleter(&cfg.LLM, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM provider", zap.Error(err))
	}

	authService := service.NewAuthService(agentRepo, jwtManager, appLogger)
	criteriaService := service.NewCriteriaService(completer, cfg.LLM.Timeout, appLogger)
	cacheService := service.NewCacheService(cacheRepo, cfg.Cache.CriteriaTTL, cfg.Cache.MaxEntries, appLogger)
	chatService := service.NewChatService(
		criteriaService, cacheService, propertyRepo, conversationRepo, analyticsRepo,
		cfg.Retention.MaxConversationsPerAgent, appLogger,
	)
	propertyService := service.NewPropertyService(propertyRepo, completer, store, cfg.LLM.Timeout, appLogger)
	dashboardService := service.NewDashboardService(
		analyticsRepo, conversationRepo, propertyRepo, completer,
		cfg.Retention.DashboardHourOffset, cfg.LLM.InsightTimeout, appLogger,
	)
	cleanupService := service.NewCleanupService(
		agentRepo, conversationRepo, cacheService,
		cfg.Retention.MaxConversationsPerAgent, cfg.Retention.ConversationTTL, appLogger,
	)

	go cleanupService.Start(ctx, cfg.Retention.CleanupInterval)

	// Telegram bridge
	tgClient := telegram.NewClient(cfg.Telegram.Token, appLogger)
	tgSessions := telegram.NewSessionStore()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	chatHandler := handlers.NewChatHandler(chatService, cacheService, appLogger)
	propertyHandler := handlers.NewPropertyHandler(propertyService, appLogger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, appLogger)
	telegramHandler := handlers.NewTelegramHandler(chatService, tgClient, tgSessions, cfg.Telegram.BotUsername, appLogger)

	// Setup router
	app := api.SetupRouter(
		authHandler, chatHandler, propertyHandler, dashboardHandler, telegramHandler,
		jwtManager, appLogger,
	)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	cancel()
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
