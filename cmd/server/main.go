package main

import (
	"context"
	"log"
	"net/http"

	"questboard/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"questboard/internal/auth"
	"questboard/internal/cache"
	"questboard/internal/config"
	"questboard/internal/db"
	"questboard/internal/handler"
	"questboard/internal/model"
	"questboard/internal/realtime"
	"questboard/internal/repository"
	"questboard/internal/router"
	"questboard/internal/service"
)

// @title QuestBoard API
// @version 1.0
// @description Gamified task and habit tracker with XP levels, a live leaderboard, and rotating refresh-token authentication.
// @host localhost:4000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.Level{},
		&model.User{},
		&model.Task{},
		&model.Tag{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Printf("redis unavailable, access-token revocation degraded: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)
	levelRepo := repository.NewLevelRepository(gormDB)
	tagRepo := repository.NewTagRepository(gormDB)
	txRunner := repository.NewTxRunner(gormDB)

	if err := levelRepo.Seed(context.Background(), model.DefaultLevels); err != nil {
		log.Fatalf("seed levels: %v", err)
	}

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Real-time fan-out
	hub := realtime.NewHub()
	gateway := realtime.NewGateway(hub, jwtService, tokenStore, cfg.AllowedOrigins)

	// Services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	ledger := service.NewProgressionLedger(userRepo, levelRepo)
	leaderboardService := service.NewLeaderboardService(userRepo)
	taskService := service.NewTaskService(taskRepo, txRunner, ledger, leaderboardService, hub)
	userService := service.NewUserService(userRepo, ledger)
	tagService := service.NewTagService(tagRepo, taskRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, cfg.IsProduction())
	taskHandler := handler.NewTaskHandler(taskService)
	tagHandler := handler.NewTagHandler(tagService)
	userHandler := handler.NewUserHandler(userService, leaderboardService)

	router.Register(
		e,
		cfg,
		tokenStore,
		userService,
		authHandler,
		taskHandler,
		tagHandler,
		userHandler,
		gateway,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
