// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"incontro/internal/cache"
	"incontro/internal/config"
	"incontro/internal/database"
	"incontro/internal/middleware"
	"incontro/internal/models"
	"incontro/internal/repository"
	"incontro/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	profileRepo     repository.ProfileRepository
	interactionRepo repository.InteractionRepository
	chatRequestRepo repository.ChatRequestRepository
	postRepo        repository.PostRepository
	bannerRepo      repository.BannerRepository
	settingRepo     repository.SettingRepository

	presence *cache.PresenceTracker

	profileService     *service.ProfileService
	matchService       *service.MatchService
	interactionService *service.InteractionService
	chatRequestService *service.ChatRequestService
	postService        *service.PostService
	bannerService      *service.BannerService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and optionally
// performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)
	middleware.SetRevocationStore(redisClient)

	server := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		promMiddleware:  middleware.InitMetrics("incontro-api"),
		profileRepo:     repository.NewProfileRepository(db),
		interactionRepo: repository.NewInteractionRepository(db),
		chatRequestRepo: repository.NewChatRequestRepository(db),
		postRepo:        repository.NewPostRepository(db),
		bannerRepo:      repository.NewBannerRepository(db),
		settingRepo:     repository.NewSettingRepository(db),
		presence:        cache.NewPresenceTracker(redisClient),
	}

	// A nil *PresenceTracker must stay a nil interface so services fall back
	// to the persisted online flag.
	var presence service.Presence
	if server.presence != nil {
		presence = server.presence
	}

	server.profileService = service.NewProfileService(server.profileRepo)
	server.matchService = service.NewMatchService(server.profileRepo, presence)
	server.interactionService = service.NewInteractionService(server.interactionRepo, server.profileRepo, server.postRepo)
	server.chatRequestService = service.NewChatRequestService(server.chatRequestRepo, server.profileRepo, presence)
	server.postService = service.NewPostService(server.postRepo, server.profileRepo)
	server.bannerService = service.NewBannerService(server.bannerRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Distributed tracing (span per request)
	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Incontro Backend Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/refresh", middleware.AuthRequired, s.Refresh)
	auth.Post("/logout", middleware.AuthRequired, s.Logout)

	// Public browse routes. Anonymous visitors see every profile; a bearer
	// token switches on the reciprocal filter and compatibility scores.
	profiles := api.Group("/profiles")
	profiles.Get("/", middleware.OptionalAuth, s.BrowseProfiles)
	profiles.Get("/me", middleware.AuthRequired, s.GetMyProfile)
	profiles.Put("/me", middleware.AuthRequired, s.UpdateMyProfile)
	profiles.Post("/me/heartbeat", middleware.AuthRequired, s.Heartbeat)
	// Specific /:id/:resource routes BEFORE the generic /:id route
	profiles.Get("/:id/posts", middleware.OptionalAuth, s.GetProfilePosts)
	profiles.Get("/:id/interactions", middleware.AuthRequired, s.GetProfileInteractions)
	profiles.Post("/:id/interactions/:kind", middleware.AuthRequired, s.ToggleProfileInteraction)
	profiles.Get("/:id", middleware.OptionalAuth, s.GetProfile)

	api.Get("/compatibility/:viewerId/:candidateId", s.GetCompatibility)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// Chat request routes
	chatRequests := protected.Group("/chat-requests")
	chatRequests.Post("/", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "chat_request"), s.SendChatRequest)
	chatRequests.Get("/pending", s.GetPendingChatRequests)
	chatRequests.Get("/status/:userId", s.GetChatRequestStatus)
	chatRequests.Post("/:id/approve", s.ApproveChatRequest)
	chatRequests.Post("/:id/reject", s.RejectChatRequest)

	// Post routes
	posts := api.Group("/posts")
	posts.Get("/", middleware.OptionalAuth, s.GetPosts)
	posts.Post("/", middleware.AuthRequired, s.CreatePost)
	posts.Post("/:id/interactions/:kind", middleware.AuthRequired, s.TogglePostInteraction)
	posts.Delete("/:id", middleware.AuthRequired, s.DeletePost)
	posts.Get("/:id", middleware.OptionalAuth, s.GetPost)

	// Banner wall routes
	banners := protected.Group("/banners")
	banners.Get("/", s.GetLiveBanners)
	banners.Post("/", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "banner"), s.PublishBanner)
	banners.Post("/:id/replies", s.ReplyToBanner)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	adminProfiles := admin.Group("/profiles")
	adminProfiles.Get("/", s.AdminListProfiles)
	adminProfiles.Get("/pending", s.GetPendingValidation)
	adminProfiles.Post("/:id/validate", s.ValidateProfile)
	adminProfiles.Post("/:id/block", s.BlockProfile)
	adminProfiles.Post("/:id/unblock", s.UnblockProfile)
	adminProfiles.Post("/:id/premium", s.SetProfilePremium)
	adminProfiles.Delete("/:id", s.AdminDeleteProfile)
	admin.Get("/settings/:key", s.GetSetting)
	admin.Put("/settings/:key", s.PutSetting)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The app degrades gracefully without Redis (no presence, no rate
		// limits), so a missing client does not fail readiness.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		admin, err := s.isAdminByUserID(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewPermissionDeniedError("Admin access required"))
		}

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "Incontro API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("error closing Redis client: %v", err)
		}
	}

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			return sqlDB.Close()
		}
	}

	return nil
}
