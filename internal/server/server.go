// Package server contains the HTTP handlers for the forum pages and its JSON API.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"climateforum/internal/cache"
	"climateforum/internal/config"
	"climateforum/internal/database"
	"climateforum/internal/middleware"
	"climateforum/internal/models"
	"climateforum/internal/repository"
	"climateforum/internal/service"
	"climateforum/internal/session"
	"climateforum/web"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	app             *fiber.App
	promMiddleware  *fiberprometheus.FiberPrometheus
	sessions        *session.Manager
	userRepo        repository.UserRepository
	postRepo        repository.PostRepository
	commentRepo     repository.CommentRepository
	reactionRepo    repository.ReactionRepository
	reportRepo      repository.ReportRepository
	authService     *service.AuthService
	postService     *service.PostService
	commentService  *service.CommentService
	reactionService *service.ReactionService
	reportService   *service.ReportService
}

// NewServer connects the database and Redis and builds a Server on top of them.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, in which case sessions are kept in memory.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("climateforum"),
		sessions: session.NewManager(session.Options{
			TTL:    cfg.SessionTTL,
			Secure: cfg.IsProduction(),
			Redis:  redisClient,
		}),
		userRepo:     repository.NewUserRepository(db),
		postRepo:     repository.NewPostRepository(db),
		commentRepo:  repository.NewCommentRepository(db),
		reactionRepo: repository.NewReactionRepository(db),
		reportRepo:   repository.NewReportRepository(db),
	}

	s.authService = service.NewAuthService(s.userRepo)
	s.postService = service.NewPostService(s.postRepo, s.commentRepo)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.reactionService = service.NewReactionService(s.reactionRepo)
	s.reportService = service.NewReportService(s.reportRepo, s.postRepo, s.commentRepo)

	return s, nil
}

// NewApp builds the Fiber application with views, middleware and routes.
func (s *Server) NewApp() *fiber.App {
	engine := html.NewFileSystem(http.FS(web.Views()), ".html")
	engine.AddFunc("formatDate", formatDate)
	engine.AddFunc("truncate", truncate)

	app := fiber.New(fiber.Config{
		AppName:      "Climate Community",
		Views:        engine,
		ViewsLayout:  "layouts/main",
		ErrorHandler: s.handleError,
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// cookieKey derives the 32-byte cookie encryption key from the secret.
func cookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))

	app.Use(middleware.StructuredLogger())

	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: cookieKey(s.config.SecretKey),
	}))

	app.Use("/static", filesystem.New(filesystem.Config{
		Root:   http.FS(web.Static()),
		MaxAge: 3600,
	}))
	app.Static("/uploads", s.config.UploadFolder)

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			if middleware.WantsJSON(c) {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests, please try again later.",
				})
			}
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many requests, please try again later.")
		},
	}))

	app.Use(s.LoadIdentity())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Climate Community Metrics",
	}))

	// Static pages
	app.Get("/", s.Index)
	app.Get("/seville", s.staticPage("pages/seville", "Seville"))
	app.Get("/learn", s.staticPage("pages/learn", "Learn"))
	app.Get("/guidelines", s.staticPage("pages/guidelines", "Community guidelines"))
	app.Get("/healing-earth", s.staticPage("pages/healing_earth", "Healing Earth"))

	// Auth
	app.Get("/signup", s.SignupPage)
	app.Post("/signup", middleware.RateLimit(s.redis, 5, 10*time.Minute, "signup"), s.Signup)
	app.Get("/login", s.LoginPage)
	app.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	app.Get("/logout", s.Logout)

	// Forum
	forum := app.Group("/forum")
	forum.Get("/", s.ForumList)
	forum.Get("/create", s.LoginRequired(), s.CreatePostPage)
	forum.Post("/create", s.LoginRequired(),
		middleware.RateLimit(s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	// Define specific /post/:id/:resource routes BEFORE the generic /post/:id route
	forum.Post("/post/:id/comment", s.LoginRequired(),
		middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.AddComment)
	forum.Post("/post/:id/comment/:commentID/report", s.LoginRequired(),
		middleware.RateLimit(s.redis, 10, 10*time.Minute, "report"), s.ReportComment)
	forum.Post("/post/:id/react", s.LoginRequired(),
		middleware.RateLimit(s.redis, 60, time.Minute, "react"), s.ToggleReaction)
	forum.Post("/post/:id/report", s.LoginRequired(),
		middleware.RateLimit(s.redis, 10, 10*time.Minute, "report"), s.ReportPost)
	forum.Get("/post/:id", s.PostDetail)

	// JSON API
	api := app.Group("/api")
	api.Post("/auth/token", middleware.RateLimit(s.redis, 10, 5*time.Minute, "token"), s.IssueToken)
	api.Get("/posts", s.APIListPosts)
	api.Post("/posts/:id/react", s.LoginRequired(),
		middleware.RateLimit(s.redis, 60, time.Minute, "react"), s.ToggleReaction)
	api.Get("/posts/:id", s.APIGetPost)
}

// LoadIdentity resolves the acting account from a Bearer token or the session cookie.
// Anonymous requests pass through untouched.
func (s *Server) LoadIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := middleware.BearerToken(c); token != "" {
			id, err := middleware.ParseToken(s.config.SecretKey, token)
			if err == nil {
				middleware.SetIdentity(c, id)
			}
			return c.Next()
		}

		id, err := s.sessions.Identity(c)
		if err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "failed to load session", slog.String("error", err.Error()))
			return c.Next()
		}
		if id != nil {
			middleware.SetIdentity(c, id)
		}
		return c.Next()
	}
}

// LoginRequired rejects anonymous requests: JSON callers get 401, browsers
// are sent to the login page.
func (s *Server) LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := middleware.CurrentIdentity(c); ok {
			return c.Next()
		}
		if middleware.WantsJSON(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Authentication required.",
			})
		}
		return s.redirectWithFlash(c, "/login", session.FlashInfo, msgLoginRequired)
	}
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadinessCheck pings the database and, when configured, Redis.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "ok"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unavailable"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}

// handleError renders errors that escaped a handler: JSON for API callers,
// the error page otherwise.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Something went wrong. Please try again."

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		message = fe.Message
	} else if appErr, ok := models.AsAppError(err); ok {
		status = models.StatusFor(appErr)
		if status < fiber.StatusInternalServerError {
			message = appErr.Message
		}
	}

	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}

	if middleware.WantsJSON(c) {
		return c.Status(status).JSON(models.ErrorResponse{Error: message})
	}

	identity, _ := middleware.CurrentIdentity(c)
	if rerr := c.Status(status).Render("error", fiber.Map{
		"Title":    http.StatusText(status),
		"Status":   status,
		"Message":  message,
		"Identity": identity,
		"Flashes":  nil,
	}); rerr != nil {
		return c.Status(status).SendString(message)
	}
	return nil
}

// Start builds the app and listens on the configured port. It blocks until
// the listener stops.
func (s *Server) Start() error {
	s.app = s.NewApp()

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port), slog.String("env", s.config.Env))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
