// Package server contains the HTTP handlers and routing for the InstaClone API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "instaclone/docs" // swagger docs
	"instaclone/internal/auth"
	"instaclone/internal/config"
	"instaclone/internal/featureflags"
	"instaclone/internal/middleware"
	"instaclone/internal/models"
	"instaclone/internal/notifications"
	"instaclone/internal/repository"
	"instaclone/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// bodyLimit leaves room for multipart framing around a maximum-size image.
const bodyLimit = service.MaxUploadBytes + 1024*1024

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	issuer         *auth.Issuer
	featureFlags   *featureflags.Manager
	authService    *service.AuthService
	postService    *service.PostService
	commentService *service.CommentService
	likeService    *service.LikeService
	userService    *service.UserService
	images         *service.ImageService
	flushTracer    func(context.Context) error
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; caching and rate limiting then degrade per policy.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	issuer, err := auth.NewIssuerFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	userRepo := repository.NewUserRepository(db, redisClient)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	images := service.NewImageService(cfg.UploadDir)

	commentService := service.NewCommentService(commentRepo, postRepo)
	likeService := service.NewLikeService(likeRepo, postRepo)
	if redisClient != nil {
		activity := notifications.NewNotifier(redisClient)
		commentService.SetNotifier(activity)
		likeService.SetNotifier(activity)
	}

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("instaclone-api"),
		issuer:         issuer,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		authService:    service.NewAuthService(userRepo, issuer),
		postService:    service.NewPostService(postRepo, images),
		commentService: commentService,
		likeService:    likeService,
		userService:    service.NewUserService(userRepo),
		images:         images,
	}, nil
}

// NewApp builds the fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "InstaClone API",
		BodyLimit: bodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok && fe.Code < fiber.StatusInternalServerError {
				// Bodies over bodyLimit never reach CreatePost.
				if fe.Code == fiber.StatusRequestEntityTooLarge && isUpload(c) {
					return models.RespondWithError(c, fiber.StatusBadRequest, service.ErrImageTooLarge)
				}
				return models.RespondWithError(c, fe.Code, fe)
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	// Context Middleware to propagate Request ID and trace ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		// Uploaded images are displayed by browser clients on another origin.
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global per-IP limiter, in-memory
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				models.NewRateLimitedError("Too many requests, please try again later."))
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	if s.featureFlags.Enabled(featureflags.MetricsDashboard, 0) {
		app.Get("/monitor", monitor.New(monitor.Config{Title: "InstaClone Metrics"}))
	}

	app.Static(strings.TrimSuffix(service.UploadURLPrefix, "/"), s.images.UploadDir(), fiber.Static{
		MaxAge: 3600,
	})

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	requireAuth := middleware.AuthRequired(s.issuer)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", middleware.RateLimit(s.redis, 5, 10*time.Minute, "register"), s.Register)
	authGroup.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)

	posts := api.Group("/posts")
	// Define specific routes BEFORE the generic /:id route
	posts.Get("/feed", s.GetFeed)
	posts.Post("/", requireAuth,
		middleware.RateLimitWithPolicy(s.redis, 10, time.Minute, middleware.FailClosed, "upload"),
		s.CreatePost)
	posts.Get("/:postId/comments", s.ListComments)
	posts.Post("/:postId/comments", requireAuth, s.AddComment)
	posts.Post("/:postId/likes", requireAuth, s.LikePost)
	posts.Delete("/:postId/likes", requireAuth, s.UnlikePost)
	posts.Get("/:id", s.GetPost)

	users := api.Group("/users", requireAuth)
	users.Get("/me", s.GetMyProfile)
	users.Patch("/me", s.UpdateMyProfile)
	users.Get("/me/flags", s.GetMyFeatureFlags)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC(),
	})
}

// ReadinessCheck reports 503 unless the database and Redis answer a ping.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if sqlDB, err := s.db.DB(); err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis == nil {
		redisStatus = "unavailable"
	} else if err := s.redis.Ping(ctx).Err(); err != nil {
		redisStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now().UTC(),
	})
}

// SetTracerShutdown registers the span exporter flush run during Shutdown.
func (s *Server) SetTracerShutdown(fn func(context.Context) error) {
	s.flushTracer = fn
}

// Start builds the app and blocks serving on the configured port.
func (s *Server) Start() error {
	app := s.NewApp()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown stops the HTTP server, flushes spans, then closes the database
// and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if s.flushTracer != nil {
		if err := s.flushTracer(ctx); err != nil {
			middleware.Logger.Error("error flushing traces", slog.String("error", err.Error()))
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

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
