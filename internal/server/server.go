package server

import (
	"context"
	"fmt"
	"log"
	"time"

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

	"kidtube/internal/cache"
	"kidtube/internal/config"
	"kidtube/internal/database"
	"kidtube/internal/middleware"
	"kidtube/internal/repository"
	"kidtube/internal/service"
	"kidtube/internal/verification"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	videoRepo   repository.VideoRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikedVideoRepository
	historyRepo repository.WatchHistoryRepository

	verifier       *verification.Service
	userService    *service.UserService
	videoService   *service.VideoService
	commentService *service.CommentService
	likeService    *service.LikedVideoService
	historyService *service.WatchHistoryService
}

// NewServer creates a server instance, establishing the database and
// Redis connections from configuration.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized
// dependencies. Tests and bootstrap layers use this directly.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: fiberprometheus.New("kidtube-api"),
		userRepo:       repository.NewUserRepository(db),
		videoRepo:      repository.NewVideoRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		likeRepo:       repository.NewLikedVideoRepository(db),
		historyRepo:    repository.NewWatchHistoryRepository(db),
	}

	s.verifier = verification.NewService(redisClient)
	s.userService = service.NewUserService(s.userRepo, s.verifier)
	s.videoService = service.NewVideoService(s.videoRepo)
	s.commentService = service.NewCommentService(db, s.commentRepo, s.videoRepo, s.userRepo)
	s.likeService = service.NewLikedVideoService(db, s.likeRepo, s.videoRepo)
	s.historyService = service.NewWatchHistoryService(s.historyRepo, s.videoRepo)

	return s, nil
}

// SetupMiddleware configures the Fiber middleware chain.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.Tracing())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit so browser
	// clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limit, 300 requests per minute per IP.
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(envelope{
				Code:    fiber.StatusTooManyRequests,
				Message: "too many requests, please try again later",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "KidTube Backend Metrics Dashboard",
	}))

	users := api.Group("/users")
	users.Post("/register", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "register"), s.Register)
	users.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	users.Post("/verification-code", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "verification_code"), s.SendVerificationCode)
	users.Post("/", s.CreateUser)
	users.Get("/", s.GetUsers)
	// Specific routes before the generic /:id routes.
	users.Get("/check-username", s.CheckUsername)
	users.Get("/check-nickname", s.CheckNickname)
	users.Get("/check-email", s.CheckEmail)
	users.Get("/username/:username", s.GetUserByUsername)
	users.Get("/nickname/:nickname", s.GetUserByNickname)
	users.Put("/password", s.ChangePassword)
	users.Get("/:id", s.GetUser)
	users.Put("/:id", s.UpdateUser)
	users.Delete("/:id", s.DeleteUser)

	videos := api.Group("/videos")
	videos.Post("/", s.CreateVideo)
	videos.Get("/", s.GetVideos)
	videos.Get("/search", middleware.RateLimit(
		s.redis, 30, time.Minute, "video_search"), s.SearchVideos)
	videos.Get("/hot", s.GetHotVideos)
	videos.Get("/latest", s.GetLatestVideos)
	videos.Get("/type/:type", s.GetVideosByType)
	videos.Post("/:id/like", s.IncrementVideoLikes)
	videos.Delete("/:id/like", s.DecrementVideoLikes)
	videos.Get("/:id", s.GetVideo)
	videos.Put("/:id", s.UpdateVideo)
	videos.Delete("/:id", s.DeleteVideo)

	comments := api.Group("/comments")
	comments.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	comments.Get("/videos/:videoId/page", s.GetVideoCommentsPaged)
	comments.Get("/videos/:videoId/count", s.CountVideoComments)
	comments.Get("/videos/:videoId", s.GetVideoComments)
	comments.Get("/users/:userId", s.GetUserComments)
	comments.Get("/:id", s.GetComment)
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	likes := api.Group("/liked-videos")
	likes.Post("/users/:userId/videos/:videoId", s.LikeVideo)
	likes.Delete("/users/:userId/videos/:videoId", s.UnlikeVideo)
	likes.Get("/users/:userId/videos/:videoId/check", s.CheckLiked)
	likes.Get("/users/:userId", s.GetLikedVideos)

	history := api.Group("/watch-history")
	history.Post("/", s.RecordWatch)
	history.Get("/users/:userId/videos/:videoId/progress", s.GetWatchProgress)
	history.Put("/users/:userId/videos/:videoId/progress", s.UpdateWatchProgress)
	history.Get("/users/:userId/videos/:videoId/check", s.CheckWatched)
	history.Delete("/users/:userId/videos/:videoId", s.DeleteWatchForVideo)
	history.Get("/users/:userId/page", s.GetWatchHistoryPaged)
	history.Get("/users/:userId/recent", s.GetRecentWatchHistory)
	history.Get("/users/:userId/count", s.CountWatchedVideos)
	history.Get("/users/:userId", s.GetWatchHistory)
	history.Get("/:id", s.GetWatchHistoryEntry)
	history.Delete("/:id", s.DeleteWatchHistoryEntry)
}

// HealthCheck is a simple alias for ReadinessCheck.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health.
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
		// Redis is optional; the API serves degraded without it.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "KidTube API",
		"status":  overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the Fiber app and begins serving.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "KidTube API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(envelope{
				Code:    fiber.StatusInternalServerError,
				Message: "internal server error",
			})
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully stops the server and closes connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
