package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/gofiber/fiber/v3/middleware/static"

	"movie-discovery-backend/internal/config"
	"movie-discovery-backend/internal/database"
	"movie-discovery-backend/internal/handler"
	"movie-discovery-backend/internal/middleware"
	"movie-discovery-backend/internal/repository"
	"movie-discovery-backend/internal/service"
	"movie-discovery-backend/internal/tmdb"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to Redis (non-fatal; auth cache and rate limiting degrade)
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without auth cache and rate limits", "error", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		slog.Error("failed to create upload directory", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	// Initialize layers
	tmdbClient := tmdb.NewClient(cfg.TMDB.APIKey, cfg.TMDB.BaseURL)
	mediaRepo := repository.NewMediaRepository(db)
	userRepo := repository.NewUserRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)
	socialRepo := repository.NewSocialRepository(db)

	catalogSvc := service.NewCatalogService(mediaRepo, tmdbClient)
	trendingSvc := service.NewTrendingService(mediaRepo, tmdbClient)
	searchSvc := service.NewSearchService(mediaRepo, tmdbClient)
	userSvc := service.NewUserService(userRepo)
	watchlistSvc := service.NewWatchlistService(watchlistRepo)
	socialSvc := service.NewSocialService(socialRepo)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Movie Discovery Backend",
		ServerHeader: "Movie-Discovery",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Message: err.Error()})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New())

	limiter := middleware.NewRateLimiter(rdb, cfg.RateLimit.MaxRequests, cfg.RateLimit.WindowSec)
	app.Use(limiter.Handler())

	// Uploaded avatars
	app.Get("/uploads/*", static.New(cfg.UploadDir))

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML)
	}

	// Public API routes
	api := app.Group("/api")
	api.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	handler.NewCatalogHandler(catalogSvc).Register(api)
	handler.NewTrendingHandler(trendingSvc).Register(api)
	handler.NewSearchHandler(searchSvc).Register(api)

	// Authenticated API routes
	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, rdb)
	protected := app.Group("/api", auth.Handler())
	handler.NewFavoritesHandler(userSvc).Register(protected)
	handler.NewRecentlyViewedHandler(userSvc).Register(protected)
	handler.NewWatchlistHandler(watchlistSvc).Register(protected)
	handler.NewCommentHandler(socialSvc).Register(protected)
	handler.NewReviewHandler(socialSvc).Register(protected)
	handler.NewUserHandler(userSvc, cfg.UploadDir).Register(protected)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting server", "addr", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
