package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/community-resources/backend/internal/api/handlers"
	"github.com/community-resources/backend/internal/cache/redis"
	"github.com/community-resources/backend/internal/geocode"
	"github.com/community-resources/backend/internal/interpreter"
	"github.com/community-resources/backend/internal/llm"
	"github.com/community-resources/backend/internal/metrics"
	"github.com/community-resources/backend/internal/middleware/ratelimit"
	"github.com/community-resources/backend/internal/middleware/security"
	"github.com/community-resources/backend/internal/middleware/validation"
	"github.com/community-resources/backend/internal/storage/sqlite"
	"github.com/community-resources/backend/pkg/config"
	appLogger "github.com/community-resources/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Community Resources Guide API server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	if err := sqliteClient.InitSchema(); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Warn("Redis unavailable, continuing without counters and geocode cache", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// A missing API key is a deployment problem; the server still comes
	// up so the health and directory endpoints work, and search
	// requests fail with an explicit configuration error.
	var completionClient *llm.Client
	completionClient, err = llm.NewClient(cfg.LLM)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			appLogger.Warn("Completion service not configured, search interpretation disabled")
			completionClient = nil
		} else {
			appLogger.Fatal("Failed to create completion client", zap.Error(err))
		}
	}

	var geocodeCache geocode.Cache
	if redisClient != nil {
		geocodeCache = redisClient
	}
	geocoder := geocode.NewClient(cfg.Geocoding, geocodeCache)

	var searchCounters interpreter.UsageCounter
	if redisClient != nil {
		searchCounters = redisClient
	}
	var searchService *interpreter.Service
	if completionClient != nil {
		searchService = interpreter.NewService(completionClient, sqliteClient, searchCounters)
	} else {
		searchService = interpreter.NewService(nil, sqliteClient, searchCounters)
	}
	defer searchService.Drain()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-Passcode",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()

	searchHandler := handlers.NewSearchHandler(searchService)
	geocodeHandler := handlers.NewGeocodeHandler(geocoder)
	usageHandler := handlers.NewUsageHandler(sqliteClient, searchCounters)
	authHandler := handlers.NewAuthHandler(sqliteClient)

	var assistantHandler *handlers.AssistantHandler
	if completionClient != nil {
		assistantHandler = handlers.NewAssistantHandler(completionClient)
	} else {
		assistantHandler = handlers.NewAssistantHandler(nil)
	}

	api := app.Group("/api/v1")
	api.Use(limiter.Middleware())
	api.Use(validation.Middleware(validation.Config{Logger: appLogger.GetLogger()}))

	api.Post("/llm-search", searchHandler.HandleSearch)
	api.Post("/assistant", assistantHandler.HandleChat)
	api.Post("/geocode", geocodeHandler.HandleGeocode)
	api.Post("/usage", usageHandler.HandleUsage)
	api.Post("/auth/verify", authHandler.HandleVerify)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	searchService.Drain()
	appLogger.Info("Server stopped")
}
