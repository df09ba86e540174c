package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/doomer-lab/info-center/internal/agent"
	httpapi "github.com/doomer-lab/info-center/internal/api/http"
	"github.com/doomer-lab/info-center/internal/archive"
	"github.com/doomer-lab/info-center/internal/city"
	"github.com/doomer-lab/info-center/internal/config"
	"github.com/doomer-lab/info-center/internal/notify"
	"github.com/doomer-lab/info-center/internal/prompt"
	"github.com/doomer-lab/info-center/internal/scheduler"
	"github.com/doomer-lab/info-center/internal/weather"
	"github.com/doomer-lab/info-center/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// City table in Postgres.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	cityStore := city.NewStore(pool)
	if err := cityStore.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to ensure city schema: %v", err)
	}

	// Mongo for the archive and the agent prompt documents. Optional: the
	// pipeline degrades gracefully without it.
	var mongoDB *mongo.Database
	if cfg.MongoURL != "" && cfg.MongoDB != "" {
		client, err := mongo.Connect(ctx, options.Client().
			ApplyURI(cfg.MongoURL).
			SetMaxPoolSize(50).
			SetConnectTimeout(5*time.Second).
			SetServerSelectionTimeout(5*time.Second))
		if err != nil {
			log.Printf("mongo init failed: %v", err)
		} else {
			mongoDB = client.Database(cfg.MongoDB)
			defer func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.Printf("mongo disconnect failed: %v", err)
				}
			}()
		}
	}

	// Redis prompt cache. Optional.
	var promptCache prompt.Cache
	if cfg.RedisAddr != "" {
		promptCache = prompt.NewRedisCache(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	var promptStore prompt.Store
	var archiveStore *archive.MongoArchive
	if mongoDB != nil {
		promptStore = prompt.NewMongoStore(mongoDB)
		archiveStore = archive.NewMongoArchive(mongoDB)
	}

	// Generation backend.
	backend, err := agent.NewGeminiBackend(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("failed to create generation backend: %v", err)
	}
	defer backend.Close()

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	dispatcher := notify.NewDispatcher(notify.Config{
		BaseURL:     cfg.NoticeURL,
		ChatFrom:    cfg.ChatFrom,
		ChatTo:      cfg.ChatTo,
		MailFrom:    cfg.MailFrom,
		MailTo:      cfg.MailTo,
		MailSubject: cfg.MailSubject,
	}, httpClient)

	resolver := prompt.NewResolver(promptCache, promptStore, cfg.PromptTTL)
	runner := agent.NewRunner(resolver, backend)
	provider := providers.NewNMCProvider(httpClient, cfg.NMCBaseURL)

	// Core service orchestrating the pipeline.
	var archiver weather.Archiver
	if archiveStore != nil {
		archiver = archiveStore
	}
	service := weather.NewService(cityStore, provider, archiver, runner, dispatcher)

	// Daily morning push.
	sched := scheduler.New(cfg.PushCities, cfg.PushAt, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "info-center",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * time.Minute, // generation calls are slow
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// API routes.
	var reader httpapi.ArchiveReader
	if archiveStore != nil {
		reader = archiveStore
	}
	httpapi.RegisterRoutes(app, service, reader)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
