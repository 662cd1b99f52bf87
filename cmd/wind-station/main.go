package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/wind-station/internal/api/http"
	"github.com/i474232898/wind-station/internal/config"
	"github.com/i474232898/wind-station/internal/render"
	"github.com/i474232898/wind-station/internal/scheduler"
	"github.com/i474232898/wind-station/internal/store"
	"github.com/i474232898/wind-station/internal/wind"
	"github.com/i474232898/wind-station/internal/wind/providers"
)

func main() {
	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	sugar := zl.Sugar()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalw("failed to load config", "error", err)
	}
	if err := cfg.Validate(); err != nil {
		sugar.Fatalw("invalid config", "error", err)
	}

	// Shared HTTP client for the provider call; one attempt, no retries.
	client := resty.New().
		SetTimeout(cfg.HTTPTimeout).
		SetRetryCount(0)

	fetcher := providers.NewWundergroundFetcher(client, cfg.BaseURL, cfg.APIKey, sugar.Named("provider"))

	// In-memory series cache keyed by station day.
	cache := store.NewSeriesCache(time.Now, sugar.Named("cache"))

	// Core pipeline: fetch -> normalize -> cache.
	service := wind.NewService(fetcher, cache, wind.Options{
		StationID:  cfg.StationID,
		TTL:        cfg.CacheTTL,
		Normalizer: wind.Normalizer{MinHour: cfg.MinHour},
		Location:   cfg.Location,
	}, sugar.Named("wind"))

	// Scheduler that keeps today's series warm.
	sched := scheduler.New(service, cfg.RefreshInterval, cfg.HTTPTimeout*2, sugar.Named("scheduler"))
	if err := sched.Start(); err != nil {
		sugar.Fatalw("failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "wind-station",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
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

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "wind-station",
			"station": cfg.StationID,
			"cache":   cache.Stats(),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, render.NewRenderer(), httpapi.Options{
		RecentWindow: cfg.RecentWindow,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			sugar.Infow("fiber server stopped", "error", err)
		}
	}()
	sugar.Infow("wind-station listening", "port", cfg.Port, "station", cfg.StationID)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		sugar.Warnw("error during shutdown", "error", err)
	}
}
