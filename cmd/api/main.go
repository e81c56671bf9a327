package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/empleoradar/backend/internal/aggregate"
	"github.com/empleoradar/backend/internal/api"
	"github.com/empleoradar/backend/internal/api/middleware"
	"github.com/empleoradar/backend/internal/browser"
	"github.com/empleoradar/backend/internal/cache"
	"github.com/empleoradar/backend/internal/config"
	"github.com/empleoradar/backend/internal/official"
	"github.com/empleoradar/backend/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Server.Debug)
	defer logger.Sync()

	logger.Info("Starting job aggregation API",
		zap.String("version", api.Version),
		zap.Bool("constrained", cfg.Server.Constrained),
		zap.Bool("debug", cfg.Server.Debug),
	)

	// The browser session launches lazily on the first scrape; the
	// constrained set never touches it.
	session := browser.NewSessionManager(browser.Config{
		ExecutablePath: cfg.Browser.ExecutablePath,
		WindowWidth:    cfg.Browser.WindowWidth,
		WindowHeight:   cfg.Browser.WindowHeight,
	})

	resultCache, closeCache := buildCache(cfg)

	adapters := aggregate.AdapterSet(cfg.Sources, cfg.Server.Constrained, session)
	aggregator := aggregate.New(adapters, resultCache, aggregate.Options{
		IncludeDiagnostics: cfg.Sources.IncludeDiagnostics,
	})

	app := fiber.New(fiber.Config{
		AppName:               "Job Aggregation API " + api.Version,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		DisableStartupMessage: !cfg.Server.Debug,
		ErrorHandler:          errorHandler,
	})

	middleware.Setup(app, cfg)

	deps := &api.Dependencies{
		Aggregator: aggregator,
		Official:   official.NewClient(cfg.Sources.Adzuna),
	}
	api.SetupRoutes(app, cfg, deps)

	// Close the browser session before the process exits.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("Shutting down gracefully...")
		session.Close()
		closeCache()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", zap.String("address", addr))

	if err := app.Listen(addr); err != nil {
		logger.Fatal("Server failed to start", zap.Error(err))
	}
}

// buildCache picks the shared Redis cache when configured, falling back to
// the in-process cache if Redis is unreachable at boot.
func buildCache(cfg *config.Config) (cache.ResultCache, func()) {
	if cfg.Cache.RedisURL == "" {
		return cache.NewMemory(cfg.Cache.TTL, cfg.Cache.Capacity), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisCache, err := cache.NewRedis(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)
	if err != nil {
		logger.Warn("Redis cache unavailable, using memory cache", zap.Error(err))
		return cache.NewMemory(cfg.Cache.TTL, cfg.Cache.Capacity), func() {}
	}
	return redisCache, func() { _ = redisCache.Close() }
}

// errorHandler converts uncaught failures into the error envelope the UI
// expects: empty jobs array, never a bare message.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	logger.Error("Request error",
		zap.Int("status", code),
		zap.String("path", c.Path()),
		zap.Error(err),
	)

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"jobs":    []struct{}{},
	})
}
