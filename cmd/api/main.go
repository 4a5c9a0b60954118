package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"legaldesk/internal/bootstrap"
	"legaldesk/internal/config"
	handlers "legaldesk/internal/http/handler"
	"legaldesk/internal/http/middleware"
	"legaldesk/internal/logging"
	"legaldesk/internal/otel"
)

// @title legaldesk gateway
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log := logging.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	c, err := bootstrap.NewContainer(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize dependencies", zap.Error(err))
	}
	c.Start(ctx)

	promMiddleware, err := middleware.NewPrometheusMiddleware(c.Registry)
	if err != nil {
		log.Fatal("failed to register http metrics", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             cfg.BodyLimitMB * 1024 * 1024,
		DisableStartupMessage: true,
		// analysis calls can take as long as the backend timeout
		ReadTimeout:  cfg.Backend.Timeout + 30*time.Second,
		WriteTimeout: cfg.Backend.Timeout + 30*time.Second,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, " + middleware.SessionIDHeader + ", " + middleware.RequestIDHeader,
		ExposeHeaders: middleware.SessionIDHeader + ", " + middleware.RequestIDHeader + ", Content-Disposition, X-Report-Strategy",
	}))
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	var askLimiter *middleware.RateLimiter
	if cfg.Session.AskRatePerMinute > 0 {
		askLimiter = middleware.NewRateLimiter(cfg.Session.AskRatePerMinute, 0)
	}

	handlers.RegisterRoutes(app, handlers.Dependencies{
		DB:            c.DB,
		Sessions:      c.Sessions,
		Analysis:      c.Analysis,
		QA:            c.QA,
		Reports:       c.Reports,
		BackendHealth: c.Health.Last,
		Gatherer:      c.Registry,
		AskLimiter:    askLimiter,
		PublicHost:    cfg.AppHost,
	})

	errc := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", ":"+cfg.Port), zap.String("backend", cfg.Backend.BaseURL))
		errc <- app.Listen(":" + cfg.Port)
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		if err != nil {
			log.Error("server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Warn("http shutdown", zap.Error(err))
	}
	c.Close()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
