package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"policyaudit/internal/config"
	"policyaudit/internal/extract"
	"policyaudit/internal/framework"
	handlers "policyaudit/internal/http/handler"
	"policyaudit/internal/http/middleware"
	"policyaudit/internal/llm/provider"
	"policyaudit/internal/metrics"
	"policyaudit/internal/otel"
	"policyaudit/internal/service"
	"policyaudit/internal/storage"
)

// @title Policy Audit API
// @version 1.0
// @description Analyzes policy documents against compliance frameworks.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	logger := middleware.NewJSONLogger(os.Stdout, time.Local, level)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	recorder, err := metrics.NewRecorder(reg)
	if err != nil {
		logger.Fatal("failed to register metrics", zap.Error(err))
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		logger.Fatal("failed to register http metrics", zap.Error(err))
	}

	client, closeClient, err := provider.New(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize llm client", zap.String("provider", cfg.LLM.Provider), zap.Error(err))
	}
	defer closeClient()

	catalog, err := framework.Load(cfg.FrameworksFile)
	if err != nil {
		logger.Fatal("failed to load frameworks", zap.Error(err))
	}

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithMetrics(recorder),
		service.WithMaxTokens(cfg.LLM.MaxTokens),
		service.WithTemperature(cfg.LLM.Temperature),
		service.WithTimeout(cfg.LLM.Timeout),
		service.WithStrictSchema(cfg.LLM.StrictSchema),
	}
	// Uploads are archived to S3-compatible object storage (MinIO-supported) when enabled
	if cfg.ArchiveEnabled {
		objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			logger.Fatal("failed to initialize object storage", zap.Error(err))
		}
		opts = append(opts, service.WithArchive(objStore))
	}

	svc := service.NewComplianceService(extract.NewPDFExtractor(cfg.MaxPages), client, opts...)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.MaxUploadMB * 1024 * 1024,
	})

	app.Use(fiberrecover.New())
	app.Use(otelfiber.Middleware())
	app.Use(cors.New(cors.Config{AllowOrigins: strings.Join(cfg.Origins(), ",")}))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, svc, catalog, logger)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme; APP_HOST when the request has none
	app.Get("/swagger/*", handlers.SwaggerUI(cfg.AppHost))

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	logger.Info("server starting", zap.String("addr", addr), zap.String("llm_provider", client.Provider()))
	if err := app.Listen(addr); err != nil {
		logger.Error("failed to start server", zap.Error(err))
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Error("tracing shutdown failed", zap.Error(err))
	}
}
