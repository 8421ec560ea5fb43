// Sleep Analytics API
//
// REST API for importing, storing and analyzing sleep sessions.
//
//	@title			Sleep Analytics API
//	@version		1.0
//	@description	Import, store and analyze sleep sessions with phases and heart-rate samples.
//
//	@BasePath	/v1
//
//	@tag.name			sleep-records
//	@tag.description	Sleep record storage endpoints
//
//	@tag.name			import
//	@tag.description	Bulk record creation from exports and the synthetic generator
//
//	@tag.name			analytics
//	@tag.description	Metrics, trends and recommendations
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blaisecz/sleep-analytics/internal/api"
	"github.com/blaisecz/sleep-analytics/internal/api/handler"
	"github.com/blaisecz/sleep-analytics/internal/config"
	"github.com/blaisecz/sleep-analytics/internal/importer"
	"github.com/blaisecz/sleep-analytics/internal/repository"
	"github.com/blaisecz/sleep-analytics/internal/service"
	"github.com/blaisecz/sleep-analytics/internal/telemetry"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	// Connect to database
	db, err := config.NewDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := config.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	logger.Info("database migration completed")

	// Initialize repositories and services
	recordRepo := repository.NewSleepRecordRepository(db)

	recordService := service.NewSleepRecordService(recordRepo, logger)
	importService := service.NewImportService(recordRepo, importer.NewNormalizer(cfg.Import(), logger), logger)
	generateService := service.NewGenerateService(recordRepo, logger)
	analyticsService := service.NewAnalyticsService(recordRepo, cfg.Analytics(), logger)

	if cfg.Seed {
		logger.Info("seeding database with synthetic history (SEED=true)")
		if err := generateService.Seed(ctx, service.DemoUsers, time.Now()); err != nil {
			logger.Fatal("failed to seed database", zap.Error(err))
		}
	}

	// Initialize handlers
	recordHandler := handler.NewSleepRecordHandler(recordService, logger)
	importHandler := handler.NewImportHandler(importService, generateService, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, logger)

	router := api.NewRouter(recordHandler, importHandler, analyticsHandler, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
