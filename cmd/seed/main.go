package main

import (
	"context"
	"time"

	"github.com/blaisecz/sleep-analytics/internal/config"
	"github.com/blaisecz/sleep-analytics/internal/repository"
	"github.com/blaisecz/sleep-analytics/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat, "sleep-analytics-seed")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := config.NewDatabase(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := config.Migrate(db); err != nil {
		logger.Fatal("failed to migrate", zap.Error(err))
	}

	generator := service.NewGenerateService(repository.NewSleepRecordRepository(db), logger)
	if err := generator.Seed(context.Background(), service.DemoUsers, time.Now()); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}

	for _, u := range service.DemoUsers {
		logger.Info("demo user ready",
			zap.String("user_id", u.ID.String()),
			zap.String("timezone", u.Timezone),
			zap.String("quality_trend", string(u.QualityTrend)),
		)
	}
}
