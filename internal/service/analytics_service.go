package service

import (
	"context"
	"io"
	"time"

	"github.com/blaisecz/sleep-analytics/internal/analytics"
	"github.com/blaisecz/sleep-analytics/internal/domain"
	"github.com/blaisecz/sleep-analytics/internal/report"
	"github.com/blaisecz/sleep-analytics/internal/repository"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultAnalyticsWindowDays is used when a request leaves the window open.
const DefaultAnalyticsWindowDays = 30

// AnalyticsService computes a fresh report for a user and date window on
// every call. Nothing is cached between calls.
type AnalyticsService interface {
	Analyze(ctx context.Context, userID uuid.UUID, from, to time.Time, opts domain.AnalyticsOptions) (*domain.AnalyticsReport, error)
	// Export writes the same report as an XLSX workbook.
	Export(ctx context.Context, userID uuid.UUID, from, to time.Time, opts domain.AnalyticsOptions, w io.Writer) error
}

type analyticsService struct {
	repo   repository.SleepRecordRepository
	cfg    analytics.Config
	rules  []analytics.Rule
	logger *zap.Logger
}

func NewAnalyticsService(repo repository.SleepRecordRepository, cfg analytics.Config, logger *zap.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		cfg:    cfg,
		rules:  analytics.DefaultRules,
		logger: logger,
	}
}

func (s *analyticsService) Analyze(ctx context.Context, userID uuid.UUID, from, to time.Time, opts domain.AnalyticsOptions) (*domain.AnalyticsReport, error) {
	tracer := otel.Tracer("sleep-analytics-api/analytics")
	ctx, span := tracer.Start(ctx, "AnalyticsService.Analyze",
		trace.WithAttributes(
			attribute.String("user.id", userID.String()),
			attribute.String("window.from", from.Format(time.RFC3339)),
			attribute.String("window.to", to.Format(time.RFC3339)),
		),
	)
	defer span.End()

	if to.Before(from) {
		err := &domain.ValidationError{Field: "to", Reason: "must not be before from"}
		span.RecordError(err)
		return nil, err
	}

	records, err := s.repo.FetchRange(ctx, userID, from, to)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch records")
		return nil, err
	}
	span.SetAttributes(attribute.Int("records.count", len(records)))

	if opts.MinRecords > 0 && len(records) < opts.MinRecords {
		return nil, &domain.InsufficientDataError{Have: len(records), Need: opts.MinRecords}
	}

	metrics := analytics.ComputeAll(records, s.cfg)
	summary := analytics.AnalyzeMetrics(metrics, from, to, s.cfg)
	recommendations := analytics.Recommend(&summary, s.rules, s.cfg)

	if summary.Direction != nil {
		span.SetAttributes(attribute.String("trend.direction", string(*summary.Direction)))
	}
	span.SetAttributes(attribute.Int("trend.anomalies", len(summary.AnomalyDates)))

	s.logger.Debug("analytics computed",
		zap.String("user_id", userID.String()),
		zap.Int("records", len(records)),
		zap.Int("days", len(summary.Days)),
		zap.Int("anomalies", len(summary.AnomalyDates)),
	)

	return &domain.AnalyticsReport{
		UserID:          userID,
		TrendSummary:    summary,
		Recommendations: recommendations,
		Records:         metrics,
	}, nil
}

func (s *analyticsService) Export(ctx context.Context, userID uuid.UUID, from, to time.Time, opts domain.AnalyticsOptions, w io.Writer) error {
	rep, err := s.Analyze(ctx, userID, from, to, opts)
	if err != nil {
		return err
	}
	return report.WriteAnalytics(w, rep)
}
