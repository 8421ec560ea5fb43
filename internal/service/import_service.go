package service

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/blaisecz/sleep-analytics/internal/domain"
	"github.com/blaisecz/sleep-analytics/internal/importer"
	"github.com/blaisecz/sleep-analytics/internal/repository"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ImportService loads external exports into a user's sleep history.
type ImportService interface {
	// ImportAppleHealth normalizes an Apple Health export and stores the new
	// records in one atomic write. Re-importing the same export stores nothing.
	ImportAppleHealth(ctx context.Context, userID uuid.UUID, payload io.Reader) (*domain.ImportResult, error)
}

type importService struct {
	repo       repository.SleepRecordRepository
	normalizer *importer.Normalizer
	logger     *zap.Logger
}

func NewImportService(repo repository.SleepRecordRepository, normalizer *importer.Normalizer, logger *zap.Logger) ImportService {
	return &importService{
		repo:       repo,
		normalizer: normalizer,
		logger:     logger,
	}
}

func (s *importService) ImportAppleHealth(ctx context.Context, userID uuid.UUID, payload io.Reader) (*domain.ImportResult, error) {
	tracer := otel.Tracer("sleep-analytics-api/import")
	ctx, span := tracer.Start(ctx, "ImportService.ImportAppleHealth",
		trace.WithAttributes(
			attribute.String("user.id", userID.String()),
			attribute.String("import.format", importer.FormatAppleHealth),
		),
	)
	defer span.End()

	batch, err := s.normalizer.Normalize(payload, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "normalize")
		return nil, err
	}

	result := &domain.ImportResult{
		Duplicates: batch.Duplicates,
		Skipped:    batch.Skipped,
	}
	if len(batch.Records) == 0 {
		span.SetAttributes(attribute.Int("import.skipped", result.Skipped))
		return result, nil
	}

	replace, fresh, err := s.reconcile(ctx, userID, batch.Records, result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reconcile")
		return nil, err
	}

	if len(replace) > 0 || len(fresh) > 0 {
		ids, err := s.repo.ApplyImport(ctx, replace, fresh)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "save")
			return nil, err
		}
		result.Imported = len(ids)
		result.Replaced = len(replace)
	}

	span.SetAttributes(
		attribute.Int("import.imported", result.Imported),
		attribute.Int("import.duplicates", result.Duplicates),
		attribute.Int("import.skipped", result.Skipped),
		attribute.Int("import.replaced", result.Replaced),
	)
	s.logger.Info("apple health import finished",
		zap.String("user_id", userID.String()),
		zap.Int("imported", result.Imported),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("skipped", result.Skipped),
		zap.Int("replaced", result.Replaced),
	)
	return result, nil
}

// reconcile splits candidates into stored records to overwrite and records
// to insert. A candidate duplicating a stored record of the user is dropped,
// and the stored record is overwritten when the candidate carries strictly
// more phase and heart-rate data. Each stored record matches at most one
// candidate. Nothing is written here.
func (s *importService) reconcile(ctx context.Context, userID uuid.UUID, candidates []domain.SleepRecord, result *domain.ImportResult) ([]domain.SleepRecord, []domain.SleepRecord, error) {
	tolerance := s.normalizer.Tolerance()
	from := candidates[0].StartAt.Add(-tolerance)
	to := candidates[len(candidates)-1].StartAt.Add(tolerance)

	stored, err := s.repo.FetchRange(ctx, userID, from, to)
	if err != nil {
		return nil, nil, err
	}
	sort.SliceStable(stored, func(i, j int) bool { return stored[i].StartAt.Before(stored[j].StartAt) })

	consumed := make([]bool, len(stored))
	var replace []domain.SleepRecord
	fresh := make([]domain.SleepRecord, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		match := findDuplicate(stored, consumed, c, tolerance)
		if match < 0 {
			fresh = append(fresh, *c)
			continue
		}

		consumed[match] = true
		result.Duplicates++
		if c.Completeness() <= stored[match].Completeness() {
			continue
		}
		rec := stored[match]
		rec.ReplaceAttributes(c)
		replace = append(replace, rec)
		s.logger.Debug("replacing stored record with more complete import",
			zap.String("record_id", rec.ID.String()),
		)
	}
	return replace, fresh, nil
}

// findDuplicate returns the index of the first stored record not yet
// consumed that duplicates c, or -1.
func findDuplicate(stored []domain.SleepRecord, consumed []bool, c *domain.SleepRecord, tolerance time.Duration) int {
	lo := sort.Search(len(stored), func(i int) bool {
		return !stored[i].StartAt.Before(c.StartAt.Add(-tolerance))
	})
	for i := lo; i < len(stored) && !stored[i].StartAt.After(c.StartAt.Add(tolerance)); i++ {
		if !consumed[i] && importer.IsDuplicate(&stored[i], c, tolerance) {
			return i
		}
	}
	return -1
}
