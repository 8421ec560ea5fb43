package service

import (
	"context"

	"github.com/blaisecz/sleep-analytics/internal/domain"
	"github.com/blaisecz/sleep-analytics/internal/repository"
	"github.com/blaisecz/sleep-analytics/pkg/pagination"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SleepRecordService interface {
	Create(ctx context.Context, userID uuid.UUID, req *domain.SleepRecordRequest) (*domain.SleepRecord, error)
	Get(ctx context.Context, userID, recordID uuid.UUID) (*domain.SleepRecord, error)
	// Replace overwrites every attribute of a record; phases and samples are
	// replaced as a whole.
	Replace(ctx context.Context, userID, recordID uuid.UUID, req *domain.SleepRecordRequest) (*domain.SleepRecord, error)
	Delete(ctx context.Context, userID, recordID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, filter domain.SleepRecordFilter) (*domain.SleepRecordListResponse, error)
}

type sleepRecordService struct {
	repo   repository.SleepRecordRepository
	logger *zap.Logger
}

func NewSleepRecordService(repo repository.SleepRecordRepository, logger *zap.Logger) SleepRecordService {
	return &sleepRecordService{
		repo:   repo,
		logger: logger,
	}
}

func (s *sleepRecordService) Create(ctx context.Context, userID uuid.UUID, req *domain.SleepRecordRequest) (*domain.SleepRecord, error) {
	rec := req.ToRecord(userID)
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("sleep record created",
		zap.String("user_id", userID.String()),
		zap.String("record_id", rec.ID.String()),
	)
	return rec, nil
}

func (s *sleepRecordService) Get(ctx context.Context, userID, recordID uuid.UUID) (*domain.SleepRecord, error) {
	return s.repo.GetByID(ctx, userID, recordID)
}

func (s *sleepRecordService) Replace(ctx context.Context, userID, recordID uuid.UUID, req *domain.SleepRecordRequest) (*domain.SleepRecord, error) {
	rec, err := s.repo.GetByID(ctx, userID, recordID)
	if err != nil {
		return nil, err
	}

	replacement := req.ToRecord(userID)
	// Source is fixed at creation.
	replacement.Source = rec.Source
	if req.LocalTimezone == nil {
		replacement.LocalTimezone = rec.LocalTimezone
	}
	if err := replacement.Validate(); err != nil {
		return nil, err
	}

	rec.ReplaceAttributes(replacement)
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("sleep record replaced",
		zap.String("user_id", userID.String()),
		zap.String("record_id", rec.ID.String()),
	)
	return rec, nil
}

func (s *sleepRecordService) Delete(ctx context.Context, userID, recordID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, recordID); err != nil {
		return err
	}
	s.logger.Info("sleep record deleted",
		zap.String("user_id", userID.String()),
		zap.String("record_id", recordID.String()),
	)
	return nil
}

func (s *sleepRecordService) List(ctx context.Context, userID uuid.UUID, filter domain.SleepRecordFilter) (*domain.SleepRecordListResponse, error) {
	records, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	page, next, hasMore := pagination.Page(records, filter.Limit, func(r domain.SleepRecord) pagination.Cursor {
		return pagination.Cursor{ID: r.ID, StartAt: r.StartAt}
	})

	response := &domain.SleepRecordListResponse{
		Data: make([]domain.SleepRecordResponse, len(page)),
		Pagination: domain.PaginationResponse{
			NextCursor: next,
			HasMore:    hasMore,
		},
	}
	for i := range page {
		response.Data[i] = page[i].ToResponse()
	}
	return response, nil
}
