package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/blaisecz/sleep-analytics/internal/domain"
	"github.com/blaisecz/sleep-analytics/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

var (
	nightStart = time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC)
	nightEnd   = time.Date(2024, 1, 16, 7, 0, 0, 0, time.UTC)
)

func storedRecord(userID, id uuid.UUID) *domain.SleepRecord {
	return &domain.SleepRecord{
		ID:            id,
		UserID:        userID,
		StartAt:       nightStart,
		EndAt:         nightEnd,
		LocalTimezone: "UTC",
		Source:        domain.SourceManual,
		CreatedAt:     time.Now(),
	}
}

// MockSleepRecordService is a mock implementation of SleepRecordService
type MockSleepRecordService struct {
	createFunc  func(ctx context.Context, userID uuid.UUID, req *domain.SleepRecordRequest) (*domain.SleepRecord, error)
	getFunc     func(ctx context.Context, userID, recordID uuid.UUID) (*domain.SleepRecord, error)
	replaceFunc func(ctx context.Context, userID, recordID uuid.UUID, req *domain.SleepRecordRequest) (*domain.SleepRecord, error)
	deleteFunc  func(ctx context.Context, userID, recordID uuid.UUID) error
	listFunc    func(ctx context.Context, userID uuid.UUID, filter domain.SleepRecordFilter) (*domain.SleepRecordListResponse, error)
}

func (m *MockSleepRecordService) Create(ctx context.Context, userID uuid.UUID, req *domain.SleepRecordRequest) (*domain.SleepRecord, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID, req)
	}
	rec := req.ToRecord(userID)
	rec.ID = uuid.New()
	return rec, nil
}

func (m *MockSleepRecordService) Get(ctx context.Context, userID, recordID uuid.UUID) (*domain.SleepRecord, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, userID, recordID)
	}
	return storedRecord(userID, recordID), nil
}

func (m *MockSleepRecordService) Replace(ctx context.Context, userID, recordID uuid.UUID, req *domain.SleepRecordRequest) (*domain.SleepRecord, error) {
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, userID, recordID, req)
	}
	rec := req.ToRecord(userID)
	rec.ID = recordID
	return rec, nil
}

func (m *MockSleepRecordService) Delete(ctx context.Context, userID, recordID uuid.UUID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID, recordID)
	}
	return nil
}

func (m *MockSleepRecordService) List(ctx context.Context, userID uuid.UUID, filter domain.SleepRecordFilter) (*domain.SleepRecordListResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, filter)
	}
	return &domain.SleepRecordListResponse{
		Data:       []domain.SleepRecordResponse{},
		Pagination: domain.PaginationResponse{HasMore: false},
	}, nil
}

// MockImportService is a mock implementation of ImportService
type MockImportService struct {
	importFunc func(ctx context.Context, userID uuid.UUID, payload io.Reader) (*domain.ImportResult, error)
}

func (m *MockImportService) ImportAppleHealth(ctx context.Context, userID uuid.UUID, payload io.Reader) (*domain.ImportResult, error) {
	if m.importFunc != nil {
		return m.importFunc(ctx, userID, payload)
	}
	return &domain.ImportResult{}, nil
}

// MockGenerateService is a mock implementation of GenerateService
type MockGenerateService struct {
	generateFunc func(ctx context.Context, userID uuid.UUID, req *domain.GenerateRequest) (*domain.GenerateResponse, error)
}

func (m *MockGenerateService) Generate(ctx context.Context, userID uuid.UUID, req *domain.GenerateRequest) (*domain.GenerateResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, userID, req)
	}
	return &domain.GenerateResponse{Generated: 1, IDs: []uuid.UUID{uuid.New()}}, nil
}

func (m *MockGenerateService) Seed(ctx context.Context, users []service.DemoUser, now time.Time) error {
	return nil
}

// MockAnalyticsService is a mock implementation of AnalyticsService
type MockAnalyticsService struct {
	analyzeFunc func(ctx context.Context, userID uuid.UUID, from, to time.Time, opts domain.AnalyticsOptions) (*domain.AnalyticsReport, error)
	exportFunc  func(ctx context.Context, userID uuid.UUID, from, to time.Time, opts domain.AnalyticsOptions, w io.Writer) error
}

func (m *MockAnalyticsService) Analyze(ctx context.Context, userID uuid.UUID, from, to time.Time, opts domain.AnalyticsOptions) (*domain.AnalyticsReport, error) {
	if m.analyzeFunc != nil {
		return m.analyzeFunc(ctx, userID, from, to, opts)
	}
	return &domain.AnalyticsReport{
		UserID: userID,
		TrendSummary: domain.TrendSummary{
			From:         from,
			To:           to,
			Days:         []domain.DaySummary{},
			AnomalyDates: []string{},
		},
		Recommendations: []string{},
		Records:         []domain.RecordMetrics{},
	}, nil
}

func (m *MockAnalyticsService) Export(ctx context.Context, userID uuid.UUID, from, to time.Time, opts domain.AnalyticsOptions, w io.Writer) error {
	if m.exportFunc != nil {
		return m.exportFunc(ctx, userID, from, to, opts, w)
	}
	_, err := w.Write([]byte("PK\x03\x04"))
	return err
}

// withURLParams attaches chi route parameters to a request.
func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}
