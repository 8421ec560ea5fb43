package service

import (
	"context"
	"sort"
	"time"

	"github.com/blaisecz/sleep-analytics/internal/domain"
	"github.com/google/uuid"
)

// MockSleepRecordRepository is an in-memory SleepRecordRepository
type MockSleepRecordRepository struct {
	records    map[uuid.UUID]*domain.SleepRecord
	listResult []domain.SleepRecord
	err        error
	saveErr    error

	saveCalls   int
	updateCalls int
}

func NewMockSleepRecordRepository() *MockSleepRecordRepository {
	return &MockSleepRecordRepository{
		records: make(map[uuid.UUID]*domain.SleepRecord),
	}
}

func (m *MockSleepRecordRepository) FetchRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.SleepRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := []domain.SleepRecord{}
	for _, rec := range m.records {
		if rec.UserID == userID && !rec.StartAt.Before(from) && !rec.StartAt.After(to) {
			result = append(result, *rec)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartAt.Before(result[j].StartAt) })
	return result, nil
}

func (m *MockSleepRecordRepository) SaveRecords(ctx context.Context, records []domain.SleepRecord) ([]uuid.UUID, error) {
	m.saveCalls++
	if m.err != nil {
		return nil, m.err
	}
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	ids := make([]uuid.UUID, len(records))
	for i := range records {
		rec := records[i]
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		m.records[rec.ID] = &rec
		ids[i] = rec.ID
	}
	return ids, nil
}

// ApplyImport writes nothing unless every replacement exists.
func (m *MockSleepRecordRepository) ApplyImport(ctx context.Context, replace, insert []domain.SleepRecord) ([]uuid.UUID, error) {
	m.saveCalls++
	if m.err != nil {
		return nil, m.err
	}
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	for _, rec := range replace {
		existing, ok := m.records[rec.ID]
		if !ok || existing.UserID != rec.UserID {
			return nil, domain.ErrNotFound
		}
	}
	for i := range replace {
		stored := replace[i]
		m.records[stored.ID] = &stored
	}
	ids := make([]uuid.UUID, len(insert))
	for i := range insert {
		rec := insert[i]
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		m.records[rec.ID] = &rec
		ids[i] = rec.ID
	}
	return ids, nil
}

func (m *MockSleepRecordRepository) Create(ctx context.Context, rec *domain.SleepRecord) error {
	if m.err != nil {
		return m.err
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now()
	stored := *rec
	m.records[rec.ID] = &stored
	return nil
}

func (m *MockSleepRecordRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.SleepRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	rec, ok := m.records[id]
	if !ok || rec.UserID != userID {
		return nil, domain.ErrNotFound
	}
	found := *rec
	return &found, nil
}

func (m *MockSleepRecordRepository) Update(ctx context.Context, rec *domain.SleepRecord) error {
	m.updateCalls++
	if m.err != nil {
		return m.err
	}
	existing, ok := m.records[rec.ID]
	if !ok || existing.UserID != rec.UserID {
		return domain.ErrNotFound
	}
	stored := *rec
	m.records[rec.ID] = &stored
	return nil
}

func (m *MockSleepRecordRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	rec, ok := m.records[id]
	if !ok || rec.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *MockSleepRecordRepository) List(ctx context.Context, userID uuid.UUID, filter domain.SleepRecordFilter) ([]domain.SleepRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.listResult != nil {
		result := make([]domain.SleepRecord, len(m.listResult))
		copy(result, m.listResult)
		return result, nil
	}
	var result []domain.SleepRecord
	for _, rec := range m.records {
		if rec.UserID == userID {
			result = append(result, *rec)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartAt.After(result[j].StartAt) })
	return result, nil
}

func (m *MockSleepRecordRepository) SetError(err error) {
	m.err = err
}

func (m *MockSleepRecordRepository) countFor(userID uuid.UUID) int {
	n := 0
	for _, rec := range m.records {
		if rec.UserID == userID {
			n++
		}
	}
	return n
}

// Helper functions
func strPtr(s string) *string {
	return &s
}
