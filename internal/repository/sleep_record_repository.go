package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blaisecz/sleep-analytics/internal/domain"
	"github.com/blaisecz/sleep-analytics/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SleepRecordRepository interface {
	// FetchRange returns the user's records starting inside [from, to],
	// ascending by start, with phases and heart-rate samples loaded.
	FetchRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.SleepRecord, error)
	// SaveRecords stores all records or none and returns their ids in order.
	SaveRecords(ctx context.Context, records []domain.SleepRecord) ([]uuid.UUID, error)
	// ApplyImport overwrites the replace records and inserts the insert
	// records in one transaction. It returns the inserted ids in order.
	ApplyImport(ctx context.Context, replace, insert []domain.SleepRecord) ([]uuid.UUID, error)
	Create(ctx context.Context, rec *domain.SleepRecord) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.SleepRecord, error)
	// Update replaces every attribute of an existing record, children included.
	Update(ctx context.Context, rec *domain.SleepRecord) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, filter domain.SleepRecordFilter) ([]domain.SleepRecord, error)
}

type sleepRecordRepository struct {
	db *gorm.DB
}

func NewSleepRecordRepository(db *gorm.DB) SleepRecordRepository {
	return &sleepRecordRepository{db: db}
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Phases", func(db *gorm.DB) *gorm.DB { return db.Order("start_at ASC") }).
		Preload("HeartRate", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp ASC") })
}

func (r *sleepRecordRepository) FetchRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.SleepRecord, error) {
	var records []domain.SleepRecord
	err := withChildren(r.db.WithContext(ctx)).
		Where("user_id = ? AND start_at >= ? AND start_at <= ?", userID, from, to).
		Order("start_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *sleepRecordRepository) SaveRecords(ctx context.Context, records []domain.SleepRecord) ([]uuid.UUID, error) {
	return r.ApplyImport(ctx, nil, records)
}

func (r *sleepRecordRepository) ApplyImport(ctx context.Context, replace, insert []domain.SleepRecord) ([]uuid.UUID, error) {
	if len(replace) == 0 && len(insert) == 0 {
		return []uuid.UUID{}, nil
	}

	ids := make([]uuid.UUID, len(insert))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range replace {
			if err := replaceRecord(tx, &replace[i]); err != nil {
				return fmt.Errorf("replace record %s: %w", replace[i].ID, err)
			}
		}
		for i := range insert {
			prepare(&insert[i])
			if err := tx.Create(&insert[i]).Error; err != nil {
				return fmt.Errorf("save record %d: %w", i, err)
			}
			ids[i] = insert[i].ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *sleepRecordRepository) Create(ctx context.Context, rec *domain.SleepRecord) error {
	prepare(rec)
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *sleepRecordRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.SleepRecord, error) {
	var rec domain.SleepRecord
	err := withChildren(r.db.WithContext(ctx)).
		First(&rec, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *sleepRecordRepository) Update(ctx context.Context, rec *domain.SleepRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceRecord(tx, rec)
	})
}

// replaceRecord overwrites the row of rec and swaps its children inside tx.
func replaceRecord(tx *gorm.DB, rec *domain.SleepRecord) error {
	res := tx.Model(&domain.SleepRecord{}).
		Where("id = ? AND user_id = ?", rec.ID, rec.UserID).
		Updates(map[string]any{
			"start_at":       rec.StartAt,
			"end_at":         rec.EndAt,
			"local_timezone": rec.LocalTimezone,
			"source":         rec.Source,
			"source_name":    rec.SourceName,
			"notes":          rec.Notes,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Where("record_id = ?", rec.ID).Delete(&domain.PhaseSegment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("record_id = ?", rec.ID).Delete(&domain.HeartRateSample{}).Error; err != nil {
		return err
	}

	prepare(rec)
	if len(rec.Phases) > 0 {
		if err := tx.Create(&rec.Phases).Error; err != nil {
			return err
		}
	}
	if len(rec.HeartRate) > 0 {
		if err := tx.Create(&rec.HeartRate).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *sleepRecordRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.SleepRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *sleepRecordRepository) List(ctx context.Context, userID uuid.UUID, filter domain.SleepRecordFilter) ([]domain.SleepRecord, error) {
	query := withChildren(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("start_at DESC").
		Order("id DESC")

	if filter.From != nil {
		query = query.Where("start_at >= ?", filter.From)
	}
	if filter.To != nil {
		query = query.Where("start_at <= ?", filter.To)
	}

	cursor, err := pagination.DecodeCursor(filter.Cursor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if cursor != nil {
		// Newest first: continue strictly after the cursor position.
		query = query.Where(
			"(start_at < ?) OR (start_at = ? AND id < ?)",
			cursor.StartAt, cursor.StartAt, cursor.ID,
		)
	}

	// One extra row tells the caller whether another page exists.
	query = query.Limit(pagination.NormalizeLimit(filter.Limit) + 1)

	var records []domain.SleepRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// prepare assigns a record id when missing and resets child keys so they are
// inserted fresh under that id.
func prepare(rec *domain.SleepRecord) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	for i := range rec.Phases {
		rec.Phases[i].ID = 0
		rec.Phases[i].RecordID = rec.ID
	}
	for i := range rec.HeartRate {
		rec.HeartRate[i].ID = 0
		rec.HeartRate[i].RecordID = rec.ID
	}
}
