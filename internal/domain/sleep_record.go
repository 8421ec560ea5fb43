package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// PhaseKind is the sleep stage of a phase segment.
// @Description Sleep stage: awake, light, deep or rem.
type PhaseKind string

const (
	PhaseAwake PhaseKind = "awake"
	PhaseLight PhaseKind = "light"
	PhaseDeep  PhaseKind = "deep"
	PhaseREM   PhaseKind = "rem"
)

// Valid reports whether k is one of the known phase kinds.
func (k PhaseKind) Valid() bool {
	switch k {
	case PhaseAwake, PhaseLight, PhaseDeep, PhaseREM:
		return true
	}
	return false
}

// Asleep reports whether the phase counts as sleep time.
func (k PhaseKind) Asleep() bool {
	return k != PhaseAwake
}

// RecordSource tells how a record entered the system.
// @Description Origin of a sleep record.
type RecordSource string

const (
	SourceManual    RecordSource = "manual"
	SourceImported  RecordSource = "imported"
	SourceSynthetic RecordSource = "synthetic"
)

// SleepRecord is one sleep session. Duration is always EndAt - StartAt and is
// never stored.
type SleepRecord struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID        uuid.UUID         `gorm:"type:uuid;not null;index:idx_sleep_records_user_start" json:"user_id"`
	StartAt       time.Time         `gorm:"not null;index:idx_sleep_records_user_start" json:"start_at"`
	EndAt         time.Time         `gorm:"not null" json:"end_at"`
	LocalTimezone string            `gorm:"type:varchar(64);not null;default:'UTC'" json:"local_timezone"`
	Source        RecordSource      `gorm:"type:varchar(16);not null" json:"source"`
	SourceName    string            `gorm:"type:varchar(255)" json:"source_name,omitempty"`
	Notes         string            `gorm:"type:text" json:"notes,omitempty"`
	Phases        []PhaseSegment    `gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE" json:"phases"`
	HeartRate     []HeartRateSample `gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE" json:"heart_rate"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SleepRecord) TableName() string {
	return "sleep_records"
}

// PhaseSegment is a labelled sub-interval of a record.
type PhaseSegment struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	RecordID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Kind     PhaseKind `gorm:"type:varchar(8);not null" json:"kind"`
	StartAt  time.Time `gorm:"not null" json:"start_at"`
	EndAt    time.Time `gorm:"not null" json:"end_at"`
}

func (PhaseSegment) TableName() string {
	return "phase_segments"
}

// Duration of the segment.
func (p PhaseSegment) Duration() time.Duration {
	return p.EndAt.Sub(p.StartAt)
}

// HeartRateSample is one heart-rate reading taken during a record.
type HeartRateSample struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	RecordID  uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	BPM       float64   `gorm:"not null" json:"bpm"`
}

func (HeartRateSample) TableName() string {
	return "heart_rate_samples"
}

// Duration is derived from the timestamps.
func (r *SleepRecord) Duration() time.Duration {
	return r.EndAt.Sub(r.StartAt)
}

// Location returns the record's local timezone, falling back to UTC.
func (r *SleepRecord) Location() *time.Location {
	if r.LocalTimezone != "" {
		if l, err := time.LoadLocation(r.LocalTimezone); err == nil {
			return l
		}
	}
	return time.UTC
}

// LocalDate is the calendar day (YYYY-MM-DD) the record belongs to: the local
// date of waking up.
func (r *SleepRecord) LocalDate() string {
	return r.EndAt.In(r.Location()).Format("2006-01-02")
}

// Normalize converts timestamps to UTC and sorts phases and samples by time.
// It does not repair invariant violations; call Validate afterwards.
func (r *SleepRecord) Normalize() {
	r.StartAt = r.StartAt.UTC()
	r.EndAt = r.EndAt.UTC()
	for i := range r.Phases {
		r.Phases[i].StartAt = r.Phases[i].StartAt.UTC()
		r.Phases[i].EndAt = r.Phases[i].EndAt.UTC()
	}
	for i := range r.HeartRate {
		r.HeartRate[i].Timestamp = r.HeartRate[i].Timestamp.UTC()
	}
	sort.SliceStable(r.Phases, func(i, j int) bool {
		return r.Phases[i].StartAt.Before(r.Phases[j].StartAt)
	})
	sort.SliceStable(r.HeartRate, func(i, j int) bool {
		return r.HeartRate[i].Timestamp.Before(r.HeartRate[j].Timestamp)
	})
	if r.LocalTimezone == "" {
		r.LocalTimezone = "UTC"
	}
}

// Validate checks the record invariants: end after start, phases ordered,
// non-overlapping and inside the record span, samples in timestamp order.
func (r *SleepRecord) Validate() error {
	if r.StartAt.IsZero() {
		return &ValidationError{Field: "start_at", Reason: "is required"}
	}
	if r.EndAt.IsZero() {
		return &ValidationError{Field: "end_at", Reason: "is required"}
	}
	if !r.EndAt.After(r.StartAt) {
		return &ValidationError{Field: "end_at", Reason: "must be after start_at"}
	}
	switch r.Source {
	case SourceManual, SourceImported, SourceSynthetic:
	default:
		return &ValidationError{Field: "source", Reason: "must be one of manual, imported, synthetic"}
	}

	var prevEnd time.Time
	for i, p := range r.Phases {
		if !p.Kind.Valid() {
			return &ValidationError{Field: "phases.kind", Reason: "must be one of awake, light, deep, rem"}
		}
		if !p.EndAt.After(p.StartAt) {
			return &ValidationError{Field: "phases", Reason: "segment end must be after its start"}
		}
		if p.StartAt.Before(r.StartAt) || p.EndAt.After(r.EndAt) {
			return &ValidationError{Field: "phases", Reason: "segment lies outside the record span"}
		}
		if i > 0 && p.StartAt.Before(prevEnd) {
			return &ValidationError{Field: "phases", Reason: "segments overlap or are out of order"}
		}
		prevEnd = p.EndAt
	}

	for i := 1; i < len(r.HeartRate); i++ {
		if r.HeartRate[i].Timestamp.Before(r.HeartRate[i-1].Timestamp) {
			return &ValidationError{Field: "heart_rate", Reason: "samples must be ordered by timestamp"}
		}
	}
	for _, s := range r.HeartRate {
		if s.BPM <= 0 {
			return &ValidationError{Field: "heart_rate.bpm", Reason: "must be positive"}
		}
	}
	return nil
}

// Completeness scores how much detail a record carries; used to pick a winner
// between duplicates.
func (r *SleepRecord) Completeness() int {
	return len(r.Phases) + len(r.HeartRate)
}

// ReplaceAttributes copies every mutable attribute of src onto r, keeping r's
// identity and ownership.
func (r *SleepRecord) ReplaceAttributes(src *SleepRecord) {
	r.StartAt = src.StartAt
	r.EndAt = src.EndAt
	r.LocalTimezone = src.LocalTimezone
	r.Source = src.Source
	r.SourceName = src.SourceName
	r.Notes = src.Notes
	r.Phases = make([]PhaseSegment, len(src.Phases))
	for i, p := range src.Phases {
		r.Phases[i] = PhaseSegment{Kind: p.Kind, StartAt: p.StartAt, EndAt: p.EndAt}
	}
	r.HeartRate = make([]HeartRateSample, len(src.HeartRate))
	for i, s := range src.HeartRate {
		r.HeartRate[i] = HeartRateSample{Timestamp: s.Timestamp, BPM: s.BPM}
	}
}

// PhaseInput is one phase segment in a create/update request.
type PhaseInput struct {
	Kind    PhaseKind `json:"kind" validate:"required,oneof=awake light deep rem" example:"deep"`
	StartAt time.Time `json:"start_at" validate:"required" example:"2024-01-16T01:00:00Z"`
	EndAt   time.Time `json:"end_at" validate:"required,gtfield=StartAt" example:"2024-01-16T02:30:00Z"`
}

// HeartRateInput is one heart-rate sample in a create/update request.
type HeartRateInput struct {
	Timestamp time.Time `json:"timestamp" validate:"required" example:"2024-01-16T01:15:00Z"`
	BPM       float64   `json:"bpm" validate:"required,gt=0,lt=300" example:"58"`
}

// SleepRecordRequest is the request body for creating or replacing a record.
// @Description Request payload for recording a sleep session.
type SleepRecordRequest struct {
	// Sleep start time in RFC3339 format
	StartAt time.Time `json:"start_at" validate:"required" example:"2024-01-15T23:00:00Z"`
	// Sleep end time in RFC3339 format (must be after start_at)
	EndAt time.Time `json:"end_at" validate:"required,gtfield=StartAt" example:"2024-01-16T07:00:00Z"`
	// Optional IANA timezone used for calendar-day grouping
	LocalTimezone *string `json:"local_timezone,omitempty" validate:"omitempty,timezone" example:"Europe/Prague"`
	// Optional device or application name
	SourceName string `json:"source_name,omitempty" validate:"max=255" example:"Sleep Cycle"`
	// Optional free-text notes
	Notes string `json:"notes,omitempty" validate:"max=2000"`
	// Ordered, non-overlapping phase segments inside [start_at, end_at]
	Phases []PhaseInput `json:"phases,omitempty" validate:"omitempty,dive"`
	// Heart-rate samples ordered by timestamp
	HeartRate []HeartRateInput `json:"heart_rate,omitempty" validate:"omitempty,dive"`
}

// ToRecord builds a manual record for userID from the request.
func (req *SleepRecordRequest) ToRecord(userID uuid.UUID) *SleepRecord {
	rec := &SleepRecord{
		UserID:     userID,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		Source:     SourceManual,
		SourceName: req.SourceName,
		Notes:      req.Notes,
		Phases:     make([]PhaseSegment, 0, len(req.Phases)),
		HeartRate:  make([]HeartRateSample, 0, len(req.HeartRate)),
	}
	if req.LocalTimezone != nil {
		rec.LocalTimezone = *req.LocalTimezone
	}
	for _, p := range req.Phases {
		rec.Phases = append(rec.Phases, PhaseSegment{Kind: p.Kind, StartAt: p.StartAt, EndAt: p.EndAt})
	}
	for _, s := range req.HeartRate {
		rec.HeartRate = append(rec.HeartRate, HeartRateSample{Timestamp: s.Timestamp, BPM: s.BPM})
	}
	rec.Normalize()
	return rec
}

// SleepRecordResponse is the response body for record endpoints.
// @Description Sleep session with derived duration.
type SleepRecordResponse struct {
	ID              uuid.UUID         `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID          uuid.UUID         `json:"user_id" example:"660e8400-e29b-41d4-a716-446655440001"`
	StartAt         time.Time         `json:"start_at" example:"2024-01-15T23:00:00Z"`
	EndAt           time.Time         `json:"end_at" example:"2024-01-16T07:00:00Z"`
	DurationMinutes float64           `json:"duration_minutes" example:"480"`
	LocalTimezone   string            `json:"local_timezone" example:"Europe/Prague"`
	LocalDate       string            `json:"local_date" example:"2024-01-16"`
	Source          RecordSource      `json:"source" example:"manual"`
	SourceName      string            `json:"source_name,omitempty" example:"Sleep Cycle"`
	Notes           string            `json:"notes,omitempty"`
	Phases          []PhaseSegment    `json:"phases"`
	HeartRate       []HeartRateSample `json:"heart_rate"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (r *SleepRecord) ToResponse() SleepRecordResponse {
	phases := r.Phases
	if phases == nil {
		phases = []PhaseSegment{}
	}
	samples := r.HeartRate
	if samples == nil {
		samples = []HeartRateSample{}
	}
	return SleepRecordResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		StartAt:         r.StartAt,
		EndAt:           r.EndAt,
		DurationMinutes: r.Duration().Minutes(),
		LocalTimezone:   r.LocalTimezone,
		LocalDate:       r.LocalDate(),
		Source:          r.Source,
		SourceName:      r.SourceName,
		Notes:           r.Notes,
		Phases:          phases,
		HeartRate:       samples,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// SleepRecordListResponse is the response body for listing records.
// @Description Paginated list of sleep records.
type SleepRecordListResponse struct {
	Data       []SleepRecordResponse `json:"data"`
	Pagination PaginationResponse    `json:"pagination"`
}

// PaginationResponse contains pagination metadata.
// @Description Cursor-based pagination info.
type PaginationResponse struct {
	// Cursor for fetching the next page (empty if no more pages)
	NextCursor string `json:"next_cursor,omitempty"`
	// True if more results are available
	HasMore bool `json:"has_more" example:"true"`
}

// SleepRecordFilter contains filter parameters for listing records.
type SleepRecordFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Cursor string
}
