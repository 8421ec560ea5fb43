package importer

import (
	"testing"
	"time"

	"github.com/blaisecz/sleep-analytics/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)

func candidate(startOffset time.Duration, samples int, name string) domain.SleepRecord {
	rec := domain.SleepRecord{
		UserID:     userID,
		StartAt:    base.Add(startOffset),
		EndAt:      base.Add(startOffset + 8*time.Hour),
		Source:     domain.SourceImported,
		SourceName: name,
	}
	for i := 0; i < samples; i++ {
		rec.HeartRate = append(rec.HeartRate, domain.HeartRateSample{
			Timestamp: rec.StartAt.Add(time.Duration(i+1) * time.Hour),
			BPM:       60,
		})
	}
	return rec
}

func TestDedupe(t *testing.T) {
	tests := []struct {
		name           string
		candidates     []domain.SleepRecord
		wantNames      []string
		wantDuplicates int
	}{
		{
			name:           "no candidates",
			wantNames:      []string{},
			wantDuplicates: 0,
		},
		{
			name:           "three minutes apart collapse to one",
			candidates:     []domain.SleepRecord{candidate(0, 0, "first"), candidate(3*time.Minute, 0, "second")},
			wantNames:      []string{"first"},
			wantDuplicates: 1,
		},
		{
			name:           "more complete later candidate wins",
			candidates:     []domain.SleepRecord{candidate(0, 1, "sparse"), candidate(2*time.Minute, 4, "rich")},
			wantNames:      []string{"rich"},
			wantDuplicates: 1,
		},
		{
			name:           "more complete earlier candidate stays",
			candidates:     []domain.SleepRecord{candidate(0, 4, "rich"), candidate(-2*time.Minute, 1, "sparse")},
			wantNames:      []string{"rich"},
			wantDuplicates: 1,
		},
		{
			name:           "exactly at tolerance is a duplicate",
			candidates:     []domain.SleepRecord{candidate(0, 0, "first"), candidate(5*time.Minute, 0, "second")},
			wantNames:      []string{"first"},
			wantDuplicates: 1,
		},
		{
			name:           "just outside tolerance is kept",
			candidates:     []domain.SleepRecord{candidate(5*time.Minute+time.Second, 0, "later"), candidate(0, 0, "earlier")},
			wantNames:      []string{"earlier", "later"},
			wantDuplicates: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, duplicates := Dedupe(tt.candidates, DefaultDuplicateTolerance)

			names := make([]string, 0, len(kept))
			for _, r := range kept {
				names = append(names, r.SourceName)
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantDuplicates, duplicates)
		})
	}
}

func TestDedupe_DifferentUsersNeverCollide(t *testing.T) {
	a := candidate(0, 0, "a")
	b := candidate(time.Minute, 0, "b")
	b.UserID = uuid.New()

	kept, duplicates := Dedupe([]domain.SleepRecord{a, b}, DefaultDuplicateTolerance)

	require.Len(t, kept, 2)
	assert.Equal(t, 0, duplicates)
}

func TestIsDuplicate_Symmetric(t *testing.T) {
	a := candidate(0, 0, "a")
	b := candidate(4*time.Minute, 0, "b")

	assert.True(t, IsDuplicate(&a, &b, DefaultDuplicateTolerance))
	assert.True(t, IsDuplicate(&b, &a, DefaultDuplicateTolerance))
	assert.False(t, IsDuplicate(&a, &b, time.Minute))
}
