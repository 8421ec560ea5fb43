package importer

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/blaisecz/sleep-analytics/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var userID = uuid.MustParse("660e8400-e29b-41d4-a716-446655440001")

func healthExport(records ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE HealthData [
<!ELEMENT HealthData (ExportDate,Me,(Record|Workout)*)>
]>
<HealthData locale="en_US">
 <ExportDate value="2024-03-20 08:00:00 +0000"/>
 <Me HKCharacteristicTypeIdentifierBiologicalSex="HKBiologicalSexNotSet"/>
 ` + strings.Join(records, "\n ") + `
</HealthData>`
}

func sleepEntry(value, start, end string) string {
	return fmt.Sprintf(`<Record type="HKCategoryTypeIdentifierSleepAnalysis" sourceName="Apple Watch" creationDate="%s" value="HKCategoryValueSleepAnalysis%s" startDate="%s" endDate="%s"/>`,
		end, value, start, end)
}

func heartRateEntry(value, unit, at string) string {
	return fmt.Sprintf(`<Record type="HKQuantityTypeIdentifierHeartRate" sourceName="Apple Watch" unit="%s" value="%s" startDate="%s" endDate="%s">
  <MetadataEntry key="HKMetadataKeyHeartRateMotionContext" value="0"/>
 </Record>`, unit, value, at, at)
}

func normalize(t *testing.T, payload string) *Batch {
	t.Helper()
	batch, err := NewNormalizer(DefaultOptions(), zap.NewNop()).Normalize(strings.NewReader(payload), userID)
	require.NoError(t, err)
	return batch
}

func TestNormalize_SingleSession(t *testing.T) {
	batch := normalize(t, healthExport(
		sleepEntry("InBed", "2024-03-10 23:00:00 +0000", "2024-03-11 07:00:00 +0000"),
	))

	require.Len(t, batch.Records, 1)
	rec := batch.Records[0]
	assert.Equal(t, userID, rec.UserID)
	assert.Equal(t, domain.SourceImported, rec.Source)
	assert.Equal(t, "Apple Watch", rec.SourceName)
	assert.Equal(t, 8*time.Hour, rec.Duration())
	assert.Empty(t, rec.Phases, "missing stage data yields an empty phase sequence")
	assert.Equal(t, 0, batch.Duplicates)
	assert.Equal(t, 0, batch.Skipped)
}

func TestNormalize_DuplicatesWithinTolerance(t *testing.T) {
	batch := normalize(t, healthExport(
		sleepEntry("Asleep", "2024-03-10 23:00:00 +0000", "2024-03-11 07:00:00 +0000"),
		strings.Replace(
			sleepEntry("Asleep", "2024-03-10 23:03:00 +0000", "2024-03-11 07:02:00 +0000"),
			`sourceName="Apple Watch"`, `sourceName="iPhone"`, 1),
	))

	require.Len(t, batch.Records, 1)
	assert.Equal(t, 1, batch.Duplicates)
	assert.Equal(t, "Apple Watch", batch.Records[0].SourceName, "ties keep the earlier-seen entry")
}

func TestNormalize_OutsideToleranceKeepsBoth(t *testing.T) {
	batch := normalize(t, healthExport(
		sleepEntry("Asleep", "2024-03-10 23:00:00 +0000", "2024-03-11 07:00:00 +0000"),
		sleepEntry("Asleep", "2024-03-11 13:00:00 +0000", "2024-03-11 13:40:00 +0000"),
	))

	assert.Len(t, batch.Records, 2)
	assert.Equal(t, 0, batch.Duplicates)
}

func TestNormalize_MalformedEntriesSkipped(t *testing.T) {
	batch := normalize(t, healthExport(
		`<Record type="HKCategoryTypeIdentifierSleepAnalysis" value="HKCategoryValueSleepAnalysisAsleep" endDate="2024-03-11 07:00:00 +0000"/>`,
		sleepEntry("Asleep", "yesterday night", "2024-03-12 07:00:00 +0000"),
		sleepEntry("Asleep", "2024-03-13 07:00:00 +0000", "2024-03-13 07:00:00 +0000"),
		sleepEntry("Asleep", "2024-03-14 08:00:00 +0000", "2024-03-14 07:00:00 +0000"),
		sleepEntry("Asleep", "2024-03-14 23:00:00 +0000", "2024-03-15 06:30:00 +0000"),
	))

	require.Len(t, batch.Records, 1)
	assert.Equal(t, 4, batch.Skipped)
	assert.Equal(t, 0, batch.Duplicates)
	assert.Equal(t, "2024-03-15", batch.Records[0].LocalDate())
}

func TestNormalize_ImportFormatError(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty payload", payload: ""},
		{name: "not xml", payload: `{"records": []}`},
		{name: "unclosed element", payload: `<HealthData><Record type="x">`},
		{name: "mismatched tags", payload: `<HealthData></Export>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := NewNormalizer(DefaultOptions(), nil).Normalize(strings.NewReader(tt.payload), userID)

			require.Error(t, err)
			assert.Nil(t, batch)
			assert.True(t, errors.Is(err, domain.ErrImportFormat))
			var formatErr *domain.ImportFormatError
			require.True(t, errors.As(err, &formatErr))
			assert.Equal(t, FormatAppleHealth, formatErr.Format)
		})
	}
}

func TestNormalize_EmptyExportIsNotAnError(t *testing.T) {
	batch := normalize(t, healthExport())

	assert.Empty(t, batch.Records)
	assert.Equal(t, 0, batch.Skipped)
}

func TestNormalize_StagesBecomePhases(t *testing.T) {
	batch := normalize(t, healthExport(
		sleepEntry("InBed", "2024-03-10 23:00:00 +0000", "2024-03-11 07:00:00 +0000"),
		sleepEntry("AsleepREM", "2024-03-11 02:00:00 +0000", "2024-03-11 03:00:00 +0000"),
		sleepEntry("AsleepCore", "2024-03-10 23:00:00 +0000", "2024-03-11 01:00:00 +0000"),
		sleepEntry("AsleepDeep", "2024-03-11 01:00:00 +0000", "2024-03-11 02:00:00 +0000"),
		sleepEntry("Awake", "2024-03-11 03:00:00 +0000", "2024-03-11 03:10:00 +0000"),
	))

	require.Len(t, batch.Records, 1)
	var kinds []domain.PhaseKind
	for _, p := range batch.Records[0].Phases {
		kinds = append(kinds, p.Kind)
	}
	assert.Equal(t, []domain.PhaseKind{domain.PhaseLight, domain.PhaseDeep, domain.PhaseREM, domain.PhaseAwake}, kinds)
	assert.NoError(t, batch.Records[0].Validate())
}

func TestNormalize_OverlappingStagesClipped(t *testing.T) {
	batch := normalize(t, healthExport(
		sleepEntry("InBed", "2024-03-10 23:00:00 +0000", "2024-03-11 07:00:00 +0000"),
		sleepEntry("AsleepCore", "2024-03-10 23:00:00 +0000", "2024-03-11 01:30:00 +0000"),
		sleepEntry("AsleepDeep", "2024-03-11 01:00:00 +0000", "2024-03-11 02:00:00 +0000"),
		sleepEntry("AsleepREM", "2024-03-11 06:30:00 +0000", "2024-03-11 08:00:00 +0000"),
	))

	require.Len(t, batch.Records, 1)
	phases := batch.Records[0].Phases
	require.Len(t, phases, 3)
	assert.Equal(t, time.Date(2024, 3, 11, 1, 30, 0, 0, time.UTC), phases[1].StartAt)
	assert.Equal(t, time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC), phases[2].EndAt)
	assert.Equal(t, time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC), batch.Records[0].EndAt, "night extends over the late stage")
	assert.NoError(t, batch.Records[0].Validate())
}

func TestNormalize_InBedAndAsleepFormOneNight(t *testing.T) {
	batch := normalize(t, healthExport(
		sleepEntry("InBed", "2024-03-10 22:45:00 +0000", "2024-03-11 07:00:00 +0000"),
		sleepEntry("AsleepUnspecified", "2024-03-10 23:05:00 +0000", "2024-03-11 06:45:00 +0000"),
	))

	require.Len(t, batch.Records, 1)
	rec := batch.Records[0]
	assert.Equal(t, time.Date(2024, 3, 10, 22, 45, 0, 0, time.UTC), rec.StartAt)
	assert.Equal(t, time.Date(2024, 3, 11, 7, 0, 0, 0, time.UTC), rec.EndAt)
	assert.Equal(t, 0, batch.Duplicates)
}

func TestNormalize_InBedFromOtherSourceFolded(t *testing.T) {
	batch := normalize(t, healthExport(
		strings.Replace(
			sleepEntry("InBed", "2024-03-10 22:30:00 +0000", "2024-03-11 07:10:00 +0000"),
			`sourceName="Apple Watch"`, `sourceName="iPhone"`, 1),
		sleepEntry("AsleepCore", "2024-03-10 23:00:00 +0000", "2024-03-11 03:00:00 +0000"),
		sleepEntry("AsleepDeep", "2024-03-11 03:00:00 +0000", "2024-03-11 04:00:00 +0000"),
		sleepEntry("InBed", "2024-03-12 22:30:00 +0000", "2024-03-13 06:30:00 +0000"),
	))

	require.Len(t, batch.Records, 2)
	night := batch.Records[0]
	assert.Equal(t, "Apple Watch", night.SourceName)
	assert.Equal(t, time.Date(2024, 3, 10, 22, 30, 0, 0, time.UTC), night.StartAt)
	assert.Equal(t, time.Date(2024, 3, 11, 7, 10, 0, 0, time.UTC), night.EndAt)
	assert.Len(t, night.Phases, 2)
	assert.NoError(t, night.Validate())

	assert.Equal(t, "2024-03-13", batch.Records[1].LocalDate(), "in-bed entry without sleep data stands alone")
}

func TestNormalize_FragmentsWithinMergeGap(t *testing.T) {
	tests := []struct {
		name      string
		entries   []string
		wantCount int
	}{
		{
			name: "gap of fifteen minutes",
			entries: []string{
				sleepEntry("Asleep", "2024-03-10 23:00:00 +0000", "2024-03-11 02:00:00 +0000"),
				sleepEntry("Asleep", "2024-03-11 02:15:00 +0000", "2024-03-11 06:30:00 +0000"),
			},
			wantCount: 1,
		},
		{
			name: "gap of exactly thirty minutes",
			entries: []string{
				sleepEntry("Asleep", "2024-03-10 23:00:00 +0000", "2024-03-11 02:00:00 +0000"),
				sleepEntry("Asleep", "2024-03-11 02:30:00 +0000", "2024-03-11 06:30:00 +0000"),
			},
			wantCount: 1,
		},
		{
			name: "gap of two hours",
			entries: []string{
				sleepEntry("Asleep", "2024-03-10 23:00:00 +0000", "2024-03-11 02:00:00 +0000"),
				sleepEntry("Asleep", "2024-03-11 04:00:00 +0000", "2024-03-11 06:30:00 +0000"),
			},
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch := normalize(t, healthExport(tt.entries...))

			require.Len(t, batch.Records, tt.wantCount)
			assert.Equal(t, time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC), batch.Records[0].StartAt)
			if tt.wantCount == 1 {
				assert.Equal(t, time.Date(2024, 3, 11, 6, 30, 0, 0, time.UTC), batch.Records[0].EndAt)
			}
			assert.Equal(t, 0, batch.Duplicates)
		})
	}
}

func TestNormalize_StagesWithoutSessionAreMerged(t *testing.T) {
	batch := normalize(t, healthExport(
		sleepEntry("AsleepCore", "2024-03-10 23:00:00 +0000", "2024-03-11 01:00:00 +0000"),
		sleepEntry("AsleepDeep", "2024-03-11 01:10:00 +0000", "2024-03-11 02:00:00 +0000"),
		sleepEntry("AsleepCore", "2024-03-11 02:25:00 +0000", "2024-03-11 06:00:00 +0000"),
		sleepEntry("AsleepCore", "2024-03-11 14:00:00 +0000", "2024-03-11 14:30:00 +0000"),
	))

	require.Len(t, batch.Records, 2)
	night := batch.Records[0]
	assert.Equal(t, time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC), night.StartAt)
	assert.Equal(t, time.Date(2024, 3, 11, 6, 0, 0, 0, time.UTC), night.EndAt)
	assert.Len(t, night.Phases, 3)
	nap := batch.Records[1]
	assert.Equal(t, 30*time.Minute, nap.Duration())
}

func TestNormalize_HeartRateAttached(t *testing.T) {
	batch := normalize(t, healthExport(
		sleepEntry("Asleep", "2024-03-10 23:00:00 +0000", "2024-03-11 07:00:00 +0000"),
		heartRateEntry("58", "count/min", "2024-03-11 01:00:00 +0000"),
		heartRateEntry("1", "count/s", "2024-03-11 00:00:00 +0000"),
		heartRateEntry("72", "count/min", "2024-03-11 12:00:00 +0000"),
		heartRateEntry("0", "count/min", "2024-03-11 02:00:00 +0000"),
		`<Record type="HKQuantityTypeIdentifierHeartRate" value="55" startDate="2024-03-11 03:00:00 +0000"/>`,
	))

	require.Len(t, batch.Records, 1)
	samples := batch.Records[0].HeartRate
	require.Len(t, samples, 3)
	assert.Equal(t, 60.0, samples[0].BPM, "count/s converted to beats per minute")
	assert.Equal(t, 58.0, samples[1].BPM)
	assert.Equal(t, 55.0, samples[2].BPM, "missing unit defaults to count/min")
	assert.Equal(t, 1, batch.Skipped, "non-positive reading is skipped")
}

func TestNormalize_OutputAscending(t *testing.T) {
	batch := normalize(t, healthExport(
		sleepEntry("Asleep", "2024-03-12 23:00:00 +0000", "2024-03-13 07:00:00 +0000"),
		sleepEntry("Asleep", "2024-03-10 23:00:00 +0000", "2024-03-11 07:00:00 +0000"),
		sleepEntry("Asleep", "2024-03-11 23:00:00 +0000", "2024-03-12 07:00:00 +0000"),
	))

	require.Len(t, batch.Records, 3)
	for i := 1; i < len(batch.Records); i++ {
		assert.True(t, batch.Records[i-1].StartAt.Before(batch.Records[i].StartAt))
	}
}

func TestNormalize_TimezoneFromOffset(t *testing.T) {
	batch := normalize(t, healthExport(
		sleepEntry("Asleep", "2024-03-10 23:30:00 -0700", "2024-03-11 06:45:00 -0700"),
	))

	require.Len(t, batch.Records, 1)
	rec := batch.Records[0]
	assert.Equal(t, "Etc/GMT+7", rec.LocalTimezone)
	assert.Equal(t, time.Date(2024, 3, 11, 6, 30, 0, 0, time.UTC), rec.StartAt)
	assert.Equal(t, time.UTC, rec.StartAt.Location())
}

func TestNormalize_TimezoneOverride(t *testing.T) {
	opts := DefaultOptions()
	opts.Timezone = "Europe/Prague"

	batch, err := NewNormalizer(opts, zap.NewNop()).Normalize(strings.NewReader(healthExport(
		sleepEntry("Asleep", "2024-03-10 23:30:00 +0100", "2024-03-11 06:45:00 +0100"),
	)), userID)

	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	assert.Equal(t, "Europe/Prague", batch.Records[0].LocalTimezone)
}

func TestNormalize_AlternateFieldNames(t *testing.T) {
	batch := normalize(t, healthExport(
		`<Record type="HKCategoryTypeIdentifierSleepAnalysis" value="Asleep" start_date="2024-03-10T23:00:00Z" end_date="2024-03-11T07:00:00Z"/>`,
	))

	require.Len(t, batch.Records, 1)
	assert.Equal(t, "Unknown", batch.Records[0].SourceName)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)
	tests := []struct {
		in      string
		wantErr bool
	}{
		{in: "2024-03-10 23:00:00 +0000"},
		{in: "2024-03-11 00:00:00 +0100"},
		{in: "2024-03-10T23:00:00Z"},
		{in: "2024-03-10T23:00:00.000Z"},
		{in: "2024-03-10T23:00:00"},
		{in: "2024-03-10 23:00:00"},
		{in: "", wantErr: true},
		{in: "10/03/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTimestamp(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %v", got)
		})
	}
}
