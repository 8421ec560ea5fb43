package domain

import (
	"time"

	"github.com/google/uuid"
)

// TrendDirection classifies the fitted slope of daily quality scores.
// @Description Direction of the quality trend.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// DurationDirection classifies the fitted slope of daily sleep duration.
// @Description Direction of the duration trend.
type DurationDirection string

const (
	DurationIncreasing DurationDirection = "increasing"
	DurationDecreasing DurationDirection = "decreasing"
	DurationStable     DurationDirection = "stable"
)

// Rating grades a regularity score.
// @Description Regularity rating: excellent, good, fair or poor.
type Rating string

const (
	RatingExcellent Rating = "excellent"
	RatingGood      Rating = "good"
	RatingFair      Rating = "fair"
	RatingPoor      Rating = "poor"
)

// RecordMetrics holds the per-record scalar metrics.
// @Description Metrics derived from a single sleep record.
type RecordMetrics struct {
	RecordID uuid.UUID `json:"record_id"`
	// Local calendar day of waking up
	Date string `json:"date" example:"2024-01-16"`
	// Total duration in hours
	DurationHours float64 `json:"duration_hours" example:"8"`
	// Fraction of the record spent in non-awake phases; null without phase data
	Efficiency *float64 `json:"efficiency" example:"0.9375"`
	// Combined quality score (0-100); null when no signal is available
	QualityScore *float64 `json:"quality_score" example:"82.5"`
	// Local clock time the record started (HH:MM)
	Bedtime string `json:"bedtime,omitempty" example:"23:05"`
	// Minutes per stage; null without phase data
	DeepMinutes  *float64 `json:"deep_minutes" example:"95"`
	REMMinutes   *float64 `json:"rem_minutes" example:"110"`
	LightMinutes *float64 `json:"light_minutes" example:"240"`
}

// DaySummary aggregates the records of one calendar day.
// @Description Per-day aggregate used by the trend analysis.
type DaySummary struct {
	Date          string   `json:"date" example:"2024-01-16"`
	Records       int      `json:"records" example:"1"`
	DurationHours float64  `json:"duration_hours" example:"7.5"`
	QualityScore  *float64 `json:"quality_score" example:"80.1"`
	Anomalous     bool     `json:"anomalous"`
	Reasons       []string `json:"reasons,omitempty"`
}

// ScheduleConsistency measures how regular bedtimes are. The spread is the
// standard deviation of local bedtimes, with times around midnight treated as
// neighbours.
// @Description Bedtime regularity over the window.
type ScheduleConsistency struct {
	// Mean of local bedtimes counted from noon (HH:MM)
	MeanBedtime string `json:"mean_bedtime" example:"23:10"`
	// Standard deviation of bedtimes in minutes
	BedtimeStdMinutes float64 `json:"bedtime_std_minutes" example:"24.5"`
	// 100 minus the spread in minutes, floored at 0
	Score  float64 `json:"score" example:"75.5"`
	Rating Rating  `json:"rating" example:"excellent"`
}

// DurationVariability measures day-to-day swings of total sleep.
// @Description Day-to-day duration variability over the window.
type DurationVariability struct {
	// Mean absolute change between consecutive days, relative to the mean duration
	Ratio  float64 `json:"ratio" example:"0.08"`
	Score  float64 `json:"score" example:"92"`
	Rating Rating  `json:"rating" example:"excellent"`
}

// TrendSummary is computed fresh from the records of a window and never stored.
// @Description Aggregate statistics and direction over a date window.
type TrendSummary struct {
	From time.Time `json:"from" example:"2024-01-01T00:00:00Z"`
	To   time.Time `json:"to" example:"2024-01-31T23:59:59Z"`
	// Average total sleep per day with data, in hours
	AverageDurationHours *float64 `json:"average_duration_hours" example:"7.2"`
	// Average daily quality score
	AverageQualityScore *float64 `json:"average_quality_score" example:"76.4"`
	// Fitted slope of daily quality in points per day
	QualitySlope *float64        `json:"quality_slope" example:"0.35"`
	Direction    *TrendDirection `json:"direction" example:"improving"`
	// Fitted slope of daily duration in hours per day
	DurationSlope     *float64           `json:"duration_slope" example:"-0.02"`
	DurationDirection *DurationDirection `json:"duration_direction" example:"stable"`
	// Average minutes per stage over records with phase data
	AverageDeepMinutes  *float64 `json:"average_deep_minutes" example:"92.5"`
	AverageREMMinutes   *float64 `json:"average_rem_minutes" example:"104"`
	AverageLightMinutes *float64 `json:"average_light_minutes" example:"236.4"`
	// Null with fewer than two records or days
	ScheduleConsistency *ScheduleConsistency `json:"schedule_consistency"`
	DurationVariability *DurationVariability `json:"duration_variability"`
	TotalRecords        int                  `json:"total_records" example:"28"`
	// Calendar days covered by the window, both ends included
	DateRangeDays int          `json:"date_range_days" example:"31"`
	AnomalyDates  []string     `json:"anomaly_dates"`
	Days          []DaySummary `json:"days"`
}

// AnalyticsReport is the analytics façade response.
// @Description Trend summary, recommendations and per-record metrics for a window.
type AnalyticsReport struct {
	UserID          uuid.UUID       `json:"user_id"`
	TrendSummary    TrendSummary    `json:"trend_summary"`
	Recommendations []string        `json:"recommendations"`
	Records         []RecordMetrics `json:"per_record_metrics"`
}

// AnalyticsOptions tune a single analytics request.
type AnalyticsOptions struct {
	// MinRecords > 0 makes a window with fewer records an InsufficientDataError.
	MinRecords int
}

// ImportResult reports the outcome of one import call.
// @Description Counts of imported, duplicate and skipped entries.
type ImportResult struct {
	Imported   int `json:"imported" example:"28"`
	Duplicates int `json:"duplicates" example:"2"`
	Skipped    int `json:"skipped" example:"1"`
	// Stored records whose attributes were replaced by a more complete duplicate
	Replaced int `json:"replaced" example:"0"`
}

// GenerateRequest is the request body for synthesizing records.
// @Description Parameters for synthetic sleep data generation.
type GenerateRequest struct {
	StartDate        time.Time `json:"start_date" validate:"required" example:"2024-01-01T00:00:00Z"`
	EndDate          time.Time `json:"end_date" validate:"required,gtefield=StartDate" example:"2024-01-31T00:00:00Z"`
	QualityTrend     string    `json:"quality_trend,omitempty" validate:"omitempty,oneof=improving declining stable random" example:"improving"`
	DurationTrend    string    `json:"duration_trend,omitempty" validate:"omitempty,oneof=increasing decreasing stable random" example:"stable"`
	IncludeHeartRate bool      `json:"include_heart_rate" example:"true"`
	Timezone         *string   `json:"timezone,omitempty" validate:"omitempty,timezone" example:"Europe/Prague"`
}

// GenerateResponse lists identifiers of synthesized records.
type GenerateResponse struct {
	Generated int         `json:"generated" example:"31"`
	IDs       []uuid.UUID `json:"ids"`
}
