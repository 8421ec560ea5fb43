// Package analytics turns sleep records into per-record metrics, trend
// summaries and recommendations. Every function here is pure: it reads the
// records it is given and never touches storage.
package analytics

const (
	// Quality score weights. They are renormalized over the terms a record can supply.
	DefaultWeightEfficiency  = 0.5
	DefaultWeightRestorative = 0.3
	DefaultWeightHeartRate   = 0.2

	// DefaultRestorativeTargetFraction is the deep+REM share that earns the full restorative term.
	DefaultRestorativeTargetFraction = 0.45

	// DefaultHRVStdCeiling maps heart-rate std of 0-15 bpm to a steadiness of 1-0.
	DefaultHRVStdCeiling = 15.0

	// MinHeartRateSamples is the number of in-sleep samples needed for a std.
	MinHeartRateSamples = 2

	// DefaultTrendSlopeThreshold is the quality slope (points per day) below which
	// a trend is reported as stable.
	DefaultTrendSlopeThreshold = 0.1

	// DefaultDurationSlopeThreshold is the duration slope (hours per day) below
	// which the duration trend is reported as stable.
	DefaultDurationSlopeThreshold = 0.05

	// DefaultAnomalyStdDevs flags days whose quality is this many sample std
	// devs from the mean. A single outlier among n scored days sits at most
	// (n-1)/sqrt(n) std devs away, so at 2.0 nothing is flagged on quality
	// before six scored days.
	DefaultAnomalyStdDevs = 2.0

	// DefaultMinDailySleepHours flags days with less total sleep as incomplete.
	DefaultMinDailySleepHours = 4.0

	// Recommendation thresholds.
	DefaultTargetSleepHours = 7.0
	DefaultLongSleepHours   = 9.5
	DefaultLowQualityScore  = 60.0
	DefaultIrregularDays    = 3

	// DefaultIrregularBedtimeMinutes is the bedtime spread above which the
	// schedule is called irregular.
	DefaultIrregularBedtimeMinutes = 60.0
)

// Rating bands: the first bound the value stays under picks the rating,
// anything above the last is poor.
var (
	bedtimeStdBands  = [3]float64{30, 60, 90}
	variabilityBands = [3]float64{0.1, 0.2, 0.3}
)

// Config holds the tunable constants of the analytics pipeline.
type Config struct {
	WeightEfficiency          float64
	WeightRestorative         float64
	WeightHeartRate           float64
	RestorativeTargetFraction float64
	HRVStdCeiling             float64

	TrendSlopeThreshold    float64
	DurationSlopeThreshold float64
	AnomalyStdDevs         float64
	MinDailySleepHours     float64

	TargetSleepHours        float64
	LongSleepHours          float64
	LowQualityScore         float64
	IrregularDays           int
	IrregularBedtimeMinutes float64
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		WeightEfficiency:          DefaultWeightEfficiency,
		WeightRestorative:         DefaultWeightRestorative,
		WeightHeartRate:           DefaultWeightHeartRate,
		RestorativeTargetFraction: DefaultRestorativeTargetFraction,
		HRVStdCeiling:             DefaultHRVStdCeiling,
		TrendSlopeThreshold:       DefaultTrendSlopeThreshold,
		DurationSlopeThreshold:    DefaultDurationSlopeThreshold,
		AnomalyStdDevs:            DefaultAnomalyStdDevs,
		MinDailySleepHours:        DefaultMinDailySleepHours,
		TargetSleepHours:          DefaultTargetSleepHours,
		LongSleepHours:            DefaultLongSleepHours,
		LowQualityScore:           DefaultLowQualityScore,
		IrregularDays:             DefaultIrregularDays,
		IrregularBedtimeMinutes:   DefaultIrregularBedtimeMinutes,
	}
}
