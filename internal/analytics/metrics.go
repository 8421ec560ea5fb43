package analytics

import (
	"time"

	"github.com/blaisecz/sleep-analytics/internal/domain"
)

// ComputeRecordMetrics derives efficiency and quality score for one record.
func ComputeRecordMetrics(rec *domain.SleepRecord, cfg Config) domain.RecordMetrics {
	duration := rec.Duration()
	m := domain.RecordMetrics{
		RecordID:      rec.ID,
		Date:          rec.LocalDate(),
		DurationHours: round(duration.Hours(), 2),
		Bedtime:       rec.StartAt.In(rec.Location()).Format(clockLayout),
	}
	if duration <= 0 {
		return m
	}

	if len(rec.Phases) > 0 {
		m.DeepMinutes = ptr(round(phaseMinutes(rec, domain.PhaseDeep), 1))
		m.REMMinutes = ptr(round(phaseMinutes(rec, domain.PhaseREM), 1))
		m.LightMinutes = ptr(round(phaseMinutes(rec, domain.PhaseLight), 1))
	}
	m.Efficiency = efficiency(rec)
	m.QualityScore = qualityScore(rec, m.Efficiency, cfg)
	return m
}

// ComputeAll maps ComputeRecordMetrics over records, preserving order.
func ComputeAll(records []domain.SleepRecord, cfg Config) []domain.RecordMetrics {
	out := make([]domain.RecordMetrics, 0, len(records))
	for i := range records {
		out = append(out, ComputeRecordMetrics(&records[i], cfg))
	}
	return out
}

func phaseMinutes(rec *domain.SleepRecord, kind domain.PhaseKind) float64 {
	var total time.Duration
	for _, p := range rec.Phases {
		if p.Kind == kind {
			total += p.Duration()
		}
	}
	return total.Minutes()
}

// efficiency is the non-awake share of the record; nil without phase data.
func efficiency(rec *domain.SleepRecord) *float64 {
	if len(rec.Phases) == 0 {
		return nil
	}
	var asleep time.Duration
	for _, p := range rec.Phases {
		if p.Kind.Asleep() {
			asleep += p.Duration()
		}
	}
	return ptr(clamp(float64(asleep)/float64(rec.Duration()), 0, 1))
}

// restorativeFraction is the deep+REM share of the record; nil without phase data.
func restorativeFraction(rec *domain.SleepRecord) *float64 {
	if len(rec.Phases) == 0 {
		return nil
	}
	var restorative time.Duration
	for _, p := range rec.Phases {
		if p.Kind == domain.PhaseDeep || p.Kind == domain.PhaseREM {
			restorative += p.Duration()
		}
	}
	return ptr(float64(restorative) / float64(rec.Duration()))
}

// sleepingHeartRates returns bpm samples taken during non-awake phases. A
// record without phases contributes every sample inside its span.
func sleepingHeartRates(rec *domain.SleepRecord) []float64 {
	var values []float64
	for _, s := range rec.HeartRate {
		if s.Timestamp.Before(rec.StartAt) || s.Timestamp.After(rec.EndAt) {
			continue
		}
		if len(rec.Phases) == 0 || asleepAt(rec.Phases, s.Timestamp) {
			values = append(values, s.BPM)
		}
	}
	return values
}

func asleepAt(phases []domain.PhaseSegment, t time.Time) bool {
	for _, p := range phases {
		if !t.Before(p.StartAt) && t.Before(p.EndAt) {
			return p.Kind.Asleep()
		}
	}
	return false
}

// qualityScore combines the available terms with renormalized weights.
func qualityScore(rec *domain.SleepRecord, eff *float64, cfg Config) *float64 {
	var weighted, weights float64

	if eff != nil {
		weighted += cfg.WeightEfficiency * *eff
		weights += cfg.WeightEfficiency
	}

	if frac := restorativeFraction(rec); frac != nil && cfg.RestorativeTargetFraction > 0 {
		term := clamp(*frac/cfg.RestorativeTargetFraction, 0, 1)
		weighted += cfg.WeightRestorative * term
		weights += cfg.WeightRestorative
	}

	if hr := sleepingHeartRates(rec); len(hr) >= MinHeartRateSamples && cfg.HRVStdCeiling > 0 {
		std := sampleStd(hr)
		term := 1 - clamp(std, 0, cfg.HRVStdCeiling)/cfg.HRVStdCeiling
		weighted += cfg.WeightHeartRate * term
		weights += cfg.WeightHeartRate
	}

	if weights == 0 {
		return nil
	}
	return ptr(round(clamp(100*weighted/weights, 0, 100), 1))
}
