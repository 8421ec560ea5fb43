package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/blaisecz/sleep-analytics/internal/domain"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"

	minutesPerDay = 24 * 60
)

// dayBucket accumulates the records of one local calendar day.
type dayBucket struct {
	date      string
	records   int
	hours     float64
	qualities []float64
}

// AnalyzeTrend summarizes the records of one user inside [from, to]. Records
// are bucketed by local wake-up date; an empty input yields null statistics.
func AnalyzeTrend(records []domain.SleepRecord, from, to time.Time, cfg Config) domain.TrendSummary {
	return AnalyzeMetrics(ComputeAll(records, cfg), from, to, cfg)
}

// AnalyzeMetrics is AnalyzeTrend over already computed per-record metrics.
func AnalyzeMetrics(metrics []domain.RecordMetrics, from, to time.Time, cfg Config) domain.TrendSummary {
	summary := domain.TrendSummary{
		From:          from,
		To:            to,
		TotalRecords:  len(metrics),
		DateRangeDays: dateRangeDays(from, to),
		AnomalyDates:  []string{},
		Days:          []domain.DaySummary{},
	}
	if len(metrics) == 0 {
		return summary
	}

	days := bucketByDay(metrics)

	var (
		hours, hourIndexes       []float64
		qualities, scoredIndexes []float64
		// unrounded daily quality, aligned with summary.Days
		dayQuality = make([]*float64, len(days))
	)
	origin, _ := time.Parse(dateLayout, days[0].date)
	for i, b := range days {
		day := domain.DaySummary{
			Date:          b.date,
			Records:       b.records,
			DurationHours: round(b.hours, 2),
		}
		idx := dayIndex(origin, b.date)
		hours = append(hours, b.hours)
		hourIndexes = append(hourIndexes, idx)
		if len(b.qualities) > 0 {
			q := mean(b.qualities)
			day.QualityScore = ptr(round(q, 1))
			dayQuality[i] = ptr(q)
			qualities = append(qualities, q)
			scoredIndexes = append(scoredIndexes, idx)
		}
		summary.Days = append(summary.Days, day)
	}

	summary.AverageDurationHours = ptr(round(mean(hours), 2))
	if len(qualities) > 0 {
		summary.AverageQualityScore = ptr(round(mean(qualities), 1))
	}

	if slope, ok := linearSlope(scoredIndexes, qualities); ok {
		summary.QualitySlope = ptr(round(slope, 3))
		direction := classifyDirection(slope, cfg.TrendSlopeThreshold)
		summary.Direction = &direction
	}
	if slope, ok := linearSlope(hourIndexes, hours); ok {
		summary.DurationSlope = ptr(round(slope, 3))
		direction := classifyDuration(slope, cfg.DurationSlopeThreshold)
		summary.DurationDirection = &direction
	}

	summary.AverageDeepMinutes = averageOf(metrics, func(m domain.RecordMetrics) *float64 { return m.DeepMinutes })
	summary.AverageREMMinutes = averageOf(metrics, func(m domain.RecordMetrics) *float64 { return m.REMMinutes })
	summary.AverageLightMinutes = averageOf(metrics, func(m domain.RecordMetrics) *float64 { return m.LightMinutes })

	summary.ScheduleConsistency = scheduleConsistency(metrics)
	summary.DurationVariability = durationVariability(hours)

	flagAnomalies(&summary, dayQuality, qualities, cfg)
	return summary
}

func bucketByDay(metrics []domain.RecordMetrics) []*dayBucket {
	byDate := make(map[string]*dayBucket)
	for _, m := range metrics {
		b, ok := byDate[m.Date]
		if !ok {
			b = &dayBucket{date: m.Date}
			byDate[m.Date] = b
		}
		b.records++
		b.hours += m.DurationHours
		if m.QualityScore != nil {
			b.qualities = append(b.qualities, *m.QualityScore)
		}
	}

	days := make([]*dayBucket, 0, len(byDate))
	for _, b := range byDate {
		days = append(days, b)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].date < days[j].date })
	return days
}

func dayIndex(origin time.Time, date string) float64 {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0
	}
	return math.Round(d.Sub(origin).Hours() / 24)
}

// dateRangeDays counts the calendar days of [from, to], both included.
func dateRangeDays(from, to time.Time) int {
	f, _ := time.Parse(dateLayout, from.UTC().Format(dateLayout))
	t, _ := time.Parse(dateLayout, to.UTC().Format(dateLayout))
	if t.Before(f) {
		return 0
	}
	return int(math.Round(t.Sub(f).Hours()/24)) + 1
}

// classifyDirection bands the slope so near-flat noise reads as stable.
func classifyDirection(slope, threshold float64) domain.TrendDirection {
	switch {
	case slope > threshold:
		return domain.TrendImproving
	case slope < -threshold:
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}

func classifyDuration(slope, threshold float64) domain.DurationDirection {
	switch {
	case slope > threshold:
		return domain.DurationIncreasing
	case slope < -threshold:
		return domain.DurationDecreasing
	default:
		return domain.DurationStable
	}
}

func averageOf(metrics []domain.RecordMetrics, field func(domain.RecordMetrics) *float64) *float64 {
	var values []float64
	for _, m := range metrics {
		if v := field(m); v != nil {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return ptr(round(mean(values), 1))
}

// scheduleConsistency needs two records with a known bedtime. Bedtimes are
// counted in minutes from noon so that 23:30 and 00:30 are an hour apart.
func scheduleConsistency(metrics []domain.RecordMetrics) *domain.ScheduleConsistency {
	var fromNoon []float64
	for _, m := range metrics {
		t, err := time.Parse(clockLayout, m.Bedtime)
		if err != nil {
			continue
		}
		minute := t.Hour()*60 + t.Minute()
		fromNoon = append(fromNoon, float64((minute+minutesPerDay/2)%minutesPerDay))
	}
	if len(fromNoon) < 2 {
		return nil
	}

	std := populationStd(fromNoon)
	meanMinute := (int(math.Round(mean(fromNoon))) + minutesPerDay/2) % minutesPerDay
	return &domain.ScheduleConsistency{
		MeanBedtime:       fmt.Sprintf("%02d:%02d", meanMinute/60, meanMinute%60),
		BedtimeStdMinutes: round(std, 1),
		Score:             round(100-math.Min(100, std), 1),
		Rating:            rate(std, bedtimeStdBands),
	}
}

// durationVariability compares consecutive days with data. It needs two days
// and a positive mean duration.
func durationVariability(hours []float64) *domain.DurationVariability {
	if len(hours) < 2 {
		return nil
	}
	avg := mean(hours)
	if avg <= 0 {
		return nil
	}
	var diffs []float64
	for i := 1; i < len(hours); i++ {
		diffs = append(diffs, math.Abs(hours[i]-hours[i-1]))
	}
	ratio := mean(diffs) / avg
	return &domain.DurationVariability{
		Ratio:  round(ratio, 3),
		Score:  round(100-math.Min(100, ratio*100), 1),
		Rating: rate(ratio, variabilityBands),
	}
}

func rate(v float64, bands [3]float64) domain.Rating {
	switch {
	case v < bands[0]:
		return domain.RatingExcellent
	case v < bands[1]:
		return domain.RatingGood
	case v < bands[2]:
		return domain.RatingFair
	default:
		return domain.RatingPoor
	}
}

// flagAnomalies marks days whose quality is an outlier or whose total sleep
// is below the minimum. dayQuality holds the unrounded score of each day and
// qualities the scored days only.
func flagAnomalies(summary *domain.TrendSummary, dayQuality []*float64, qualities []float64, cfg Config) {
	var avg, std float64
	if len(qualities) > 0 {
		avg = mean(qualities)
		std = sampleStd(qualities)
	}

	for i := range summary.Days {
		day := &summary.Days[i]
		if q := dayQuality[i]; q != nil && std > 0 && math.Abs(*q-avg) > cfg.AnomalyStdDevs*std {
			day.Reasons = append(day.Reasons, fmt.Sprintf("quality %.1f deviates more than %.1f std devs from mean %.1f", *q, cfg.AnomalyStdDevs, avg))
		}
		if day.DurationHours < cfg.MinDailySleepHours {
			day.Reasons = append(day.Reasons, fmt.Sprintf("total sleep %.2fh below minimum %.1fh", day.DurationHours, cfg.MinDailySleepHours))
		}
		if len(day.Reasons) > 0 {
			day.Anomalous = true
			summary.AnomalyDates = append(summary.AnomalyDates, day.Date)
		}
	}
}
