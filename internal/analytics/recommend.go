package analytics

import "github.com/blaisecz/sleep-analytics/internal/domain"

// Rule is one recommendation: when Applies holds for a summary, Message is emitted.
type Rule struct {
	Name    string
	Applies func(s *domain.TrendSummary, cfg Config) bool
	Message string
}

// DefaultRules are evaluated independently, in this priority order.
var DefaultRules = []Rule{
	{
		Name: "short_sleep",
		Applies: func(s *domain.TrendSummary, cfg Config) bool {
			return s.AverageDurationHours != nil && *s.AverageDurationHours < cfg.TargetSleepHours
		},
		Message: "You are averaging less sleep than the recommended target. Try moving your bedtime earlier by 15-30 minutes.",
	},
	{
		Name: "long_sleep",
		Applies: func(s *domain.TrendSummary, cfg Config) bool {
			return s.AverageDurationHours != nil && *s.AverageDurationHours > cfg.LongSleepHours
		},
		Message: "Your nights are consistently long. A fixed wake-up time can help consolidate sleep.",
	},
	{
		Name: "declining_quality",
		Applies: func(s *domain.TrendSummary, cfg Config) bool {
			return s.Direction != nil && *s.Direction == domain.TrendDeclining
		},
		Message: "Sleep quality is trending down. Keep a consistent bedtime and wake-up time, including weekends.",
	},
	{
		Name: "low_quality",
		Applies: func(s *domain.TrendSummary, cfg Config) bool {
			return s.AverageQualityScore != nil && *s.AverageQualityScore < cfg.LowQualityScore
		},
		Message: "Average sleep quality is low. A wind-down routine without screens in the last hour before bed may help.",
	},
	{
		Name: "irregular_bedtime",
		Applies: func(s *domain.TrendSummary, cfg Config) bool {
			return s.ScheduleConsistency != nil && cfg.IrregularBedtimeMinutes > 0 &&
				s.ScheduleConsistency.BedtimeStdMinutes > cfg.IrregularBedtimeMinutes
		},
		Message: "Your bedtime varies by more than an hour from night to night. Going to bed within the same 30-minute window helps your body clock.",
	},
	{
		Name: "irregular_nights",
		Applies: func(s *domain.TrendSummary, cfg Config) bool {
			return cfg.IrregularDays > 0 && len(s.AnomalyDates) >= cfg.IrregularDays
		},
		Message: "Several nights stood out as unusually short or poor. Look for shared causes such as late caffeine, alcohol or late workouts.",
	},
	{
		Name: "improving_quality",
		Applies: func(s *domain.TrendSummary, cfg Config) bool {
			return s.Direction != nil && *s.Direction == domain.TrendImproving
		},
		Message: "Sleep quality is improving. Keep your current routine.",
	},
}

// Recommend returns the messages of every matching rule in rule order.
func Recommend(summary *domain.TrendSummary, rules []Rule, cfg Config) []string {
	out := []string{}
	if summary == nil {
		return out
	}
	for _, r := range rules {
		if r.Applies(summary, cfg) {
			out = append(out, r.Message)
		}
	}
	return out
}
