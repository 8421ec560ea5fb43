// Package synthetic produces plausible sleep records for demos, seeding and
// load testing.
package synthetic

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/blaisecz/sleep-analytics/internal/domain"
	"github.com/google/uuid"
)

// Trend shapes how a generated series evolves over the window.
type Trend string

const (
	TrendImproving  Trend = "improving"
	TrendDeclining  Trend = "declining"
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
	TrendRandom     Trend = "random"
)

const (
	SourceName = "Synthetic generator"

	// maxNights bounds a single generation call.
	maxNights = 366

	slot          = 10 * time.Minute
	cycleLength   = 90 * time.Minute
	maxQualityMod = 15.0
	maxHoursMod   = 2.0
)

type Options struct {
	// QualityTrend is one of improving, declining, stable, random (default).
	QualityTrend Trend
	// DurationTrend is one of increasing, decreasing, stable, random (default).
	DurationTrend    Trend
	IncludeHeartRate bool
	// Timezone is the IANA zone bedtimes are placed in. Defaults to UTC.
	Timezone string
	// Seed makes the output reproducible. Zero seeds from the clock.
	Seed int64
}

func (o Options) validate() error {
	switch o.QualityTrend {
	case "", TrendImproving, TrendDeclining, TrendStable, TrendRandom:
	default:
		return &domain.ValidationError{Field: "quality_trend", Reason: fmt.Sprintf("unknown trend %q", o.QualityTrend)}
	}
	switch o.DurationTrend {
	case "", TrendIncreasing, TrendDecreasing, TrendStable, TrendRandom:
	default:
		return &domain.ValidationError{Field: "duration_trend", Reason: fmt.Sprintf("unknown trend %q", o.DurationTrend)}
	}
	return nil
}

// Generate returns one synthetic record per local calendar night in
// [from, to], ordered by start.
func Generate(userID uuid.UUID, from, to time.Time, opts Options) ([]domain.SleepRecord, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	tz := opts.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, &domain.ValidationError{Field: "timezone", Reason: err.Error()}
	}

	first := localDay(from, loc)
	last := localDay(to, loc)
	if last.Before(first) {
		return nil, &domain.ValidationError{Field: "end_date", Reason: "must not be before start_date"}
	}
	nights := int(last.Sub(first).Hours()/24+0.5) + 1
	if nights > maxNights {
		return nil, &domain.ValidationError{Field: "end_date", Reason: fmt.Sprintf("at most %d nights per call", maxNights)}
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &generator{
		rng:    rand.New(rand.NewSource(seed)),
		opts:   opts,
		loc:    loc,
		tz:     tz,
		userID: userID,
	}
	g.baseQuality = 65 + float64(g.rng.Intn(16))
	g.baseHours = 6.5 + g.rng.Float64()

	records := make([]domain.SleepRecord, 0, nights)
	for i := 0; i < nights; i++ {
		progress := float64(i+1) / float64(nights)
		records = append(records, g.night(first.AddDate(0, 0, i), progress))
	}
	return records, nil
}

type generator struct {
	rng         *rand.Rand
	opts        Options
	loc         *time.Location
	tz          string
	userID      uuid.UUID
	baseQuality float64
	baseHours   float64
}

func localDay(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, loc)
}

func (g *generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *generator) qualityModifier(progress float64) float64 {
	switch g.opts.QualityTrend {
	case TrendImproving:
		return progress * maxQualityMod
	case TrendDeclining:
		return -progress * maxQualityMod
	case TrendStable:
		return 0
	default:
		return g.uniform(-5, 5)
	}
}

func (g *generator) durationModifier(progress float64) float64 {
	switch g.opts.DurationTrend {
	case TrendIncreasing:
		return progress * maxHoursMod
	case TrendDecreasing:
		return -progress * maxHoursMod
	case TrendStable:
		return 0
	default:
		return g.uniform(-0.5, 0.5)
	}
}

func (g *generator) night(day time.Time, progress float64) domain.SleepRecord {
	qualityMod := g.qualityModifier(progress)
	hoursMod := g.durationModifier(progress)

	bedtime := time.Date(day.Year(), day.Month(), day.Day(), 21+g.rng.Intn(3), g.rng.Intn(60), 0, 0, g.loc)
	hours := clamp(g.baseHours+hoursMod+g.uniform(-0.5, 0.5), 4, 10)
	end := bedtime.Add(time.Duration(hours * float64(time.Hour))).Truncate(time.Minute)

	quality := clamp(g.baseQuality+qualityMod+g.uniform(-5, 5), 40, 98) / 100

	rec := domain.SleepRecord{
		UserID:        g.userID,
		StartAt:       bedtime,
		EndAt:         end,
		LocalTimezone: g.tz,
		Source:        domain.SourceSynthetic,
		SourceName:    SourceName,
	}
	rec.Phases = g.phases(bedtime, end, quality)
	if g.opts.IncludeHeartRate {
		rec.HeartRate = g.heartRate(rec.Phases, quality)
	}
	rec.Normalize()
	return rec
}

// phases walks the night in 10-minute slots through repeating 90-minute
// cycles of light, deep, light and REM sleep. Poorer nights wake up more often.
func (g *generator) phases(start, end time.Time, quality float64) []domain.PhaseSegment {
	awakeChance := 0.5 * (1 - quality)
	var out []domain.PhaseSegment
	for t := start; t.Before(end); t = t.Add(slot) {
		slotEnd := t.Add(slot)
		if slotEnd.After(end) {
			slotEnd = end
		}
		kind := cycleStage(t.Sub(start))
		if g.rng.Float64() < awakeChance {
			kind = domain.PhaseAwake
		}
		if n := len(out); n > 0 && out[n-1].Kind == kind {
			out[n-1].EndAt = slotEnd
			continue
		}
		out = append(out, domain.PhaseSegment{Kind: kind, StartAt: t, EndAt: slotEnd})
	}
	return out
}

func cycleStage(elapsed time.Duration) domain.PhaseKind {
	position := float64(elapsed%cycleLength) / float64(cycleLength)
	switch {
	case position < 0.1:
		return domain.PhaseLight
	case position < 0.4:
		return domain.PhaseDeep
	case position < 0.7:
		return domain.PhaseLight
	default:
		return domain.PhaseREM
	}
}

// heartRate samples every slot. Better nights have a lower, steadier rate.
func (g *generator) heartRate(phases []domain.PhaseSegment, quality float64) []domain.HeartRateSample {
	avg := 70 - quality*15 + g.uniform(-3, 3)
	spread := 1 + 12*(1-quality)
	var out []domain.HeartRateSample
	for _, p := range phases {
		base := avg
		switch p.Kind {
		case domain.PhaseDeep:
			base = avg - 4*(1-quality) - 2
		case domain.PhaseREM:
			base = avg + 3
		case domain.PhaseAwake:
			base = avg + 15 - quality*5
		}
		for t := p.StartAt; t.Before(p.EndAt); t = t.Add(slot) {
			bpm := base + g.uniform(-spread, spread)
			out = append(out, domain.HeartRateSample{Timestamp: t, BPM: float64(int(bpm*10+0.5)) / 10})
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
