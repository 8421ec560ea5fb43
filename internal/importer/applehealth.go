// Package importer turns Apple Health export documents into normalized sleep
// records ready to be saved.
package importer

import (
	"encoding/xml"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/blaisecz/sleep-analytics/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FormatAppleHealth names the container accepted by Normalize.
const FormatAppleHealth = "apple-health-xml"

const (
	typeSleepAnalysis = "HKCategoryTypeIdentifierSleepAnalysis"
	typeHeartRate     = "HKQuantityTypeIdentifierHeartRate"

	sleepValuePrefix = "HKCategoryValueSleepAnalysis"
)

const valueInBed = "InBed"

// asleepValues mark sleep without stage detail.
var asleepValues = map[string]bool{
	"Asleep":            true,
	"AsleepUnspecified": true,
}

// stageValues map sleep stage entries to phase kinds.
var stageValues = map[string]domain.PhaseKind{
	"AsleepCore": domain.PhaseLight,
	"AsleepDeep": domain.PhaseDeep,
	"AsleepREM":  domain.PhaseREM,
	"Awake":      domain.PhaseAwake,
}

const (
	DefaultDuplicateTolerance = 5 * time.Minute
	DefaultMergeGap           = 30 * time.Minute
)

// Options configure a Normalizer.
type Options struct {
	// DuplicateTolerance is the maximum start difference of two duplicates.
	DuplicateTolerance time.Duration
	// MergeGap joins sleep entries of one source into a single night when
	// they are at most this far apart.
	MergeGap time.Duration
	// Timezone overrides the zone derived from the export's offsets.
	Timezone string
}

func DefaultOptions() Options {
	return Options{
		DuplicateTolerance: DefaultDuplicateTolerance,
		MergeGap:           DefaultMergeGap,
	}
}

// Batch is the result of normalizing one payload. It is never persisted.
type Batch struct {
	Records    []domain.SleepRecord
	Duplicates int
	Skipped    int
}

type Normalizer struct {
	opts   Options
	logger *zap.Logger
}

func NewNormalizer(opts Options, logger *zap.Logger) *Normalizer {
	if opts.DuplicateTolerance <= 0 {
		opts.DuplicateTolerance = DefaultDuplicateTolerance
	}
	if opts.MergeGap <= 0 {
		opts.MergeGap = DefaultMergeGap
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{opts: opts, logger: logger}
}

// Tolerance is the configured duplicate window.
func (n *Normalizer) Tolerance() time.Duration {
	return n.opts.DuplicateTolerance
}

// segment is one sleep analysis entry. Kind is empty for entries without
// stage detail.
type segment struct {
	kind       domain.PhaseKind
	inBed      bool
	start, end time.Time
	sourceName string
}

type sample struct {
	at  time.Time
	bpm float64
}

// Normalize reads an Apple Health export and returns the sleep records it
// describes for userID, ordered by start. Bad entries are skipped; only a
// payload that is not a readable XML document fails.
func (n *Normalizer) Normalize(payload io.Reader, userID uuid.UUID) (*Batch, error) {
	entries, err := readEntries(payload)
	if err != nil {
		return nil, err
	}

	batch := &Batch{}
	var (
		segments []segment
		samples  []sample
	)

	for _, e := range entries {
		switch e.get(attrType) {
		case typeSleepAnalysis:
			value := strings.TrimPrefix(e.get(attrValue), sleepValuePrefix)
			start, end, err := e.span()
			if err == nil && !end.After(start) {
				err = &domain.ValidationError{Field: "end", Reason: "must be after start"}
			}
			if err != nil {
				n.skip(batch, e, err)
				continue
			}
			seg := segment{start: start, end: end, sourceName: e.get(attrSourceName)}
			switch kind, staged := stageValues[value]; {
			case value == valueInBed:
				seg.inBed = true
			case asleepValues[value]:
			case staged:
				seg.kind = kind
			default:
				n.skip(batch, e, &domain.ValidationError{Field: "value", Reason: "unknown sleep analysis value " + value})
				continue
			}
			segments = append(segments, seg)

		case typeHeartRate:
			at, err := parseTimestamp(e.get(attrStart))
			if err != nil {
				n.skip(batch, e, err)
				continue
			}
			bpm, err := e.bpm()
			if err != nil {
				n.skip(batch, e, err)
				continue
			}
			samples = append(samples, sample{at: at.UTC(), bpm: bpm})
		}
	}

	sort.SliceStable(samples, func(i, j int) bool { return samples[i].at.Before(samples[j].at) })

	nights := n.buildNights(userID, segments)
	candidates := make([]domain.SleepRecord, 0, len(nights))
	for _, rec := range nights {
		rec.Phases = clipPhases(rec.Phases)
		for _, s := range samples {
			if !s.at.Before(rec.StartAt) && !s.at.After(rec.EndAt) {
				rec.HeartRate = append(rec.HeartRate, domain.HeartRateSample{Timestamp: s.at, BPM: s.bpm})
			}
		}
		rec.Normalize()
		if err := rec.Validate(); err != nil {
			n.logger.Warn("dropping invalid import candidate",
				zap.Time("start_at", rec.StartAt),
				zap.Error(err),
			)
			batch.Skipped++
			continue
		}
		candidates = append(candidates, rec)
	}

	batch.Records, batch.Duplicates = Dedupe(candidates, n.opts.DuplicateTolerance)
	n.logger.Debug("normalized import payload",
		zap.String("user_id", userID.String()),
		zap.Int("entries", len(entries)),
		zap.Int("records", len(batch.Records)),
		zap.Int("duplicates", batch.Duplicates),
		zap.Int("skipped", batch.Skipped),
	)
	return batch, nil
}

func (n *Normalizer) skip(batch *Batch, e entry, err error) {
	batch.Skipped++
	n.logger.Warn("skipping malformed import entry",
		zap.Int("entry", e.index),
		zap.String("type", e.get(attrType)),
		zap.Error(err),
	)
}

func (n *Normalizer) newRecord(userID uuid.UUID, start, end time.Time, sourceName string) domain.SleepRecord {
	tz := n.opts.Timezone
	if tz == "" {
		tz = zoneName(end)
	}
	return domain.SleepRecord{
		UserID:        userID,
		StartAt:       start.UTC(),
		EndAt:         end.UTC(),
		LocalTimezone: tz,
		Source:        domain.SourceImported,
		SourceName:    sourceName,
	}
}

// readEntries decodes every <Record> element of the document. Other elements
// are ignored.
func readEntries(payload io.Reader) ([]entry, error) {
	dec := xml.NewDecoder(payload)
	var (
		entries []entry
		hasRoot bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &domain.ImportFormatError{Format: FormatAppleHealth, Err: err}
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		hasRoot = true
		if el.Name.Local == "Record" {
			entries = append(entries, mapEntry(len(entries), el.Attr))
		}
	}
	if !hasRoot {
		return nil, &domain.ImportFormatError{Format: FormatAppleHealth, Err: errors.New("document has no root element")}
	}
	return entries, nil
}

// night collects the segments of one source that form a single sleep period.
type night struct {
	rec domain.SleepRecord
	// asleep is set once an asleep or stage entry joined the night.
	asleep bool
}

func (nt *night) add(seg segment) {
	if seg.end.After(nt.rec.EndAt) {
		nt.rec.EndAt = seg.end.UTC()
	}
	if !seg.inBed {
		nt.asleep = true
	}
	if seg.kind != "" {
		nt.rec.Phases = append(nt.rec.Phases, domain.PhaseSegment{Kind: seg.kind, StartAt: seg.start.UTC(), EndAt: seg.end.UTC()})
	}
}

// buildNights merges the segments of each source that overlap or are at
// most MergeGap apart into one record. A night made only of in-bed entries
// is folded into every asleep night it overlaps, from any source, and is kept
// on its own only when it overlaps none.
func (n *Normalizer) buildNights(userID uuid.UUID, segments []segment) []domain.SleepRecord {
	sort.SliceStable(segments, func(i, j int) bool { return segments[i].start.Before(segments[j].start) })

	var nights []*night
	open := make(map[string]*night)
	for _, seg := range segments {
		cur := open[seg.sourceName]
		if cur == nil || seg.start.Sub(cur.rec.EndAt) > n.opts.MergeGap {
			cur = &night{rec: n.newRecord(userID, seg.start, seg.end, seg.sourceName)}
			open[seg.sourceName] = cur
			nights = append(nights, cur)
		}
		cur.add(seg)
	}

	var asleep, inBed []*night
	for _, nt := range nights {
		if nt.asleep {
			asleep = append(asleep, nt)
		} else {
			inBed = append(inBed, nt)
		}
	}

	out := make([]domain.SleepRecord, 0, len(nights))
	for _, b := range inBed {
		folded := false
		for _, a := range asleep {
			if b.rec.StartAt.Before(a.rec.EndAt) && a.rec.StartAt.Before(b.rec.EndAt) {
				a.rec.StartAt = minTime(a.rec.StartAt, b.rec.StartAt)
				a.rec.EndAt = maxTime(a.rec.EndAt, b.rec.EndAt)
				folded = true
			}
		}
		if !folded {
			out = append(out, b.rec)
		}
	}
	for _, a := range asleep {
		out = append(out, a.rec)
	}
	return out
}

func minTime(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func maxTime(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// clipPhases orders phases and trims each so it starts no earlier than the
// end of the previous one. Phases left empty are dropped.
func clipPhases(phases []domain.PhaseSegment) []domain.PhaseSegment {
	if len(phases) == 0 {
		return nil
	}
	sort.SliceStable(phases, func(i, j int) bool { return phases[i].StartAt.Before(phases[j].StartAt) })
	out := make([]domain.PhaseSegment, 0, len(phases))
	for _, p := range phases {
		if len(out) > 0 {
			prevEnd := out[len(out)-1].EndAt
			if p.StartAt.Before(prevEnd) {
				p.StartAt = prevEnd
			}
		}
		if p.EndAt.After(p.StartAt) {
			out = append(out, p)
		}
	}
	return out
}
