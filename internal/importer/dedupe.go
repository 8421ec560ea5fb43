package importer

import (
	"sort"
	"time"

	"github.com/blaisecz/sleep-analytics/internal/domain"
)

// IsDuplicate reports whether two records of the same user start within
// tolerance of each other.
func IsDuplicate(a, b *domain.SleepRecord, tolerance time.Duration) bool {
	if a.UserID != b.UserID {
		return false
	}
	diff := a.StartAt.Sub(b.StartAt)
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

// Dedupe keeps one record per group of duplicates, scanning candidates in
// input order. A later candidate replaces the kept one only when it carries
// strictly more phase and heart-rate data. The result is ordered by start.
func Dedupe(candidates []domain.SleepRecord, tolerance time.Duration) ([]domain.SleepRecord, int) {
	kept := make([]domain.SleepRecord, 0, len(candidates))
	duplicates := 0

	for _, c := range candidates {
		match := -1
		for i := range kept {
			if IsDuplicate(&kept[i], &c, tolerance) {
				match = i
				break
			}
		}
		if match < 0 {
			kept = append(kept, c)
			continue
		}
		duplicates++
		if c.Completeness() > kept[match].Completeness() {
			kept[match] = c
		}
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].StartAt.Before(kept[j].StartAt) })
	return kept, duplicates
}
