package store

import (
	"sort"

	"pnl-research/internal/domain"
)

// Merge combines newly fetched bars into an existing series. One bar per
// timestamp: newBars overwrite existing entries for the same key, because
// providers occasionally revise recent candles. Result is sorted ascending.
func Merge(existing, newBars []domain.Bar) []domain.Bar {
	byTs := make(map[int64]domain.Bar, len(existing)+len(newBars))
	for _, b := range existing {
		byTs[b.TimestampSec] = b
	}
	for _, b := range newBars {
		byTs[b.TimestampSec] = b
	}

	merged := make([]domain.Bar, 0, len(byTs))
	for _, b := range byTs {
		merged = append(merged, b)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].TimestampSec < merged[j].TimestampSec
	})
	return merged
}

// MergeAndSave loads the series at path (empty when absent), merges newBars
// into it, persists the result atomically and returns it. Idempotent:
// merging the same bars twice produces the same stored sequence.
func MergeAndSave(path string, newBars []domain.Bar) ([]domain.Bar, error) {
	merged := Merge(LoadSeries(path), newBars)
	if err := Save(path, merged); err != nil {
		return nil, err
	}
	return merged, nil
}
