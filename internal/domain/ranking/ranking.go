// Package ranking orders student records by score.
//
// Ordering: score DESC, then input position ASC. Records with equal scores
// keep the order in which they were loaded.
package ranking

import (
	"cmp"
	"slices"

	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/internal/domain/types"
)

// DefaultTopN is the number of top performers reported when none is configured.
const DefaultTopN = 5

// TopPerformers returns the n highest-scoring records, best first.
// Fewer than n records are returned when the input is shorter.
// n <= 0 yields an empty slice.
func TopPerformers(records []model.StudentRecord, n int) []model.StudentRecord {
	if n <= 0 || len(records) == 0 {
		return []model.StudentRecord{}
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b model.StudentRecord) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return slices.Clip(sorted)
}

// Leaderboard returns TopPerformers as rank-numbered rows, starting at 1.
func Leaderboard(records []model.StudentRecord, n int) []types.Entry {
	top := TopPerformers(records, n)
	entries := make([]types.Entry, len(top))
	for i, r := range top {
		entries[i] = types.Entry{
			Rank:  i + 1,
			Name:  r.Name,
			Age:   r.Age,
			Score: r.Score,
		}
	}
	return entries
}
