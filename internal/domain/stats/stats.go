// Package stats computes descriptive statistics over the score field of
// student records. Every function is pure and leaves its input untouched.
package stats

import (
	"fmt"
	"math"

	"github.com/okian/roster/internal/domain/model"
)

// minSampleSize is the smallest input for which the sample
// standard deviation is defined.
const minSampleSize = 2

// Summary holds the aggregates reported for one roster.
type Summary struct {
	Count             int     `json:"count"`
	Average           float64 `json:"average"`
	Maximum           float64 `json:"maximum"`
	Minimum           float64 `json:"minimum"`
	StandardDeviation float64 `json:"standard_deviation"`
}

// Average returns the arithmetic mean of all scores.
func Average(records []model.StudentRecord) (float64, error) {
	if len(records) == 0 {
		return 0, fmt.Errorf("average: %w", ErrEmptyInput)
	}
	lo, hi := bounds(records)
	return clamp(mean(records), lo, hi), nil
}

// Maximum returns the largest score.
func Maximum(records []model.StudentRecord) (float64, error) {
	if len(records) == 0 {
		return 0, fmt.Errorf("maximum: %w", ErrEmptyInput)
	}
	_, hi := bounds(records)
	return hi, nil
}

// Minimum returns the smallest score.
func Minimum(records []model.StudentRecord) (float64, error) {
	if len(records) == 0 {
		return 0, fmt.Errorf("minimum: %w", ErrEmptyInput)
	}
	lo, _ := bounds(records)
	return lo, nil
}

// StandardDeviation returns the sample standard deviation (divisor N-1).
func StandardDeviation(records []model.StudentRecord) (float64, error) {
	if len(records) < minSampleSize {
		return 0, fmt.Errorf("standard deviation of %d record(s): %w", len(records), ErrInsufficientData)
	}

	// Two passes over scores shifted by the first one. Equal scores then
	// shift to exactly zero and the result is exactly zero.
	scores, exp := scaled(records)
	pivot := scores[0]
	var shiftedSum float64
	for _, v := range scores {
		shiftedSum += v - pivot
	}
	shiftedMean := shiftedSum / float64(len(scores))

	var sq float64
	for _, v := range scores {
		d := (v - pivot) - shiftedMean
		sq += d * d
	}
	return math.Ldexp(math.Sqrt(sq/float64(len(scores)-1)), exp), nil
}

// Summarize computes all aggregates at once.
func Summarize(records []model.StudentRecord) (Summary, error) {
	avg, err := Average(records)
	if err != nil {
		return Summary{}, err
	}
	sd, err := StandardDeviation(records)
	if err != nil {
		return Summary{}, err
	}
	lo, hi := bounds(records)
	return Summary{
		Count:             len(records),
		Average:           avg,
		Maximum:           hi,
		Minimum:           lo,
		StandardDeviation: sd,
	}, nil
}

// bounds returns min and max score. records must be non-empty.
func bounds(records []model.StudentRecord) (lo, hi float64) {
	lo, hi = records[0].Score, records[0].Score
	for _, r := range records[1:] {
		lo = math.Min(lo, r.Score)
		hi = math.Max(hi, r.Score)
	}
	return lo, hi
}

// mean is computed around the first score so a single record, or a run of
// equal scores, yields that score exactly.
func mean(records []model.StudentRecord) float64 {
	scores, exp := scaled(records)
	pivot := scores[0]
	var sum float64
	for _, v := range scores {
		sum += v - pivot
	}
	return math.Ldexp(pivot+sum/float64(len(scores)), exp)
}

// scaled returns the scores divided by a power of two that brings the largest
// magnitude into [0.5, 1), plus that power. Differences and sums of scaled
// scores cannot overflow, and scaling back with math.Ldexp is exact.
func scaled(records []model.StudentRecord) ([]float64, int) {
	scores := model.Scores(records)
	var peak float64
	for _, v := range scores {
		peak = math.Max(peak, math.Abs(v))
	}
	_, exp := math.Frexp(peak)
	for i, v := range scores {
		scores[i] = math.Ldexp(v, -exp)
	}
	return scores, exp
}

// Rounding may land a hair outside [lo, hi]; the true mean never does.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
