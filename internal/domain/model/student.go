// Package model contains domain models passed between layers.
package model

// StudentRecord is one row of the roster input.
// Records are passed by value; nothing in the pipeline mutates them after load.
type StudentRecord struct {
	Name  string  // display name, taken verbatim from the input
	Age   int     // age in years
	Score float64 // score used for aggregation and ranking
}

// Scores returns the score of every record in input order.
func Scores(records []StudentRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Score
	}
	return out
}
