// Package types contains common types used across the application
package types

// Entry represents one row of the top performers table
type Entry struct {
	Rank  int     `json:"rank"`
	Name  string  `json:"name"`
	Age   int     `json:"age"`
	Score float64 `json:"score"`
}
