package stats

import "errors"

// Sentinel kinds for aggregate errors.
var (
	ErrEmptyInput       = errors.New("aggregate requested on empty input")
	ErrInsufficientData = errors.New("standard deviation requires at least two records")
)
