package report

import "errors"

// Sentinel kinds for report errors.
var (
	ErrUnknownFormat = errors.New("unknown report format")
	ErrWrite         = errors.New("report write failed")
)
