// Package config defines roster configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - All functions accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig; source failures wrap ErrLoadConfig.
package config

import (
	"context"
	"fmt"
	"slices"
	"unicode/utf8"
)

// Defaults.
const (
	DefaultInputPath    = "student_scores.csv"
	DefaultTopN         = 5
	DefaultDelimiter    = ","
	DefaultReportFormat = "text"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

var (
	reportFormats = []string{"text", "json"} //nolint:gochecknoglobals // fixed lookup table
	logFormats    = []string{"text", "json"} //nolint:gochecknoglobals // fixed lookup table
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// InputPath is the CSV file to read.
	InputPath string `koanf:"input_path"`

	// TopN caps the number of top performers reported.
	TopN int `koanf:"top_n"`

	// Delimiter is the single field separator of the input.
	Delimiter string `koanf:"delimiter"`

	// ReportFormat selects the report layout: text or json.
	ReportFormat string `koanf:"report_format"`

	// MetricsTextfile, when set, receives a Prometheus textfile after each run.
	MetricsTextfile string `koanf:"metrics_textfile"`
}

// New creates a Config holding the defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		InputPath:    DefaultInputPath,
		TopN:         DefaultTopN,
		Delimiter:    DefaultDelimiter,
		ReportFormat: DefaultReportFormat,
	}
}

// DelimiterRune returns the configured delimiter as a rune.
// Only meaningful after Validate succeeded.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// Validate checks cross-field constraints.
func (c *Config) Validate(_ context.Context) error {
	if c.InputPath == "" {
		return fmt.Errorf("%w: input_path must not be empty", ErrInvalidConfig)
	}
	if c.TopN < 0 {
		return fmt.Errorf("%w: top_n must not be negative, got %d", ErrInvalidConfig, c.TopN)
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("%w: delimiter must be a single character, got %q", ErrInvalidConfig, c.Delimiter)
	}
	switch c.DelimiterRune() {
	case '"', '\r', '\n', utf8.RuneError:
		return fmt.Errorf("%w: delimiter %q is not allowed", ErrInvalidConfig, c.Delimiter)
	}
	if !slices.Contains(reportFormats, c.ReportFormat) {
		return fmt.Errorf("%w: report_format must be one of %v, got %q", ErrInvalidConfig, reportFormats, c.ReportFormat)
	}
	if !slices.Contains(logFormats, c.LogFormat) {
		return fmt.Errorf("%w: log_format must be one of %v, got %q", ErrInvalidConfig, logFormats, c.LogFormat)
	}
	return nil
}
