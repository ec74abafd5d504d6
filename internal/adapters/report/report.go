// Package report renders pipeline results for humans or machines.
package report

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/okian/roster/internal/domain/stats"
	"github.com/okian/roster/internal/domain/types"
)

// Format selects the output layout.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat maps a config value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Result is everything a report shows.
type Result struct {
	RunID         string        `json:"run_id,omitempty"`
	Summary       stats.Summary `json:"summary"`
	TopPerformers []types.Entry `json:"top_performers"`
}

// Reporter writes results to an output stream.
type Reporter struct {
	out    io.Writer
	format Format
}

// Option applies a configuration option to the Reporter.
type Option func(*Reporter)

// WithFormat sets the output layout. Defaults to FormatText.
func WithFormat(f Format) Option {
	return func(r *Reporter) {
		if f != "" {
			r.format = f
		}
	}
}

// New creates a Reporter writing to out.
func New(out io.Writer, opts ...Option) *Reporter {
	r := &Reporter{out: out, format: FormatText}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Write renders res.
func (r *Reporter) Write(_ context.Context, res Result) error {
	var err error
	switch r.format {
	case FormatText:
		err = r.writeText(res)
	case FormatJSON:
		err = r.writeJSON(res)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, r.format)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

func (r *Reporter) writeText(res Result) error {
	w := bufio.NewWriter(r.out)
	s := res.Summary
	fmt.Fprintf(w, "Average Score: %s\n", FormatScore(s.Average))
	fmt.Fprintf(w, "Highest Score: %s\n", FormatScore(s.Maximum))
	fmt.Fprintf(w, "Lowest Score: %s\n", FormatScore(s.Minimum))
	fmt.Fprintf(w, "Standard Deviation: %s\n", FormatScore(s.StandardDeviation))
	fmt.Fprintln(w, "Top Performers:")
	for _, e := range res.TopPerformers {
		fmt.Fprintf(w, "Name: %s, Age: %d, Score: %s\n", e.Name, e.Age, FormatScore(e.Score))
	}
	return w.Flush()
}

func (r *Reporter) writeJSON(res Result) error {
	if res.TopPerformers == nil {
		res.TopPerformers = []types.Entry{}
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// FormatScore prints the shortest representation that round-trips,
// keeping a ".0" on integral values so scores always read as decimals.
func FormatScore(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !math.IsInf(v, 0) && !math.IsNaN(v) && !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
