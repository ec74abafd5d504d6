// Package service runs the roster pipeline: load, aggregate, rank, report.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/roster/internal/adapters/loader"
	"github.com/okian/roster/internal/adapters/report"
	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/internal/domain/ranking"
	"github.com/okian/roster/internal/domain/stats"
	"github.com/okian/roster/pkg/logger"
	"github.com/okian/roster/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// Source produces the records of one run.
type Source interface {
	Load(ctx context.Context, path string) ([]model.StudentRecord, error)
}

// Sink receives the finished report.
type Sink interface {
	Write(ctx context.Context, res report.Result) error
}

// Service wires the pipeline stages together.
type Service struct {
	source  Source
	sink    Sink
	metrics *metrics.Manager
	logger  logger.Logger

	inputPath       string
	topN            int
	metricsTextfile string

	newRunID func() string
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where records are loaded from.
func WithSource(src Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithSink sets where the report is written.
func WithSink(sink Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithMetrics sets the metrics manager runs are recorded on.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithInputPath sets the file handed to the source.
func WithInputPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.inputPath = path
		}
	}
}

// WithTopN sets how many top performers are reported. n <= 0 reports none.
func WithTopN(n int) Option {
	return func(s *Service) {
		s.topN = n
	}
}

// WithMetricsTextfile exports metrics to path after every run.
func WithMetricsTextfile(path string) Option {
	return func(s *Service) {
		s.metricsTextfile = path
	}
}

// New constructs a Service with default configuration.
// A sink must be supplied with WithSink before Run is called.
func New(opts ...Option) *Service {
	s := &Service{
		source:    loader.New(),
		metrics:   metrics.Default(),
		logger:    logger.Nop(),
		inputPath: "student_scores.csv",
		topN:      ranking.DefaultTopN,
		newRunID:  uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run executes the pipeline once. Any stage failure aborts the run.
func (s *Service) Run(ctx context.Context) (res report.Result, err error) {
	if s.sink == nil {
		return report.Result{}, errors.New("service has no report sink")
	}

	runID := s.newRunID()
	log := s.logger.With(logger.String("run_id", runID))
	start := time.Now()

	defer func() {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeFailure
		}
		s.metrics.RecordRun(outcome, sinceMs(start))
		s.exportMetrics(ctx, log)
	}()

	log.Info(ctx, "run started", logger.String("input", s.inputPath), logger.Int("top_n", s.topN))

	records, err := s.load(ctx, log)
	if err != nil {
		return report.Result{}, err
	}

	summary, err := stats.Summarize(records)
	if err != nil {
		return report.Result{}, fmt.Errorf("aggregate: %w", err)
	}

	res = report.Result{
		RunID:         runID,
		Summary:       summary,
		TopPerformers: ranking.Leaderboard(records, s.topN),
	}
	s.metrics.UpdateSummary(summary.Average, summary.Maximum, summary.Minimum, summary.StandardDeviation, len(res.TopPerformers))

	if err := s.sink.Write(ctx, res); err != nil {
		return report.Result{}, fmt.Errorf("report: %w", err)
	}

	log.Info(ctx, "run finished",
		logger.Int("records", summary.Count),
		logger.Float64("average", summary.Average),
		logger.Float64("duration_ms", sinceMs(start)),
	)
	return res, nil
}

func (s *Service) load(ctx context.Context, log logger.Logger) ([]model.StudentRecord, error) {
	start := time.Now()
	records, err := s.source.Load(ctx, s.inputPath)
	s.metrics.RecordLoadDuration(sinceMs(start))

	if err != nil {
		switch {
		case errors.Is(err, loader.ErrParse):
			s.metrics.RecordParseError("parse")
		case errors.Is(err, loader.ErrIO):
			s.metrics.RecordParseError("io")
		}
		return nil, fmt.Errorf("load %s: %w", s.inputPath, err)
	}

	s.metrics.RecordRecordsLoaded(len(records))
	log.Debug(ctx, "records loaded", logger.Int("records", len(records)))
	return records, nil
}

func (s *Service) exportMetrics(ctx context.Context, log logger.Logger) {
	if s.metricsTextfile == "" {
		return
	}
	if err := s.metrics.WriteTextfile(s.metricsTextfile); err != nil {
		log.Warn(ctx, "metrics export failed", logger.String("path", s.metricsTextfile), logger.Error(err))
	}
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Nanoseconds()) / nanosecondsPerMillisecond
}
