package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/roster/internal/adapters/loader"
	"github.com/okian/roster/internal/adapters/report"
	service "github.com/okian/roster/internal/app"
	"github.com/okian/roster/internal/config"
	"github.com/okian/roster/pkg/logger"
	"github.com/okian/roster/pkg/metrics"
)

// Process exit codes.
const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one pipeline pass. The report goes to stdout, logs to stderr.
func run(ctx context.Context, stdout, stderr io.Writer) int {
	if err := logger.Init(logger.WithOutput(stderr)); err != nil {
		// logger isn't available yet
		_, _ = io.WriteString(stderr, "failed to initialize logging: "+err.Error()+"\n")
		return exitFailure
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			_, _ = io.WriteString(stderr, "failed to sync logging: "+err.Error()+"\n")
		}
	}()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Get().Error(ctx, "failed to load config", logger.Error(err))
		return exitFailure
	}

	if cfg.LogFormat != config.DefaultLogFormat {
		if err := logger.Init(logger.WithOutput(stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
			logger.Get().Error(ctx, "failed to switch log format", logger.Error(err))
			return exitFailure
		}
	}
	log := logger.Named("roster")

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	format, err := report.ParseFormat(cfg.ReportFormat)
	if err != nil {
		log.Error(ctx, "invalid report format", logger.Error(err))
		return exitFailure
	}

	svc := service.New(
		service.WithLogger(log),
		service.WithMetrics(metrics.Default()),
		service.WithSource(loader.New(
			loader.WithDelimiter(cfg.DelimiterRune()),
			loader.WithLogger(log.Named("loader")),
		)),
		service.WithSink(report.New(stdout, report.WithFormat(format))),
		service.WithInputPath(cfg.InputPath),
		service.WithTopN(cfg.TopN),
		service.WithMetricsTextfile(cfg.MetricsTextfile),
	)

	if _, err := svc.Run(ctx); err != nil {
		log.Error(ctx, "run failed", logger.Error(err))
		return exitFailure
	}
	return exitOK
}
