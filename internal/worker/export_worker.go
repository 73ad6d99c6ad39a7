package worker

import (
	"context"
	"time"

	"comptoir/internal/reports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WorkbookExporter produces the indicator workbook; satisfied by
// reports.Exporter.
type WorkbookExporter interface {
	ExportWorkbook(ctx context.Context, params reports.Params) (string, error)
}

// ExportWorker regenerates the indicator workbook on a fixed interval.
// A failed run is retried with exponential backoff before waiting for
// the next tick.
type ExportWorker struct {
	exporter    WorkbookExporter
	interval    time.Duration
	retryPolicy RetryPolicy
	logger      *zerolog.Logger
}

func NewExportWorker(exporter WorkbookExporter, interval time.Duration, retry RetryPolicy, logger *zerolog.Logger) *ExportWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 3
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &ExportWorker{
		exporter:    exporter,
		interval:    interval,
		retryPolicy: retry,
		logger:      logger,
	}
}

// Start runs the worker until the context is cancelled. The first export
// happens immediately.
func (w *ExportWorker) Start(ctx context.Context) {
	w.logger.Info().Dur("interval", w.interval).Msg("Export worker started")

	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Export worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// runOnce attempts one export, retrying with backoff on failure.
func (w *ExportWorker) runOnce(ctx context.Context) {
	runID := uuid.NewString()
	logger := w.logger.With().Str("run_id", runID).Logger()

	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		path, err := w.exporter.ExportWorkbook(ctx, reports.Params{})
		if err == nil {
			logger.Info().Str("path", path).Int("attempt", attempt).Msg("workbook exported")
			return
		}

		if ctx.Err() != nil {
			logger.Info().Err(err).Int("attempt", attempt).Msg("export abandoned, shutting down")
			return
		}

		if attempt == w.retryPolicy.MaxRetries {
			logger.Error().Err(err).Int("attempt", attempt).Msg("export failed, giving up")
			return
		}

		delay := w.retryPolicy.NextDelay(attempt)
		logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", delay).Msg("export failed, retrying")

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}
