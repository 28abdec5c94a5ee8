package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"surveyprep/internal/config"
	"surveyprep/internal/dataprocessing"
	apperrors "surveyprep/internal/errors"
	"surveyprep/internal/infrastructure"
	"surveyprep/pkg/contracts/domain"
)

// NormalizeService runs batches of staged survey exports through the
// normalization pipeline and produces one combined table per batch.
type NormalizeService struct {
	normalizer *dataprocessing.Normalizer
	limits     config.PipelineConfig
	metrics    *infrastructure.BusinessMetrics
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewNormalizeService creates a normalize service for the configured rule
// set. Metrics and tracer may be nil; both degrade to no-ops.
func NewNormalizeService(cfg config.PipelineConfig, metrics *infrastructure.BusinessMetrics, tracer trace.Tracer, logger *slog.Logger) (*NormalizeService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rules, err := dataprocessing.RuleSetByName(cfg.RuleSet)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRuleSet, cfg.RuleSet)
	}

	return &NormalizeService{
		normalizer: dataprocessing.NewNormalizer(rules, cfg.MergeWorkers),
		limits:     cfg,
		metrics:    metrics,
		tracer:     tracer,
		logger:     logger.With(slog.String("component", "normalize_service")),
	}, nil
}

// NormalizeBatch reads the staged files, runs the pipeline over all of them,
// and returns the combined table together with a summary of the run. Staged
// copies are left in place; the caller owns their cleanup.
func (s *NormalizeService) NormalizeBatch(ctx context.Context, staged []domain.StagedFile) (*dataprocessing.Table, domain.BatchSummary, error) {
	start := time.Now()

	if s.tracer != nil {
		var span trace.Span
		ctx, span = s.tracer.Start(ctx, "normalize.batch",
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attribute.Int("batch.files", len(staged))),
		)
		defer span.End()
	}

	if err := s.checkLimits(staged); err != nil {
		s.recordOutcome(ctx, 0, 0, 0, time.Since(start), err)
		return nil, domain.BatchSummary{}, err
	}

	sources, err := s.readStaged(ctx, staged)
	if err != nil {
		s.recordOutcome(ctx, 0, 0, 0, time.Since(start), err)
		return nil, domain.BatchSummary{}, err
	}

	table, err := s.normalizer.MergeFiles(ctx, sources)
	if err != nil {
		s.recordOutcome(ctx, 0, 0, 0, time.Since(start), err)
		return nil, domain.BatchSummary{}, err
	}

	summary := domain.BatchSummary{
		Files:   len(staged),
		Rows:    table.RowCount(),
		Columns: table.ColumnCount(),
		Elapsed: time.Since(start),
	}

	s.recordOutcome(ctx, summary.Files, summary.Rows, stagedBytes(staged), summary.Elapsed, nil)
	s.logger.InfoContext(ctx, "batch normalized",
		slog.Int("files", summary.Files),
		slog.Int("rows", summary.Rows),
		slog.Int("columns", summary.Columns),
		slog.Duration("elapsed", summary.Elapsed),
	)

	return table, summary, nil
}

// checkLimits enforces batch size limits before any file is read.
func (s *NormalizeService) checkLimits(staged []domain.StagedFile) error {
	if len(staged) == 0 {
		return ErrEmptyBatch
	}
	if s.limits.MaxBatchFiles > 0 && len(staged) > s.limits.MaxBatchFiles {
		return fmt.Errorf("%w: %d files, limit %d", ErrTooManyFiles, len(staged), s.limits.MaxBatchFiles)
	}

	total := stagedBytes(staged)
	if s.limits.MaxBatchBytes > 0 && total > s.limits.MaxBatchBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrBatchTooLarge, total, s.limits.MaxBatchBytes)
	}
	return nil
}

// readStaged loads each staged file's content from disk. A staged copy that
// has gone missing or is unreadable maps to an unreadable-file error under
// its original name.
func (s *NormalizeService) readStaged(ctx context.Context, staged []domain.StagedFile) ([]dataprocessing.SourceFile, error) {
	sources := make([]dataprocessing.SourceFile, 0, len(staged))
	for _, f := range staged {
		content, err := os.ReadFile(f.Path)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to read staged file",
				slog.String("file", f.OriginalName),
				slog.String("path", f.Path),
				slog.String("error", err.Error()),
			)
			return nil, apperrors.NewUnreadableFileError(f.OriginalName, err)
		}
		sources = append(sources, dataprocessing.SourceFile{
			Name:    f.OriginalName,
			Content: content,
		})
	}
	return sources, nil
}

// stagedBytes sums the on-disk size of a staged batch.
func stagedBytes(staged []domain.StagedFile) int64 {
	var total int64
	for _, f := range staged {
		total += f.Size
	}
	return total
}

// recordOutcome records batch metrics and marks the span on failure.
func (s *NormalizeService) recordOutcome(ctx context.Context, files, rows int, bytes int64, elapsed time.Duration, err error) {
	if err != nil {
		span := trace.SpanFromContext(ctx)
		if span.IsRecording() {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}

	infrastructure.AddSpanEvent(ctx, "normalize.batch.completed", map[string]interface{}{
		"files":   files,
		"rows":    rows,
		"bytes":   bytes,
		"elapsed": elapsed.Seconds(),
		"success": err == nil,
	})

	if s.metrics == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(attribute.String("status", status))

	s.metrics.BatchesTotal.Add(ctx, 1, attrs)
	s.metrics.BatchDuration.Record(ctx, elapsed.Seconds(), attrs)
	if err != nil {
		s.metrics.BatchErrors.Add(ctx, 1)
		return
	}
	s.metrics.BatchFilesTotal.Add(ctx, int64(files))
	s.metrics.BatchRowsTotal.Add(ctx, int64(rows))
	s.metrics.BatchBytesUploaded.Add(ctx, bytes)
}

// RuleSet returns the rule set the service was configured with.
func (s *NormalizeService) RuleSet() dataprocessing.RuleSet {
	return s.normalizer.Rules()
}
