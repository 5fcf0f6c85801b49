package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ajr-erp/ajr/internal/accounting/entries"
	jobmetrics "github.com/ajr-erp/ajr/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// IntegrityChecker recomputes stored entry totals.
type IntegrityChecker interface {
	CheckIntegrity(ctx context.Context) (entries.IntegrityReport, error)
}

// IntegrityJob runs the ledger integrity scan.
type IntegrityJob struct {
	Checker IntegrityChecker
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewIntegrityJob wires dependencies for the integrity handler.
func NewIntegrityJob(checker IntegrityChecker, logger *slog.Logger, metrics *jobmetrics.Metrics) *IntegrityJob {
	return &IntegrityJob{Checker: checker, Logger: logger, Metrics: metrics}
}

// Handle processes TaskLedgerIntegrity tasks. Violations are counted and
// logged; they do not fail the task.
func (j *IntegrityJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Checker == nil {
		return errors.New("ledger integrity: handler not configured")
	}
	var payload IntegrityPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	tracker := j.metrics().Track(TaskLedgerIntegrity)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := jobLogger(j.Logger, TaskLedgerIntegrity)
	start := time.Now()
	report, err := j.Checker.CheckIntegrity(ctx)
	if err != nil {
		logger.Error("ledger integrity scan", slog.Any("error", err))
		return err
	}

	byKind := make(map[string]int)
	for _, v := range report.Violations {
		byKind[v.Kind]++
	}
	for kind, n := range byKind {
		j.metrics().AddViolations(kind, n)
	}
	if !report.Balanced() {
		j.metrics().AddViolations("ledger_unbalanced", 1)
	}

	logger.Info("completed ledger integrity scan",
		slog.String("reason", payload.Reason),
		slog.Int("entries", report.Scanned),
		slog.Int("violations", len(report.Violations)),
		slog.Bool("balanced", report.Balanced()),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *IntegrityJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func jobLogger(l *slog.Logger, job string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With(slog.String("job", job))
}
