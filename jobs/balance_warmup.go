package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/ajr-erp/ajr/internal/jobs"
)

const warmupTimeout = 30 * time.Second

// BalanceWarmer precomputes cached balances.
type BalanceWarmer interface {
	Warm(ctx context.Context, prefixes []string) (int, error)
}

// BalanceWarmupJob pre-populates the balance cache.
type BalanceWarmupJob struct {
	Warmer  BalanceWarmer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewBalanceWarmupJob wires dependencies for the warmup handler.
func NewBalanceWarmupJob(warmer BalanceWarmer, logger *slog.Logger, metrics *jobmetrics.Metrics) *BalanceWarmupJob {
	return &BalanceWarmupJob{Warmer: warmer, Logger: logger, Metrics: metrics}
}

// Handle processes TaskBalanceWarmup tasks.
func (j *BalanceWarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Warmer == nil {
		return errors.New("balance warmup: handler not configured")
	}
	var payload WarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	metrics := j.Metrics
	if metrics == nil {
		metrics = defaultJobMetrics
	}
	tracker := metrics.Track(TaskBalanceWarmup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := jobLogger(j.Logger, TaskBalanceWarmup)
	logger.Info("starting balance warmup", slog.Int("prefixes", len(payload.Prefixes)))

	warmCtx, cancel := context.WithTimeout(ctx, warmupTimeout)
	defer cancel()
	start := time.Now()
	warmed, err := j.Warmer.Warm(warmCtx, payload.Prefixes)
	if err != nil {
		logger.Error("balance warmup", slog.Int("warmed", warmed), slog.Any("error", err))
		return err
	}
	logger.Info("completed balance warmup", slog.Int("warmed", warmed), slog.Duration("duration", time.Since(start)))
	return nil
}
