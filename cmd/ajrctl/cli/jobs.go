package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ajr-erp/ajr/jobs"
)

var errNoQueue = errors.New("jobs cli: queue connection not configured")

// manualUnique stops an operator from stacking the same manual run twice.
const manualUnique = 5 * time.Minute

// JobsCLI enqueues and inspects ledger jobs on the worker queue.
type JobsCLI struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

// NewJobsCLI connects to the asynq queue at redisAddr.
func NewJobsCLI(redisAddr string) (*JobsCLI, error) {
	if strings.TrimSpace(redisAddr) == "" {
		return nil, errors.New("jobs cli: REDIS_ADDR is empty")
	}
	opt := asynq.RedisClientOpt{Addr: redisAddr}
	return &JobsCLI{client: asynq.NewClient(opt), inspector: asynq.NewInspector(opt)}, nil
}

// Close releases the client and inspector, returning the first error.
func (c *JobsCLI) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.inspector != nil {
		errs = append(errs, c.inspector.Close())
	}
	if c.client != nil {
		errs = append(errs, c.client.Close())
	}
	return errors.Join(errs...)
}

// Trigger enqueues a manual run of the named ledger job.
func (c *JobsCLI) Trigger(ctx context.Context, name string, prefixes []string) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errNoQueue
	}
	task, err := BuildTask(name, prefixes)
	if err != nil {
		return nil, err
	}
	opts := append(TaskOptions(name), asynq.Unique(manualUnique))
	return c.client.EnqueueContext(ctx, task, opts...)
}

// BuildTask maps a job name to its task. Warmup without prefixes warms the
// finance summary only.
func BuildTask(name string, prefixes []string) (*asynq.Task, error) {
	switch name {
	case jobs.TaskLedgerIntegrity:
		return jobs.NewIntegrityTask(jobs.IntegrityPayload{Reason: "manual"})
	case jobs.TaskBalanceWarmup:
		return jobs.NewWarmupTask(jobs.WarmupPayload{Prefixes: prefixes})
	default:
		return nil, fmt.Errorf("jobs cli: unsupported job %q (want %s or %s)", name, jobs.TaskLedgerIntegrity, jobs.TaskBalanceWarmup)
	}
}

// TaskOptions returns the queue and retry budget used for a job. The
// integrity scan retries once.
func TaskOptions(name string) []asynq.Option {
	retries := 3
	if name == jobs.TaskLedgerIntegrity {
		retries = 1
	}
	return []asynq.Option{asynq.Queue(jobs.QueueDefault), asynq.MaxRetry(retries)}
}

// QueueStats summarises the worker queue.
type QueueStats struct {
	Queue     string
	Pending   int
	Active    int
	Scheduled int
	Retry     int
	Archived  int
}

// InspectQueue reports counts for the default queue.
func (c *JobsCLI) InspectQueue(ctx context.Context) (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errNoQueue
	}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return QueueStats{}, fmt.Errorf("jobs cli: queue info: %w", err)
	}
	stats := QueueStats{Queue: jobs.QueueDefault}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
		stats.Archived = info.Archived
	}
	return stats, nil
}

// ListScheduled returns up to size scheduled ledger tasks.
func (c *JobsCLI) ListScheduled(ctx context.Context, size int) ([]*asynq.TaskInfo, error) {
	if c == nil || c.inspector == nil {
		return nil, errNoQueue
	}
	if size <= 0 {
		size = 10
	}
	infos, err := c.inspector.ListScheduledTasks(jobs.QueueDefault, asynq.PageSize(size), asynq.Page(1))
	if err != nil {
		return nil, fmt.Errorf("jobs cli: list scheduled: %w", err)
	}
	out := infos[:0]
	for _, info := range infos {
		if strings.HasPrefix(info.Type, "ledger:") {
			out = append(out, info)
		}
	}
	return out, nil
}
