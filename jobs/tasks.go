package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerIntegrity rescans stored entries for balance violations.
	TaskLedgerIntegrity = "ledger:integrity"
	// TaskBalanceWarmup precomputes cached balances.
	TaskBalanceWarmup = "ledger:balance_warmup"
)

// IntegrityPayload carries options for an integrity scan. It is empty today
// but kept as JSON so schedules survive new fields.
type IntegrityPayload struct {
	Reason string `json:"reason,omitempty"`
}

// WarmupPayload lists the subtree prefixes to warm. Empty means the
// dashboard defaults.
type WarmupPayload struct {
	Prefixes []string `json:"prefixes,omitempty"`
}

// NewIntegrityTask constructs a TaskLedgerIntegrity task.
func NewIntegrityTask(payload IntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerIntegrity, data), nil
}

// NewWarmupTask constructs a TaskBalanceWarmup task.
func NewWarmupTask(payload WarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBalanceWarmup, data), nil
}
