package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajr-erp/ajr/jobs"
)

func TestBuildTask(t *testing.T) {
	task, err := BuildTask(jobs.TaskLedgerIntegrity, nil)
	require.NoError(t, err)
	assert.Equal(t, jobs.TaskLedgerIntegrity, task.Type())

	task, err = BuildTask(jobs.TaskBalanceWarmup, []string{"1.1.1"})
	require.NoError(t, err)
	var payload jobs.WarmupPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, []string{"1.1.1"}, payload.Prefixes)

	_, err = BuildTask("ledger:unknown", nil)
	assert.Error(t, err)
}

func TestJobsCLIRequiresClient(t *testing.T) {
	var c *JobsCLI
	_, err := c.Trigger(context.Background(), jobs.TaskLedgerIntegrity, nil)
	assert.Error(t, err)
	_, err = c.InspectQueue(context.Background())
	assert.Error(t, err)
	_, err = c.ListScheduled(context.Background(), 0)
	assert.Error(t, err)
	assert.NoError(t, c.Close())
}

func TestNewJobsCLIRejectsEmptyAddr(t *testing.T) {
	c, err := NewJobsCLI("  ")
	require.Error(t, err)
	assert.Nil(t, c)
}

func TestTaskOptionsRetryBudget(t *testing.T) {
	assert.Len(t, TaskOptions(jobs.TaskLedgerIntegrity), 2)
	assert.Contains(t, TaskOptions(jobs.TaskLedgerIntegrity), asynq.MaxRetry(1))
	assert.Contains(t, TaskOptions(jobs.TaskBalanceWarmup), asynq.MaxRetry(3))
	assert.Contains(t, TaskOptions(jobs.TaskBalanceWarmup), asynq.Queue(jobs.QueueDefault))
}
