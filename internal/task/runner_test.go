package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount:            2,
		QueueSize:              10,
		StuckTaskAge:           time.Minute,
		StuckTaskCheckInterval: time.Hour, // keep the monitor quiet during tests
	}
}

func TestTaskRunnerExecutesSubmittedTask(t *testing.T) {
	store := NewMockTaskStore()
	runner := NewTaskRunner(store, testRunnerConfig(), testLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	var executed atomic.Bool
	task := NewMockTask(uuid.New(), "mock_task", nil)
	task.ExecuteFn = func(ctx context.Context) error {
		executed.Store(true)
		return nil
	}

	require.NoError(t, runner.Submit(context.Background(), task))

	require.Eventually(t, func() bool {
		status, ok := store.TaskStatusFor(task.ID())
		return ok && status == TaskStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, executed.Load())
}

func TestTaskRunnerMarksFailedTask(t *testing.T) {
	store := NewMockTaskStore()
	runner := NewTaskRunner(store, testRunnerConfig(), testLogger())

	var handlerCalls atomic.Int32
	runner.SetErrorHandler(func(task Task, err error) {
		handlerCalls.Add(1)
	})

	require.NoError(t, runner.Start())
	defer runner.Stop()

	task := NewMockTask(uuid.New(), "mock_task", nil)
	task.ExecuteFn = func(ctx context.Context) error {
		return errors.New("boom")
	}

	require.NoError(t, runner.Submit(context.Background(), task))

	require.Eventually(t, func() bool {
		status, ok := store.TaskStatusFor(task.ID())
		return ok && status == TaskStatusFailed
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return handlerCalls.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTaskRunnerSubmitFailsWhenSaveFails(t *testing.T) {
	store := NewMockTaskStore()
	store.SaveFn = func(ctx context.Context, task Task) error {
		return errors.New("database unavailable")
	}

	runner := NewTaskRunner(store, testRunnerConfig(), testLogger())

	task := NewMockTask(uuid.New(), "mock_task", nil)
	err := runner.Submit(context.Background(), task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save task")
}

func TestTaskRunnerSubmitFailsWhenQueueFull(t *testing.T) {
	store := NewMockTaskStore()
	config := testRunnerConfig()
	config.QueueSize = 1

	// Runner is deliberately not started, so nothing drains the queue.
	runner := NewTaskRunner(store, config, testLogger())

	first := NewMockTask(uuid.New(), "mock_task", nil)
	require.NoError(t, runner.Submit(context.Background(), first))

	second := NewMockTask(uuid.New(), "mock_task", nil)
	err := runner.Submit(context.Background(), second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue is full")
}

func TestTaskRunnerRecoversUnfinishedTasks(t *testing.T) {
	store := NewMockTaskStore()

	var executions atomic.Int32
	execute := func(ctx context.Context) error {
		executions.Add(1)
		return nil
	}

	// Simulate tasks left behind by a previous run: one never started, one
	// interrupted mid-flight.
	pending := NewMockTask(uuid.New(), "mock_task", nil)
	pending.ExecuteFn = execute
	require.NoError(t, store.SaveTask(context.Background(), pending))
	store.tasks[pending.ID()] = pending

	interrupted := NewMockTask(uuid.New(), "mock_task", nil)
	interrupted.TaskStatus = TaskStatusProcessing
	interrupted.ExecuteFn = execute
	store.tasks[interrupted.ID()] = interrupted
	store.taskStatusTimes[interrupted.ID()] = time.Now()

	runner := NewTaskRunner(store, testRunnerConfig(), testLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	require.Eventually(t, func() bool {
		return executions.Load() == 2
	}, 2*time.Second, 10*time.Millisecond)
}
