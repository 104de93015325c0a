// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockWorker is a test implementation of the Worker interface
// that tracks how many times Run was called.
type mockWorker struct {
	runCount atomic.Int32
	err      error
	block    bool
}

func (m *mockWorker) Run(ctx context.Context) error {
	m.runCount.Add(1)
	if m.block {
		<-ctx.Done()
		return nil
	}
	return m.err
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1, w2, w3 := &mockWorker{}, &mockWorker{}, &mockWorker{}

	ws := NewWorkers(w1, w2, w3)
	require.NoError(t, ws.Run(context.Background()))

	for i, w := range []*mockWorker{w1, w2, w3} {
		assert.Equal(t, int32(1), w.runCount.Load(), "worker[%d]", i)
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := &Workers{}

	// Should not block or panic on an empty list
	assert.NoError(t, ws.Run(context.Background()))
}

// TestWorkers_Run_FirstErrorCancelsOthers verifies that a failing worker
// stops the blocking ones and its error is returned.
func TestWorkers_Run_FirstErrorCancelsOthers(t *testing.T) {
	blocking := &mockWorker{block: true}
	failing := &mockWorker{err: assert.AnError}

	ws := NewWorkers(blocking)
	ws.Add(failing)

	done := make(chan error, 1)
	go func() { done <- ws.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, assert.AnError)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after a worker failed")
	}
	assert.Equal(t, int32(1), blocking.runCount.Load())
}

func TestWorkers_Run_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ws := NewWorkers(&mockWorker{block: true}, &mockWorker{block: true})

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	assert.NoError(t, ws.Run(ctx))
}

// ── IntervalJob ──────────────────────────────────────────────────────────────

func TestIntervalJob_Start_Ticks(t *testing.T) {
	var calls atomic.Int64
	job := NewIntervalJob(10*time.Millisecond, func(context.Context) { calls.Add(1) })

	// 10ms interval, about 5 ticks in 55ms
	job.Start(context.Background())
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	assert.GreaterOrEqual(t, calls.Load(), int64(3))
}

func TestIntervalJob_Stop_StopsGoroutine(t *testing.T) {
	var calls atomic.Int64
	job := NewIntervalJob(5*time.Millisecond, func(context.Context) { calls.Add(1) })

	job.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	job.Stop()

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}

func TestIntervalJob_Stop_WithoutStart(t *testing.T) {
	job := NewIntervalJob(time.Second, func(context.Context) {})
	job.Stop()
}

func TestIntervalJob_RestartReplacesLoop(t *testing.T) {
	var calls atomic.Int64
	job := NewIntervalJob(5*time.Millisecond, func(context.Context) { calls.Add(1) })

	job.Start(context.Background())
	job.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "a previous loop kept running")
}

func TestIntervalJob_DefaultInterval(t *testing.T) {
	job := NewIntervalJob(0, func(context.Context) {})
	assert.Equal(t, DefaultInterval, job.interval)
}

func TestIntervalJob_RunAsWorker(t *testing.T) {
	var calls atomic.Int64
	job := NewIntervalJob(5*time.Millisecond, func(context.Context) { calls.Add(1) })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	require.NoError(t, NewWorkers(job).Run(ctx))
	assert.Positive(t, calls.Load())
}

// ── Task ─────────────────────────────────────────────────────────────────────

func TestTask_CompletesWithError(t *testing.T) {
	task := StartTask(context.Background(), func(context.Context) error { return assert.AnError })

	assert.ErrorIs(t, task.Wait(), assert.AnError)
	select {
	case <-task.Done():
	default:
		t.Fatal("Done not closed after Wait")
	}
}

func TestTask_Cancel(t *testing.T) {
	started := make(chan struct{})
	task := StartTask(context.Background(), func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	<-started
	assert.NoError(t, task.Err())
	task.Cancel()

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task ignored cancellation")
	}
	assert.ErrorIs(t, task.Err(), context.Canceled)
}

func TestTask_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	task := StartTask(parent, func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	cancel()
	assert.NoError(t, task.Wait())
}
