// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is used when an IntervalJob is built with a non-positive
// interval.
const DefaultInterval = time.Minute

// IntervalJob calls fn on a ticker. It can be driven directly with
// Start/Stop or registered in [Workers] through Run.
type IntervalJob struct {
	interval time.Duration
	fn       func(ctx context.Context)

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewIntervalJob creates a job that is idle until Start or Run is called.
func NewIntervalJob(interval time.Duration, fn func(ctx context.Context)) *IntervalJob {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &IntervalJob{interval: interval, fn: fn}
}

// Start stops any previously running loop, then launches a background
// goroutine that calls fn every interval. The goroutine exits when ctx is
// cancelled or Stop is called.
func (j *IntervalJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		j.loop(jobCtx)
	}()
}

// Stop cancels the background goroutine and blocks until it has exited.
// Safe to call when the job is not running.
func (j *IntervalJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// Run implements [Worker]: it ticks on the calling goroutine until ctx is
// done.
func (j *IntervalJob) Run(ctx context.Context) error {
	j.loop(ctx)
	return nil
}

func (j *IntervalJob) loop(ctx context.Context) {
	t := time.NewTicker(j.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			j.fn(ctx)
		}
	}
}
