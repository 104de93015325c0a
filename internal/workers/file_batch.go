// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-face-lock/internal/logger"
	"github.com/MKhiriev/go-face-lock/models"
)

// DefaultFileWorkers is the pool size used when none is configured.
const DefaultFileWorkers = 2

// FileBatch processes dropped files on a fixed pool of goroutines.
type FileBatch struct {
	processor FileProcessor
	workers   int
	logger    *logger.Logger
}

func NewFileBatch(processor FileProcessor, workers int, logger *logger.Logger) *FileBatch {
	if workers < 1 {
		workers = DefaultFileWorkers
	}
	return &FileBatch{processor: processor, workers: workers, logger: logger}
}

type fileJob struct {
	index int
	path  string
}

// Run processes every path and returns one result per path, in input order.
// observe, when non-nil, is called once per finished file from a single
// goroutine at a time, in completion order. A failing file never stops the
// others; after ctx is done the remaining files are reported with ctx's
// error.
func (b *FileBatch) Run(ctx context.Context, paths []string, key models.CipherKey, mode models.FileMode, observe func(models.FileResult)) []models.FileResult {
	results := make([]models.FileResult, len(paths))
	if len(paths) == 0 {
		return results
	}

	var observeMu sync.Mutex
	finish := func(res models.FileResult) {
		results[res.Index] = res
		if !res.OK() {
			b.logger.Warn().Err(res.Err).Str("file", res.Source).Msg("file operation failed")
		}
		if observe != nil {
			observeMu.Lock()
			observe(res)
			observeMu.Unlock()
		}
	}

	jobs := make(chan fileJob)
	var g errgroup.Group

	for w := 0; w < min(b.workers, len(paths)); w++ {
		g.Go(func() error {
			for job := range jobs {
				res := b.processor.Process(ctx, job.path, key, mode)
				res.Index = job.index
				res.Source = job.path
				finish(res)
			}
			return nil
		})
	}

	next := 0
feed:
	for ; next < len(paths); next++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case jobs <- fileJob{index: next, path: paths[next]}:
		}
	}
	close(jobs)
	_ = g.Wait()

	for i := next; i < len(paths); i++ {
		finish(models.FileResult{Index: i, Source: paths[i], Mode: mode, Err: ctx.Err()})
	}

	return results
}
