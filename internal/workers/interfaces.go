// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface, a Workers aggregate that runs several
// workers under one errgroup, the file batch pool, the task runner used for
// capture loops, and the rate-limited event emitter.
package workers

import (
	"context"

	"github.com/MKhiriev/go-face-lock/models"
)

// Worker is the interface that must be implemented by any background worker.
// Run blocks until ctx is done or the work fails.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	}
type Worker interface {
	Run(ctx context.Context) error
}

// FileProcessor encrypts or decrypts one file. Failures are reported in the
// result, never as a panic or an aborted batch.
type FileProcessor interface {
	Process(ctx context.Context, path string, key models.CipherKey, mode models.FileMode) models.FileResult
}
