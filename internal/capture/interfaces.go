// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package capture

//go:generate mockgen -source=interfaces.go -destination=../mock/capture_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-face-lock/models"
)

// Camera opens an exclusive frame source. Open returns
// [ErrCameraUnavailable] when the device cannot be acquired.
type Camera interface {
	Open(ctx context.Context) (FrameSource, error)
}

// FrameSource yields frames until closed. Read returns [ErrNoFrame] for a
// transient failure; callers retry after a short pause. Close releases the
// device and is safe to call more than once.
type FrameSource interface {
	Read(ctx context.Context) (models.Frame, error)
	Close() error
}

// LandmarkDetector finds faces in a frame. An error or an empty result
// means no face was seen in that frame.
type LandmarkDetector interface {
	Detect(ctx context.Context, frame models.Frame) ([]models.Face, error)
}
