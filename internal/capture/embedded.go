// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package capture

import (
	"context"

	"github.com/MKhiriev/go-face-lock/models"
)

// EmbeddedDetector returns the detections a recording stored with the
// frame. It never fails.
type EmbeddedDetector struct{}

func NewEmbeddedDetector() *EmbeddedDetector {
	return &EmbeddedDetector{}
}

func (d *EmbeddedDetector) Detect(ctx context.Context, frame models.Frame) ([]models.Face, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return frame.Faces, nil
}
