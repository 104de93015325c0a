// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package biometric

import (
	"math"
	"testing"

	"github.com/MKhiriev/go-face-lock/internal/capture"
	"github.com/MKhiriev/go-face-lock/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_KnownRatios(t *testing.T) {
	sample := capture.SyntheticLandmarks(1.5, 0.95, capture.DefaultGeometry)

	v, err := Extract(sample)
	require.NoError(t, err)
	require.Len(t, v, VectorLength)
	assert.InDelta(t, 1.5, v[0], 1e-5)
	assert.InDelta(t, 0.95, v[1], 1e-5)
}

func TestExtract_ScaleAndRotationInsensitive(t *testing.T) {
	base, err := Extract(capture.SyntheticLandmarks(1.42, 1.07, capture.DefaultGeometry))
	require.NoError(t, err)

	tests := []struct {
		name string
		geom capture.Geometry
	}{
		{name: "twice as large", geom: capture.Geometry{EyeDistance: 120, OriginX: 300, OriginY: 200}},
		{name: "rotated 20 degrees", geom: capture.Geometry{EyeDistance: 60, Angle: math.Pi / 9, OriginX: 320, OriginY: 240}},
		{name: "shifted and tiny", geom: capture.Geometry{EyeDistance: 12, OriginX: 10, OriginY: 700}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Extract(capture.SyntheticLandmarks(1.42, 1.07, tt.geom))
			require.NoError(t, err)
			assert.InDelta(t, base[0], v[0], 1e-4)
			assert.InDelta(t, base[1], v[1], 1e-4)
		})
	}
}

func TestExtract_InsufficientLandmarks(t *testing.T) {
	full := capture.SyntheticLandmarks(1.5, 0.95, capture.DefaultGeometry)

	tests := []struct {
		name   string
		sample models.LandmarkSample
	}{
		{name: "nil", sample: nil},
		{name: "empty", sample: models.LandmarkSample{}},
		{name: "missing mouth right corner", sample: full[:54]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.sample)
			assert.ErrorIs(t, err, ErrInsufficientLandmarks)
		})
	}
}

func TestExtract_OnlyRequiredIndices(t *testing.T) {
	full := capture.SyntheticLandmarks(1.5, 0.95, capture.DefaultGeometry)

	v, err := Extract(full[:55])
	require.NoError(t, err)
	assert.InDelta(t, 1.5, v[0], 1e-5)
}

func TestExtract_DegenerateGeometry(t *testing.T) {
	sample := capture.SyntheticLandmarks(1.5, 0.95, capture.DefaultGeometry)
	// Collapse the mouth corners onto each other.
	sample[54] = sample[48]

	_, err := Extract(sample)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
}

func TestExtract_DoesNotMutateSample(t *testing.T) {
	sample := capture.SyntheticLandmarks(1.5, 0.95, capture.DefaultGeometry)
	snapshot := append(models.LandmarkSample(nil), sample...)

	_, err := Extract(sample)
	require.NoError(t, err)
	assert.Equal(t, snapshot, sample)
}
