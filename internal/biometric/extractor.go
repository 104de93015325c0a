// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package biometric

import (
	"fmt"
	"math"

	"github.com/MKhiriev/go-face-lock/models"
)

// Landmark indices of the 68-point scheme read by [Extract].
var (
	leftEye  = [6]int{36, 37, 38, 39, 40, 41}
	rightEye = [6]int{42, 43, 44, 45, 46, 47}
)

const (
	noseTip    = 30
	mouthLeft  = 48
	mouthRight = 54

	// highestIndex is the largest landmark index read by Extract.
	highestIndex = mouthRight
)

// VectorLength is the number of ratios in a [models.FingerprintVector].
const VectorLength = 2

// Extract computes the fingerprint of a landmark sample:
//
//	ratio1 = |leftEye - rightEye| / |noseTip - mean(mouthLeft, mouthRight)|
//	ratio2 = |leftEye - rightEye| / |mouthLeft - mouthRight|
//
// where the eye positions are the means of their six landmarks.
//
// Ratios are rounded through float32 before being widened so that the
// secret derived from them is stable regardless of how the detector
// computed its coordinates.
func Extract(sample models.LandmarkSample) (models.FingerprintVector, error) {
	if len(sample) <= highestIndex {
		return nil, fmt.Errorf("%w: got %d points, need at least %d", ErrInsufficientLandmarks, len(sample), highestIndex+1)
	}

	leftCenter := mean(sample, leftEye[:]...)
	rightCenter := mean(sample, rightEye[:]...)
	mouthCenter := mean(sample, mouthLeft, mouthRight)

	eyeDistance := norm(leftCenter, rightCenter)
	noseToMouth := norm(sample[noseTip], mouthCenter)
	mouthWidth := norm(sample[mouthLeft], sample[mouthRight])

	if noseToMouth == 0 || mouthWidth == 0 {
		return nil, ErrDegenerateGeometry
	}

	v := models.FingerprintVector{
		float64(float32(eyeDistance / noseToMouth)),
		float64(float32(eyeDistance / mouthWidth)),
	}
	for _, r := range v {
		if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
			return nil, ErrDegenerateGeometry
		}
	}

	return v, nil
}

func mean(sample models.LandmarkSample, idx ...int) models.Point {
	var p models.Point
	for _, i := range idx {
		p.X += sample[i].X
		p.Y += sample[i].Y
	}
	n := float64(len(idx))
	return models.Point{X: p.X / n, Y: p.Y / n}
}

func norm(a, b models.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
