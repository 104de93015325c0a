// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package capture

import (
	"math"

	"github.com/MKhiriev/go-face-lock/models"
)

// Geometry places a synthetic face in the image plane.
type Geometry struct {
	// EyeDistance is the distance between the eye centers in pixels.
	EyeDistance float64
	// Angle rotates the face around its origin, in radians.
	Angle float64
	// OriginX and OriginY translate the face.
	OriginX, OriginY float64
}

// DefaultGeometry is an upright face with 60px between the eyes.
var DefaultGeometry = Geometry{EyeDistance: 60, OriginX: 320, OriginY: 240}

// SyntheticLandmarks builds a 68-point sample whose fingerprint is
// approximately [ratio1, ratio2]. Points not read by the extractor are laid
// out on a jaw-like arc so the sample looks plausible when rendered.
// Recordings and tests use it in place of a real detector.
func SyntheticLandmarks(ratio1, ratio2 float64, g Geometry) models.LandmarkSample {
	e := g.EyeDistance
	if e <= 0 {
		e = DefaultGeometry.EyeDistance
	}
	noseToMouth := e / ratio1
	mouthWidth := e / ratio2

	local := make([]models.Point, models.LandmarkCount)
	for i := 0; i < 17; i++ {
		t := math.Pi * float64(i) / 16
		local[i] = models.Point{X: -e * math.Cos(t), Y: e * 0.8 * math.Sin(t)}
	}
	for i := 17; i < 36; i++ {
		local[i] = models.Point{X: -e + e*2*float64(i-17)/18, Y: -e * 0.4}
	}

	eyeRadius := e / 8
	for k := 0; k < 6; k++ {
		t := math.Pi * float64(k) / 3
		dx, dy := eyeRadius*math.Cos(t), eyeRadius*math.Sin(t)/2
		local[36+k] = models.Point{X: -e/2 + dx, Y: dy}
		local[42+k] = models.Point{X: e/2 + dx, Y: dy}
	}

	noseY := e * 0.5
	local[30] = models.Point{X: 0, Y: noseY}
	mouthY := noseY + noseToMouth
	for i := 48; i < models.LandmarkCount; i++ {
		t := 2 * math.Pi * float64(i-48) / 20
		local[i] = models.Point{X: -mouthWidth / 2 * math.Cos(t), Y: mouthY + mouthWidth/6*math.Sin(t)}
	}
	local[48] = models.Point{X: -mouthWidth / 2, Y: mouthY}
	local[54] = models.Point{X: mouthWidth / 2, Y: mouthY}

	sin, cos := math.Sincos(g.Angle)
	out := make(models.LandmarkSample, models.LandmarkCount)
	for i, p := range local {
		out[i] = models.Point{
			X: g.OriginX + p.X*cos - p.Y*sin,
			Y: g.OriginY + p.X*sin + p.Y*cos,
		}
	}
	return out
}

// SyntheticFace wraps SyntheticLandmarks into a detector hit with a bounding
// box around the points.
func SyntheticFace(ratio1, ratio2 float64, g Geometry) models.Face {
	pts := SyntheticLandmarks(ratio1, ratio2, g)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return models.Face{
		Box: models.Box{
			X: int(minX), Y: int(minY),
			W: int(math.Ceil(maxX - minX)), H: int(math.Ceil(maxY - minY)),
		},
		Landmarks: pts,
	}
}

// SyntheticFrame returns a frame with a single upright synthetic face.
func SyntheticFrame(index int, ratio1, ratio2 float64) models.Frame {
	return models.Frame{
		Index: index,
		Faces: []models.Face{SyntheticFace(ratio1, ratio2, DefaultGeometry)},
	}
}
