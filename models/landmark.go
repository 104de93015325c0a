// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// LandmarkCount is the number of points in the 68-point facial landmark
// scheme every compatible detector must emit, in the same order.
const LandmarkCount = 68

// Point is a single labeled 2-D landmark. The label is its index in the
// enclosing [LandmarkSample].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LandmarkSample is the ordered landmark list of one detected face in one
// frame. It is ephemeral: the capture loop discards it after feature
// extraction.
type LandmarkSample []Point

// Box is a face bounding box in pixel coordinates.
type Box struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Face is one detector hit: a bounding box and its landmarks.
type Face struct {
	Box       Box            `json:"box"`
	Landmarks LandmarkSample `json:"landmarks"`
}

// Frame is one raster frame produced by a frame source.
//
// Faces is populated only by sources that carry pre-computed detections
// (recordings); live sources leave it nil and rely on a detector.
type Frame struct {
	Index int
	Image []byte
	Faces []Face
}
