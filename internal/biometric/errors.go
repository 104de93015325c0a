// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package biometric

import "errors"

var (
	// ErrInsufficientLandmarks is returned when a sample does not contain
	// every landmark index the extractor reads.
	ErrInsufficientLandmarks = errors.New("insufficient landmarks")

	// ErrDegenerateGeometry is returned when the landmarks produce a zero
	// denominator or a non-finite ratio (collapsed mouth, detector glitch).
	ErrDegenerateGeometry = errors.New("degenerate landmark geometry")

	// ErrDimensionMismatch is returned when two vectors of different length
	// are compared.
	ErrDimensionMismatch = errors.New("fingerprint dimension mismatch")
)
