// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package biometric

import (
	"fmt"
	"math"

	"github.com/MKhiriev/go-face-lock/models"
)

// Distance returns the Euclidean distance between a and b.
func Distance(a, b models.FingerprintVector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// MinDistance returns the smallest distance between live and any reference.
// References of the wrong dimension are skipped; +Inf is returned when no
// reference could be compared.
func MinDistance(live models.FingerprintVector, refs []models.FingerprintVector) float64 {
	best := math.Inf(1)
	for _, ref := range refs {
		d, err := Distance(live, ref)
		if err != nil {
			continue
		}
		if d < best {
			best = d
		}
	}
	return best
}

// Within reports whether d is strictly below tolerance.
func Within(d, tolerance float64) bool {
	return d < tolerance
}
