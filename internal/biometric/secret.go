// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package biometric

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-face-lock/models"
)

const (
	// SecretPrecision is the number of decimal digits kept from every ratio
	// before hashing.
	SecretPrecision = 4

	secretSeparator = "|"
)

// DeriveSecret returns the biometric secret of v: every component is rounded
// to [SecretPrecision] decimals (half to even), formatted with exactly that
// many digits, joined with "|" and hashed with SHA-256.
func DeriveSecret(v models.FingerprintVector) models.BiometricSecret {
	sum := sha256.Sum256([]byte(CanonicalString(v)))
	return models.BiometricSecret(hex.EncodeToString(sum[:]))
}

// CanonicalString returns the hashed representation of v, e.g.
// "1.5012|0.9487".
func CanonicalString(v models.FingerprintVector) string {
	scale := math.Pow10(SecretPrecision)
	parts := make([]string, len(v))
	for i, x := range v {
		rounded := math.RoundToEven(x*scale) / scale
		parts[i] = strconv.FormatFloat(rounded, 'f', SecretPrecision, 64)
	}
	return strings.Join(parts, secretSeparator)
}

// Median returns the component-wise median of vs. The result is nil when vs
// is empty or the vectors disagree on length.
func Median(vs []models.FingerprintVector) models.FingerprintVector {
	if len(vs) == 0 {
		return nil
	}
	dim := len(vs[0])
	for _, v := range vs[1:] {
		if len(v) != dim {
			return nil
		}
	}

	out := make(models.FingerprintVector, dim)
	column := make([]float64, len(vs))
	for d := 0; d < dim; d++ {
		for i, v := range vs {
			column[i] = v[d]
		}
		sort.Float64s(column)
		mid := len(column) / 2
		if len(column)%2 == 1 {
			out[d] = column[mid]
		} else {
			out[d] = (column[mid-1] + column[mid]) / 2
		}
	}
	return out
}
