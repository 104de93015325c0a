// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// FingerprintVector is the scale- and rotation-insensitive ratio vector
// derived from a [LandmarkSample]:
//
//	[0] eye distance / nose-to-mouth distance
//	[1] eye distance / mouth width
type FingerprintVector []float64

// BiometricSecret is the lowercase hex SHA-256 digest of a rounded
// [FingerprintVector]. Identical rounded vectors always yield the same secret.
type BiometricSecret string

// CipherKeySize is the length of a [CipherKey] in bytes (AES-256).
const CipherKeySize = 32

// CipherKey is symmetric key material derived from a [BiometricSecret].
// It lives only in memory and is recomputed on every successful match.
type CipherKey [CipherKeySize]byte

// Zero overwrites the key material in place.
func (k *CipherKey) Zero() {
	for i := range k {
		k[i] = 0
	}
}

// EnrollmentRecord is the single active identity held by the fingerprint
// store: every reference scan of one enrollment session and the secret
// derived from the designated scan.
type EnrollmentRecord struct {
	Fingerprints []FingerprintVector
	Secret       BiometricSecret
	CreatedAt    time.Time
}
