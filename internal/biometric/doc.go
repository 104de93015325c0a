// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package biometric turns facial landmarks into a reproducible fingerprint
// and a biometric secret.
//
// Everything here is pure: no I/O, no randomness, no shared state. The same
// landmark sample always yields the same [models.FingerprintVector] and the
// same rounded vector always yields the same [models.BiometricSecret].
package biometric
