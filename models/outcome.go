// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// OutcomeKind tags the variant held by an [Outcome].
type OutcomeKind int

const (
	// OutcomeMatched means a live sample was within tolerance of a stored
	// reference. Outcome.Secret is set.
	OutcomeMatched OutcomeKind = iota + 1
	// OutcomeNoBiometricData means the store holds no enrollment. The camera
	// was never opened.
	OutcomeNoBiometricData
	// OutcomeCameraUnavailable means the frame source could not be opened.
	OutcomeCameraUnavailable
	// OutcomeTimedOut means no live sample matched before the deadline.
	OutcomeTimedOut
	// OutcomeCancelled means the caller cancelled the verification.
	OutcomeCancelled
)

// String returns a short machine-friendly name of the kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeMatched:
		return "matched"
	case OutcomeNoBiometricData:
		return "no_biometric_data"
	case OutcomeCameraUnavailable:
		return "camera_unavailable"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome is the result of a verification attempt. Every kind is an expected
// operational state; storage failures are reported separately as errors.
type Outcome struct {
	Kind OutcomeKind
	// Secret is the stored biometric secret; set only for OutcomeMatched.
	Secret BiometricSecret
	// Distance is the minimum distance of the matching sample, or of the
	// closest sample seen before the loop stopped. Negative when no face was
	// ever evaluated.
	Distance float64
}

// Matched reports whether the outcome carries a secret.
func (o Outcome) Matched() bool {
	return o.Kind == OutcomeMatched
}
