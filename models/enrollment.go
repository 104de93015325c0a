// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// EnrollmentState is a state of the enrollment session state machine:
//
//	Idle -> Capturing(i) -> StabilityWindow -> SampleAccepted -> ... -> Committed
//	                                                                 \-> Abandoned
type EnrollmentState int

const (
	EnrollmentIdle EnrollmentState = iota
	EnrollmentCapturing
	EnrollmentStabilityWindow
	EnrollmentSampleAccepted
	EnrollmentCommitted
	EnrollmentAbandoned
)

func (s EnrollmentState) String() string {
	switch s {
	case EnrollmentIdle:
		return "idle"
	case EnrollmentCapturing:
		return "capturing"
	case EnrollmentStabilityWindow:
		return "stability_window"
	case EnrollmentSampleAccepted:
		return "sample_accepted"
	case EnrollmentCommitted:
		return "committed"
	case EnrollmentAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// EnrollmentStatus tags the variant held by an [EnrollmentResult].
type EnrollmentStatus int

const (
	// EnrollmentStatusCommitted means all samples were captured and the
	// record replaced any previous identity.
	EnrollmentStatusCommitted EnrollmentStatus = iota + 1
	// EnrollmentStatusAbandoned means the user cancelled; nothing was stored.
	EnrollmentStatusAbandoned
	// EnrollmentStatusCameraUnavailable means the frame source could not be
	// opened; nothing was stored.
	EnrollmentStatusCameraUnavailable
)

func (s EnrollmentStatus) String() string {
	switch s {
	case EnrollmentStatusCommitted:
		return "committed"
	case EnrollmentStatusAbandoned:
		return "abandoned"
	case EnrollmentStatusCameraUnavailable:
		return "camera_unavailable"
	default:
		return "unknown"
	}
}

// EnrollmentResult is the result of an enrollment session.
type EnrollmentResult struct {
	Status EnrollmentStatus
	// Fingerprints holds the committed scans in capture order. Empty unless
	// Status is EnrollmentStatusCommitted.
	Fingerprints []FingerprintVector
	// Secret is the committed secret. Empty unless committed.
	Secret BiometricSecret
}
