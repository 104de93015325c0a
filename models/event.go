// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// EventKind identifies what an [Event] reports.
type EventKind int

const (
	// EventState reports an enrollment state transition.
	EventState EventKind = iota + 1
	// EventNoFace reports a frame without a usable face.
	EventNoFace
	// EventCountdown reports the remaining stability window time.
	EventCountdown
	// EventSampleAccepted reports an accepted enrollment sample.
	EventSampleAccepted
	// EventDistance reports the minimum reference distance of a live sample.
	EventDistance
	// EventFile reports the result of one file operation.
	EventFile
)

// Event is a progress notification published by capture loops and file
// workers to whichever front end observes them.
type Event struct {
	Kind      EventKind
	SessionID string
	State     EnrollmentState
	// Sample is the 1-based index of the sample being captured.
	Sample    int
	Total     int
	Remaining time.Duration
	Vector    FingerprintVector
	Distance  float64
	File      *FileResult
}
