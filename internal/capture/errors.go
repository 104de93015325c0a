// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package capture

import "errors"

var (
	// ErrCameraUnavailable means the frame source could not be opened.
	ErrCameraUnavailable = errors.New("camera unavailable")
	// ErrNoFrame is a transient read failure.
	ErrNoFrame = errors.New("no frame available")
	// ErrSourceClosed is returned by Read after Close.
	ErrSourceClosed = errors.New("frame source closed")
	// ErrDetectorFailed wraps failures of the external detector process.
	ErrDetectorFailed = errors.New("landmark detector failed")
	// ErrMalformedRecording is returned for recording lines that do not parse.
	ErrMalformedRecording = errors.New("malformed recording")
)
