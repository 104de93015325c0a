// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the user-facing message strings shared by the file
// cipher, the TUI and the log.
//
// All Msg* constants are human-readable texts shown in the TUI status line or
// written into log entries to describe the outcome of an operation. Keeping
// them in one place keeps the wording consistent between the screen and the
// log file.
package app

import (
	"fmt"

	"github.com/MKhiriev/go-face-lock/models"
)

const (
	// MsgMatched is shown when the live face matched the enrollment and the
	// session was unlocked.
	MsgMatched = "Face recognized, files unlocked"

	// MsgNoBiometricData is shown when verification was requested before any
	// enrollment exists.
	MsgNoBiometricData = "No biometric data, scan your face first"

	// MsgNotEnrolled is shown in the menu while the store holds no
	// enrollment.
	MsgNotEnrolled = "No face enrolled"

	// MsgCameraUnavailable is shown when the frame source cannot be opened.
	MsgCameraUnavailable = "Camera unavailable"

	// MsgTimedOut is shown when no live face matched before the deadline.
	MsgTimedOut = "Face not recognized, try again"

	// MsgCancelled is shown when the user stopped a running scan.
	MsgCancelled = "Cancelled"

	// MsgEnrollmentCommitted is shown when a new identity replaced the stored
	// one.
	MsgEnrollmentCommitted = "Face scan saved"

	// MsgEnrollmentAbandoned is shown when an enrollment was cancelled and
	// nothing was stored.
	MsgEnrollmentAbandoned = "Face scan abandoned, nothing saved"

	// MsgLocked is shown when the session key was discarded.
	MsgLocked = "Locked"

	// MsgLockedIdle is shown when the session locked itself after a period
	// without activity.
	MsgLockedIdle = "Locked after inactivity"

	// MsgSessionLocked is shown when a file operation is attempted while the
	// session is locked.
	MsgSessionLocked = "Unlock with your face before processing files"

	// MsgNoFace is the scan feedback for a frame without a face.
	MsgNoFace = "No face detected"

	// MsgStorageCorrupt is shown when the stored enrollment cannot be
	// decrypted. It is never reported as "no data".
	MsgStorageCorrupt = "Stored biometric data is unreadable (wrong passphrase or corrupted store)"

	// MsgCopiedToClipboard is shown after the last output path was copied.
	MsgCopiedToClipboard = "Copied to clipboard"
)

// EncryptedLine is the log line of a successful encryption.
func EncryptedLine(source, output string) string {
	return fmt.Sprintf("Encrypted: %s -> %s", source, output)
}

// DecryptedLine is the log line of a successful decryption.
func DecryptedLine(source, output string) string {
	return fmt.Sprintf("Decrypted: %s -> %s", source, output)
}

// FileErrorLine is the log line of a failed file operation.
func FileErrorLine(source string, err error) string {
	return fmt.Sprintf("File error %s: %v", source, err)
}

// FileResultLine picks the log line for res.
func FileResultLine(res models.FileResult) string {
	switch {
	case !res.OK():
		return FileErrorLine(res.Source, res.Err)
	case res.Mode == models.FileModeDecrypt:
		return DecryptedLine(res.Source, res.Output)
	default:
		return EncryptedLine(res.Source, res.Output)
	}
}

// OutcomeMessage returns the status text for a verification outcome.
func OutcomeMessage(o models.Outcome) string {
	switch o.Kind {
	case models.OutcomeMatched:
		return MsgMatched
	case models.OutcomeNoBiometricData:
		return MsgNoBiometricData
	case models.OutcomeCameraUnavailable:
		return MsgCameraUnavailable
	case models.OutcomeTimedOut:
		if o.Distance >= 0 {
			return fmt.Sprintf("%s (closest deviation %.4f)", MsgTimedOut, o.Distance)
		}
		return MsgTimedOut
	case models.OutcomeCancelled:
		return MsgCancelled
	default:
		return o.Kind.String()
	}
}

// EnrollmentMessage returns the status text for an enrollment result.
func EnrollmentMessage(r models.EnrollmentResult) string {
	switch r.Status {
	case models.EnrollmentStatusCommitted:
		return MsgEnrollmentCommitted
	case models.EnrollmentStatusAbandoned:
		return MsgEnrollmentAbandoned
	case models.EnrollmentStatusCameraUnavailable:
		return MsgCameraUnavailable
	default:
		return r.Status.String()
	}
}

// ProgressLine renders a scan event as a one-line status.
func ProgressLine(ev models.Event) string {
	switch ev.Kind {
	case models.EventNoFace:
		return MsgNoFace
	case models.EventCountdown:
		return fmt.Sprintf("Sample %d/%d: hold still, %.1fs remaining", ev.Sample, ev.Total, ev.Remaining.Seconds())
	case models.EventSampleAccepted:
		return fmt.Sprintf("Sample %d/%d captured", ev.Sample, ev.Total)
	case models.EventDistance:
		return fmt.Sprintf("Deviation: %.4f", ev.Distance)
	case models.EventState:
		return fmt.Sprintf("Sample %d/%d: %s", ev.Sample, ev.Total, ev.State)
	case models.EventFile:
		if ev.File != nil {
			return FileResultLine(*ev.File)
		}
	}
	return ""
}
