// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when a
// configuration group is incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid store settings
	// (for example, an in-memory DSN that would lose the enrollment).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidCaptureConfigs indicates an unknown detector kind or a
	// process detector without a command.
	ErrInvalidCaptureConfigs = errors.New("invalid capture configuration")
	// ErrInvalidEnrollConfigs indicates a non-positive sample count, a
	// negative stability window, or an unknown secret policy.
	ErrInvalidEnrollConfigs = errors.New("invalid enroll configuration")
	// ErrInvalidMatchConfigs indicates a non-positive tolerance, timeout or
	// poll interval.
	ErrInvalidMatchConfigs = errors.New("invalid match configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, zero file workers).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
