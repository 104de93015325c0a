// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-face-lock/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// FingerprintRepository persists the single active enrollment.
//
// ReplaceAll atomically discards the previous enrollment and stores the new
// one; a concurrent LoadActive observes either the old or the new record,
// never a mix. LoadActive reports ok=false when nothing is enrolled and
// returns [ErrStorageCorrupt] when a record exists but cannot be read.
type FingerprintRepository interface {
	ReplaceAll(ctx context.Context, fingerprints []models.FingerprintVector, secret models.BiometricSecret) error
	LoadActive(ctx context.Context) (models.EnrollmentRecord, bool, error)
	HasActive(ctx context.Context) (bool, error)
}

// ErrorClassificator decides whether a failed database call is worth
// retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
