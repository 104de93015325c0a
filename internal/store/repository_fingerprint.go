// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-face-lock/internal/crypto"
	"github.com/MKhiriev/go-face-lock/internal/logger"
	"github.com/MKhiriev/go-face-lock/models"
)

type fingerprintRepository struct {
	db        *DB
	keyChain  crypto.KeyChain
	atRestKey []byte
	logger    *logger.Logger

	// mu gives ReplaceAll exclusive access; readers share it
	mu  sync.RWMutex
	now func() time.Time
}

// NewFingerprintRepository returns a repository storing both columns
// encrypted under atRestKey.
func NewFingerprintRepository(db *DB, keyChain crypto.KeyChain, atRestKey []byte, logger *logger.Logger) FingerprintRepository {
	return &fingerprintRepository{
		db:        db,
		keyChain:  keyChain,
		atRestKey: atRestKey,
		logger:    logger,
		now:       time.Now,
	}
}

func (r *fingerprintRepository) ReplaceAll(ctx context.Context, fingerprints []models.FingerprintVector, secret models.BiometricSecret) error {
	log := logger.FromContext(ctx)

	if len(fingerprints) == 0 {
		return ErrNoFingerprints
	}

	ratios, err := r.keyChain.EncryptData(fingerprints, r.atRestKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt fingerprints: %w", err)
	}
	key, err := r.keyChain.EncryptData(string(secret), r.atRestKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt secret: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	createdAt := r.now().UTC()
	err = r.db.withRetry(ctx, func() error {
		return r.replaceTx(ctx, ratios, key, createdAt)
	})
	if err != nil {
		log.Err(err).
			Str("func", "fingerprintRepository.ReplaceAll").
			Int("fingerprints", len(fingerprints)).
			Msg("failed to replace enrollment")
		return err
	}

	log.Debug().
		Str("func", "fingerprintRepository.ReplaceAll").
		Int("fingerprints", len(fingerprints)).
		Msg("enrollment replaced")
	return nil
}

func (r *fingerprintRepository) replaceTx(ctx context.Context, ratios, key string, createdAt time.Time) (err error) {
	builder := r.db.dialect.builder()

	deleteSQL, deleteArgs, err := deleteFingerprintsQuery(builder)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	insertSQL, insertArgs, err := insertFingerprintsQuery(builder, ratios, key, createdAt)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteSQL, deleteArgs...); err != nil {
		return fmt.Errorf("%w: delete: %w", ErrExecutingStatement, err)
	}
	if _, err = tx.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
		return fmt.Errorf("%w: insert: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}

func (r *fingerprintRepository) LoadActive(ctx context.Context) (models.EnrollmentRecord, bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := selectActiveQuery(r.db.dialect.builder())
	if err != nil {
		return models.EnrollmentRecord{}, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		ratios, key string
		createdAt   time.Time
		found       = true
	)
	err = r.db.withRetry(ctx, func() error {
		scanErr := r.db.QueryRowContext(ctx, query, args...).Scan(&ratios, &key, &createdAt)
		if errors.Is(scanErr, sql.ErrNoRows) {
			found = false
			return nil
		}
		return scanErr
	})
	if err != nil {
		log.Err(err).Str("func", "fingerprintRepository.LoadActive").Msg("failed to query enrollment")
		return models.EnrollmentRecord{}, false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	if !found {
		return models.EnrollmentRecord{}, false, nil
	}

	record, err := r.decodeRecord(ratios, key)
	if err != nil {
		log.Error().Err(err).Str("func", "fingerprintRepository.LoadActive").Msg("stored enrollment is unreadable")
		return models.EnrollmentRecord{}, false, err
	}
	record.CreatedAt = createdAt
	return record, true, nil
}

func (r *fingerprintRepository) decodeRecord(ratios, key string) (models.EnrollmentRecord, error) {
	var fingerprints []models.FingerprintVector
	if err := r.keyChain.DecryptData(ratios, r.atRestKey, &fingerprints); err != nil {
		return models.EnrollmentRecord{}, fmt.Errorf("%w: ratios: %w", ErrStorageCorrupt, err)
	}
	if len(fingerprints) == 0 {
		return models.EnrollmentRecord{}, fmt.Errorf("%w: empty fingerprint list", ErrStorageCorrupt)
	}

	var secret string
	if err := r.keyChain.DecryptData(key, r.atRestKey, &secret); err != nil {
		return models.EnrollmentRecord{}, fmt.Errorf("%w: key: %w", ErrStorageCorrupt, err)
	}
	if len(secret) != crypto.SecretHexLen {
		return models.EnrollmentRecord{}, fmt.Errorf("%w: secret of %d chars", ErrStorageCorrupt, len(secret))
	}

	return models.EnrollmentRecord{
		Fingerprints: fingerprints,
		Secret:       models.BiometricSecret(secret),
	}, nil
}

func (r *fingerprintRepository) HasActive(ctx context.Context) (bool, error) {
	query, args, err := countActiveQuery(r.db.dialect.builder())
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int
	err = r.db.withRetry(ctx, func() error {
		return r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	})
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return count > 0, nil
}
