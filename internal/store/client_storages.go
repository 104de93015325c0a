// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-face-lock/internal/config"
	"github.com/MKhiriev/go-face-lock/internal/crypto"
	"github.com/MKhiriev/go-face-lock/internal/logger"
)

// ClientStorages groups all storage repositories into a single value that
// can be passed around the service layer.
type ClientStorages struct {
	// FingerprintRepository holds the active enrollment.
	FingerprintRepository FingerprintRepository

	db *DB
}

// NewClientStorages initialises the storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens the database named by cfg.DB.DSN (SQLite file or PostgreSQL),
//     creating a SQLite file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Loads (or creates) the store salt and derives the at-rest key from
//     passphrase.
//  4. Constructs a [FingerprintRepository] encrypting under that key.
//
// A wrong passphrase is not detected here; it surfaces as
// [ErrStorageCorrupt] on the first read of an existing enrollment.
func NewClientStorages(ctx context.Context, cfg config.Storage, passphrase []byte, keyChain crypto.KeyChain, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnect(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	salt, err := LoadOrCreateSalt(ctx, db, keyChain)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error loading storage salt: %w", err)
	}
	atRestKey := keyChain.DeriveAtRestKey(passphrase, salt)

	return &ClientStorages{
		FingerprintRepository: NewFingerprintRepository(db, keyChain, atRestKey, logger),
		db:                    db,
	}, nil
}

// Close releases the database connection.
func (s *ClientStorages) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
