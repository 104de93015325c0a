// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-face-lock/internal/crypto"
)

// LoadOrCreateSalt returns the at-rest key salt of the store, creating a
// random one on first use.
func LoadOrCreateSalt(ctx context.Context, db *DB, keyChain crypto.KeyChain) ([]byte, error) {
	builder := db.dialect.builder()
	selectSQL, selectArgs, err := selectSaltQuery(builder)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var encoded string
	err = db.withRetry(ctx, func() error {
		return db.QueryRowContext(ctx, selectSQL, selectArgs...).Scan(&encoded)
	})
	switch {
	case err == nil:
		salt, decodeErr := base64.StdEncoding.DecodeString(encoded)
		if decodeErr != nil || len(salt) == 0 {
			return nil, fmt.Errorf("%w: unreadable salt", ErrStorageCorrupt)
		}
		return salt, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	salt, err := keyChain.GenerateSalt()
	if err != nil {
		return nil, err
	}

	insertSQL, insertArgs, err := insertSaltQuery(builder, base64.StdEncoding.EncodeToString(salt))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	err = db.withRetry(ctx, func() error {
		_, execErr := db.ExecContext(ctx, insertSQL, insertArgs...)
		return execErr
	})
	if err != nil {
		return nil, fmt.Errorf("%w: salt: %w", ErrExecutingStatement, err)
	}

	db.logger.Info().Str("func", "LoadOrCreateSalt").Msg("created new storage salt")
	return salt, nil
}
