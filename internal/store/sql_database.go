// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff/v4"

	"github.com/MKhiriev/go-face-lock/internal/config"
	"github.com/MKhiriev/go-face-lock/internal/logger"
	"github.com/MKhiriev/go-face-lock/migrations"
)

// Dialect names the SQL backend. The values double as goose dialect names.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "pgx"
)

// builder returns a squirrel statement builder using the placeholder style
// of the dialect.
func (d Dialect) builder() sq.StatementBuilderType {
	if d == DialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// DialectForDSN picks the backend from the DSN: postgres URLs go to pgx,
// everything else is a SQLite file.
func DialectForDSN(dsn string) Dialect {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// DB wraps the connection pool with its dialect and error classifier.
type DB struct {
	*sql.DB
	dialect            Dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger
	retry              func() backoff.BackOff
}

// NewConnect opens the backend selected by [DialectForDSN].
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	if DialectForDSN(cfg.DSN) == DialectPostgres {
		return NewConnectPostgres(ctx, cfg, log)
	}
	return NewConnectSQLite(ctx, cfg, log)
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, string(db.dialect))
}

// Dialect reports the backend of db.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

func defaultRetryPolicy() backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 50 * time.Millisecond
	policy.MaxInterval = time.Second
	policy.MaxElapsedTime = 5 * time.Second
	return backoff.WithMaxRetries(policy, 5)
}

// withRetry runs op until it succeeds, fails with a non-retryable error, or
// the retry policy gives up.
func (db *DB) withRetry(ctx context.Context, op func() error) error {
	policy := defaultRetryPolicy
	if db.retry != nil {
		policy = db.retry
	}

	return backoff.RetryNotify(
		func() error {
			err := op()
			if err != nil && (db.errorClassificator == nil || db.errorClassificator.Classify(err) != Retryable) {
				return backoff.Permanent(err)
			}
			return err
		},
		backoff.WithContext(policy(), ctx),
		func(err error, wait time.Duration) {
			db.logger.Warn().Err(err).Dur("retry_in", wait).Msg("transient database error, retrying")
		},
	)
}
