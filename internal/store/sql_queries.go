// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	biometricsTable = "biometrics"
	saltTable       = "store_salt"

	// activeRecordID is the primary key of the single enrollment row.
	activeRecordID = 1
	// saltRecordID is the primary key of the single salt row.
	saltRecordID = 1
)

func deleteFingerprintsQuery(b sq.StatementBuilderType) (string, []any, error) {
	return b.Delete(biometricsTable).ToSql()
}

func insertFingerprintsQuery(b sq.StatementBuilderType, ratios, key string, createdAt time.Time) (string, []any, error) {
	return b.Insert(biometricsTable).
		Columns("id", "ratios", "key", "created_at").
		Values(activeRecordID, ratios, key, createdAt).
		ToSql()
}

func selectActiveQuery(b sq.StatementBuilderType) (string, []any, error) {
	return b.Select("ratios", "key", "created_at").
		From(biometricsTable).
		OrderBy("id").
		Limit(1).
		ToSql()
}

func countActiveQuery(b sq.StatementBuilderType) (string, []any, error) {
	return b.Select("COUNT(*)").From(biometricsTable).ToSql()
}

func selectSaltQuery(b sq.StatementBuilderType) (string, []any, error) {
	return b.Select("salt").
		From(saltTable).
		Where(sq.Eq{"id": saltRecordID}).
		ToSql()
}

func insertSaltQuery(b sq.StatementBuilderType, salt string) (string, []any, error) {
	return b.Insert(saltTable).
		Columns("id", "salt").
		Values(saltRecordID, salt).
		ToSql()
}
