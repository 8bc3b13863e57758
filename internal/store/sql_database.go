// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/migrations"
)

// DB wraps a *sql.DB with the dialect it speaks and the classifier used to
// decide which failures are retried.
type DB struct {
	*sql.DB
	dialect            migrations.Dialect
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies the schema of the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// migrateOrClose runs Migrate and closes the connection when it fails.
func (db *DB) migrateOrClose() error {
	err := db.Migrate()
	if err == nil {
		return nil
	}
	if closeErr := db.Close(); closeErr != nil {
		db.logger.Err(closeErr).Str("func", "DB.migrateOrClose").Msg("error closing connection after failed migration")
	}
	return err
}

// retryable reports whether err may succeed on another attempt.
func (db *DB) retryable(err error) bool {
	if db.errorClassificator == nil {
		return false
	}
	return db.errorClassificator.Classify(err) == Retryable
}
