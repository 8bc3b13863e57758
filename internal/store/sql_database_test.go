// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-quote-keeper/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_MigrateOrClose_ClosesOnFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	db := newDBFromSQL(sqlDB, migrations.Dialect("oracle"))

	err = db.migrateOrClose()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dialect")
	assert.NoError(t, mock.ExpectationsWereMet())
}
