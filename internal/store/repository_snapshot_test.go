// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/migrations"
	"github.com/MKhiriev/go-quote-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	saveSnapshotSQL   = regexp.QuoteMeta(`INSERT INTO quote_snapshots (user_id,kind,quote_id,content,author,tags,created_at) VALUES (?,?,?,?,?,?,?) ON CONFLICT (user_id, kind, quote_id) DO UPDATE SET`)
	deleteSnapshotSQL = regexp.QuoteMeta(`DELETE FROM quote_snapshots WHERE kind = ? AND quote_id = ? AND user_id = ?`)
	getSnapshotSQL    = regexp.QuoteMeta(`SELECT user_id, kind, quote_id, content, author, tags, created_at FROM quote_snapshots WHERE kind = ? AND quote_id = ? AND user_id = ?`)
	listSnapshotsSQL  = regexp.QuoteMeta(`SELECT user_id, kind, quote_id, content, author, tags, created_at FROM quote_snapshots WHERE kind = ? AND user_id = ? ORDER BY created_at DESC, quote_id`)
)

var snapshotRowColumns = []string{"user_id", "kind", "quote_id", "content", "author", "tags", "created_at"}

func newTestSnapshotRepo(t *testing.T) (SnapshotRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t)
	return NewSnapshotRepository(newDBFromSQL(db, migrations.SQLite), logger.Nop()), mock
}

func TestSnapshotRepository_SaveSnapshot(t *testing.T) {
	repo, mock := newTestSnapshotRepo(t)
	createdAt := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(saveSnapshotSQL).
		WithArgs("u1", "saved", "q1", "Stay hungry.", "Jobs", `["life"]`, createdAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.SaveSnapshot(testContext(), models.QuoteSnapshot{
		UserID: "u1", QuoteID: "q1", Kind: models.SnapshotSaved,
		Content: "Stay hungry.", Author: "Jobs", Tags: []string{"life"}, CreatedAt: createdAt,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepository_SaveSnapshotNilTags(t *testing.T) {
	repo, mock := newTestSnapshotRepo(t)

	mock.ExpectExec(saveSnapshotSQL).
		WithArgs("u1", "created", "q1", "text", "", `[]`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.SaveSnapshot(testContext(), models.QuoteSnapshot{UserID: "u1", QuoteID: "q1", Kind: models.SnapshotCreated, Content: "text"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepository_SaveSnapshotError(t *testing.T) {
	repo, mock := newTestSnapshotRepo(t)

	mock.ExpectExec(saveSnapshotSQL).WillReturnError(errors.New("database is locked"))

	err := repo.SaveSnapshot(testContext(), models.QuoteSnapshot{UserID: "u1", QuoteID: "q1", Kind: models.SnapshotSaved})
	require.ErrorIs(t, err, ErrExecutingStatement)
}

func TestSnapshotRepository_DeleteSnapshot(t *testing.T) {
	repo, mock := newTestSnapshotRepo(t)

	mock.ExpectExec(deleteSnapshotSQL).
		WithArgs("saved", "q1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteSnapshot(testContext(), "u1", models.SnapshotSaved, "q1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepository_GetSnapshot(t *testing.T) {
	repo, mock := newTestSnapshotRepo(t)
	createdAt := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(getSnapshotSQL).
		WithArgs("created", "q1", "u1").
		WillReturnRows(sqlmock.NewRows(snapshotRowColumns).
			AddRow("u1", "created", "q1", "mine", "me", `["a","b"]`, createdAt))

	s, err := repo.GetSnapshot(testContext(), "u1", models.SnapshotCreated, "q1")
	require.NoError(t, err)
	assert.Equal(t, models.QuoteSnapshot{
		UserID: "u1", Kind: models.SnapshotCreated, QuoteID: "q1",
		Content: "mine", Author: "me", Tags: []string{"a", "b"}, CreatedAt: createdAt,
	}, s)

	mock.ExpectQuery(getSnapshotSQL).
		WithArgs("created", "q2", "u1").
		WillReturnRows(sqlmock.NewRows(snapshotRowColumns))

	_, err = repo.GetSnapshot(testContext(), "u1", models.SnapshotCreated, "q2")
	require.ErrorIs(t, err, ErrSnapshotNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepository_ListSnapshots(t *testing.T) {
	repo, mock := newTestSnapshotRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(listSnapshotsSQL).
		WithArgs("saved", "u1").
		WillReturnRows(sqlmock.NewRows(snapshotRowColumns).
			AddRow("u1", "saved", "q2", "two", "B", `[]`, now).
			AddRow("u1", "saved", "q1", "one", "A", `["x"]`, now.Add(-time.Hour)))

	snapshots, err := repo.ListSnapshots(testContext(), "u1", models.SnapshotSaved)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "q2", snapshots[0].QuoteID)
	assert.Equal(t, []string{"x"}, snapshots[1].Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepository_ListSnapshotsBadTags(t *testing.T) {
	repo, mock := newTestSnapshotRepo(t)

	mock.ExpectQuery(listSnapshotsSQL).
		WithArgs("saved", "u1").
		WillReturnRows(sqlmock.NewRows(snapshotRowColumns).
			AddRow("u1", "saved", "q1", "one", "A", `not json`, time.Now()))

	_, err := repo.ListSnapshots(testContext(), "u1", models.SnapshotSaved)
	require.ErrorIs(t, err, ErrEncodingMembers)
}

func TestSnapshotRepository_ListSnapshotsQueryError(t *testing.T) {
	repo, mock := newTestSnapshotRepo(t)

	mock.ExpectQuery(listSnapshotsSQL).WillReturnError(errors.New("no such table"))

	_, err := repo.ListSnapshots(testContext(), "u1", models.SnapshotSaved)
	require.ErrorIs(t, err, ErrExecutingQuery)
}
