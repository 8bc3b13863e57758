// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by store methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrTransactionConflict is returned when a metadata transaction kept
	// failing with retryable errors until its attempts were exhausted.
	ErrTransactionConflict = errors.New("metadata transaction conflict")

	// ErrStoreClosed is returned by Watch after the store was closed.
	ErrStoreClosed = errors.New("metadata store is closed")

	// ErrEmptyQuoteID is returned when an operation is called without a
	// quote identifier.
	ErrEmptyQuoteID = errors.New("quote id is empty")

	// ErrSnapshotNotFound is returned when a snapshot lookup matches no row.
	ErrSnapshotNotFound = errors.New("quote snapshot was not found")

	// ErrUnknownDSN is returned when a DSN selects no supported backend.
	ErrUnknownDSN = errors.New("unsupported metadata store dsn")
)

// Low-level database operation errors. These are returned (or wrapped) by
// store methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrEncodingMembers is returned when a member set can't be
	// (de)serialized to its JSON column.
	ErrEncodingMembers = errors.New("failed to encode member set")
)
