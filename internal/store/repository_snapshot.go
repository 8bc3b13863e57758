// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// snapshotRepository is the SQLite-backed [SnapshotRepository] holding the
// saved and created quotes of every user who signed in on this device.
type snapshotRepository struct {
	*DB
	logger *logger.Logger
}

// NewSnapshotRepository constructs a [SnapshotRepository] over db.
func NewSnapshotRepository(db *DB, logger *logger.Logger) SnapshotRepository {
	logger.Debug().Msg("creating snapshot repository")
	return &snapshotRepository{
		DB:     db,
		logger: logger,
	}
}

// SaveSnapshot inserts the snapshot or refreshes its content. The original
// CreatedAt is kept on refresh.
func (r *snapshotRepository) SaveSnapshot(ctx context.Context, snapshot models.QuoteSnapshot) error {
	log := logger.FromContext(ctx)

	tags, err := json.Marshal(nonNilTags(snapshot.Tags))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingMembers, err)
	}

	query, args, err := buildSaveSnapshotQuery(snapshot, string(tags))
	if err != nil {
		return err
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "snapshotRepository.SaveSnapshot").
			Str("user_id", snapshot.UserID).
			Str("quote_id", snapshot.QuoteID).
			Msg("failed to save quote snapshot")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// DeleteSnapshot removes a snapshot. Deleting a missing snapshot is not an
// error.
func (r *snapshotRepository) DeleteSnapshot(ctx context.Context, userID string, kind models.SnapshotKind, quoteID string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteSnapshotQuery(userID, kind, quoteID)
	if err != nil {
		return err
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "snapshotRepository.DeleteSnapshot").
			Str("user_id", userID).
			Str("quote_id", quoteID).
			Msg("failed to delete quote snapshot")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// GetSnapshot returns [ErrSnapshotNotFound] when nothing matches.
func (r *snapshotRepository) GetSnapshot(ctx context.Context, userID string, kind models.SnapshotKind, quoteID string) (models.QuoteSnapshot, error) {
	query, args, err := buildGetSnapshotQuery(userID, kind, quoteID)
	if err != nil {
		return models.QuoteSnapshot{}, err
	}

	snapshot, err := scanSnapshot(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.QuoteSnapshot{}, ErrSnapshotNotFound
	}
	if err != nil {
		return models.QuoteSnapshot{}, err
	}

	return snapshot, nil
}

// ListSnapshots returns the user's snapshots of kind, newest first.
func (r *snapshotRepository) ListSnapshots(ctx context.Context, userID string, kind models.SnapshotKind) ([]models.QuoteSnapshot, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListSnapshotsQuery(userID, kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "snapshotRepository.ListSnapshots").
			Str("user_id", userID).
			Str("kind", string(kind)).
			Msg("failed to execute query for listing snapshots")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	snapshots := make([]models.QuoteSnapshot, 0, 20)
	for rows.Next() {
		snapshot, scanErr := scanSnapshot(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		snapshots = append(snapshots, snapshot)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return snapshots, nil
}

func scanSnapshot(row rowScanner) (models.QuoteSnapshot, error) {
	var (
		s    models.QuoteSnapshot
		kind string
		tags string
	)

	if err := row.Scan(&s.UserID, &kind, &s.QuoteID, &s.Content, &s.Author, &tags, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.QuoteSnapshot{}, err
		}
		return models.QuoteSnapshot{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	s.Kind = models.SnapshotKind(kind)
	s.Tags = []string{}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &s.Tags); err != nil {
			return models.QuoteSnapshot{}, fmt.Errorf("%w: %w", ErrEncodingMembers, err)
		}
	}

	return s, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
