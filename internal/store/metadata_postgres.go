// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/metrics"
	"github.com/MKhiriev/go-quote-keeper/models"
	"github.com/google/uuid"
)

const (
	defaultTxMaxAttempts = 5
	defaultTxRetryDelay  = 20 * time.Millisecond
)

// postgresMetadataStore is the PostgreSQL-backed [MetadataStore].
//
// Transactions lock the quote row (creating the default row first when
// absent) and are re-run when the classifier marks the failure retryable.
// Change notifications come from the quote_meta_changed trigger via
// LISTEN/NOTIFY.
type postgresMetadataStore struct {
	db          *DB
	logger      *logger.Logger
	metrics     *metrics.Metrics
	maxAttempts int
	retryDelay  time.Duration

	hub      *watchHub
	listener *notificationListener
	stop     context.CancelFunc
	done     chan struct{}
}

// PostgresStoreOption tunes a postgres metadata store.
type PostgresStoreOption func(s *postgresMetadataStore)

// WithTxRetries sets the transaction attempt bound and base backoff.
func WithTxRetries(maxAttempts int, retryDelay time.Duration) PostgresStoreOption {
	return func(s *postgresMetadataStore) {
		if maxAttempts > 0 {
			s.maxAttempts = maxAttempts
		}
		if retryDelay > 0 {
			s.retryDelay = retryDelay
		}
	}
}

// WithMetrics makes the store count transaction retries.
func WithMetrics(m *metrics.Metrics) PostgresStoreOption {
	return func(s *postgresMetadataStore) {
		s.metrics = m
	}
}

// withoutListener disables LISTEN/NOTIFY; used by tests over sqlmock.
func withoutListener() PostgresStoreOption {
	return func(s *postgresMetadataStore) {
		s.listener = nil
	}
}

// NewPostgresMetadataStore builds the store over db and starts the change
// listener.
func NewPostgresMetadataStore(db *DB, log *logger.Logger, opts ...PostgresStoreOption) MetadataStore {
	s := &postgresMetadataStore{
		db:          db,
		logger:      log,
		maxAttempts: defaultTxMaxAttempts,
		retryDelay:  defaultTxRetryDelay,
		done:        make(chan struct{}),
	}
	s.hub = newWatchHub(s.GetMeta, log)
	s.listener = newNotificationListener(db, log, s.hub)

	for _, opt := range opts {
		opt(s)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel
	go func() {
		defer close(s.done)
		if s.listener != nil {
			s.listener.run(ctx)
		}
	}()

	log.Debug().Str("func", "NewPostgresMetadataStore").Msg("metadata store created")
	return s
}

// GetMeta implements [MetadataStore].
func (s *postgresMetadataStore) GetMeta(ctx context.Context, quoteID string) (models.QuoteMeta, bool, error) {
	log := logger.FromContext(ctx)

	if quoteID == "" {
		return models.QuoteMeta{}, false, ErrEmptyQuoteID
	}

	query, args, err := buildSelectMetaQuery(quoteID, false)
	if err != nil {
		return models.QuoteMeta{}, false, err
	}

	meta, err := scanMeta(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.QuoteMeta{}, false, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "postgresMetadataStore.GetMeta").
			Str("quote_id", quoteID).
			Msg("failed to read quote metadata")
		return models.QuoteMeta{}, false, err
	}

	return meta, true, nil
}

// RunTransaction implements [MetadataStore]. fn is re-run while failures are
// retryable and attempts remain; exhausting them yields
// [ErrTransactionConflict].
func (s *postgresMetadataStore) RunTransaction(ctx context.Context, quoteID string, fn TxFunc) error {
	log := logger.FromContext(ctx)

	if quoteID == "" {
		return ErrEmptyQuoteID
	}

	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.runTransactionOnce(ctx, quoteID, fn)
		if err == nil {
			return nil
		}
		if !s.db.retryable(err) {
			return err
		}

		log.Warn().Err(err).
			Str("func", "postgresMetadataStore.RunTransaction").
			Str("quote_id", quoteID).
			Int("attempt", attempt).
			Msg("retryable transaction failure")

		if attempt == s.maxAttempts {
			break
		}
		s.metrics.TransactionRetried()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.retryDelay * time.Duration(attempt)):
		}
	}

	return fmt.Errorf("%w: %w", ErrTransactionConflict, err)
}

func (s *postgresMetadataStore) runTransactionOnce(ctx context.Context, quoteID string, fn TxFunc) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if err = fn(ctx, &postgresMetaTx{tx: tx, quoteID: quoteID}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// postgresMetaTx is the [MetaTx] of one running database transaction.
type postgresMetaTx struct {
	tx      *sql.Tx
	quoteID string
}

// Get creates the default row if needed and locks it, so concurrent
// transactions on a fresh quote serialize instead of overwriting each other.
func (t *postgresMetaTx) Get(ctx context.Context) (models.QuoteMeta, bool, error) {
	query, args, err := buildEnsureMetaQuery(t.quoteID)
	if err != nil {
		return models.QuoteMeta{}, false, err
	}

	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return models.QuoteMeta{}, false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	created, err := res.RowsAffected()
	if err != nil {
		return models.QuoteMeta{}, false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	query, args, err = buildSelectMetaQuery(t.quoteID, true)
	if err != nil {
		return models.QuoteMeta{}, false, err
	}

	meta, err := scanMeta(t.tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		return models.QuoteMeta{}, false, err
	}

	if created > 0 {
		return models.QuoteMeta{}, false, nil
	}
	return meta, true, nil
}

func (t *postgresMetaTx) Set(ctx context.Context, meta models.QuoteMeta) error {
	meta.ID = t.quoteID

	likedBy, err := encodeMembers(meta.LikedBy)
	if err != nil {
		return err
	}
	savedBy, err := encodeMembers(meta.SavedBy)
	if err != nil {
		return err
	}

	query, args, err := buildUpsertMetaQuery(meta, likedBy, savedBy)
	if err != nil {
		return err
	}

	if _, err = t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

// Watch implements [MetadataStore].
func (s *postgresMetadataStore) Watch(quoteID string, onChange SnapshotFunc) (Subscription, error) {
	return s.hub.watch(quoteID, onChange)
}

// InsertComment implements [MetadataStore].
func (s *postgresMetadataStore) InsertComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	log := logger.FromContext(ctx)

	if comment.QuoteID == "" {
		return models.Comment{}, ErrEmptyQuoteID
	}

	id, err := uuid.NewV7()
	if err != nil {
		return models.Comment{}, fmt.Errorf("error generating comment id: %w", err)
	}
	comment.ID = id.String()

	query, args, err := buildInsertCommentQuery(comment)
	if err != nil {
		return models.Comment{}, err
	}

	if err = s.db.QueryRowContext(ctx, query, args...).Scan(&comment.CreatedAt); err != nil {
		log.Err(err).
			Str("func", "postgresMetadataStore.InsertComment").
			Str("quote_id", comment.QuoteID).
			Msg("failed to insert comment")
		return models.Comment{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return comment, nil
}

// IncrementCommentCount implements [MetadataStore].
func (s *postgresMetadataStore) IncrementCommentCount(ctx context.Context, quoteID string) error {
	log := logger.FromContext(ctx)

	if quoteID == "" {
		return ErrEmptyQuoteID
	}

	query, args, err := buildIncrementCommentCountQuery(quoteID)
	if err != nil {
		return err
	}

	if _, err = s.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "postgresMetadataStore.IncrementCommentCount").
			Str("quote_id", quoteID).
			Msg("failed to increment comment count")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// ListComments implements [MetadataStore].
func (s *postgresMetadataStore) ListComments(ctx context.Context, quoteID string, limit int) ([]models.Comment, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListCommentsQuery(quoteID, limit)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "postgresMetadataStore.ListComments").
			Str("quote_id", quoteID).
			Msg("failed to execute query for listing comments")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0, 20)
	for rows.Next() {
		var c models.Comment
		if err = rows.Scan(&c.ID, &c.QuoteID, &c.UserID, &c.Username, &c.Text, &c.CreatedAt); err != nil {
			log.Err(err).
				Str("func", "postgresMetadataStore.ListComments").
				Str("quote_id", quoteID).
				Msg("failed to scan comment row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		comments = append(comments, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return comments, nil
}

// CountComments implements [MetadataStore].
func (s *postgresMetadataStore) CountComments(ctx context.Context, quoteID string, settle time.Duration) (int, error) {
	query, args, err := buildCountCommentsQuery(quoteID, settle)
	if err != nil {
		return 0, err
	}

	var count int
	if err = s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return count, nil
}

// Close stops the listener and every subscription, then closes the pool.
func (s *postgresMetadataStore) Close() error {
	s.stop()
	<-s.done
	s.hub.close()
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeta(row rowScanner) (models.QuoteMeta, error) {
	var (
		meta             models.QuoteMeta
		likedBy, savedBy []byte
	)

	if err := row.Scan(&meta.ID, &meta.LikeCount, &likedBy, &meta.CommentCount, &savedBy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.QuoteMeta{}, err
		}
		return models.QuoteMeta{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	var err error
	if meta.LikedBy, err = decodeMembers(likedBy); err != nil {
		return models.QuoteMeta{}, err
	}
	if meta.SavedBy, err = decodeMembers(savedBy); err != nil {
		return models.QuoteMeta{}, err
	}

	return meta, nil
}

func encodeMembers(members []string) (string, error) {
	if members == nil {
		members = []string{}
	}
	b, err := json.Marshal(members)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingMembers, err)
	}
	return string(b), nil
}

func decodeMembers(raw []byte) ([]string, error) {
	members := []string{}
	if len(raw) == 0 {
		return members, nil
	}
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingMembers, err)
	}
	return members, nil
}
