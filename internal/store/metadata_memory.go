// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/models"
	"github.com/google/uuid"
	"github.com/tidwall/btree"
)

// MemoryDSN selects the in-process metadata store.
const MemoryDSN = "memory"

// memoryMetadataStore is an in-process [MetadataStore]. Transactions on one
// quote are serialized by a per-quote lock; comments are kept in a btree
// ordered by creation time.
type memoryMetadataStore struct {
	logger *logger.Logger
	hub    *watchHub
	now    func() time.Time

	mu       sync.Mutex
	docs     map[string]models.QuoteMeta
	txLocks  map[string]*sync.Mutex
	comments map[string]*btree.Map[string, models.Comment]
}

// NewMemoryMetadataStore returns an empty in-process store.
func NewMemoryMetadataStore(log *logger.Logger) MetadataStore {
	return newMemoryMetadataStore(log, time.Now)
}

func newMemoryMetadataStore(log *logger.Logger, now func() time.Time) *memoryMetadataStore {
	s := &memoryMetadataStore{
		logger:   log,
		now:      now,
		docs:     make(map[string]models.QuoteMeta),
		txLocks:  make(map[string]*sync.Mutex),
		comments: make(map[string]*btree.Map[string, models.Comment]),
	}
	s.hub = newWatchHub(s.GetMeta, log)
	return s
}

// GetMeta implements [MetadataStore].
func (s *memoryMetadataStore) GetMeta(_ context.Context, quoteID string) (models.QuoteMeta, bool, error) {
	if quoteID == "" {
		return models.QuoteMeta{}, false, ErrEmptyQuoteID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	meta, ok := s.docs[quoteID]
	if !ok {
		return models.QuoteMeta{}, false, nil
	}
	return meta.Clone(), true, nil
}

// RunTransaction implements [MetadataStore].
func (s *memoryMetadataStore) RunTransaction(ctx context.Context, quoteID string, fn TxFunc) error {
	if quoteID == "" {
		return ErrEmptyQuoteID
	}

	lock := s.txLock(quoteID)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memoryMetaTx{store: s, quoteID: quoteID}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	if tx.pending == nil {
		return nil
	}

	s.mu.Lock()
	s.docs[quoteID] = *tx.pending
	s.mu.Unlock()

	s.hub.notify(quoteID)
	return nil
}

func (s *memoryMetadataStore) txLock(quoteID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.txLocks[quoteID]
	if !ok {
		lock = &sync.Mutex{}
		s.txLocks[quoteID] = lock
	}
	return lock
}

type memoryMetaTx struct {
	store   *memoryMetadataStore
	quoteID string
	pending *models.QuoteMeta
}

func (t *memoryMetaTx) Get(ctx context.Context) (models.QuoteMeta, bool, error) {
	if t.pending != nil {
		return t.pending.Clone(), true, nil
	}
	return t.store.GetMeta(ctx, t.quoteID)
}

func (t *memoryMetaTx) Set(_ context.Context, meta models.QuoteMeta) error {
	meta = meta.Clone()
	meta.ID = t.quoteID
	t.pending = &meta
	return nil
}

// Watch implements [MetadataStore].
func (s *memoryMetadataStore) Watch(quoteID string, onChange SnapshotFunc) (Subscription, error) {
	return s.hub.watch(quoteID, onChange)
}

// InsertComment implements [MetadataStore].
func (s *memoryMetadataStore) InsertComment(_ context.Context, comment models.Comment) (models.Comment, error) {
	if comment.QuoteID == "" {
		return models.Comment{}, ErrEmptyQuoteID
	}

	id, err := uuid.NewV7()
	if err != nil {
		return models.Comment{}, fmt.Errorf("error generating comment id: %w", err)
	}
	comment.ID = id.String()
	comment.CreatedAt = s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	tree, ok := s.comments[comment.QuoteID]
	if !ok {
		tree = btree.NewMap[string, models.Comment](0)
		s.comments[comment.QuoteID] = tree
	}
	tree.Set(commentKey(comment), comment)

	return comment, nil
}

// IncrementCommentCount implements [MetadataStore].
func (s *memoryMetadataStore) IncrementCommentCount(ctx context.Context, quoteID string) error {
	return s.RunTransaction(ctx, quoteID, func(ctx context.Context, tx MetaTx) error {
		meta, exists, err := tx.Get(ctx)
		if err != nil {
			return err
		}
		if !exists {
			meta = models.NewQuoteMeta(quoteID)
		}
		meta.CommentCount++
		return tx.Set(ctx, meta)
	})
}

// ListComments implements [MetadataStore].
func (s *memoryMetadataStore) ListComments(_ context.Context, quoteID string, limit int) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comments := make([]models.Comment, 0)
	tree, ok := s.comments[quoteID]
	if !ok {
		return comments, nil
	}

	tree.Reverse(func(_ string, c models.Comment) bool {
		comments = append(comments, c)
		return limit <= 0 || len(comments) < limit
	})
	return comments, nil
}

// CountComments implements [MetadataStore].
func (s *memoryMetadataStore) CountComments(_ context.Context, quoteID string, settle time.Duration) (int, error) {
	cutoff := s.now().UTC().Add(-settle)

	s.mu.Lock()
	defer s.mu.Unlock()

	tree, ok := s.comments[quoteID]
	if !ok {
		return 0, nil
	}

	count := 0
	tree.Scan(func(_ string, c models.Comment) bool {
		if c.CreatedAt.After(cutoff) {
			return false
		}
		count++
		return true
	})
	return count, nil
}

// Close implements [MetadataStore].
func (s *memoryMetadataStore) Close() error {
	s.hub.close()
	return nil
}

// commentKey orders comments by creation time, then id.
func commentKey(c models.Comment) string {
	return fmt.Sprintf("%020d/%s", c.CreatedAt.UnixNano(), c.ID)
}
