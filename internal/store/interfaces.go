// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-quote-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// MetaTx is the view of one quote document inside a store transaction.
type MetaTx interface {
	// Get reads the document. exists is false when the quote has no
	// metadata yet; meta is then the zero value.
	Get(ctx context.Context) (meta models.QuoteMeta, exists bool, err error)
	// Set replaces every engagement field of the document. It is applied
	// only if the transaction function returns nil.
	Set(ctx context.Context, meta models.QuoteMeta) error
}

// TxFunc is the body of a metadata transaction. It may run more than once
// when the store retries a conflicting transaction, so it must have no side
// effects beyond tx.
type TxFunc func(ctx context.Context, tx MetaTx) error

// SnapshotFunc receives every delivery of a watched quote document.
type SnapshotFunc func(meta models.QuoteMeta, exists bool)

// Subscription is a live watch of one quote document.
type Subscription interface {
	// Close stops deliveries. It is idempotent. A delivery already running
	// when Close is called may still complete.
	Close() error
}

// MetadataStore is the remote document store of quote engagement metadata.
type MetadataStore interface {
	// GetMeta reads the current document once.
	GetMeta(ctx context.Context, quoteID string) (meta models.QuoteMeta, exists bool, err error)
	// RunTransaction runs fn as an atomic read-modify-write of one quote
	// document, re-running it on conflicts.
	RunTransaction(ctx context.Context, quoteID string, fn TxFunc) error
	// Watch delivers the current document immediately and then every
	// committed change. Deliveries of one subscription are serialized.
	Watch(quoteID string, onChange SnapshotFunc) (Subscription, error)

	// InsertComment appends a comment to the quote's comments
	// sub-collection. ID and CreatedAt are assigned by the store.
	InsertComment(ctx context.Context, comment models.Comment) (models.Comment, error)
	// IncrementCommentCount adds one to the document's comment counter,
	// creating the document if needed.
	IncrementCommentCount(ctx context.Context, quoteID string) error
	// ListComments returns comments newest first. limit <= 0 means all.
	ListComments(ctx context.Context, quoteID string, limit int) ([]models.Comment, error)
	// CountComments returns the number of persisted comments of a quote
	// created at least settle ago by the store's clock.
	CountComments(ctx context.Context, quoteID string, settle time.Duration) (int, error)

	// Close stops all subscriptions and releases connections.
	Close() error
}

// SnapshotRepository persists per-user quote snapshots on the client.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, snapshot models.QuoteSnapshot) error
	DeleteSnapshot(ctx context.Context, userID string, kind models.SnapshotKind, quoteID string) error
	GetSnapshot(ctx context.Context, userID string, kind models.SnapshotKind, quoteID string) (models.QuoteSnapshot, error)
	ListSnapshots(ctx context.Context, userID string, kind models.SnapshotKind) ([]models.QuoteSnapshot, error)
}
