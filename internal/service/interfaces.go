// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-quote-keeper/internal/store"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// MetadataRepository translates engagement operations into reads and
// transactions against the metadata store.
//
// It never touches the local cache: callers observe the effect of their own
// writes only through Subscribe.
type MetadataRepository interface {
	// FetchOnce reads the current metadata of quoteID. A quote without a
	// document yields models.NewQuoteMeta(quoteID) and no error.
	FetchOnce(ctx context.Context, quoteID string) (models.QuoteMeta, error)

	// Subscribe calls onChange with the current metadata (or the default)
	// and again on every committed change, including this client's own
	// writes. Deliveries are serialized. Closing the returned handle stops
	// them.
	Subscribe(quoteID string, onChange func(meta models.QuoteMeta)) (store.Subscription, error)

	// ToggleLike flips userID's membership in LikedBy inside one store
	// transaction and sets LikeCount to the new set size. It reports
	// whether the user likes the quote afterwards.
	ToggleLike(ctx context.Context, quoteID, userID string) (bool, error)

	// ToggleSave flips userID's membership in SavedBy inside one store
	// transaction. It reports whether the quote is saved afterwards.
	ToggleSave(ctx context.Context, quoteID, userID string) (bool, error)

	// AddComment appends a comment and then increments CommentCount. The
	// two writes are separate; see ErrCommentCountNotUpdated.
	AddComment(ctx context.Context, req models.CommentRequest) (models.Comment, error)

	// ListComments returns up to limit comments, newest first.
	ListComments(ctx context.Context, quoteID string, limit int) ([]models.Comment, error)

	// ReconcileCommentCount raises CommentCount to the number of persisted
	// comments when it under-counts. Comments younger than the settle window
	// are not counted, so an append whose increment has not landed yet is
	// left alone. It never lowers the counter and reports whether it changed.
	ReconcileCommentCount(ctx context.Context, quoteID string) (bool, error)
}

// SubscriptionCoordinator owns the local metadata cache and the live
// subscriptions feeding it. At most one subscription per quote id is open at
// any time.
type SubscriptionCoordinator interface {
	// Request registers interest in quoteID, opening its subscription on the
	// first request. Every Request must be paired with a Release.
	Request(quoteID string) error
	// Release drops one consumer of quoteID. The last release closes the
	// subscription and discards the cached entry.
	Release(quoteID string)
	// Get reads the cache synchronously. ok is false while the quote is
	// loading or not watched.
	Get(quoteID string) (meta models.QuoteMeta, ok bool)
	// State reports where quoteID is in its watch lifecycle.
	State(quoteID string) WatchState
	// Watched lists the ids that have received at least one delivery.
	Watched() []string
	// ActiveSubscriptions counts open subscriptions.
	ActiveSubscriptions() int
	// SetNotifier installs the callback invoked after every cache update.
	SetNotifier(fn UpdateNotifier)
	// Close closes every subscription. Further Requests fail.
	Close() error
}

// UpdateNotifier is told about every cache update. It runs on the
// subscription's delivery goroutine and must not block.
type UpdateNotifier func(quoteID string, meta models.QuoteMeta)

// AuthService verifies identity tokens presented to the gateway.
type AuthService interface {
	// ParseToken validates a signed identity token and returns its user.
	ParseToken(ctx context.Context, tokenString string) (models.User, error)
}
