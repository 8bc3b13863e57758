// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-quote-keeper/models"
)

// ClientAuthService keeps the identity of the terminal session. A session
// without a user is a guest session.
type ClientAuthService interface {
	// SignIn validates the identity token issued by the authentication
	// provider and makes its user the current user.
	SignIn(ctx context.Context, idToken string) (models.User, error)

	// SignOut turns the session into a guest session.
	SignOut(ctx context.Context)

	// CurrentUser returns the signed-in user, or false for a guest.
	CurrentUser() (models.User, bool)
}

// EngagementService binds the metadata repository and the subscription
// coordinator to the session's current user.
type EngagementService interface {
	// Watch starts caching quoteID's metadata. Pair with Unwatch.
	Watch(quoteID string) error
	// Unwatch releases a Watch.
	Unwatch(quoteID string)
	// Meta reads the cached metadata; false means loading.
	Meta(quoteID string) (models.QuoteMeta, bool)

	// ToggleLike flips the current user's like of quoteID.
	ToggleLike(ctx context.Context, quoteID string) (bool, error)
	// ToggleSave flips the current user's save of quote and keeps the
	// saved snapshot in step with it.
	ToggleSave(ctx context.Context, quote models.Quote) (bool, error)
	// AddComment posts text as the current user.
	AddComment(ctx context.Context, quoteID, text string) (models.Comment, error)
	// Comments lists the newest comments of quoteID.
	Comments(ctx context.Context, quoteID string) ([]models.Comment, error)
}

// LibraryService manages the current user's created and saved quotes.
type LibraryService interface {
	// CreateQuote publishes a new quote authored by the current user.
	CreateQuote(ctx context.Context, content, author string) (models.Quote, error)
	// SavedQuotes lists the current user's saved quote snapshots.
	SavedQuotes(ctx context.Context) ([]models.Quote, error)
	// CreatedQuotes lists the quotes the current user created.
	CreatedQuotes(ctx context.Context) ([]models.Quote, error)
}

// DiscoveryService reads the public quote catalogue. Every failure degrades
// to an empty result.
type DiscoveryService interface {
	Explore(ctx context.Context, limit int) []models.Quote
	Random(ctx context.Context, tag string) (models.Quote, bool)
	Tags(ctx context.Context) []models.Tag
	Search(ctx context.Context, params models.SearchParams) []models.Quote
}

// CommentReconcileJob periodically repairs comment counters of watched
// quotes.
type CommentReconcileJob interface {
	// Start launches the background goroutine. It reconciles every
	// interval, defaulting to 5 minutes if interval is zero or negative.
	// Any previously running job is stopped first.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it
	// has terminated.
	Stop()
}

// IDGenerator produces identifiers for created quotes.
type IDGenerator interface {
	Generate() string
}
