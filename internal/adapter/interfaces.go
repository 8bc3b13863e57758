// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client of the public quote discovery API.
//
// The primary abstraction is [DiscoveryAdapter], which decouples the service
// layer from the HTTP transport. Non-2xx responses are mapped by
// mapHTTPError to the sentinel values in errors.go so callers can use
// [errors.Is] (e.g. [ErrNotFound] for 404, [ErrTooManyRequests] for 429).
//
// The discovery API has been served by several deployments with slightly
// different payload shapes; the decoders in decode.go accept all of them.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-quote-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// DiscoveryAdapter is a read-only client of the quote discovery API.
type DiscoveryAdapter interface {
	// ListQuotes fetches up to limit quotes (GET /quotes?limit=N). A
	// non-positive limit leaves the page size to the API.
	ListQuotes(ctx context.Context, limit int) ([]models.Quote, error)

	// RandomQuote fetches one random quote (GET /quotes/random), optionally
	// restricted to tag.
	RandomQuote(ctx context.Context, tag string) (models.Quote, error)

	// ListTags fetches every discovery category (GET /tags).
	ListTags(ctx context.Context) ([]models.Tag, error)

	// SearchQuotes fetches quotes matching params. Zero-valued fields are not
	// sent.
	SearchQuotes(ctx context.Context, params models.SearchParams) ([]models.Quote, error)
}
