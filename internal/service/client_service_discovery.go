// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-quote-keeper/internal/adapter"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/models"
)

type discoveryService struct {
	adapter adapter.DiscoveryAdapter

	logger *logger.Logger
}

// NewDiscoveryService wraps discoveryAdapter so that failures degrade to
// empty results.
func NewDiscoveryService(discoveryAdapter adapter.DiscoveryAdapter, logger *logger.Logger) DiscoveryService {
	return &discoveryService{adapter: discoveryAdapter, logger: logger}
}

func (s *discoveryService) Explore(ctx context.Context, limit int) []models.Quote {
	quotes, err := s.adapter.ListQuotes(ctx, limit)
	if err != nil {
		s.degraded(ctx, "discoveryService.Explore", err)
		return []models.Quote{}
	}
	return quotes
}

func (s *discoveryService) Random(ctx context.Context, tag string) (models.Quote, bool) {
	quote, err := s.adapter.RandomQuote(ctx, tag)
	if err != nil {
		s.degraded(ctx, "discoveryService.Random", err)
		return models.Quote{}, false
	}
	return quote, true
}

func (s *discoveryService) Tags(ctx context.Context) []models.Tag {
	tags, err := s.adapter.ListTags(ctx)
	if err != nil {
		s.degraded(ctx, "discoveryService.Tags", err)
		return []models.Tag{}
	}
	return tags
}

func (s *discoveryService) Search(ctx context.Context, params models.SearchParams) []models.Quote {
	quotes, err := s.adapter.SearchQuotes(ctx, params)
	if err != nil {
		s.degraded(ctx, "discoveryService.Search", err)
		return []models.Quote{}
	}
	return quotes
}

func (s *discoveryService) degraded(ctx context.Context, fn string, err error) {
	logger.FromContext(ctx).Warn().Err(err).
		Str("func", fn).
		Msg("discovery request failed, returning empty result")
}
