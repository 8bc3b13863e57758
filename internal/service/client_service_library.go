// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/store"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// newQuoteRequest is a quote typed in by the user.
type newQuoteRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
	Author  string `json:"author" validate:"required,max=128"`
}

type libraryService struct {
	auth      ClientAuthService
	snapshots store.SnapshotRepository
	ids       IDGenerator
	now       func() time.Time

	logger *logger.Logger
}

// NewLibraryService returns the current user's library over snapshots.
func NewLibraryService(auth ClientAuthService, snapshots store.SnapshotRepository, ids IDGenerator, logger *logger.Logger) LibraryService {
	return &libraryService{
		auth:      auth,
		snapshots: snapshots,
		ids:       ids,
		now:       time.Now,
		logger:    logger,
	}
}

// CreateQuote validates the quote, assigns it a new id and stores it as a
// created snapshot of the current user. A blank author falls back to the
// user's name.
func (s *libraryService) CreateQuote(ctx context.Context, content, author string) (models.Quote, error) {
	user, ok := s.auth.CurrentUser()
	if !ok {
		return models.Quote{}, errGuest
	}

	req := newQuoteRequest{
		Content: strings.TrimSpace(content),
		Author:  strings.TrimSpace(author),
	}
	if req.Author == "" {
		req.Author = user.Username
	}
	if req.Author == "" {
		req.Author = models.DefaultCommentUsername
	}
	if err := validateStruct(req); err != nil {
		return models.Quote{}, err
	}

	snapshot := models.QuoteSnapshot{
		UserID:    user.ID,
		QuoteID:   s.ids.Generate(),
		Kind:      models.SnapshotCreated,
		Content:   req.Content,
		Author:    req.Author,
		Tags:      []string{},
		CreatedAt: s.now().UTC(),
	}
	if err := s.snapshots.SaveSnapshot(ctx, snapshot); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "libraryService.CreateQuote").
			Str("user_id", user.ID).
			Msg("error saving created quote")
		return models.Quote{}, fmt.Errorf("%w: %w", ErrSnapshotNotUpdated, err)
	}

	logger.FromContext(ctx).Info().Str("func", "libraryService.CreateQuote").
		Str("user_id", user.ID).
		Str("quote_id", snapshot.QuoteID).
		Msg("quote created")

	return snapshot.Quote(), nil
}

func (s *libraryService) SavedQuotes(ctx context.Context) ([]models.Quote, error) {
	return s.list(ctx, models.SnapshotSaved)
}

func (s *libraryService) CreatedQuotes(ctx context.Context) ([]models.Quote, error) {
	return s.list(ctx, models.SnapshotCreated)
}

func (s *libraryService) list(ctx context.Context, kind models.SnapshotKind) ([]models.Quote, error) {
	user, ok := s.auth.CurrentUser()
	if !ok {
		return nil, errGuest
	}

	snapshots, err := s.snapshots.ListSnapshots(ctx, user.ID, kind)
	if err != nil {
		return nil, fmt.Errorf("error listing %s quotes: %w", kind, err)
	}

	quotes := make([]models.Quote, 0, len(snapshots))
	for _, snapshot := range snapshots {
		quotes = append(quotes, snapshot.Quote())
	}
	return quotes, nil
}
