// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/store"
	"github.com/MKhiriev/go-quote-keeper/models"
)

const defaultCommentsLimit = 50

type engagementService struct {
	repository  MetadataRepository
	coordinator SubscriptionCoordinator
	auth        ClientAuthService
	snapshots   store.SnapshotRepository
	now         func() time.Time

	logger *logger.Logger
}

// NewEngagementService binds repository and coordinator to the session
// kept by auth. Saved quote snapshots are written to snapshots.
func NewEngagementService(
	repository MetadataRepository,
	coordinator SubscriptionCoordinator,
	auth ClientAuthService,
	snapshots store.SnapshotRepository,
	logger *logger.Logger,
) EngagementService {
	return &engagementService{
		repository:  repository,
		coordinator: coordinator,
		auth:        auth,
		snapshots:   snapshots,
		now:         time.Now,
		logger:      logger,
	}
}

func (s *engagementService) Watch(quoteID string) error {
	return s.coordinator.Request(quoteID)
}

func (s *engagementService) Unwatch(quoteID string) {
	s.coordinator.Release(quoteID)
}

func (s *engagementService) Meta(quoteID string) (models.QuoteMeta, bool) {
	return s.coordinator.Get(quoteID)
}

func (s *engagementService) ToggleLike(ctx context.Context, quoteID string) (bool, error) {
	user, ok := s.auth.CurrentUser()
	if !ok {
		return false, errGuest
	}
	return s.repository.ToggleLike(ctx, quoteID, user.ID)
}

// ToggleSave flips the save and then writes or deletes the saved snapshot.
// A snapshot failure is reported after the toggle has committed.
func (s *engagementService) ToggleSave(ctx context.Context, quote models.Quote) (bool, error) {
	log := logger.FromContext(ctx)

	user, ok := s.auth.CurrentUser()
	if !ok {
		return false, errGuest
	}

	saved, err := s.repository.ToggleSave(ctx, quote.ID, user.ID)
	if err != nil {
		return false, err
	}

	if saved {
		err = s.snapshots.SaveSnapshot(ctx, models.QuoteSnapshot{
			UserID:    user.ID,
			QuoteID:   quote.ID,
			Kind:      models.SnapshotSaved,
			Content:   quote.Content,
			Author:    quote.Author,
			Tags:      quote.Tags,
			CreatedAt: s.now().UTC(),
		})
	} else {
		err = s.snapshots.DeleteSnapshot(ctx, user.ID, models.SnapshotSaved, quote.ID)
	}
	if err != nil {
		log.Err(err).Str("func", "engagementService.ToggleSave").
			Str("quote_id", quote.ID).
			Str("user_id", user.ID).
			Bool("saved", saved).
			Msg("save toggled but snapshot not updated")
		return saved, fmt.Errorf("%w: %w", ErrSnapshotNotUpdated, err)
	}

	return saved, nil
}

func (s *engagementService) AddComment(ctx context.Context, quoteID, text string) (models.Comment, error) {
	user, ok := s.auth.CurrentUser()
	if !ok {
		return models.Comment{}, errGuest
	}

	return s.repository.AddComment(ctx, models.CommentRequest{
		QuoteID:  quoteID,
		UserID:   user.ID,
		Username: user.Username,
		Text:     text,
	})
}

func (s *engagementService) Comments(ctx context.Context, quoteID string) ([]models.Comment, error) {
	return s.repository.ListComments(ctx, quoteID, defaultCommentsLimit)
}
