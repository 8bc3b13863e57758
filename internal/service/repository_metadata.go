// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/metrics"
	"github.com/MKhiriev/go-quote-keeper/internal/store"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// metadataRepository is the concrete implementation of MetadataRepository
// over a store.MetadataStore.
type metadataRepository struct {
	store   store.MetadataStore
	metrics *metrics.Metrics
	logger  *logger.Logger

	// commentSettle is the age a comment needs before reconciliation counts
	// it. It must exceed the time between a comment insert and its counter
	// increment.
	commentSettle time.Duration
}

const defaultCommentSettle = time.Minute

// NewMetadataRepository wires a repository to metadataStore. m may be nil.
func NewMetadataRepository(metadataStore store.MetadataStore, m *metrics.Metrics, logger *logger.Logger) MetadataRepository {
	return &metadataRepository{
		store:         metadataStore,
		metrics:       m,
		logger:        logger,
		commentSettle: defaultCommentSettle,
	}
}

// FetchOnce implements MetadataRepository.
func (r *metadataRepository) FetchOnce(ctx context.Context, quoteID string) (models.QuoteMeta, error) {
	log := logger.FromContext(ctx)

	if err := validateQuoteID(quoteID); err != nil {
		return models.QuoteMeta{}, err
	}

	meta, exists, err := r.store.GetMeta(ctx, quoteID)
	if err != nil {
		log.Err(err).Str("func", "metadataRepository.FetchOnce").
			Str("quote_id", quoteID).
			Msg("error reading quote metadata")
		return models.QuoteMeta{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return normalizeMeta(quoteID, meta, exists), nil
}

// Subscribe implements MetadataRepository.
func (r *metadataRepository) Subscribe(quoteID string, onChange func(meta models.QuoteMeta)) (store.Subscription, error) {
	if err := validateQuoteID(quoteID); err != nil {
		return nil, err
	}

	sub, err := r.store.Watch(quoteID, func(meta models.QuoteMeta, exists bool) {
		onChange(normalizeMeta(quoteID, meta, exists))
	})
	if err != nil {
		r.logger.Err(err).Str("func", "metadataRepository.Subscribe").
			Str("quote_id", quoteID).
			Msg("error opening quote metadata subscription")
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	r.metrics.SubscriptionOpened()
	r.logger.Debug().Str("func", "metadataRepository.Subscribe").
		Str("quote_id", quoteID).
		Msg("subscription opened")

	return &meteredSubscription{Subscription: sub, metrics: r.metrics}, nil
}

// ToggleLike implements MetadataRepository.
func (r *metadataRepository) ToggleLike(ctx context.Context, quoteID, userID string) (bool, error) {
	return r.toggle(ctx, likeField, quoteID, userID)
}

// ToggleSave implements MetadataRepository.
func (r *metadataRepository) ToggleSave(ctx context.Context, quoteID, userID string) (bool, error) {
	return r.toggle(ctx, saveField, quoteID, userID)
}

// toggle runs the flip of userID in field as one store transaction. The
// store re-runs the body on conflicts, so the body only computes from what
// it reads.
func (r *metadataRepository) toggle(ctx context.Context, field toggleField, quoteID, userID string) (bool, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		log.Warn().Str("func", "metadataRepository.toggle").
			Str("quote_id", quoteID).
			Str("field", field.String()).
			Msg("guest toggle rejected")
		return false, errGuest
	}
	if err := validateQuoteID(quoteID); err != nil {
		return false, err
	}

	var member bool
	err := r.store.RunTransaction(ctx, quoteID, func(ctx context.Context, tx store.MetaTx) error {
		meta, exists, err := tx.Get(ctx)
		if err != nil {
			return err
		}

		var updated models.QuoteMeta
		updated, member = applyToggle(normalizeMeta(quoteID, meta, exists), field, userID)

		return tx.Set(ctx, updated)
	})
	r.metrics.ObserveToggle(field.String(), err)
	if err != nil {
		log.Err(err).Str("func", "metadataRepository.toggle").
			Str("quote_id", quoteID).
			Str("user_id", userID).
			Str("field", field.String()).
			Msg("toggle transaction failed")
		return false, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	log.Debug().Str("func", "metadataRepository.toggle").
		Str("quote_id", quoteID).
		Str("user_id", userID).
		Str("field", field.String()).
		Bool("member", member).
		Msg("toggle committed")

	return member, nil
}

// AddComment implements MetadataRepository.
//
// The comment row is inserted first and the counter incremented second. If
// the increment fails the persisted comment is returned together with an
// error matching both ErrCommentCountNotUpdated and ErrStoreUnavailable.
func (r *metadataRepository) AddComment(ctx context.Context, req models.CommentRequest) (models.Comment, error) {
	log := logger.FromContext(ctx)

	if req.UserID == "" {
		log.Warn().Str("func", "metadataRepository.AddComment").
			Str("quote_id", req.QuoteID).
			Msg("guest comment rejected")
		return models.Comment{}, errGuest
	}

	req.Text = strings.TrimSpace(req.Text)
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		req.Username = models.DefaultCommentUsername
	}
	if err := validateStruct(req); err != nil {
		return models.Comment{}, err
	}

	comment, err := r.store.InsertComment(ctx, models.Comment{
		QuoteID:  req.QuoteID,
		UserID:   req.UserID,
		Username: req.Username,
		Text:     req.Text,
	})
	if err != nil {
		r.metrics.ObserveComment(err)
		log.Err(err).Str("func", "metadataRepository.AddComment").
			Str("quote_id", req.QuoteID).
			Str("user_id", req.UserID).
			Msg("error inserting comment")
		return models.Comment{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if err = r.store.IncrementCommentCount(ctx, req.QuoteID); err != nil {
		r.metrics.ObserveComment(err)
		log.Err(err).Str("func", "metadataRepository.AddComment").
			Str("quote_id", req.QuoteID).
			Str("comment_id", comment.ID).
			Msg("comment persisted but comment count increment failed, counter drifted")
		return comment, fmt.Errorf("%w: %w: %w", ErrCommentCountNotUpdated, ErrStoreUnavailable, err)
	}

	r.metrics.ObserveComment(nil)
	log.Debug().Str("func", "metadataRepository.AddComment").
		Str("quote_id", req.QuoteID).
		Str("comment_id", comment.ID).
		Msg("comment added")

	return comment, nil
}

// ListComments implements MetadataRepository.
func (r *metadataRepository) ListComments(ctx context.Context, quoteID string, limit int) ([]models.Comment, error) {
	if err := validateQuoteID(quoteID); err != nil {
		return nil, err
	}

	comments, err := r.store.ListComments(ctx, quoteID, limit)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "metadataRepository.ListComments").
			Str("quote_id", quoteID).
			Msg("error listing comments")
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return comments, nil
}

// ReconcileCommentCount implements MetadataRepository.
func (r *metadataRepository) ReconcileCommentCount(ctx context.Context, quoteID string) (bool, error) {
	log := logger.FromContext(ctx)

	if err := validateQuoteID(quoteID); err != nil {
		return false, err
	}

	persisted, err := r.store.CountComments(ctx, quoteID, r.commentSettle)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	var raisedFrom int
	changed := false
	err = r.store.RunTransaction(ctx, quoteID, func(ctx context.Context, tx store.MetaTx) error {
		changed = false

		meta, exists, err := tx.Get(ctx)
		if err != nil {
			return err
		}
		meta = normalizeMeta(quoteID, meta, exists)
		if meta.CommentCount >= persisted {
			return nil
		}

		raisedFrom = meta.CommentCount
		changed = true
		meta.CommentCount = persisted
		return tx.Set(ctx, meta)
	})
	if err != nil {
		log.Err(err).Str("func", "metadataRepository.ReconcileCommentCount").
			Str("quote_id", quoteID).
			Msg("comment count reconciliation failed")
		return false, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if changed {
		r.metrics.CommentCountReconciled()
		log.Info().Str("func", "metadataRepository.ReconcileCommentCount").
			Str("quote_id", quoteID).
			Int("from", raisedFrom).
			Int("to", persisted).
			Msg("comment count raised to persisted comments")
	}

	return changed, nil
}

// normalizeMeta maps an absent document to the default and guarantees the id
// and non-nil member sets.
func normalizeMeta(quoteID string, meta models.QuoteMeta, exists bool) models.QuoteMeta {
	if !exists {
		return models.NewQuoteMeta(quoteID)
	}
	meta = meta.Clone()
	meta.ID = quoteID
	return meta
}

func validateQuoteID(quoteID string) error {
	if strings.TrimSpace(quoteID) == "" {
		return fmt.Errorf("%w: quote_id is required", ErrValidation)
	}
	if len(quoteID) > maxQuoteIDLength {
		return fmt.Errorf("%w: quote_id must be at most %d characters", ErrValidation, maxQuoteIDLength)
	}
	return nil
}

const maxQuoteIDLength = 256

// meteredSubscription reports the close of a subscription once.
type meteredSubscription struct {
	store.Subscription

	metrics *metrics.Metrics
	once    sync.Once
}

func (s *meteredSubscription) Close() error {
	err := s.Subscription.Close()
	s.once.Do(s.metrics.SubscriptionClosed)
	return err
}
