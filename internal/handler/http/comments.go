// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/service"
	"github.com/MKhiriev/go-quote-keeper/internal/utils"
	"github.com/MKhiriev/go-quote-keeper/models"
	"github.com/go-chi/chi/v5"
)

type addCommentRequest struct {
	Text string `json:"text"`
}

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	quoteID := chi.URLParam(r, "quoteID")

	limit, err := commentsLimit(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	comments, err := h.services.MetadataRepository.ListComments(r.Context(), quoteID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	_, _ = utils.WriteJSON(w, comments, http.StatusOK)
}

// addComment answers 201 whenever the comment was persisted, including when
// the counter increment failed afterwards.
func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	quoteID := chi.URLParam(r, "quoteID")
	user, _ := utils.GetUserFromContext(ctx)

	var body addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	comment, err := h.services.MetadataRepository.AddComment(ctx, models.CommentRequest{
		QuoteID:  quoteID,
		UserID:   user.ID,
		Username: user.Username,
		Text:     body.Text,
	})
	if err != nil {
		if !errors.Is(err, service.ErrCommentCountNotUpdated) {
			writeError(w, r, err)
			return
		}
		log.Warn().Err(err).Str("quote_id", quoteID).Str("comment_id", comment.ID).
			Msg("comment stored but comment count was not incremented")
	}

	_, _ = utils.WriteJSON(w, comment, http.StatusCreated)
}

func commentsLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultCommentsLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", service.ErrValidation)
	}
	return min(limit, maxCommentsLimit), nil
}
