// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/utils"
	"github.com/go-chi/chi/v5"
)

type toggleResponse struct {
	QuoteID string `json:"quote_id"`
	Liked   *bool  `json:"liked,omitempty"`
	Saved   *bool  `json:"saved,omitempty"`
}

func (h *Handler) getMeta(w http.ResponseWriter, r *http.Request) {
	quoteID := chi.URLParam(r, "quoteID")

	meta, err := h.services.MetadataRepository.FetchOnce(r.Context(), quoteID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, meta, http.StatusOK)
}

func (h *Handler) toggleLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	quoteID := chi.URLParam(r, "quoteID")
	userID, _ := utils.GetUserIDFromContext(ctx)

	liked, err := h.services.MetadataRepository.ToggleLike(ctx, quoteID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Debug().Str("quote_id", quoteID).Str("user_id", userID).Bool("liked", liked).Msg("like toggled")
	_, _ = utils.WriteJSON(w, toggleResponse{QuoteID: quoteID, Liked: &liked}, http.StatusOK)
}

func (h *Handler) toggleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	quoteID := chi.URLParam(r, "quoteID")
	userID, _ := utils.GetUserIDFromContext(ctx)

	saved, err := h.services.MetadataRepository.ToggleSave(ctx, quoteID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Debug().Str("quote_id", quoteID).Str("user_id", userID).Bool("saved", saved).Msg("save toggled")
	_, _ = utils.WriteJSON(w, toggleResponse{QuoteID: quoteID, Saved: &saved}, http.StatusOK)
}
