// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/service"
	"github.com/MKhiriev/go-quote-keeper/internal/utils"
)

// errorStatuses is checked in order. A guest rejection matches both
// ErrNotAuthenticated and ErrValidation and must map to 401.
var errorStatuses = []struct {
	target error
	status int
}{
	{service.ErrNotAuthenticated, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},
	{ErrEmptyAuthorizationHeader, http.StatusUnauthorized},
	{ErrInvalidAuthorizationHeader, http.StatusUnauthorized},
	{service.ErrValidation, http.StatusBadRequest},
	{ErrInvalidJSON, http.StatusBadRequest},
	{service.ErrStoreUnavailable, http.StatusServiceUnavailable},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError logs err and answers with its mapped status. Internal errors are
// not echoed to the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)

	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Warn().Err(err).Int("status", status).Msg("request rejected")
	}

	msg := http.StatusText(status)
	if status < http.StatusInternalServerError {
		msg = err.Error()
	}
	_, _ = utils.WriteJSON(w, errorResponse{Error: msg}, status)
}
