// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable wraps every failure to reach the metadata store,
	// including transactions that kept conflicting after all retries.
	ErrStoreUnavailable = errors.New("metadata store unavailable")
	// ErrValidation is returned for invalid input before any remote call.
	ErrValidation = errors.New("validation error")
	// ErrNotAuthenticated is returned when a guest toggles or comments.
	// Errors carrying it also match ErrValidation.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrCommentCountNotUpdated means the comment was persisted but the
	// counter increment failed. The counter under-counts until the next
	// reconciliation.
	ErrCommentCountNotUpdated = errors.New("comment saved but comment count not updated")

	ErrInvalidToken       = errors.New("invalid identity token")
	ErrCoordinatorClosed  = errors.New("subscription coordinator is closed")
	ErrSnapshotNotUpdated = errors.New("error updating local quote snapshot")
)

// errGuest is the rejection of an operation that requires a signed-in user.
var errGuest = fmt.Errorf("%w: %w: user id is empty", ErrNotAuthenticated, ErrValidation)
