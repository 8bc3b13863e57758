// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// DefaultCommentUsername is stored when the author has no display name.
const DefaultCommentUsername = "Unknown"

// Comment is an immutable entry of a quote's comments sub-collection.
// ID and CreatedAt are assigned by the store.
type Comment struct {
	ID        string    `json:"id"`
	QuoteID   string    `json:"quote_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentRequest carries a comment to be appended to a quote.
//
// Text is trimmed before validation, so whitespace-only text is rejected.
type CommentRequest struct {
	QuoteID  string `json:"quote_id" validate:"required,max=256"`
	UserID   string `json:"user_id" validate:"required"`
	Username string `json:"username" validate:"max=64"`
	Text     string `json:"text" validate:"required,max=2000"`
}
