// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "slices"

// QuoteMeta is the engagement document stored per quote in the remote
// metadata store.
//
// LikedBy and SavedBy are ordered most-recent-first. After every committed
// toggle LikeCount equals len(LikedBy). CommentCount only grows.
type QuoteMeta struct {
	// ID is the quote identifier the document is keyed by.
	ID string `json:"quote_id"`

	// LikeCount is derived from LikedBy on every like toggle.
	LikeCount int `json:"like_count"`

	// LikedBy holds ids of users who currently like the quote.
	LikedBy []string `json:"liked_by"`

	// CommentCount is incremented once per appended comment.
	CommentCount int `json:"comment_count"`

	// SavedBy holds ids of users who currently have the quote saved.
	SavedBy []string `json:"saved_by"`
}

// NewQuoteMeta returns the default document used whenever a quote has no
// metadata yet. It is the only place defaults are defined.
func NewQuoteMeta(quoteID string) QuoteMeta {
	return QuoteMeta{
		ID:      quoteID,
		LikedBy: []string{},
		SavedBy: []string{},
	}
}

// Clone returns a deep copy so callers can't mutate shared slices.
func (m QuoteMeta) Clone() QuoteMeta {
	c := m
	c.LikedBy = cloneMembers(m.LikedBy)
	c.SavedBy = cloneMembers(m.SavedBy)
	return c
}

// LikedByUser reports whether userID is in LikedBy.
func (m QuoteMeta) LikedByUser(userID string) bool {
	return userID != "" && slices.Contains(m.LikedBy, userID)
}

// SavedByUser reports whether userID is in SavedBy.
func (m QuoteMeta) SavedByUser(userID string) bool {
	return userID != "" && slices.Contains(m.SavedBy, userID)
}

func cloneMembers(members []string) []string {
	if members == nil {
		return []string{}
	}
	return slices.Clone(members)
}
