// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SnapshotKind separates a user's saved quotes from quotes they authored.
type SnapshotKind string

const (
	SnapshotSaved   SnapshotKind = "saved"
	SnapshotCreated SnapshotKind = "created"
)

// QuoteSnapshot is a per-user local copy of a quote's content.
//
// Saved snapshots exist while the quote is saved by the user; created
// snapshots are written once when the user publishes a quote.
type QuoteSnapshot struct {
	UserID    string       `json:"user_id"`
	QuoteID   string       `json:"quote_id"`
	Kind      SnapshotKind `json:"kind"`
	Content   string       `json:"content"`
	Author    string       `json:"author"`
	Tags      []string     `json:"tags"`
	CreatedAt time.Time    `json:"created_at"`
}

// Quote returns the snapshot content as a Quote.
func (s QuoteSnapshot) Quote() Quote {
	return Quote{
		ID:      s.QuoteID,
		Content: s.Content,
		Author:  s.Author,
		Tags:    s.Tags,
		Length:  len([]rune(s.Content)),
	}
}
