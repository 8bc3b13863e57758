// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Quote is a discovery or user-created quote.
type Quote struct {
	ID      string   `json:"_id"`
	Content string   `json:"content"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
	Length  int      `json:"length"`
}

// Tag is a discovery category.
type Tag struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// SearchParams filters a discovery search. Zero values are omitted from the
// outgoing request.
type SearchParams struct {
	Query     string
	Tag       string
	Author    string
	MinLength int
	MaxLength int
	Limit     int
}
