// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"slices"

	"github.com/MKhiriev/go-quote-keeper/internal/metrics"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// toggleField selects the member set a toggle flips.
type toggleField int

const (
	likeField toggleField = iota
	saveField
)

func (f toggleField) String() string {
	if f == likeField {
		return metrics.ToggleLike
	}
	return metrics.ToggleSave
}

// toggleMember removes userID from members if present, otherwise puts it in
// front. It returns a new slice and whether userID is a member afterwards.
func toggleMember(members []string, userID string) ([]string, bool) {
	if slices.Contains(members, userID) {
		return slices.DeleteFunc(slices.Clone(members), func(m string) bool {
			return m == userID
		}), false
	}

	out := make([]string, 0, len(members)+1)
	out = append(out, userID)
	return append(out, members...), true
}

// applyToggle flips userID in the set selected by field. LikeCount is
// rederived from LikedBy; every other field is carried over.
func applyToggle(meta models.QuoteMeta, field toggleField, userID string) (models.QuoteMeta, bool) {
	meta = meta.Clone()

	var member bool
	switch field {
	case likeField:
		meta.LikedBy, member = toggleMember(meta.LikedBy, userID)
		meta.LikeCount = len(meta.LikedBy)
	case saveField:
		meta.SavedBy, member = toggleMember(meta.SavedBy, userID)
	}

	return meta, member
}
