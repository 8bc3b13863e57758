// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"testing"

	"github.com/MKhiriev/go-quote-keeper/models"
	"github.com/stretchr/testify/assert"
)

func TestToggleMember(t *testing.T) {
	tests := []struct {
		name       string
		members    []string
		userID     string
		want       []string
		wantMember bool
	}{
		{name: "insert into empty", members: []string{}, userID: "u1", want: []string{"u1"}, wantMember: true},
		{name: "insert into nil", members: nil, userID: "u1", want: []string{"u1"}, wantMember: true},
		{name: "prepend most recent", members: []string{"u1"}, userID: "u2", want: []string{"u2", "u1"}, wantMember: true},
		{name: "remove only member", members: []string{"u1"}, userID: "u1", want: []string{}, wantMember: false},
		{name: "remove keeps order", members: []string{"u3", "u2", "u1"}, userID: "u2", want: []string{"u3", "u1"}, wantMember: false},
		{name: "remove duplicates", members: []string{"u1", "u2", "u1"}, userID: "u1", want: []string{"u2"}, wantMember: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, member := toggleMember(tt.members, tt.userID)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMember, member)
		})
	}
}

func TestToggleMember_DoesNotAliasInput(t *testing.T) {
	members := []string{"u1", "u2"}

	_, _ = toggleMember(members, "u1")

	assert.Equal(t, []string{"u1", "u2"}, members)
}

func TestApplyToggle_FlipFlip(t *testing.T) {
	start := models.QuoteMeta{
		ID:           "q1",
		LikeCount:    2,
		LikedBy:      []string{"u2", "u3"},
		CommentCount: 7,
		SavedBy:      []string{"u3"},
	}

	for _, field := range []toggleField{likeField, saveField} {
		for _, user := range []string{"u1", "u2", "u3"} {
			once, _ := applyToggle(start, field, user)
			twice, _ := applyToggle(once, field, user)

			assert.ElementsMatch(t, start.LikedBy, twice.LikedBy, "%s/%s", field, user)
			assert.ElementsMatch(t, start.SavedBy, twice.SavedBy, "%s/%s", field, user)
			assert.Equal(t, start.LikeCount, twice.LikeCount, "%s/%s", field, user)
			assert.Equal(t, start.CommentCount, twice.CommentCount, "%s/%s", field, user)
		}
	}
}

func TestApplyToggle_LikeCountTracksLikedBy(t *testing.T) {
	meta := models.NewQuoteMeta("q1")
	users := []string{"u1", "u2", "u1", "u3", "u2", "u2", "u4"}

	for _, user := range users {
		meta, _ = applyToggle(meta, likeField, user)
		assert.Equal(t, len(meta.LikedBy), meta.LikeCount)
	}
	assert.Equal(t, []string{"u4", "u2", "u3"}, meta.LikedBy)
}

func TestApplyToggle_SaveLeavesLikesAlone(t *testing.T) {
	meta := models.QuoteMeta{ID: "q1", LikeCount: 1, LikedBy: []string{"u9"}, CommentCount: 3}

	got, saved := applyToggle(meta, saveField, "u1")

	assert.True(t, saved)
	assert.Equal(t, []string{"u1"}, got.SavedBy)
	assert.Equal(t, 1, got.LikeCount)
	assert.Equal(t, []string{"u9"}, got.LikedBy)
	assert.Equal(t, 3, got.CommentCount)
}

func TestToggleField_String(t *testing.T) {
	assert.Equal(t, "like", likeField.String())
	assert.Equal(t, "save", saveField.String())
}
