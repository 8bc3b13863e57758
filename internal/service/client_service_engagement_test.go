// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/mock"
	"github.com/MKhiriev/go-quote-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// staticAuth is a ClientAuthService with a fixed session.
type staticAuth struct {
	ClientAuthService
	user *models.User
}

func (a staticAuth) CurrentUser() (models.User, bool) {
	if a.user == nil {
		return models.User{}, false
	}
	return *a.user, true
}

var (
	alice       = models.User{ID: "u1", Username: "Alice"}
	fixedNow    = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	someQuote   = models.Quote{ID: "q1", Content: "Stay hungry.", Author: "Steve Jobs", Tags: []string{"life"}}
	errDiskFull = errors.New("disk full")
)

func newTestEngagement(t *testing.T, user *models.User) (*engagementService, *mock.MockSnapshotRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	snapshots := mock.NewMockSnapshotRepository(ctrl)
	repo, _ := newMemoryRepository(t)
	coordinator := NewSubscriptionCoordinator(repo, logger.Nop())
	t.Cleanup(func() { _ = coordinator.Close() })

	svc := NewEngagementService(repo, coordinator, staticAuth{user: user}, snapshots, logger.Nop()).(*engagementService)
	svc.now = func() time.Time { return fixedNow }
	return svc, snapshots
}

func TestEngagementService_GuestRejected(t *testing.T) {
	svc, _ := newTestEngagement(t, nil)
	ctx := testContext()

	_, err := svc.ToggleLike(ctx, "q1")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.ToggleSave(ctx, someQuote)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.AddComment(ctx, "q1", "hello")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestEngagementService_ToggleLikeUsesCurrentUser(t *testing.T) {
	svc, _ := newTestEngagement(t, &alice)
	ctx := testContext()

	liked, err := svc.ToggleLike(ctx, "q1")
	require.NoError(t, err)
	assert.True(t, liked)

	meta, err := svc.repository.FetchOnce(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, meta.LikedBy)
}

func TestEngagementService_ToggleSaveKeepsSnapshot(t *testing.T) {
	svc, snapshots := newTestEngagement(t, &alice)
	ctx := testContext()

	gomock.InOrder(
		snapshots.EXPECT().SaveSnapshot(gomock.Any(), models.QuoteSnapshot{
			UserID:    "u1",
			QuoteID:   "q1",
			Kind:      models.SnapshotSaved,
			Content:   "Stay hungry.",
			Author:    "Steve Jobs",
			Tags:      []string{"life"},
			CreatedAt: fixedNow,
		}).Return(nil),
		snapshots.EXPECT().DeleteSnapshot(gomock.Any(), "u1", models.SnapshotSaved, "q1").Return(nil),
	)

	saved, err := svc.ToggleSave(ctx, someQuote)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = svc.ToggleSave(ctx, someQuote)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestEngagementService_ToggleSaveSnapshotFailure(t *testing.T) {
	svc, snapshots := newTestEngagement(t, &alice)
	snapshots.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(errDiskFull)

	saved, err := svc.ToggleSave(testContext(), someQuote)

	require.ErrorIs(t, err, ErrSnapshotNotUpdated)
	assert.True(t, saved)
}

func TestEngagementService_CommentsAndWatch(t *testing.T) {
	svc, _ := newTestEngagement(t, &alice)
	ctx := testContext()

	require.NoError(t, svc.Watch("q1"))
	defer svc.Unwatch("q1")

	comment, err := svc.AddComment(ctx, "q1", "Great quote")
	require.NoError(t, err)
	assert.Equal(t, "Alice", comment.Username)

	comments, err := svc.Comments(ctx, "q1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, comment.ID, comments[0].ID)

	require.Eventually(t, func() bool {
		meta, ok := svc.Meta("q1")
		return ok && meta.CommentCount == 1
	}, 2*time.Second, 5*time.Millisecond)
}
