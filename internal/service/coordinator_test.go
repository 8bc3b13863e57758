// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCoordinator(repo MetadataRepository) *subscriptionCoordinator {
	return NewSubscriptionCoordinator(repo, logger.Nop()).(*subscriptionCoordinator)
}

func TestCoordinator_RequestOpensOneSubscription(t *testing.T) {
	repo := &fakeRepository{}
	c := newTestCoordinator(repo)

	require.NoError(t, c.Request("q1"))
	require.NoError(t, c.Request("q1"))

	assert.Equal(t, 1, repo.subscribeCount())
	assert.Equal(t, 1, c.ActiveSubscriptions())
	assert.Equal(t, Pending, c.State("q1"))
}

func TestCoordinator_ConcurrentRequestsOpenOneSubscription(t *testing.T) {
	repo := &fakeRepository{block: make(chan struct{})}
	c := newTestCoordinator(repo)

	const consumers = 16
	var wg sync.WaitGroup
	for range consumers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Request("q1"))
		}()
	}

	// Let the single Subscribe call return once every consumer is queued.
	time.Sleep(20 * time.Millisecond)
	close(repo.block)
	wg.Wait()

	assert.Equal(t, 1, repo.subscribeCount())
	assert.Equal(t, consumers, c.entries["q1"].consumers)
}

func TestCoordinator_GetIsLoadingUntilFirstDelivery(t *testing.T) {
	repo := &fakeRepository{}
	c := newTestCoordinator(repo)
	require.NoError(t, c.Request("q1"))

	_, ok := c.Get("q1")
	assert.False(t, ok)

	repo.deliver(0, models.QuoteMeta{ID: "q1", LikeCount: 1, LikedBy: []string{"u1"}, SavedBy: []string{}})

	got, ok := c.Get("q1")
	require.True(t, ok)
	assert.Equal(t, 1, got.LikeCount)
	assert.Equal(t, Watched, c.State("q1"))
	assert.Equal(t, []string{"q1"}, c.Watched())
}

func TestCoordinator_UpdateOverwrites(t *testing.T) {
	repo := &fakeRepository{}
	c := newTestCoordinator(repo)
	require.NoError(t, c.Request("q1"))

	repo.deliver(0, models.QuoteMeta{ID: "q1", LikeCount: 2, LikedBy: []string{"a", "b"}})
	repo.deliver(0, models.QuoteMeta{ID: "q1", LikeCount: 0, LikedBy: []string{}})

	got, ok := c.Get("q1")
	require.True(t, ok)
	assert.Equal(t, 0, got.LikeCount)
	assert.Empty(t, got.LikedBy)
}

func TestCoordinator_GetReturnsCopy(t *testing.T) {
	repo := &fakeRepository{}
	c := newTestCoordinator(repo)
	require.NoError(t, c.Request("q1"))
	repo.deliver(0, models.QuoteMeta{ID: "q1", LikedBy: []string{"u1"}})

	got, _ := c.Get("q1")
	got.LikedBy[0] = "mutated"

	again, _ := c.Get("q1")
	assert.Equal(t, []string{"u1"}, again.LikedBy)
}

func TestCoordinator_ReleaseClosesOnLastConsumer(t *testing.T) {
	repo := &fakeRepository{}
	c := newTestCoordinator(repo)
	require.NoError(t, c.Request("q1"))
	require.NoError(t, c.Request("q1"))
	repo.deliver(0, models.NewQuoteMeta("q1"))

	c.Release("q1")
	assert.Equal(t, 0, repo.sub(0).closeCount())
	assert.Equal(t, Watched, c.State("q1"))

	c.Release("q1")
	assert.Equal(t, 1, repo.sub(0).closeCount())
	assert.Equal(t, Unwatched, c.State("q1"))
	assert.Equal(t, 0, c.ActiveSubscriptions())

	_, ok := c.Get("q1")
	assert.False(t, ok)

	// Releasing an unwatched id is a no-op.
	c.Release("q1")
	assert.Equal(t, 1, repo.sub(0).closeCount())
}

func TestCoordinator_LateDeliveryOfClosedSubscriptionIsDropped(t *testing.T) {
	repo := &fakeRepository{}
	c := newTestCoordinator(repo)

	require.NoError(t, c.Request("q1"))
	c.Release("q1")
	require.NoError(t, c.Request("q1"))
	require.Equal(t, 2, repo.subscribeCount())

	repo.deliver(0, models.QuoteMeta{ID: "q1", LikeCount: 99})

	_, ok := c.Get("q1")
	assert.False(t, ok)
	assert.Equal(t, Pending, c.State("q1"))

	repo.deliver(1, models.QuoteMeta{ID: "q1", LikeCount: 1})
	got, ok := c.Get("q1")
	require.True(t, ok)
	assert.Equal(t, 1, got.LikeCount)
}

func TestCoordinator_SubscribeErrorLeavesUnwatched(t *testing.T) {
	repo := &fakeRepository{err: ErrStoreUnavailable}
	c := newTestCoordinator(repo)

	err := c.Request("q1")

	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, Unwatched, c.State("q1"))
	assert.Equal(t, 0, c.ActiveSubscriptions())
}

func TestCoordinator_ReleaseWhileSubscribingClosesNewSubscription(t *testing.T) {
	repo := &fakeRepository{block: make(chan struct{})}
	c := newTestCoordinator(repo)

	done := make(chan error, 1)
	go func() { done <- c.Request("q1") }()

	require.Eventually(t, func() bool { return c.State("q1") == Pending }, time.Second, time.Millisecond)
	c.Release("q1")
	close(repo.block)

	require.NoError(t, <-done)
	assert.Equal(t, 1, repo.sub(0).closeCount())
	assert.Equal(t, Unwatched, c.State("q1"))
}

func TestCoordinator_RequestAfterReleaseWaitsForPendingSubscribe(t *testing.T) {
	repo := &fakeRepository{block: make(chan struct{})}
	c := newTestCoordinator(repo)

	first := make(chan error, 1)
	go func() { first <- c.Request("q1") }()
	require.Eventually(t, func() bool { return c.State("q1") == Pending }, time.Second, time.Millisecond)
	c.Release("q1")

	second := make(chan error, 1)
	go func() { second <- c.Request("q1") }()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, Unwatched, c.State("q1"))

	close(repo.block)
	require.NoError(t, <-first)
	require.NoError(t, <-second)

	assert.Equal(t, 2, repo.subscribeCount())
	assert.Equal(t, 1, repo.maxOpenSubscriptions())
	assert.Equal(t, 1, repo.sub(0).closeCount())
	assert.Equal(t, 0, repo.sub(1).closeCount())
	assert.Equal(t, 1, c.ActiveSubscriptions())
	assert.Equal(t, Pending, c.State("q1"))
}

func TestCoordinator_JoinedConsumerSeesSubscribeError(t *testing.T) {
	repo := &fakeRepository{block: make(chan struct{}), err: ErrStoreUnavailable}
	c := newTestCoordinator(repo)

	errs := make(chan error, 2)
	for range 2 {
		go func() { errs <- c.Request("q1") }()
	}
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		e, ok := c.entries["q1"]
		return ok && e.consumers == 2
	}, time.Second, time.Millisecond)

	close(repo.block)
	for range 2 {
		assert.ErrorIs(t, <-errs, ErrStoreUnavailable)
	}
	assert.Equal(t, Unwatched, c.State("q1"))
	assert.Equal(t, 0, c.ActiveSubscriptions())
}

func TestCoordinator_RejectsEmptyQuoteID(t *testing.T) {
	c := newTestCoordinator(&fakeRepository{})

	require.ErrorIs(t, c.Request(""), ErrValidation)
}

func TestCoordinator_Notifier(t *testing.T) {
	repo := &fakeRepository{}
	c := newTestCoordinator(repo)

	var got []string
	c.SetNotifier(func(quoteID string, meta models.QuoteMeta) {
		got = append(got, quoteID)
	})

	require.NoError(t, c.Request("q1"))
	require.NoError(t, c.Request("q2"))
	repo.deliver(1, models.NewQuoteMeta("q2"))
	repo.deliver(0, models.NewQuoteMeta("q1"))

	assert.Equal(t, []string{"q2", "q1"}, got)
}

func TestCoordinator_Close(t *testing.T) {
	repo := &fakeRepository{}
	c := newTestCoordinator(repo)
	require.NoError(t, c.Request("q1"))
	require.NoError(t, c.Request("q2"))

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	assert.Equal(t, 1, repo.sub(0).closeCount())
	assert.Equal(t, 1, repo.sub(1).closeCount())
	assert.Equal(t, 0, c.ActiveSubscriptions())
	assert.ErrorIs(t, c.Request("q3"), ErrCoordinatorClosed)
}

func TestCoordinator_WithMemoryStore(t *testing.T) {
	ctx := testContext()
	repo, _ := newMemoryRepository(t)
	c := newTestCoordinator(repo)
	defer func() { _ = c.Close() }()

	require.NoError(t, c.Request("q1"))
	require.Eventually(t, func() bool {
		_, ok := c.Get("q1")
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	meta, _ := c.Get("q1")
	assert.Equal(t, models.NewQuoteMeta("q1"), meta)

	_, err := repo.ToggleLike(ctx, "q1", "u1")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		meta, ok := c.Get("q1")
		return ok && meta.LikeCount == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestWatchState_String(t *testing.T) {
	assert.Equal(t, "unwatched", Unwatched.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "watched", Watched.String())
}
