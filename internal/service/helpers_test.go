// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/store"
	"github.com/MKhiriev/go-quote-keeper/models"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return logger.Nop().WithContext(context.Background())
}

// newMemoryRepository counts comments for reconciliation as soon as they
// are stored.
func newMemoryRepository(t *testing.T) (MetadataRepository, store.MetadataStore) {
	t.Helper()
	s := store.NewMemoryMetadataStore(logger.Nop())
	t.Cleanup(func() { _ = s.Close() })
	repo := NewMetadataRepository(s, nil, logger.Nop()).(*metadataRepository)
	repo.commentSettle = 0
	return repo, s
}

// deliveries collects subscription deliveries.
type deliveries struct {
	mu    sync.Mutex
	items []models.QuoteMeta
}

func (d *deliveries) add(meta models.QuoteMeta) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = append(d.items, meta)
}

func (d *deliveries) last() (models.QuoteMeta, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.items) == 0 {
		return models.QuoteMeta{}, false
	}
	return d.items[len(d.items)-1], true
}

func (d *deliveries) waitFor(t *testing.T, cond func(models.QuoteMeta) bool) models.QuoteMeta {
	t.Helper()
	var got models.QuoteMeta
	require.Eventually(t, func() bool {
		meta, ok := d.last()
		if ok && cond(meta) {
			got = meta
			return true
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)
	return got
}

// fakeSubscription counts Close calls.
type fakeSubscription struct {
	mu     sync.Mutex
	closes int
}

func (s *fakeSubscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

func (s *fakeSubscription) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// fakeRepository records Subscribe calls and lets tests deliver by hand.
// Only Subscribe is implemented.
type fakeRepository struct {
	MetadataRepository

	mu        sync.Mutex
	err       error
	block     chan struct{}
	callbacks []func(models.QuoteMeta)
	subs      []*fakeSubscription
	// maxOpen is the highest number of unclosed subscriptions seen by a
	// Subscribe call.
	maxOpen int
}

func (f *fakeRepository) Subscribe(_ string, onChange func(models.QuoteMeta)) (store.Subscription, error) {
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	sub := &fakeSubscription{}
	f.callbacks = append(f.callbacks, onChange)
	f.subs = append(f.subs, sub)

	open := 0
	for _, s := range f.subs {
		if s.closeCount() == 0 {
			open++
		}
	}
	f.maxOpen = max(f.maxOpen, open)
	return sub, nil
}

func (f *fakeRepository) maxOpenSubscriptions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxOpen
}

func (f *fakeRepository) subscribeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *fakeRepository) deliver(i int, meta models.QuoteMeta) {
	f.mu.Lock()
	cb := f.callbacks[i]
	f.mu.Unlock()
	cb(meta)
}

func (f *fakeRepository) sub(i int) *fakeSubscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs[i]
}
