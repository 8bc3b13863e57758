// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/store"
	"github.com/MKhiriev/go-quote-keeper/models"
)

// WatchState is the lifecycle state of one quote id in the coordinator.
type WatchState int

const (
	// Unwatched: no cache entry, no subscription.
	Unwatched WatchState = iota
	// Pending: a subscription is open or opening, nothing delivered yet.
	Pending
	// Watched: the cache entry holds the last delivered metadata.
	Watched
)

func (s WatchState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Watched:
		return "watched"
	default:
		return "unwatched"
	}
}

// watchEntry is the cache entry of one quote id.
type watchEntry struct {
	state     WatchState
	consumers int
	// generation tells deliveries of this entry's subscription apart from
	// late deliveries of a subscription already closed for the same id.
	generation uint64
	sub        store.Subscription
	meta       models.QuoteMeta

	// opened is closed once Subscribe returned; openErr is its error.
	opened  chan struct{}
	openErr error
}

type subscriptionCoordinator struct {
	repository MetadataRepository
	logger     *logger.Logger

	mu      sync.Mutex
	entries map[string]*watchEntry
	// opening holds ids whose Subscribe call has not returned yet, including
	// entries released meanwhile.
	opening        map[string]*watchEntry
	lastGeneration uint64
	notify         UpdateNotifier
	closed         bool
}

// NewSubscriptionCoordinator returns a coordinator with an empty cache.
func NewSubscriptionCoordinator(repository MetadataRepository, logger *logger.Logger) SubscriptionCoordinator {
	return &subscriptionCoordinator{
		repository: repository,
		logger:     logger,
		entries:    make(map[string]*watchEntry),
		opening:    make(map[string]*watchEntry),
	}
}

// Request implements SubscriptionCoordinator.
func (c *subscriptionCoordinator) Request(quoteID string) error {
	if err := validateQuoteID(quoteID); err != nil {
		return err
	}

	entry, joined, err := c.acquire(quoteID)
	if err != nil {
		return err
	}
	if joined {
		<-entry.opened
		if entry.openErr != nil {
			return fmt.Errorf("error subscribing to quote metadata: %w", entry.openErr)
		}
		return nil
	}

	generation := entry.generation
	sub, err := c.repository.Subscribe(quoteID, func(meta models.QuoteMeta) {
		c.onUpdate(quoteID, generation, meta)
	})

	c.mu.Lock()
	released := c.entries[quoteID] != entry
	switch {
	case err != nil && !released:
		delete(c.entries, quoteID)
	case err == nil && !released:
		entry.sub = sub
	}
	c.mu.Unlock()

	var closeErr error
	if err == nil && released {
		closeErr = sub.Close()
	}

	c.mu.Lock()
	delete(c.opening, quoteID)
	c.mu.Unlock()
	entry.openErr = err
	close(entry.opened)

	if err != nil {
		return fmt.Errorf("error subscribing to quote metadata: %w", err)
	}
	if released {
		return closeErr
	}

	c.logger.Debug().Str("func", "subscriptionCoordinator.Request").
		Str("quote_id", quoteID).
		Msg("quote metadata requested")
	return nil
}

// acquire joins the live entry of quoteID or creates a Pending one. When the
// subscription of a released entry is still being opened it waits for that
// call to finish first, so the id never has two subscriptions.
func (c *subscriptionCoordinator) acquire(quoteID string) (entry *watchEntry, joined bool, err error) {
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return nil, false, ErrCoordinatorClosed
		}
		if e, ok := c.entries[quoteID]; ok {
			e.consumers++
			c.mu.Unlock()
			return e, true, nil
		}
		if stale, ok := c.opening[quoteID]; ok {
			c.mu.Unlock()
			<-stale.opened
			continue
		}

		c.lastGeneration++
		entry = &watchEntry{
			state:      Pending,
			consumers:  1,
			generation: c.lastGeneration,
			opened:     make(chan struct{}),
		}
		c.entries[quoteID] = entry
		c.opening[quoteID] = entry
		c.mu.Unlock()
		return entry, false, nil
	}
}

// onUpdate overwrites the cache entry with meta unless the delivery belongs
// to a closed subscription.
func (c *subscriptionCoordinator) onUpdate(quoteID string, generation uint64, meta models.QuoteMeta) {
	c.mu.Lock()
	entry, ok := c.entries[quoteID]
	if !ok || entry.generation != generation {
		c.mu.Unlock()
		c.logger.Debug().Str("func", "subscriptionCoordinator.onUpdate").
			Str("quote_id", quoteID).
			Msg("dropping delivery of closed subscription")
		return
	}
	entry.meta = meta.Clone()
	entry.state = Watched
	notify := c.notify
	c.mu.Unlock()

	if notify != nil {
		notify(quoteID, meta.Clone())
	}
}

// Release implements SubscriptionCoordinator.
func (c *subscriptionCoordinator) Release(quoteID string) {
	c.mu.Lock()
	entry, ok := c.entries[quoteID]
	if !ok {
		c.mu.Unlock()
		return
	}
	entry.consumers--
	if entry.consumers > 0 {
		c.mu.Unlock()
		return
	}
	delete(c.entries, quoteID)
	sub := entry.sub
	c.mu.Unlock()

	// A nil sub is still being opened; Request closes it.
	if sub != nil {
		if err := sub.Close(); err != nil {
			c.logger.Err(err).Str("func", "subscriptionCoordinator.Release").
				Str("quote_id", quoteID).
				Msg("error closing subscription")
		}
	}

	c.logger.Debug().Str("func", "subscriptionCoordinator.Release").
		Str("quote_id", quoteID).
		Msg("quote metadata released")
}

// Get implements SubscriptionCoordinator.
func (c *subscriptionCoordinator) Get(quoteID string) (models.QuoteMeta, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[quoteID]
	if !ok || entry.state != Watched {
		return models.QuoteMeta{}, false
	}
	return entry.meta.Clone(), true
}

// State implements SubscriptionCoordinator.
func (c *subscriptionCoordinator) State(quoteID string) WatchState {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[quoteID]
	if !ok {
		return Unwatched
	}
	return entry.state
}

// Watched implements SubscriptionCoordinator.
func (c *subscriptionCoordinator) Watched() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, 0, len(c.entries))
	for id, entry := range c.entries {
		if entry.state == Watched {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// ActiveSubscriptions implements SubscriptionCoordinator.
func (c *subscriptionCoordinator) ActiveSubscriptions() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// SetNotifier implements SubscriptionCoordinator.
func (c *subscriptionCoordinator) SetNotifier(fn UpdateNotifier) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notify = fn
}

// Close implements SubscriptionCoordinator.
func (c *subscriptionCoordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	entries := c.entries
	c.entries = make(map[string]*watchEntry)
	c.mu.Unlock()

	var errs []error
	for _, entry := range entries {
		if entry.sub != nil {
			errs = append(errs, entry.sub.Close())
		}
	}
	return errors.Join(errs...)
}
