// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/models"
)

const (
	defaultWatchReadTimeout = 5 * time.Second
	defaultWatchRetryDelay  = time.Second
)

// readMetaFunc loads the current state of a quote document.
type readMetaFunc func(ctx context.Context, quoteID string) (models.QuoteMeta, bool, error)

// watchHub fans change signals out to watchers of quote documents.
//
// A signal only marks a watcher dirty; the watcher goroutine re-reads the
// document and delivers the fresh value. Signals arriving while a read is in
// flight collapse into one more read, so deliveries of a watcher are
// serialized and always carry the latest committed state.
type watchHub struct {
	read       readMetaFunc
	logger     *logger.Logger
	retryDelay time.Duration

	mu       sync.Mutex
	watchers map[string]map[*watcher]struct{}
	closed   bool
	wg       sync.WaitGroup
}

func newWatchHub(read readMetaFunc, log *logger.Logger) *watchHub {
	return &watchHub{
		read:       read,
		logger:     log,
		retryDelay: defaultWatchRetryDelay,
		watchers:   make(map[string]map[*watcher]struct{}),
	}
}

// watch registers onChange for quoteID and schedules the initial delivery.
func (h *watchHub) watch(quoteID string, onChange SnapshotFunc) (Subscription, error) {
	if quoteID == "" {
		return nil, ErrEmptyQuoteID
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrStoreClosed
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &watcher{
		hub:      h,
		quoteID:  quoteID,
		onChange: onChange,
		dirty:    make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}

	if h.watchers[quoteID] == nil {
		h.watchers[quoteID] = make(map[*watcher]struct{})
	}
	h.watchers[quoteID][w] = struct{}{}

	h.wg.Add(1)
	go w.run()
	w.signal()

	return w, nil
}

// notify marks every watcher of quoteID dirty.
func (h *watchHub) notify(quoteID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for w := range h.watchers[quoteID] {
		w.signal()
	}
}

// notifyAll marks every watcher dirty. Used after missed notifications.
func (h *watchHub) notifyAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ws := range h.watchers {
		for w := range ws {
			w.signal()
		}
	}
}

// watchedIDs returns the ids with at least one watcher.
func (h *watchHub) watchedIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := make([]string, 0, len(h.watchers))
	for id := range h.watchers {
		ids = append(ids, id)
	}
	return ids
}

func (h *watchHub) remove(w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ws := h.watchers[w.quoteID]
	delete(ws, w)
	if len(ws) == 0 {
		delete(h.watchers, w.quoteID)
	}
}

// close stops every watcher and waits for their goroutines to exit.
func (h *watchHub) close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true

	all := make([]*watcher, 0)
	for _, ws := range h.watchers {
		for w := range ws {
			all = append(all, w)
		}
	}
	h.mu.Unlock()

	for _, w := range all {
		_ = w.Close()
	}
	h.wg.Wait()
}

type watcher struct {
	hub      *watchHub
	quoteID  string
	onChange SnapshotFunc
	dirty    chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func (w *watcher) signal() {
	select {
	case w.dirty <- struct{}{}:
	default:
	}
}

func (w *watcher) run() {
	defer w.hub.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.dirty:
		}

		readCtx, cancel := context.WithTimeout(w.ctx, defaultWatchReadTimeout)
		meta, exists, err := w.hub.read(readCtx, w.quoteID)
		cancel()

		if w.ctx.Err() != nil {
			return
		}

		if err != nil {
			w.hub.logger.Warn().Err(err).
				Str("func", "watcher.run").
				Str("quote_id", w.quoteID).
				Msg("failed to read watched quote metadata, retrying")
			time.AfterFunc(w.hub.retryDelay, w.signal)
			continue
		}

		w.onChange(meta, exists)
	}
}

// Close implements [Subscription].
func (w *watcher) Close() error {
	w.once.Do(func() {
		w.hub.remove(w)
		w.cancel()
	})
	return nil
}
