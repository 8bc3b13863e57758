// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
)

type commentReconcileJob struct {
	repository  MetadataRepository
	coordinator SubscriptionCoordinator
	logger      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCommentReconcileJob creates a job that reconciles the comment counters
// of every quote the coordinator watches. The job is idle until Start is
// called.
func NewCommentReconcileJob(repository MetadataRepository, coordinator SubscriptionCoordinator, logger *logger.Logger) CommentReconcileJob {
	return &commentReconcileJob{repository: repository, coordinator: coordinator, logger: logger}
}

// Start implements CommentReconcileJob. The goroutine exits when ctx is
// cancelled or Stop is called.
func (j *commentReconcileJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(j.logger.WithContext(ctx))
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.reconcileWatched(jobCtx)
			}
		}
	}()
}

// Stop implements CommentReconcileJob. Safe to call when the job is not
// running.
func (j *commentReconcileJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// reconcileWatched returns the number of counters it raised.
func (j *commentReconcileJob) reconcileWatched(ctx context.Context) int {
	raised := 0
	for _, quoteID := range j.coordinator.Watched() {
		if ctx.Err() != nil {
			break
		}
		changed, err := j.repository.ReconcileCommentCount(ctx, quoteID)
		if err != nil {
			j.logger.Err(err).Str("func", "commentReconcileJob.reconcileWatched").
				Str("quote_id", quoteID).
				Msg("error reconciling comment count")
			continue
		}
		if changed {
			raised++
		}
	}
	return raised
}
