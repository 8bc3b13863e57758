// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

const (
	metaChangedChannel      = "quote_meta_changed"
	defaultListenRetryDelay = 2 * time.Second
)

// notificationListener holds one pooled connection in LISTEN mode and turns
// quote_meta_changed notifications into hub signals.
type notificationListener struct {
	db         *DB
	logger     *logger.Logger
	hub        *watchHub
	retryDelay time.Duration
}

func newNotificationListener(db *DB, log *logger.Logger, hub *watchHub) *notificationListener {
	return &notificationListener{
		db:         db,
		logger:     log,
		hub:        hub,
		retryDelay: defaultListenRetryDelay,
	}
}

// run listens until ctx is cancelled, reconnecting after failures.
func (l *notificationListener) run(ctx context.Context) {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}

		l.logger.Warn().Err(err).
			Str("func", "notificationListener.run").
			Dur("retry_in", l.retryDelay).
			Msg("metadata change listener stopped, reconnecting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.retryDelay):
		}
	}
}

func (l *notificationListener) listen(ctx context.Context) error {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("error acquiring listener connection: %w", err)
	}
	defer conn.Close()

	return conn.Raw(func(driverConn any) error {
		stdConn, ok := driverConn.(*stdlib.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		pgxConn := stdConn.Conn()

		if _, err := pgxConn.Exec(ctx, "LISTEN "+pgx.Identifier{metaChangedChannel}.Sanitize()); err != nil {
			return fmt.Errorf("error subscribing to %s: %w", metaChangedChannel, err)
		}

		// changes committed while disconnected were never signalled
		l.hub.notifyAll()

		for {
			n, err := pgxConn.WaitForNotification(ctx)
			if err != nil {
				return fmt.Errorf("error waiting for notification: %w", err)
			}
			l.hub.notify(n.Payload)
		}
	})
}
