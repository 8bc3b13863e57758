// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/models"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// streamMeta upgrades to a websocket and pushes every metadata delivery of
// the quote as a JSON text frame. Each connection owns one subscription.
//
// Only the latest undelivered snapshot is kept: a slow reader skips
// intermediate states but always ends up on the newest one.
func (h *Handler) streamMeta(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	quoteID := chi.URLParam(r, "quoteID")

	updates := make(chan models.QuoteMeta, 1)
	sub, err := h.services.MetadataRepository.Subscribe(quoteID, func(meta models.QuoteMeta) {
		offerLatest(updates, meta)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer func() {
		if err := sub.Close(); err != nil {
			log.Err(err).Str("quote_id", quoteID).Msg("error closing stream subscription")
		}
	}()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client.
		log.Err(err).Str("quote_id", quoteID).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log.Debug().Str("quote_id", quoteID).Msg("metadata stream opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go discardIncoming(conn, cancel)

	if err = writeUpdates(ctx, conn, updates); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Str("quote_id", quoteID).Msg("metadata stream closed")
		return
	}
	log.Debug().Str("quote_id", quoteID).Msg("metadata stream closed by client")
}

func writeUpdates(ctx context.Context, conn *websocket.Conn, updates <-chan models.QuoteMeta) error {
	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(streamWriteTimeout))
			return ctx.Err()
		case meta := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteJSON(meta); err != nil {
				return err
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteTimeout)); err != nil {
				return err
			}
		}
	}
}

// discardIncoming reads until the peer goes away so control frames are
// processed, then cancels the stream.
func discardIncoming(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

// offerLatest replaces any pending snapshot with meta. Deliveries of one
// subscription never run concurrently, so there is a single producer.
func offerLatest(ch chan models.QuoteMeta, meta models.QuoteMeta) {
	for {
		select {
		case ch <- meta:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
