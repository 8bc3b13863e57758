// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-quote-keeper/models"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialStream(t *testing.T, serverURL, quoteID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(serverURL, "http") + "/api/quotes/" + quoteID + "/meta/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readUntil(t *testing.T, conn *websocket.Conn, cond func(models.QuoteMeta) bool) models.QuoteMeta {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var meta models.QuoteMeta
		require.NoError(t, conn.ReadJSON(&meta))
		if cond(meta) {
			return meta
		}
	}
}

func TestStreamMeta_PushesDeliveries(t *testing.T) {
	g := newTestGateway(t)
	srv := httptest.NewServer(g.router)
	defer srv.Close()

	conn := dialStream(t, srv.URL, "q1")

	first := readUntil(t, conn, func(models.QuoteMeta) bool { return true })
	assert.Equal(t, "q1", first.ID)
	assert.Equal(t, []string{}, first.LikedBy)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/quotes/q1/like", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", bearer(t, models.User{ID: "u1"}))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	liked := readUntil(t, conn, func(m models.QuoteMeta) bool { return m.LikeCount == 1 })
	assert.Equal(t, []string{"u1"}, liked.LikedBy)
}

func TestStreamMeta_InvalidQuoteID(t *testing.T) {
	g := newTestGateway(t)
	srv := httptest.NewServer(g.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/quotes/%20/meta/stream"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStreamMeta_NotAWebsocket(t *testing.T) {
	g := newTestGateway(t)

	rr := g.do(http.MethodGet, "/api/quotes/q1/meta/stream", "", "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOfferLatest_KeepsNewest(t *testing.T) {
	ch := make(chan models.QuoteMeta, 1)

	offerLatest(ch, models.QuoteMeta{ID: "q1", LikeCount: 1})
	offerLatest(ch, models.QuoteMeta{ID: "q1", LikeCount: 2})
	offerLatest(ch, models.QuoteMeta{ID: "q1", LikeCount: 3})

	require.Len(t, ch, 1)
	assert.Equal(t, 3, (<-ch).LikeCount)
}
