// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/migrations"
	"github.com/MKhiriev/go-quote-keeper/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// newDBFromSQL wraps an existing *sql.DB for tests.
func newDBFromSQL(db *sql.DB, dialect migrations.Dialect) *DB {
	return &DB{
		DB:                 db,
		dialect:            dialect,
		errorClassificator: NewPostgresErrorClassifier(),
		logger:             logger.Nop(),
	}
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

type delivery struct {
	meta   models.QuoteMeta
	exists bool
}

// collector records deliveries of a subscription.
type collector struct {
	ch chan delivery
}

func newCollector() *collector {
	return &collector{ch: make(chan delivery, 64)}
}

func (c *collector) onChange(meta models.QuoteMeta, exists bool) {
	c.ch <- delivery{meta: meta, exists: exists}
}

func (c *collector) next(t *testing.T) delivery {
	t.Helper()
	select {
	case d := <-c.ch:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
		return delivery{}
	}
}

// waitFor reads deliveries until cond holds.
func (c *collector) waitFor(t *testing.T, cond func(d delivery) bool) delivery {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case d := <-c.ch:
			if cond(d) {
				return d
			}
		case <-deadline:
			t.Fatal("timed out waiting for matching delivery")
			return delivery{}
		}
	}
}

func (c *collector) assertQuiet(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case got := <-c.ch:
		t.Fatalf("unexpected delivery: %+v", got)
	case <-time.After(d):
	}
}
