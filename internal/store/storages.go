// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-quote-keeper/internal/config"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/metrics"
)

// Storages groups the storage used by the metadata gateway.
type Storages struct {
	MetadataStore MetadataStore
}

// ClientStorages groups the storage used by the terminal client: the shared
// remote metadata store and the device-local snapshot database.
type ClientStorages struct {
	MetadataStore      MetadataStore
	SnapshotRepository SnapshotRepository

	local *DB
}

// Close closes the metadata store.
func (s *Storages) Close() error {
	return s.MetadataStore.Close()
}

// Close closes the metadata store and the local database.
func (s *ClientStorages) Close() error {
	errs := []error{s.MetadataStore.Close()}
	if s.local != nil {
		errs = append(errs, s.local.Close())
	}
	return errors.Join(errs...)
}

// NewStorages opens the metadata store selected by cfg.DSN.
func NewStorages(ctx context.Context, cfg config.DB, m *metrics.Metrics, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	metadataStore, err := NewMetadataStore(ctx, cfg, m, logger)
	if err != nil {
		return nil, err
	}

	return &Storages{MetadataStore: metadataStore}, nil
}

// NewClientStorages initialises the client storage layer:
//  1. opens the metadata store selected by cfg.DB.DSN;
//  2. opens the SQLite snapshot database at cfg.Local.DSN, creating it if
//     needed, and runs its migrations.
func NewClientStorages(ctx context.Context, cfg config.Storage, m *metrics.Metrics, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new client storages...")

	metadataStore, err := NewMetadataStore(ctx, cfg.DB, m, logger)
	if err != nil {
		return nil, err
	}

	db, err := NewConnectSQLite(ctx, cfg.Local, logger)
	if err != nil {
		_ = metadataStore.Close()
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.migrateOrClose(); err != nil {
		_ = metadataStore.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		MetadataStore:      metadataStore,
		SnapshotRepository: NewSnapshotRepository(db, logger),
		local:              db,
	}, nil
}

// NewMetadataStore returns the in-process store for [MemoryDSN] and the
// migrated PostgreSQL store for postgres:// DSNs.
func NewMetadataStore(ctx context.Context, cfg config.DB, m *metrics.Metrics, logger *logger.Logger) (MetadataStore, error) {
	switch {
	case cfg.DSN == MemoryDSN:
		logger.Warn().Msg("using in-memory metadata store, data is not shared between processes")
		return NewMemoryMetadataStore(logger), nil

	case strings.HasPrefix(cfg.DSN, "postgres://"), strings.HasPrefix(cfg.DSN, "postgresql://"):
		db, err := NewConnectPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres connection error: %w", err)
		}

		if err = db.migrateOrClose(); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}

		return NewPostgresMetadataStore(db, logger,
			WithTxRetries(cfg.TxMaxAttempts, cfg.TxRetryDelay),
			WithMetrics(m),
		), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDSN, cfg.DSN)
	}
}
