// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"net/url"
)

// validate checks invariants shared by every binary.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.TxMaxAttempts < 0 {
		return ErrInvalidStorageConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || cfg.Storage.Local.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.DiscoveryURL == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}
	if u, err := url.Parse(cfg.Adapter.DiscoveryURL); err != nil || u.Host == "" {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.ReconcileInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.TokenSignKey == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.Storage.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.App.TokenSignKey == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
