// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-quote-keeper/internal/config"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/metrics"
	"github.com/MKhiriev/go-quote-keeper/internal/store"
)

type Services struct {
	AuthService        AuthService
	MetadataRepository MetadataRepository
}

func NewServices(storages *store.Storages, cfg config.ServerConfig, m *metrics.Metrics, logger *logger.Logger) *Services {
	return &Services{
		AuthService:        NewAuthService(cfg.App, logger),
		MetadataRepository: NewMetadataRepository(storages.MetadataStore, m, logger),
	}
}
