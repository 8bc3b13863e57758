// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-quote-keeper/internal/adapter"
	"github.com/MKhiriev/go-quote-keeper/internal/config"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/metrics"
	"github.com/MKhiriev/go-quote-keeper/internal/store"
	"github.com/MKhiriev/go-quote-keeper/internal/utils"
)

type ClientServices struct {
	AuthService        ClientAuthService
	MetadataRepository MetadataRepository
	Coordinator        SubscriptionCoordinator
	EngagementService  EngagementService
	LibraryService     LibraryService
	DiscoveryService   DiscoveryService
	ReconcileJob       CommentReconcileJob
}

func NewClientServices(storages *store.ClientStorages, discoveryAdapter adapter.DiscoveryAdapter, cfg config.ClientConfig, m *metrics.Metrics, logger *logger.Logger) *ClientServices {
	authSvc := NewClientAuthService(cfg.App, logger)
	repository := NewMetadataRepository(storages.MetadataStore, m, logger)
	coordinator := NewSubscriptionCoordinator(repository, logger)

	return &ClientServices{
		AuthService:        authSvc,
		MetadataRepository: repository,
		Coordinator:        coordinator,
		EngagementService:  NewEngagementService(repository, coordinator, authSvc, storages.SnapshotRepository, logger),
		LibraryService:     NewLibraryService(authSvc, storages.SnapshotRepository, utils.NewUUIDGenerator(), logger),
		DiscoveryService:   NewDiscoveryService(discoveryAdapter, logger),
		ReconcileJob:       NewCommentReconcileJob(repository, coordinator, logger),
	}
}
