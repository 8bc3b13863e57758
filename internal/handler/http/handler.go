// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"time"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/service"
	"github.com/MKhiriev/go-quote-keeper/models"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultCommentsLimit = 50
	maxCommentsLimit     = 200

	streamWriteTimeout = 10 * time.Second
	streamPingInterval = 30 * time.Second
)

// Handler serves the metadata gateway routes.
type Handler struct {
	services  *service.Services
	gatherer  prometheus.Gatherer
	buildInfo models.AppBuildInfo
	upgrader  websocket.Upgrader

	logger *logger.Logger
}

// NewHandler creates a gateway handler. A nil gatherer disables /metrics.
func NewHandler(services *service.Services, gatherer prometheus.Gatherer, buildInfo models.AppBuildInfo, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:  services,
		gatherer:  gatherer,
		buildInfo: buildInfo,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}
