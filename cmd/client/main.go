// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-quote-keeper/internal/adapter"
	"github.com/MKhiriev/go-quote-keeper/internal/client"
	"github.com/MKhiriev/go-quote-keeper/internal/config"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/metrics"
	"github.com/MKhiriev/go-quote-keeper/internal/service"
	"github.com/MKhiriev/go-quote-keeper/internal/store"
	"github.com/MKhiriev/go-quote-keeper/internal/tui"
	"github.com/MKhiriev/go-quote-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)

	cfg, err := config.GetClientConfig()
	if err != nil {
		logger.NewClientLogger("quote-client", "").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewClientLogger("quote-client", cfg.Log.File)
	if err = logger.SetLevel(cfg.Log.Level); err != nil {
		log.Warn().Err(err).Str("level", cfg.Log.Level).Msg("unknown log level, keeping debug")
	}
	log.Info().Str("build", buildInfo.String()).Msg("starting client")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	discoveryAdapter, err := adapter.NewHTTPDiscoveryAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create discovery adapter")
	}

	// The client has no metrics endpoint; collectors stay disabled.
	var m *metrics.Metrics

	storages, err := store.NewClientStorages(ctx, cfg.Storage, m, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create client storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	services := service.NewClientServices(storages, discoveryAdapter, *cfg, m, log)

	app, err := client.NewApp(services, tui.New(services, buildInfo, log), cfg.Workers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}
