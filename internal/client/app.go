// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-quote-keeper/internal/config"
	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

// UI is the interactive front end driven by App.
type UI interface {
	Run(ctx context.Context) error
}

type App struct {
	services *service.ClientServices
	ui       UI
	workers  config.Workers
	logger   *logger.Logger
}

func NewApp(services *service.ClientServices, ui UI, workers config.Workers, logger *logger.Logger) (*App, error) {
	if services == nil || ui == nil {
		return nil, errors.New("client app requires services and ui")
	}
	return &App{services: services, ui: ui, workers: workers, logger: logger}, nil
}

// Run starts the comment reconcile job, runs the UI until it exits and then
// closes every open subscription.
func (a *App) Run(ctx context.Context) error {
	ctx = a.logger.WithContext(ctx)

	a.services.ReconcileJob.Start(ctx, a.workers.ReconcileInterval)
	defer a.services.ReconcileJob.Stop()

	defer func() {
		if err := a.services.Coordinator.Close(); err != nil {
			a.logger.Err(err).Str("func", "App.Run").Msg("error closing subscriptions")
		}
	}()

	if err := a.ui.Run(ctx); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("ui error: %w", err)
	}

	a.logger.Info().Str("func", "App.Run").Msg("client stopped")
	return nil
}
