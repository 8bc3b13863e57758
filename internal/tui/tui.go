// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui is the terminal client: a bubbletea program over the client
// services. Metadata updates reach the program through the subscription
// coordinator's notifier.
package tui

import (
	"context"

	"github.com/MKhiriev/go-quote-keeper/internal/logger"
	"github.com/MKhiriev/go-quote-keeper/internal/service"
	"github.com/MKhiriev/go-quote-keeper/models"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

type TUI struct {
	services  *service.ClientServices
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(services *service.ClientServices, buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{services: services, buildInfo: buildInfo, logger: logger}
}

// Run blocks until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	program := tea.NewProgram(
		newModel(ctx, t.services, t.buildInfo, clipboard.WriteAll),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	t.services.Coordinator.SetNotifier(func(quoteID string, meta models.QuoteMeta) {
		program.Send(metaUpdatedMsg{quoteID: quoteID, meta: meta})
	})
	defer t.services.Coordinator.SetNotifier(nil)

	t.logger.Info().Str("func", "TUI.Run").Msg("terminal client started")
	_, err := program.Run()
	return err
}
