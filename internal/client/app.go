// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/vaultlock/internal/logger"
	"github.com/MKhiriev/vaultlock/internal/service"
	"github.com/MKhiriev/vaultlock/internal/store"
	"github.com/MKhiriev/vaultlock/internal/tui"
	"github.com/MKhiriev/vaultlock/internal/workers"
)

var _ Client = (*App)(nil)

// App runs the terminal UI while the session guard watches for inactivity.
type App struct {
	services *service.Services
	ui       UI
	workers  *workers.Workers
	store    store.VaultStore
	logger   *logger.Logger
}

// NewApp wires ui and the guard of services. vaultStore is closed when Run
// returns.
func NewApp(services *service.Services, ui UI, vaultStore store.VaultStore, log *logger.Logger) *App {
	return &App{
		services: services,
		ui:       ui,
		workers:  workers.NewWorkers(services.Guard),
		store:    vaultStore,
		logger:   log,
	}
}

// Run implements Client. The session is locked and storage closed on every
// exit path, including termination signals.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()
	ctx = a.logger.WithContext(ctx)

	a.workers.Start(ctx)
	a.logger.Info().Str("func", "App.Run").Msg("session guard started")

	err := a.ui.Run(ctx)

	a.workers.Stop()
	a.services.Session.Lock()
	if closeErr := a.store.Close(); closeErr != nil {
		a.logger.Err(closeErr).Str("func", "App.Run").Msg("failed to close vault store")
	}
	a.logger.Info().Str("func", "App.Run").Msg("client stopped")

	if errors.Is(err, tui.ErrUserQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
