// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui is the interactive terminal front end of the vault built on
// Bubble Tea.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/vaultlock/internal/logger"
	"github.com/MKhiriev/vaultlock/internal/service"
	"github.com/MKhiriev/vaultlock/models"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrUserQuit is returned by Run when the user pressed ctrl+c.
var ErrUserQuit = errors.New("user quit")

type TUI struct {
	services  *service.Services
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(services *service.Services, buildInfo models.AppBuildInfo, log *logger.Logger) *TUI {
	return &TUI{services: services, buildInfo: buildInfo, logger: log}
}

// Run shows the UI until the user quits. The session is locked on exit.
func (t *TUI) Run(ctx context.Context) error {
	root := t.newRootModel(ctx)
	defer t.services.Session.Lock()

	t.logger.Debug().Str("func", "TUI.Run").Str("page", root.currentName).Msg("starting ui")

	finalModel, err := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}
	return nil
}

func (t *TUI) newRootModel(ctx context.Context) RootModel {
	session := t.services.Session
	pages := map[string]tea.Model{
		pageSetup:  NewSetupModel(ctx, session),
		pageUnlock: NewUnlockModel(ctx, session),
		pageList:   NewListModel(ctx, session),
		pageDetail: NewDetailModel(ctx, session),
		pageForm:   NewFormModel(ctx, session, t.services.Generator, t.services.Policy),
	}
	return NewRootModel(session, pages, startPage(session.State()), t.buildInfo)
}
