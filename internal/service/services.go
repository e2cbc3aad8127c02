// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/vaultlock/internal/config"
	"github.com/MKhiriev/vaultlock/internal/crypto"
	"github.com/MKhiriev/vaultlock/internal/generator"
	"github.com/MKhiriev/vaultlock/internal/logger"
	"github.com/MKhiriev/vaultlock/internal/store"
	"github.com/MKhiriev/vaultlock/models"
)

// Services bundles everything the front ends talk to.
type Services struct {
	Session   VaultSession
	Guard     SessionGuard
	Generator generator.PasswordGenerator
	// Policy is the configured default generator policy.
	Policy models.PasswordPolicy
}

// NewServices wires a session over vaultStore, its idle guard and the
// password generator, all sharing the system random source.
func NewServices(ctx context.Context, vaultStore store.VaultStore, cfg *config.StructuredConfig, log *logger.Logger) (*Services, error) {
	rnd := crypto.SystemRandom()

	session, err := NewVaultSession(ctx, vaultStore, crypto.NewKeyChainService(rnd), log)
	if err != nil {
		return nil, fmt.Errorf("create vault session: %w", err)
	}

	return &Services{
		Session:   session,
		Guard:     NewSessionGuard(session, cfg.Session.IdleTimeout, cfg.Session.PollInterval, log),
		Generator: generator.NewPasswordGenerator(rnd),
		Policy:    cfg.Generator.Policy(),
	}, nil
}
