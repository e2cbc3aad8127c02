// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/vaultlock/internal/logger"
)

// Default guard timing.
const (
	DefaultIdleTimeout  = 5 * time.Minute
	DefaultPollInterval = 10 * time.Second
)

type sessionGuard struct {
	session      IdleLocker
	idleTimeout  time.Duration
	pollInterval time.Duration
	logger       *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSessionGuard creates a guard that locks session once it has been idle
// for idleTimeout, checking every pollInterval. Non-positive values fall back
// to the defaults. The guard is idle until Start is called.
func NewSessionGuard(session IdleLocker, idleTimeout, pollInterval time.Duration, log *logger.Logger) SessionGuard {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &sessionGuard{
		session:      session,
		idleTimeout:  idleTimeout,
		pollInterval: pollInterval,
		logger:       log,
	}
}

// Start implements SessionGuard. A lock can land up to one poll interval
// after the idle timeout has passed.
func (g *sessionGuard) Start(ctx context.Context) {
	g.Stop()

	g.mu.Lock()
	guardCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.wg.Add(1)
	g.mu.Unlock()

	go func() {
		defer g.wg.Done()
		t := time.NewTicker(g.pollInterval)
		defer t.Stop()

		for {
			select {
			case <-guardCtx.Done():
				return
			case <-t.C:
				if g.session.LockIfIdle(g.idleTimeout) {
					g.logger.Info().
						Str("func", "sessionGuard.Start").
						Dur("idle_timeout", g.idleTimeout).
						Msg("vault locked after inactivity")
				}
			}
		}
	}()
}

// Stop implements SessionGuard. Safe to call when the guard is not running.
func (g *sessionGuard) Stop() {
	g.mu.Lock()
	cancel := g.cancel
	g.cancel = nil
	g.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	g.wg.Wait()
}
