// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"time"
)

// Defaults used when no source provides a value.
const (
	DefaultBackend      = BackendFile
	DefaultLogLevel     = "info"
	DefaultIdleTimeout  = 5 * time.Minute
	DefaultPollInterval = 10 * time.Second
	DefaultGenLength    = 16
	DefaultGenClasses   = "upper,lower,digits,symbols"
)

// DefaultDir is the per-user directory holding the vault and the log file.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".vaultlock"
	}
	return filepath.Join(dir, "vaultlock")
}

func defaults() *StructuredConfig {
	dir := DefaultDir()
	return &StructuredConfig{
		Storage: Storage{Backend: DefaultBackend},
		Log: Log{
			Level: DefaultLogLevel,
			File:  filepath.Join(dir, "vaultlock.log"),
		},
		Session: Session{
			IdleTimeout:  DefaultIdleTimeout,
			PollInterval: DefaultPollInterval,
		},
		Generator: Generator{
			Length:  DefaultGenLength,
			Classes: DefaultGenClasses,
		},
	}
}

// DefaultStoragePath returns the vault location for a path-based backend,
// or "" for backends that do not use the filesystem.
func DefaultStoragePath(backend string) string {
	switch backend {
	case BackendFile:
		return filepath.Join(DefaultDir(), "vaultlock-data.json")
	case BackendSQLite:
		return filepath.Join(DefaultDir(), "vaultlock.db")
	case BackendBolt:
		return filepath.Join(DefaultDir(), "vaultlock.bolt")
	default:
		return ""
	}
}
