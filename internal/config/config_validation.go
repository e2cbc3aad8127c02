// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Password length bounds for the generator.
const (
	MinGenLength = 8
	MaxGenLength = 32
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	switch cfg.Storage.Backend {
	case BackendFile, BackendSQLite, BackendBolt:
		if cfg.Storage.Path == "" {
			return fmt.Errorf("%w: backend %q needs a path", ErrInvalidStorageConfigs, cfg.Storage.Backend)
		}
	case BackendKeyring, BackendMemory:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidStorageConfigs, cfg.Storage.Backend)
	}

	if cfg.Session.IdleTimeout <= 0 || cfg.Session.PollInterval <= 0 {
		return fmt.Errorf("%w: durations must be positive", ErrInvalidSessionConfigs)
	}
	if cfg.Session.PollInterval > cfg.Session.IdleTimeout {
		return fmt.Errorf("%w: poll interval exceeds idle timeout", ErrInvalidSessionConfigs)
	}

	if cfg.Generator.Length < MinGenLength || cfg.Generator.Length > MaxGenLength {
		return fmt.Errorf("%w: length %d outside %d..%d", ErrInvalidGeneratorConfigs,
			cfg.Generator.Length, MinGenLength, MaxGenLength)
	}
	for _, class := range splitClasses(cfg.Generator.Classes) {
		switch class {
		case ClassUpper, ClassLower, ClassDigits, ClassSymbols, ClassNone:
		default:
			return fmt.Errorf("%w: unknown class %q", ErrInvalidGeneratorConfigs, class)
		}
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLogConfigs, err)
	}

	return nil
}
