package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/vaultlock/internal/config"
	"github.com/MKhiriev/vaultlock/internal/logger"
)

// NewVaultStore builds the backend selected by cfg.Backend:
//   - file:    JSON file at cfg.Path, replaced atomically;
//   - sqlite:  database at cfg.Path, migrated on open;
//   - bolt:    bbolt database at cfg.Path;
//   - keyring: the OS keyring;
//   - memory:  process memory.
func NewVaultStore(ctx context.Context, cfg config.Storage, log *logger.Logger) (VaultStore, error) {
	log.Info().Str("backend", cfg.Backend).Msg("creating vault store...")

	switch cfg.Backend {
	case config.BackendFile:
		return NewFileVaultStore(cfg.Path, log), nil
	case config.BackendSQLite:
		return NewSQLiteVaultStore(ctx, cfg.Path, log)
	case config.BackendBolt:
		return NewBoltVaultStore(cfg.Path, log)
	case config.BackendKeyring:
		return NewKeyringVaultStore(log), nil
	case config.BackendMemory:
		return NewMemoryVaultStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
