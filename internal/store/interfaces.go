package store

import (
	"context"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/vault_store_mock.go -package=mock

// VaultRecordName is the well-known name of the single record every backend
// stores the encoded vault envelope under.
const VaultRecordName = "vaultlock-data"

// VaultStore persists one opaque byte blob: the encoded vault envelope.
// Implementations replace the blob atomically, so a reader never observes a
// partially written vault.
type VaultStore interface {
	// Load returns the stored blob, or ErrVaultNotFound when nothing has been
	// saved yet.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the stored blob.
	Save(ctx context.Context, data []byte) error

	// Exists reports whether a blob has been saved.
	Exists(ctx context.Context) (bool, error)

	// Close releases the backend's resources.
	Close() error
}
