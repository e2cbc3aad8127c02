// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/MKhiriev/vaultlock/internal/logger"
)

// KeyringService is the service name the vault is filed under in the OS
// keyring.
const KeyringService = "vaultlock"

// keyringVaultStore keeps the envelope as the secret of one OS keyring item.
// Some platforms cap item size (Windows at 2560 bytes), which bounds the
// number of records this backend can hold.
type keyringVaultStore struct {
	service string
	logger  *logger.Logger
}

// NewKeyringVaultStore returns a [VaultStore] backed by the OS keyring.
func NewKeyringVaultStore(log *logger.Logger) VaultStore {
	return &keyringVaultStore{service: KeyringService, logger: log}
}

func (k *keyringVaultStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	secret, err := keyring.Get(k.service, VaultRecordName)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrVaultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring: %w", err)
	}
	return []byte(secret), nil
}

func (k *keyringVaultStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := keyring.Set(k.service, VaultRecordName, string(data)); err != nil {
		k.logger.Err(err).Str("func", "keyringVaultStore.Save").Msg("failed to write keyring")
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

func (k *keyringVaultStore) Exists(ctx context.Context) (bool, error) {
	_, err := k.Load(ctx)
	if errors.Is(err, ErrVaultNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (k *keyringVaultStore) Close() error {
	return nil
}
