// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/MKhiriev/vaultlock/internal/logger"
)

// Permissions of the vault file and its directory.
const (
	vaultFilePerm = 0o600
	vaultDirPerm  = 0o700
)

// fileVaultStore keeps the envelope in a single JSON file. Writes go to a
// temporary file in the same directory which is synced and renamed over the
// target, so the file is either the old or the new vault.
type fileVaultStore struct {
	path   string
	logger *logger.Logger

	mu sync.Mutex
}

// NewFileVaultStore returns a [VaultStore] backed by the file at path. The
// file and its directory are created on the first Save.
func NewFileVaultStore(path string, log *logger.Logger) VaultStore {
	return &fileVaultStore{path: path, logger: log}
}

func (f *fileVaultStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrVaultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read vault file: %w", err)
	}
	return data, nil
}

func (f *fileVaultStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return writeFileAtomic(f.path, data, f.logger)
}

func (f *fileVaultStore) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	_, err := os.Stat(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat vault file: %w", err)
	}
	return true, nil
}

func (f *fileVaultStore) Close() error {
	return nil
}

func writeFileAtomic(path string, data []byte, log *logger.Logger) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, vaultDirPerm); err != nil {
		return fmt.Errorf("create vault dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if err == nil {
			return
		}
		if removeErr := os.Remove(tmpPath); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			log.Warn().Err(removeErr).Str("path", tmpPath).Msg("failed to remove temp file")
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpPath, vaultFilePerm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
