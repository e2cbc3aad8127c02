// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"sync"
)

type memoryVaultStore struct {
	mu     sync.RWMutex
	data   []byte
	closed bool
}

// NewMemoryVaultStore returns a process-local [VaultStore]. Nothing survives
// a restart.
func NewMemoryVaultStore() VaultStore {
	return &memoryVaultStore{}
}

func (m *memoryVaultStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	if m.data == nil {
		return nil, ErrVaultNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *memoryVaultStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	m.data = append(make([]byte, 0, len(data)), data...)
	return nil
}

func (m *memoryVaultStore) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return false, ErrStoreClosed
	}
	return m.data != nil, nil
}

func (m *memoryVaultStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}
