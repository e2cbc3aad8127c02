// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testVaultStoreContract runs the behaviour every backend must share against
// a freshly created, empty store.
func testVaultStoreContract(t *testing.T, s VaultStore) {
	t.Helper()
	ctx := context.Background()

	// Empty store
	exists, err := s.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrVaultNotFound)

	// First save
	first := []byte(`{"version":1,"salt":"a","iv":"b","data":"c"}`)
	require.NoError(t, s.Save(ctx, first))

	exists, err = s.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	// Overwrite replaces, never appends
	second := []byte(`{"version":1,"salt":"x","iv":"y","data":"zz"}`)
	require.NoError(t, s.Save(ctx, second))

	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)

	// Returned slice does not alias backend memory
	got[0] = '['
	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, again)

	// Cancelled contexts are refused before touching storage
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, s.Save(cancelled, first))

	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}
