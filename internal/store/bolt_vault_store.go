// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/MKhiriev/vaultlock/internal/logger"
)

var vaultBucket = []byte("vault")

// boltVaultStore keeps the envelope under one key of a bbolt bucket. Each
// Save is a single update transaction.
type boltVaultStore struct {
	db     *bolt.DB
	logger *logger.Logger
}

// NewBoltVaultStore opens (or creates) the bbolt database at path.
func NewBoltVaultStore(path string, log *logger.Logger) (VaultStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), vaultDirPerm); err != nil {
		return nil, fmt.Errorf("create bolt dir: %w", err)
	}

	// another process holding the file lock fails the open instead of hanging
	db, err := bolt.Open(path, vaultFilePerm, &bolt.Options{Timeout: time.Second})
	if err != nil {
		log.Err(err).Str("func", "NewBoltVaultStore").Msg("error opening bolt database")
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(vaultBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", vaultBucket, err)
	}

	return &boltVaultStore{db: db, logger: log}, nil
}

func (b *boltVaultStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(vaultBucket).Get([]byte(VaultRecordName))
		if v == nil {
			return ErrVaultNotFound
		}
		// bolt memory is only valid inside the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (b *boltVaultStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(vaultBucket).Put([]byte(VaultRecordName), data)
	})
	if err != nil {
		b.logger.Err(err).Str("func", "boltVaultStore.Save").Msg("failed to put vault record")
		return fmt.Errorf("failed to save vault record: %w", err)
	}
	return nil
}

func (b *boltVaultStore) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var exists bool
	err := b.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(vaultBucket).Get([]byte(VaultRecordName)) != nil
		return nil
	})
	return exists, err
}

func (b *boltVaultStore) Close() error {
	return b.db.Close()
}
