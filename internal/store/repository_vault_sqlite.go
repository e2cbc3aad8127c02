// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/vaultlock/internal/logger"
)

type sqliteVaultStore struct {
	*DB
	logger *logger.Logger
	now    func() time.Time
}

// NewSQLiteVaultStore opens (or creates) the sqlite database at path, runs
// the schema migrations and returns a [VaultStore] on top of it.
func NewSQLiteVaultStore(ctx context.Context, path string, log *logger.Logger) (VaultStore, error) {
	db, err := NewConnectSQLite(ctx, path, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return newSQLiteVaultStore(db, log), nil
}

func newSQLiteVaultStore(db *DB, log *logger.Logger) *sqliteVaultStore {
	return &sqliteVaultStore{
		DB:     db,
		logger: log,
		now:    time.Now,
	}
}

func (s *sqliteVaultStore) Load(ctx context.Context) ([]byte, error) {
	query, args, err := buildLoadVaultRecordQuery(VaultRecordName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var data []byte
	err = s.DB.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVaultNotFound
	}
	if err != nil {
		s.logger.Err(err).
			Str("func", "sqliteVaultStore.Load").
			Msg("failed to query vault record")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return data, nil
}

func (s *sqliteVaultStore) Save(ctx context.Context, data []byte) error {
	query, args, err := buildUpsertVaultRecordQuery(VaultRecordName, data, s.now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).
			Str("func", "sqliteVaultStore.Save").
			Int("bytes", len(data)).
			Msg("failed to execute upsert for vault record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteVaultStore) Exists(ctx context.Context) (bool, error) {
	query, args, err := buildCountVaultRecordQuery(VaultRecordName)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int
	if err = s.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		s.logger.Err(err).
			Str("func", "sqliteVaultStore.Exists").
			Msg("failed to count vault records")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count > 0, nil
}

func (s *sqliteVaultStore) Close() error {
	return s.DB.Close()
}
