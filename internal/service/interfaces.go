// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"time"

	"github.com/MKhiriev/vaultlock/models"
)

// VaultSession owns the vault's in-memory state: the derived key and the
// decrypted records, present together only while unlocked.
//
// All methods are safe for concurrent use. Key derivation in Setup and
// Unlock runs without holding the session lock; every other state change
// and its persistence happen under it.
type VaultSession interface {
	// State returns the current lifecycle state.
	State() models.SessionState

	// Setup creates a new vault protected by password and leaves it
	// unlocked with no records. Only valid without an existing vault.
	Setup(ctx context.Context, password, confirm string) error

	// Unlock derives the key from password, decrypts the stored vault and
	// loads its records. Any failure to authenticate or parse the vault is
	// reported as ErrInvalidCredentials. Repeated or empty record ids get a
	// fresh id and UpdatedAt is raised to CreatedAt where it lags; a
	// repaired collection is written back before the session unlocks. When
	// the stored vault is replaced while Unlock runs it starts over.
	Unlock(ctx context.Context, password string) error

	// Lock wipes the key and drops the records. Idempotent.
	Lock()

	// UpsertRecord adds record when its ID is empty or replaces the record
	// with the same ID. The updated collection is persisted before return.
	UpsertRecord(ctx context.Context, record models.Credential) (models.Credential, error)

	// DeleteRecord removes the record with id and persists the collection.
	DeleteRecord(ctx context.Context, id string) error

	// ListRecords returns a copy of the records in insertion order.
	ListRecords() ([]models.Credential, error)

	// Record returns a copy of the record with id.
	Record(id string) (models.Credential, error)

	// ExportEnvelope returns the stored vault bytes verbatim.
	ExportEnvelope(ctx context.Context) ([]byte, error)

	// ImportEnvelope validates data as an envelope and stores it verbatim,
	// replacing the current vault. The session ends up locked.
	ImportEnvelope(ctx context.Context, data []byte) error

	// RecordActivity refreshes the idle timer of an unlocked session.
	RecordActivity()

	// LastActivity returns the time of the last recorded activity.
	LastActivity() time.Time

	// LockIfIdle locks the session if it is unlocked and has been idle for
	// longer than threshold. It reports whether it locked.
	LockIfIdle(threshold time.Duration) bool
}

// IdleLocker is the part of [VaultSession] the guard needs.
type IdleLocker interface {
	LockIfIdle(threshold time.Duration) bool
}

// SessionGuard periodically locks an idle session.
type SessionGuard interface {
	// Start launches the polling goroutine. It stops any previous run.
	Start(ctx context.Context)

	// Stop cancels the polling goroutine and waits for it to exit.
	Stop()
}

// IDGenerator hands out record identifiers.
type IDGenerator interface {
	Generate() string
}
