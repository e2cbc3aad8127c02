// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// vaultlock front ends (TUI and CLI).
//
// All Msg* constants are human-readable message strings shown to the user
// to describe the outcome of an operation. Keeping them in one place ensures
// consistent wording across screens and sub-commands.
package app

const (
	// MsgWeakPassword is shown when a new master password is too short.
	MsgWeakPassword = "master password must be at least 8 characters"

	// MsgPasswordMismatch is shown when the confirmation does not match.
	MsgPasswordMismatch = "passwords do not match"

	// MsgInvalidCredentials is shown for a wrong master password. A damaged
	// vault produces the same message.
	MsgInvalidCredentials = "wrong master password or damaged vault"

	// MsgPersistenceFailure is shown when the vault could not be written or
	// read. In-memory data is unchanged.
	MsgPersistenceFailure = "could not access vault storage, changes were not saved"

	// MsgVaultLocked is shown when an operation needs an unlocked vault.
	MsgVaultLocked = "vault is locked"

	// MsgVaultUnlocked is shown when an operation needs a locked vault.
	MsgVaultUnlocked = "lock the vault first"

	// MsgAlreadyUnlocked is shown when unlocking an unlocked vault.
	MsgAlreadyUnlocked = "vault is already unlocked"

	// MsgVaultAlreadyExists is shown when setting up over an existing vault.
	MsgVaultAlreadyExists = "a vault already exists"

	// MsgNoVault is shown when no vault has been created yet.
	MsgNoVault = "no vault found, run setup first"

	// MsgRecordNotFound is shown when a record id no longer exists.
	MsgRecordNotFound = "record not found"

	// MsgInvalidRecord is shown when a record lacks a title or a password.
	MsgInvalidRecord = "title and password are required"

	// MsgMalformedBackup is shown when an imported file is not a vault.
	MsgMalformedBackup = "file is not a vaultlock backup"

	// MsgUnsupportedBackup is shown for a backup from a newer version.
	MsgUnsupportedBackup = "backup was made by a newer version of vaultlock"

	// MsgInternalError is shown for anything unexpected.
	MsgInternalError = "unexpected error"
)
