// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

// Session errors. Callers match them with [errors.Is]; the wrapped cause, if
// any, is for logs only.
var (
	// ErrWeakPassword is returned by Setup for a password shorter than
	// MinPasswordLength characters.
	ErrWeakPassword = errors.New("master password is too short")
	// ErrPasswordMismatch is returned by Setup when the confirmation differs.
	ErrPasswordMismatch = errors.New("password confirmation does not match")
	// ErrInvalidCredentials is returned by Unlock for a wrong password and
	// for a corrupted or tampered vault alike.
	ErrInvalidCredentials = errors.New("invalid master password")
	// ErrPersistenceFailure is returned when storage could not be read or
	// written. No in-memory state was changed.
	ErrPersistenceFailure = errors.New("vault persistence failed")

	ErrVaultLocked        = errors.New("vault is locked")
	ErrVaultUnlocked      = errors.New("vault is unlocked")
	ErrAlreadyUnlocked    = errors.New("vault is already unlocked")
	ErrVaultAlreadyExists = errors.New("vault already exists")
	ErrNoVault            = errors.New("no vault exists")

	ErrRecordNotFound = errors.New("record not found")
	// ErrInvalidRecord is returned for a record with an empty title or
	// password (whitespace counts as empty).
	ErrInvalidRecord = errors.New("invalid record")
)
