// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto implements the cryptographic primitives of the vault.
//
// Key derivation uses PBKDF2-HMAC-SHA256 with:
//   - 16-byte random salt (stored unencrypted in the envelope)
//   - 100,000 iterations
//   - 32-byte output (AES-256 key)
//
// Encryption uses AES-256-GCM with a fresh 12-byte random nonce for every
// Seal call. Open never tells a wrong key apart from corrupted data: every
// failure is reported as [ErrAuthenticationFailure].
//
// Derived keys are held in memguard locked buffers ([Key]) and must be
// released with [Key.Destroy], which wipes the key material.
//
// These parameters are part of the storage format. Changing any of them
// makes every existing vault unreadable.
package crypto
