// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	// ErrAuthenticationFailure is the only error returned by Open. It covers
	// tag mismatch, truncated ciphertext, malformed nonce and unusable keys.
	ErrAuthenticationFailure = errors.New("authentication failed")

	// ErrInvalidSaltLength is returned by DeriveKey when the salt is not
	// exactly SaltSize bytes long.
	ErrInvalidSaltLength = errors.New("invalid salt length")

	// ErrInvalidKeyLength is returned when key material is not KeySize bytes.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrKeyDestroyed is returned by Seal when the key was already wiped.
	ErrKeyDestroyed = errors.New("key has been destroyed")
)
