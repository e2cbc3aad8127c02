// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize   = 16     // KDF salt size in bytes
	KeySize    = 32     // AES-256 key size
	NonceSize  = 12     // GCM nonce size
	TagSize    = 16     // GCM authentication tag size
	Iterations = 100000 // PBKDF2 iterations
)

// DeriveKey derives the vault key from password and salt with
// PBKDF2-HMAC-SHA256. The result is deterministic for the same inputs.
//
// Returns [ErrInvalidSaltLength] if salt is not [SaltSize] bytes. The
// password itself is never rejected.
func DeriveKey(password string, salt []byte) (*Key, error) {
	if len(salt) != SaltSize {
		return nil, ErrInvalidSaltLength
	}

	pw := []byte(password)
	defer wipe(pw)

	return NewKey(pbkdf2.Key(pw, salt, Iterations, KeySize, sha256.New))
}

// GenerateSalt returns a fresh [SaltSize]-byte salt from rnd.
func GenerateSalt(rnd RandomSource) ([]byte, error) {
	return rnd.Bytes(SaltSize)
}
