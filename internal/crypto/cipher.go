// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// vaultCipher is the private implementation of [VaultCipher].
type vaultCipher struct {
	random RandomSource
}

// NewVaultCipher returns an AES-256-GCM [VaultCipher] drawing nonces from rnd.
func NewVaultCipher(rnd RandomSource) VaultCipher {
	return &vaultCipher{random: rnd}
}

// Seal implements [VaultCipher]. A new random nonce is generated on every
// call; the caller must store it next to the sealed bytes.
func (c *vaultCipher) Seal(plaintext []byte, key *Key) (nonce, sealed []byte, err error) {
	if !key.Alive() {
		return nil, nil, ErrKeyDestroyed
	}

	gcm, err := newGCM(key.Bytes())
	if err != nil {
		return nil, nil, err
	}

	nonce, err = c.random.Bytes(NonceSize)
	if err != nil {
		return nil, nil, fmt.Errorf("generate nonce: %w", err)
	}

	return nonce, gcm.Seal(nil, nonce, plaintext, nil), nil
}

// Open implements [VaultCipher]. Every failure is reported as
// [ErrAuthenticationFailure].
func (c *vaultCipher) Open(sealed []byte, key *Key, nonce []byte) ([]byte, error) {
	if !key.Alive() || len(nonce) != NonceSize || len(sealed) < TagSize {
		return nil, ErrAuthenticationFailure
	}

	gcm, err := newGCM(key.Bytes())
	if err != nil {
		return nil, ErrAuthenticationFailure
	}

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrAuthenticationFailure
	}

	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeyLength
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return gcm, nil
}
