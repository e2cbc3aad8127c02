// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/keychain_service_mock.go -package=mock

// RandomSource supplies cryptographically secure random values.
type RandomSource interface {
	// Bytes returns n random bytes.
	Bytes(n int) ([]byte, error)

	// Uint32 returns a uniformly distributed random uint32.
	Uint32() (uint32, error)
}

// VaultCipher is one-shot authenticated encryption of an opaque payload.
type VaultCipher interface {
	// Seal encrypts plaintext under key with a fresh random nonce and returns
	// the nonce together with ciphertext‖tag.
	Seal(plaintext []byte, key *Key) (nonce, sealed []byte, err error)

	// Open verifies and decrypts sealed. Any failure yields
	// ErrAuthenticationFailure and no plaintext.
	Open(sealed []byte, key *Key, nonce []byte) ([]byte, error)
}

// KeyChainService is everything the vault session needs from cryptography.
// It knows nothing about storage, records or sessions.
//
// Flow:
//
//	Salt      = GenerateSalt()              (setup only)
//	Key       = DeriveKey(password, salt)   (setup and unlock)
//	Nonce, CT = Seal(records, key)          (every write)
//	Records   = Open(CT, key, nonce)        (unlock)
type KeyChainService interface {
	// GenerateSalt returns a fresh 16-byte salt.
	GenerateSalt() ([]byte, error)

	// DeriveKey runs PBKDF2 over password and salt. Deliberately slow.
	DeriveKey(password string, salt []byte) (*Key, error)

	// Seal encrypts plaintext with key under a new nonce.
	Seal(plaintext []byte, key *Key) (nonce, sealed []byte, err error)

	// Open decrypts sealed with key and nonce.
	Open(sealed []byte, key *Key, nonce []byte) ([]byte, error)
}
