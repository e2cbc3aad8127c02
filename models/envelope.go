// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// VaultEnvelope is the persisted unit of the vault: everything needed to
// re-derive the key and decrypt the record collection, except the master
// password.
//
// The envelope is replaced wholesale on every successful mutation.
type VaultEnvelope struct {
	// Version is the storage format version. Only version 1 is known.
	Version int

	// Salt is the 16-byte KDF salt. Generated once at setup and never
	// regenerated for the lifetime of the vault.
	Salt []byte

	// Nonce is the 12-byte AES-GCM nonce used for Ciphertext. A fresh nonce
	// is generated for every write.
	Nonce []byte

	// Ciphertext is the sealed record collection with the authentication tag
	// appended.
	Ciphertext []byte
}
