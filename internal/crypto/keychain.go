// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

// keyChainService is the private implementation of [KeyChainService].
type keyChainService struct {
	random RandomSource
	cipher VaultCipher
}

// NewKeyChainService constructs a [KeyChainService] that draws salts and
// nonces from rnd. Pass [SystemRandom] outside of tests.
func NewKeyChainService(rnd RandomSource) KeyChainService {
	return &keyChainService{
		random: rnd,
		cipher: NewVaultCipher(rnd),
	}
}

// GenerateSalt implements [KeyChainService].
func (k *keyChainService) GenerateSalt() ([]byte, error) {
	return GenerateSalt(k.random)
}

// DeriveKey implements [KeyChainService]. See [DeriveKey].
func (k *keyChainService) DeriveKey(password string, salt []byte) (*Key, error) {
	return DeriveKey(password, salt)
}

// Seal implements [KeyChainService].
func (k *keyChainService) Seal(plaintext []byte, key *Key) ([]byte, []byte, error) {
	return k.cipher.Seal(plaintext, key)
}

// Open implements [KeyChainService].
func (k *keyChainService) Open(sealed []byte, key *Key, nonce []byte) ([]byte, error) {
	return k.cipher.Open(sealed, key, nonce)
}
