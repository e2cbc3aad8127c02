// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package envelope

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/vaultlock/internal/crypto"
	"github.com/MKhiriev/vaultlock/models"
)

// CurrentVersion is the only envelope version this package reads and writes.
const CurrentVersion = 1

// storedEnvelope is the JSON shape of an envelope. Pointer fields tell an
// absent key apart from an empty value.
type storedEnvelope struct {
	Version *int    `json:"version,omitempty"`
	Salt    *string `json:"salt"`
	IV      *string `json:"iv"`
	Data    *string `json:"data"`
}

// Encode serializes env. It refuses envelopes that Decode would reject and
// always writes the version key.
func Encode(env models.VaultEnvelope) ([]byte, error) {
	version := env.Version
	if version == 0 {
		version = CurrentVersion
	}
	if version != CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	if err := checkLengths(env.Salt, env.Nonce, env.Ciphertext); err != nil {
		return nil, err
	}

	salt := base64.StdEncoding.EncodeToString(env.Salt)
	iv := base64.StdEncoding.EncodeToString(env.Nonce)
	data := base64.StdEncoding.EncodeToString(env.Ciphertext)

	out, err := json.Marshal(storedEnvelope{
		Version: &version,
		Salt:    &salt,
		IV:      &iv,
		Data:    &data,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return out, nil
}

// Decode parses stored bytes into an envelope. Errors match
// [ErrMalformedEnvelope] or [ErrUnsupportedVersion] under errors.Is.
func Decode(raw []byte) (models.VaultEnvelope, error) {
	var stored storedEnvelope
	if err := json.Unmarshal(raw, &stored); err != nil {
		return models.VaultEnvelope{}, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	version := CurrentVersion
	if stored.Version != nil {
		version = *stored.Version
	}
	if version != CurrentVersion {
		return models.VaultEnvelope{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	salt, err := decodeField("salt", stored.Salt)
	if err != nil {
		return models.VaultEnvelope{}, err
	}
	nonce, err := decodeField("iv", stored.IV)
	if err != nil {
		return models.VaultEnvelope{}, err
	}
	data, err := decodeField("data", stored.Data)
	if err != nil {
		return models.VaultEnvelope{}, err
	}

	if err = checkLengths(salt, nonce, data); err != nil {
		return models.VaultEnvelope{}, err
	}

	return models.VaultEnvelope{
		Version:    version,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: data,
	}, nil
}

func decodeField(name string, value *string) ([]byte, error) {
	if value == nil {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedEnvelope, name)
	}
	b, err := base64.StdEncoding.DecodeString(*value)
	if err != nil {
		return nil, fmt.Errorf("%w: field %q: %v", ErrMalformedEnvelope, name, err)
	}
	return b, nil
}

func checkLengths(salt, nonce, ciphertext []byte) error {
	switch {
	case len(salt) != crypto.SaltSize:
		return fmt.Errorf("%w: salt is %d bytes, want %d", ErrMalformedEnvelope, len(salt), crypto.SaltSize)
	case len(nonce) != crypto.NonceSize:
		return fmt.Errorf("%w: iv is %d bytes, want %d", ErrMalformedEnvelope, len(nonce), crypto.NonceSize)
	case len(ciphertext) < crypto.TagSize:
		return fmt.Errorf("%w: data is %d bytes, want at least %d", ErrMalformedEnvelope, len(ciphertext), crypto.TagSize)
	}
	return nil
}
