// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package generator produces random passwords from a [models.PasswordPolicy]
// and estimates password strength.
package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/vaultlock/internal/crypto"
	"github.com/MKhiriev/vaultlock/models"
)

// Character classes.
const (
	UpperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	LowerChars  = "abcdefghijklmnopqrstuvwxyz"
	DigitChars  = "0123456789"
	SymbolChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// Length bounds accepted by Generate.
const (
	MinLength = 8
	MaxLength = 32
)

// ErrInvalidLength is returned for a policy length outside MinLength..MaxLength.
var ErrInvalidLength = errors.New("password length out of range")

// DefaultPolicy is 16 characters drawn from every class.
func DefaultPolicy() models.PasswordPolicy {
	return models.PasswordPolicy{
		Length:  16,
		Upper:   true,
		Lower:   true,
		Digits:  true,
		Symbols: true,
	}
}

// PasswordGenerator creates passwords and rates them.
type PasswordGenerator interface {
	// Generate returns a password following policy.
	Generate(policy models.PasswordPolicy) (string, error)

	// Strength rates password. Advisory only.
	Strength(password string) Strength
}

type passwordGenerator struct {
	random crypto.RandomSource
}

// NewPasswordGenerator returns a [PasswordGenerator] drawing from rnd.
func NewPasswordGenerator(rnd crypto.RandomSource) PasswordGenerator {
	return &passwordGenerator{random: rnd}
}

// Charset returns the union of the classes enabled in policy, in the fixed
// order upper, lower, digits, symbols. With no class enabled it falls back
// to lowercase.
func Charset(policy models.PasswordPolicy) string {
	var b strings.Builder
	if policy.Upper {
		b.WriteString(UpperChars)
	}
	if policy.Lower {
		b.WriteString(LowerChars)
	}
	if policy.Digits {
		b.WriteString(DigitChars)
	}
	if policy.Symbols {
		b.WriteString(SymbolChars)
	}
	if b.Len() == 0 {
		return LowerChars
	}
	return b.String()
}

// Generate picks each character as charset[r mod len(charset)] for a fresh
// random uint32 r. The modulo carries a bias below 2^-24 per character for
// these charset sizes, which is accepted.
func (g *passwordGenerator) Generate(policy models.PasswordPolicy) (string, error) {
	if policy.Length < MinLength || policy.Length > MaxLength {
		return "", fmt.Errorf("%w: %d not in %d..%d", ErrInvalidLength, policy.Length, MinLength, MaxLength)
	}

	charset := Charset(policy)
	n := uint32(len(charset))

	out := make([]byte, policy.Length)
	for i := range out {
		r, err := g.random.Uint32()
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		out[i] = charset[r%n]
	}
	return string(out), nil
}
