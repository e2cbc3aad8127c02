// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// PasswordPolicy describes what a generated password looks like.
type PasswordPolicy struct {
	// Length is the number of characters, 8..32.
	Length int
	// Upper enables A-Z.
	Upper bool
	// Lower enables a-z.
	Lower bool
	// Digits enables 0-9.
	Digits bool
	// Symbols enables punctuation characters.
	Symbols bool
}
