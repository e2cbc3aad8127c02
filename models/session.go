// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SessionState is the lifecycle state of a vault session.
type SessionState int

const (
	// SessionNoVault means no envelope has ever been persisted.
	SessionNoVault SessionState = iota
	// SessionLocked means an envelope exists but no key is held in memory.
	SessionLocked
	// SessionUnlocked means the derived key and decrypted records are in memory.
	SessionUnlocked
)

// String implements [fmt.Stringer].
func (s SessionState) String() string {
	switch s {
	case SessionNoVault:
		return "no_vault"
	case SessionLocked:
		return "locked"
	case SessionUnlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}
