// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Credential is a single secret stored in the vault.
// It only ever exists in decrypted form inside an unlocked session; on disk
// it lives as part of the encrypted record collection.
//
// JSON field names are part of the storage format: the whole collection is
// serialized as a JSON array of Credential before encryption.
type Credential struct {
	// ID is the unique, stable, opaque identifier of the record.
	// Assigned by the session when the record is added.
	ID string `json:"id"`

	// Title is the human-readable name of the record. Required.
	Title string `json:"title"`

	// Username is the login the secret belongs to. May be empty.
	Username string `json:"username"`

	// Password is the secret value. Required.
	Password string `json:"password"`

	// URL is an optional address where the credential is used.
	URL string `json:"url,omitempty"`

	// Category is one of the fixed [Category] values. Unknown values are
	// normalised to [CategoryOther].
	Category Category `json:"category"`

	// Notes is optional free text.
	Notes string `json:"notes,omitempty"`

	// CreatedAt is set once when the record is added.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is refreshed on every edit. Never earlier than CreatedAt.
	UpdatedAt time.Time `json:"updatedAt"`
}
