// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package envelope converts a [models.VaultEnvelope] to and from its stored
// byte representation.
//
// The stored form is a JSON object with standard base64 fields:
//
//	{"version":1,"salt":"<16 bytes>","iv":"<12 bytes>","data":"<ciphertext||tag>"}
//
// Envelopes without a "version" key are read as version 1. Any other version
// is rejected with [ErrUnsupportedVersion] so that a future format is never
// misread.
package envelope
