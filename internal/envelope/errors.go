// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package envelope

import "errors"

var (
	// ErrMalformedEnvelope is returned when stored bytes are not a
	// structurally valid envelope: not a JSON object, a missing field, bad
	// base64 or a field of the wrong length.
	ErrMalformedEnvelope = errors.New("malformed vault envelope")

	// ErrUnsupportedVersion is returned for a well-formed envelope whose
	// version this build does not understand.
	ErrUnsupportedVersion = errors.New("unsupported vault envelope version")
)
