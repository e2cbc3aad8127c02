// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"

	"github.com/MKhiriev/vaultlock/internal/app"
	"github.com/MKhiriev/vaultlock/internal/envelope"
)

// UserMessage translates an error returned by this package into the message
// shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrWeakPassword):
		return app.MsgWeakPassword
	case errors.Is(err, ErrPasswordMismatch):
		return app.MsgPasswordMismatch
	case errors.Is(err, ErrInvalidCredentials):
		return app.MsgInvalidCredentials
	case errors.Is(err, ErrPersistenceFailure):
		return app.MsgPersistenceFailure
	case errors.Is(err, ErrVaultLocked):
		return app.MsgVaultLocked
	case errors.Is(err, ErrVaultUnlocked):
		return app.MsgVaultUnlocked
	case errors.Is(err, ErrAlreadyUnlocked):
		return app.MsgAlreadyUnlocked
	case errors.Is(err, ErrVaultAlreadyExists):
		return app.MsgVaultAlreadyExists
	case errors.Is(err, ErrNoVault):
		return app.MsgNoVault
	case errors.Is(err, ErrRecordNotFound):
		return app.MsgRecordNotFound
	case errors.Is(err, ErrInvalidRecord):
		return app.MsgInvalidRecord
	case errors.Is(err, envelope.ErrMalformedEnvelope):
		return app.MsgMalformedBackup
	case errors.Is(err, envelope.ErrUnsupportedVersion):
		return app.MsgUnsupportedBackup
	default:
		return app.MsgInternalError
	}
}
