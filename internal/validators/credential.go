package validators

import (
	"context"
	"slices"
	"strings"

	"github.com/MKhiriev/vaultlock/models"
)

// Field names accepted by [CredentialValidator].
const (
	FieldTitle    = "title"
	FieldPassword = "password"
	// FieldID requires a non-empty id. On a slice it also requires ids to
	// be unique.
	FieldID = "id"
	// FieldDates requires UpdatedAt not to precede CreatedAt. Zero values
	// are skipped.
	FieldDates = "dates"
)

type CredentialValidator struct {
}

func NewCredentialValidator() Validator {
	return &CredentialValidator{}
}

// Validate checks a models.Credential, a *models.Credential or a
// []models.Credential. With no fields a single credential is checked for
// title and password.
func (v *CredentialValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Credential:
		return v.validateCredential(ctx, value, fields...)
	case *models.Credential:
		return v.validateCredential(ctx, *value, fields...)
	case []models.Credential:
		return v.validateCollection(ctx, value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *CredentialValidator) validateCollection(ctx context.Context, records []models.Credential, fields ...string) error {
	uniqueIDs := slices.Contains(fields, FieldID)
	seen := make(map[string]struct{}, len(records))

	for i := range records {
		if err := v.validateCredential(ctx, records[i], fields...); err != nil {
			return err
		}
		if !uniqueIDs {
			continue
		}
		if _, dup := seen[records[i].ID]; dup {
			return ErrDuplicateID
		}
		seen[records[i].ID] = struct{}{}
	}
	return nil
}

func (v *CredentialValidator) validateCredential(_ context.Context, c models.Credential, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldTitle:
			if strings.TrimSpace(c.Title) == "" {
				return ErrEmptyTitle
			}
		case FieldPassword:
			if strings.TrimSpace(c.Password) == "" {
				return ErrEmptyPassword
			}
		case FieldID:
			if c.ID == "" {
				return ErrEmptyID
			}
		case FieldDates:
			if !c.CreatedAt.IsZero() && !c.UpdatedAt.IsZero() && c.UpdatedAt.Before(c.CreatedAt) {
				return ErrInvalidDates
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
