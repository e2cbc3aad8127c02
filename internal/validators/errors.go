package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyTitle    = errors.New("title is empty")
	ErrEmptyPassword = errors.New("password is empty")
	ErrInvalidDates  = errors.New("updated before created")
	ErrEmptyID       = errors.New("id is empty")
	ErrDuplicateID   = errors.New("duplicate id")
)
