package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when a
// configuration group is incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates an unknown backend or a missing
	// path for a path based backend.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSessionConfigs indicates a non-positive idle timeout or poll
	// interval, or a poll interval longer than the idle timeout.
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")
	// ErrInvalidGeneratorConfigs indicates a password length outside 8..32 or
	// an unknown character class.
	ErrInvalidGeneratorConfigs = errors.New("invalid generator configuration")
	// ErrInvalidLogConfigs indicates an unparsable log level.
	ErrInvalidLogConfigs = errors.New("invalid log configuration")
)
