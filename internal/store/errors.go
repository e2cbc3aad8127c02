package store

import "errors"

// Sentinel errors returned by [VaultStore] implementations to signal
// well-known failure conditions. Callers should use [errors.Is] to match
// against these values.
var (
	// ErrVaultNotFound is returned by Load when no vault has been saved yet.
	ErrVaultNotFound = errors.New("vault record was not found")

	// ErrUnknownBackend is returned by [NewVaultStore] for a backend name it
	// does not know.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// ErrStoreClosed is returned by the memory backend after Close.
	ErrStoreClosed = errors.New("vault store is closed")
)

// Low-level database operation errors. These are wrapped by the sqlite
// backend when a SQL-level operation fails.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing the upsert fails.
	ErrExecutingStatement = errors.New("failed to executing statement")
)
