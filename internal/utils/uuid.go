// Package utils holds small helpers shared by the vaultlock packages.
package utils

import "github.com/google/uuid"

// RecordIDGenerator issues credential ids. Ids are UUIDv7, so records added
// later sort after earlier ones; a random v4 id is used if the clock based
// variant cannot be produced.
type RecordIDGenerator struct {
	newV7 func() (uuid.UUID, error)
}

func NewUUIDGenerator() *RecordIDGenerator {
	return &RecordIDGenerator{newV7: uuid.NewV7}
}

func (g *RecordIDGenerator) Generate() string {
	id, err := g.newV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
