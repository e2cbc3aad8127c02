// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
)

// randomSource is the private implementation of [RandomSource] on top of an
// io.Reader.
type randomSource struct {
	reader io.Reader
}

// NewRandomSource returns a [RandomSource] reading from r. Production code
// should use [SystemRandom]; tests may pass a deterministic reader.
func NewRandomSource(r io.Reader) RandomSource {
	return &randomSource{reader: r}
}

// SystemRandom returns a [RandomSource] backed by the OS CSPRNG.
func SystemRandom() RandomSource {
	return &randomSource{reader: rand.Reader}
}

// Bytes implements [RandomSource]. It returns exactly n random bytes or an
// error if the underlying reader comes up short.
func (r *randomSource) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r.reader, b); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return b, nil
}

// Uint32 implements [RandomSource].
func (r *randomSource) Uint32() (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r.reader, buf[:]); err != nil {
		return 0, fmt.Errorf("read random uint32: %w", err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}
