// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"github.com/awnumar/memguard"
)

// Key is a symmetric key held in a memguard locked buffer. The memory is
// excluded from swap and overwritten when the key is destroyed.
type Key struct {
	buf *memguard.LockedBuffer
}

// NewKey moves raw into protected memory. raw is wiped by this call and must
// not be used afterwards.
func NewKey(raw []byte) (*Key, error) {
	if len(raw) != KeySize {
		wipe(raw)
		return nil, ErrInvalidKeyLength
	}
	return &Key{buf: memguard.NewBufferFromBytes(raw)}, nil
}

// Bytes exposes the key material. The slice aliases protected memory and is
// only valid until Destroy is called.
func (k *Key) Bytes() []byte {
	if !k.Alive() {
		return nil
	}
	return k.buf.Bytes()
}

// Alive reports whether the key still holds material.
func (k *Key) Alive() bool {
	return k != nil && k.buf != nil && k.buf.IsAlive()
}

// Destroy wipes the key material. Safe to call more than once and on nil.
func (k *Key) Destroy() {
	if k == nil || k.buf == nil {
		return
	}
	k.buf.Destroy()
}

// wipe zeroes b in place.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
