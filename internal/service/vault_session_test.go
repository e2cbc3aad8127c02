// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/vaultlock/internal/crypto"
	"github.com/MKhiriev/vaultlock/internal/envelope"
	"github.com/MKhiriev/vaultlock/internal/logger"
	"github.com/MKhiriev/vaultlock/internal/mock"
	"github.com/MKhiriev/vaultlock/internal/store"
	"github.com/MKhiriev/vaultlock/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testPassword  = "Sup3rSecret!"
	wrongPassword = "wrongpass"
)

var errDiskFull = errors.New("disk full")

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// seqIDs hands out "id-1", "id-2", ...
type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func newTestKeyChain() crypto.KeyChainService {
	return crypto.NewKeyChainService(crypto.SystemRandom())
}

func newTestSession(t *testing.T, vaultStore store.VaultStore, opts ...SessionOption) *vaultSession {
	t.Helper()
	opts = append([]SessionOption{WithIDGenerator(&seqIDs{})}, opts...)
	s, err := NewVaultSession(context.Background(), vaultStore, newTestKeyChain(), logger.Nop(), opts...)
	require.NoError(t, err)
	return s.(*vaultSession)
}

// newUnlockedSession returns a freshly set up session and its backing store.
func newUnlockedSession(t *testing.T, opts ...SessionOption) (*vaultSession, store.VaultStore) {
	t.Helper()
	vaultStore := store.NewMemoryVaultStore()
	s := newTestSession(t, vaultStore, opts...)
	require.NoError(t, s.Setup(context.Background(), testPassword, testPassword))
	return s, vaultStore
}

func gmailRecord() models.Credential {
	return models.Credential{
		Title:    "Gmail",
		Username: "a@b.c",
		Password: "x1",
		Category: models.CategoryEmail,
	}
}

func loadEnvelope(t *testing.T, vaultStore store.VaultStore) models.VaultEnvelope {
	t.Helper()
	raw, err := vaultStore.Load(context.Background())
	require.NoError(t, err)
	env, err := envelope.Decode(raw)
	require.NoError(t, err)
	return env
}

// ── NewVaultSession ──────────────────────────────────────────────────────────

func TestNewVaultSession_InitialState(t *testing.T) {
	t.Run("empty store starts without vault", func(t *testing.T) {
		s := newTestSession(t, store.NewMemoryVaultStore())
		assert.Equal(t, models.SessionNoVault, s.State())
	})

	t.Run("existing vault starts locked", func(t *testing.T) {
		_, vaultStore := newUnlockedSession(t)

		s := newTestSession(t, vaultStore)
		assert.Equal(t, models.SessionLocked, s.State())
	})
}

func TestNewVaultSession_ProbeError(t *testing.T) {
	ctrl := gomock.NewController(t)
	vaultStore := mock.NewMockVaultStore(ctrl)
	vaultStore.EXPECT().Exists(gomock.Any()).Return(false, errDiskFull)

	s, err := NewVaultSession(context.Background(), vaultStore, newTestKeyChain(), logger.Nop())

	require.Error(t, err)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrPersistenceFailure)
	assert.ErrorIs(t, err, errDiskFull)
}

// ── Setup ────────────────────────────────────────────────────────────────────

func TestVaultSession_Setup(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		wantErr  error
	}{
		{name: "valid", password: testPassword, confirm: testPassword},
		{name: "exactly eight characters", password: "abcdefgh", confirm: "abcdefgh"},
		{name: "eight multibyte characters", password: "пароль12", confirm: "пароль12"},
		{name: "too short", password: "short12", confirm: "short12", wantErr: ErrWeakPassword},
		{name: "too short wins over mismatch", password: "short", confirm: "other", wantErr: ErrWeakPassword},
		{name: "empty", password: "", confirm: "", wantErr: ErrWeakPassword},
		{name: "mismatch", password: testPassword, confirm: testPassword + "x", wantErr: ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			vaultStore := store.NewMemoryVaultStore()
			s := newTestSession(t, vaultStore)

			// Act
			err := s.Setup(context.Background(), tt.password, tt.confirm)

			// Assert
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, models.SessionNoVault, s.State())
				exists, existsErr := vaultStore.Exists(context.Background())
				require.NoError(t, existsErr)
				assert.False(t, exists, "nothing must be stored on a rejected setup")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, models.SessionUnlocked, s.State())
			records, listErr := s.ListRecords()
			require.NoError(t, listErr)
			assert.Empty(t, records)

			env := loadEnvelope(t, vaultStore)
			assert.Equal(t, envelope.CurrentVersion, env.Version)
			assert.Len(t, env.Salt, crypto.SaltSize)
			assert.Len(t, env.Nonce, crypto.NonceSize)
		})
	}
}

func TestVaultSession_Setup_StoresEmptyCollection(t *testing.T) {
	_, vaultStore := newUnlockedSession(t)
	env := loadEnvelope(t, vaultStore)

	keys := newTestKeyChain()
	key, err := keys.DeriveKey(testPassword, env.Salt)
	require.NoError(t, err)
	defer key.Destroy()

	plaintext, err := keys.Open(env.Ciphertext, key, env.Nonce)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(plaintext))
}

func TestVaultSession_Setup_VaultAlreadyExists(t *testing.T) {
	s, _ := newUnlockedSession(t)

	err := s.Setup(context.Background(), testPassword, testPassword)
	assert.ErrorIs(t, err, ErrVaultAlreadyExists)

	s.Lock()
	err = s.Setup(context.Background(), testPassword, testPassword)
	assert.ErrorIs(t, err, ErrVaultAlreadyExists)
}

func TestVaultSession_Setup_PersistenceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	vaultStore := mock.NewMockVaultStore(ctrl)
	vaultStore.EXPECT().Exists(gomock.Any()).Return(false, nil)
	vaultStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errDiskFull)

	s := newTestSession(t, vaultStore)
	err := s.Setup(context.Background(), testPassword, testPassword)

	assert.ErrorIs(t, err, ErrPersistenceFailure)
	assert.Equal(t, models.SessionNoVault, s.State())
	assert.Nil(t, s.key)
}

func TestVaultSession_Setup_CancelledContext(t *testing.T) {
	s := newTestSession(t, store.NewMemoryVaultStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Setup(ctx, testPassword, testPassword)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, models.SessionNoVault, s.State())
}

// ── Unlock / Lock ────────────────────────────────────────────────────────────

func TestVaultSession_WrongPasswordThenRightPassword(t *testing.T) {
	// Arrange
	s, _ := newUnlockedSession(t)
	_, err := s.UpsertRecord(context.Background(), gmailRecord())
	require.NoError(t, err)
	s.Lock()

	// Act & Assert: wrong password leaves the session locked
	err = s.Unlock(context.Background(), wrongPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, models.SessionLocked, s.State())
	_, err = s.ListRecords()
	assert.ErrorIs(t, err, ErrVaultLocked)

	// Act & Assert: the right one restores the records
	require.NoError(t, s.Unlock(context.Background(), testPassword))
	assert.Equal(t, models.SessionUnlocked, s.State())
	records, err := s.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Gmail", records[0].Title)
}

func TestVaultSession_RecordsSurviveRestart(t *testing.T) {
	// Arrange
	s, vaultStore := newUnlockedSession(t)
	saved, err := s.UpsertRecord(context.Background(), gmailRecord())
	require.NoError(t, err)
	s.Lock()

	// Act: a new session over the same storage
	restarted := newTestSession(t, vaultStore)
	require.Equal(t, models.SessionLocked, restarted.State())
	require.NoError(t, restarted.Unlock(context.Background(), testPassword))

	// Assert
	records, err := restarted.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	got := records[0]
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "Gmail", got.Title)
	assert.Equal(t, "a@b.c", got.Username)
	assert.Equal(t, "x1", got.Password)
	assert.Equal(t, models.CategoryEmail, got.Category)
	assert.True(t, saved.CreatedAt.Equal(got.CreatedAt))
}

func TestVaultSession_Unlock_StateErrors(t *testing.T) {
	t.Run("no vault", func(t *testing.T) {
		s := newTestSession(t, store.NewMemoryVaultStore())
		assert.ErrorIs(t, s.Unlock(context.Background(), testPassword), ErrNoVault)
	})

	t.Run("already unlocked", func(t *testing.T) {
		s, _ := newUnlockedSession(t)
		assert.ErrorIs(t, s.Unlock(context.Background(), testPassword), ErrAlreadyUnlocked)
	})

	t.Run("vault removed behind the session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		vaultStore := mock.NewMockVaultStore(ctrl)
		vaultStore.EXPECT().Exists(gomock.Any()).Return(true, nil)
		vaultStore.EXPECT().Load(gomock.Any()).Return(nil, store.ErrVaultNotFound)

		s := newTestSession(t, vaultStore)
		err := s.Unlock(context.Background(), testPassword)

		assert.ErrorIs(t, err, ErrNoVault)
		assert.Equal(t, models.SessionNoVault, s.State())
	})
}

func TestVaultSession_Unlock_StorageReadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	vaultStore := mock.NewMockVaultStore(ctrl)
	vaultStore.EXPECT().Exists(gomock.Any()).Return(true, nil)
	vaultStore.EXPECT().Load(gomock.Any()).Return(nil, errDiskFull)

	s := newTestSession(t, vaultStore)
	err := s.Unlock(context.Background(), testPassword)

	assert.ErrorIs(t, err, ErrPersistenceFailure)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, models.SessionLocked, s.State())
}

func TestVaultSession_Unlock_DamagedVault(t *testing.T) {
	_, vaultStore := newUnlockedSession(t)
	good, err := vaultStore.Load(context.Background())
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(good, &wire))

	flipFirstByte := func(field string) []byte {
		raw, decodeErr := base64.StdEncoding.DecodeString(wire[field].(string))
		require.NoError(t, decodeErr)
		raw[0] ^= 0x01
		m := map[string]any{}
		for k, v := range wire {
			m[k] = v
		}
		m[field] = base64.StdEncoding.EncodeToString(raw)
		out, marshalErr := json.Marshal(m)
		require.NoError(t, marshalErr)
		return out
	}

	tests := []struct {
		name string
		data []byte
	}{
		{name: "tampered ciphertext", data: flipFirstByte("data")},
		{name: "tampered nonce", data: flipFirstByte("iv")},
		{name: "tampered salt", data: flipFirstByte("salt")},
		{name: "not json", data: []byte("not an envelope")},
		{name: "unsupported version", data: []byte(`{"version":2,"salt":"","iv":"","data":""}`)},
		{name: "missing data", data: []byte(`{"version":1,"salt":"AAAAAAAAAAAAAAAAAAAAAA==","iv":"AAAAAAAAAAAAAAAA"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			damaged := store.NewMemoryVaultStore()
			require.NoError(t, damaged.Save(context.Background(), tt.data))

			s := newTestSession(t, damaged)
			err := s.Unlock(context.Background(), testPassword)

			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Equal(t, models.SessionLocked, s.State())
		})
	}
}

func TestVaultSession_Unlock_LegacyEnvelope(t *testing.T) {
	// Arrange: an envelope without version carrying a record with an
	// unknown category
	keys := newTestKeyChain()
	salt, err := keys.GenerateSalt()
	require.NoError(t, err)
	key, err := keys.DeriveKey(testPassword, salt)
	require.NoError(t, err)
	defer key.Destroy()

	plaintext := []byte(`[{"id":"legacy-1","title":"Forum","username":"me","password":"pw","category":"forums","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}]`)
	nonce, sealed, err := keys.Seal(plaintext, key)
	require.NoError(t, err)

	legacy := fmt.Sprintf(`{"salt":%q,"iv":%q,"data":%q}`,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(nonce),
		base64.StdEncoding.EncodeToString(sealed),
	)
	vaultStore := store.NewMemoryVaultStore()
	require.NoError(t, vaultStore.Save(context.Background(), []byte(legacy)))

	// Act
	s := newTestSession(t, vaultStore)
	require.NoError(t, s.Unlock(context.Background(), testPassword))

	// Assert
	records, err := s.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "legacy-1", records[0].ID)
	assert.Equal(t, models.CategoryOther, records[0].Category)
}

func TestVaultSession_Unlock_NullCollection(t *testing.T) {
	keys := newTestKeyChain()
	salt, err := keys.GenerateSalt()
	require.NoError(t, err)
	key, err := keys.DeriveKey(testPassword, salt)
	require.NoError(t, err)
	defer key.Destroy()

	nonce, sealed, err := keys.Seal([]byte("null"), key)
	require.NoError(t, err)
	raw, err := envelope.Encode(models.VaultEnvelope{Salt: salt, Nonce: nonce, Ciphertext: sealed})
	require.NoError(t, err)

	vaultStore := store.NewMemoryVaultStore()
	require.NoError(t, vaultStore.Save(context.Background(), raw))

	s := newTestSession(t, vaultStore)
	require.NoError(t, s.Unlock(context.Background(), testPassword))

	records, err := s.ListRecords()
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestVaultSession_Unlock_CancelledContext(t *testing.T) {
	s, _ := newUnlockedSession(t)
	s.Lock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Unlock(ctx, testPassword)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, models.SessionLocked, s.State())
}

func TestVaultSession_Lock(t *testing.T) {
	s, _ := newUnlockedSession(t)
	key := s.key
	require.True(t, key.Alive())

	s.Lock()

	assert.Equal(t, models.SessionLocked, s.State())
	assert.False(t, key.Alive(), "key must be destroyed on lock")
	assert.Nil(t, s.key)
	assert.Nil(t, s.records)

	// idempotent, including without a vault
	assert.NotPanics(t, s.Lock)
	empty := newTestSession(t, store.NewMemoryVaultStore())
	empty.Lock()
	assert.Equal(t, models.SessionNoVault, empty.State())
}

func TestVaultSession_LockedOperations(t *testing.T) {
	s, _ := newUnlockedSession(t)
	saved, err := s.UpsertRecord(context.Background(), gmailRecord())
	require.NoError(t, err)
	s.Lock()

	_, err = s.ListRecords()
	assert.ErrorIs(t, err, ErrVaultLocked)
	_, err = s.Record(saved.ID)
	assert.ErrorIs(t, err, ErrVaultLocked)
	_, err = s.UpsertRecord(context.Background(), gmailRecord())
	assert.ErrorIs(t, err, ErrVaultLocked)
	assert.ErrorIs(t, s.DeleteRecord(context.Background(), saved.ID), ErrVaultLocked)
}

// ── UpsertRecord ─────────────────────────────────────────────────────────────

func TestVaultSession_UpsertRecord_Create(t *testing.T) {
	clock := newFakeClock()
	s, _ := newUnlockedSession(t, WithClock(clock.Now))

	rec := gmailRecord()
	rec.Category = "unheard-of"
	saved, err := s.UpsertRecord(context.Background(), rec)

	require.NoError(t, err)
	assert.Equal(t, "id-1", saved.ID)
	assert.Equal(t, clock.Now(), saved.CreatedAt)
	assert.Equal(t, clock.Now(), saved.UpdatedAt)
	assert.Equal(t, models.CategoryOther, saved.Category)

	got, err := s.Record(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestVaultSession_UpsertRecord_Update(t *testing.T) {
	// Arrange
	clock := newFakeClock()
	s, _ := newUnlockedSession(t, WithClock(clock.Now))
	first, err := s.UpsertRecord(context.Background(), gmailRecord())
	require.NoError(t, err)
	second, err := s.UpsertRecord(context.Background(), models.Credential{Title: "GitHub", Password: "gh"})
	require.NoError(t, err)
	clock.Advance(time.Hour)

	// Act
	edit := first
	edit.Password = "x2"
	edit.CreatedAt = time.Time{}
	updated, err := s.UpsertRecord(context.Background(), edit)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, first.CreatedAt, updated.CreatedAt, "createdAt must be kept")
	assert.Equal(t, clock.Now(), updated.UpdatedAt)
	assert.Equal(t, "x2", updated.Password)

	records, err := s.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].ID, "order is insertion order")
	assert.Equal(t, "x2", records[0].Password)
	assert.Equal(t, second.ID, records[1].ID)
}

func TestVaultSession_UpsertRecord_ClockWentBackwards(t *testing.T) {
	clock := newFakeClock()
	s, _ := newUnlockedSession(t, WithClock(clock.Now))
	saved, err := s.UpsertRecord(context.Background(), gmailRecord())
	require.NoError(t, err)

	clock.Advance(-time.Hour)
	updated, err := s.UpsertRecord(context.Background(), saved)

	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestVaultSession_UpsertRecord_Errors(t *testing.T) {
	tests := []struct {
		name    string
		record  models.Credential
		wantErr error
	}{
		{name: "empty title", record: models.Credential{Password: "pw"}, wantErr: ErrInvalidRecord},
		{name: "whitespace title", record: models.Credential{Title: "  \t", Password: "pw"}, wantErr: ErrInvalidRecord},
		{name: "empty password", record: models.Credential{Title: "Gmail"}, wantErr: ErrInvalidRecord},
		{name: "whitespace password", record: models.Credential{Title: "Gmail", Password: "   "}, wantErr: ErrInvalidRecord},
		{name: "unknown id", record: models.Credential{ID: "missing", Title: "Gmail", Password: "pw"}, wantErr: ErrRecordNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, vaultStore := newUnlockedSession(t)
			before, err := vaultStore.Load(context.Background())
			require.NoError(t, err)

			_, err = s.UpsertRecord(context.Background(), tt.record)

			assert.ErrorIs(t, err, tt.wantErr)
			after, err := vaultStore.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, before, after, "storage must not change")
			records, err := s.ListRecords()
			require.NoError(t, err)
			assert.Empty(t, records)
		})
	}
}

func TestVaultSession_UpsertRecord_FreshNonceSameSalt(t *testing.T) {
	s, vaultStore := newUnlockedSession(t)
	first := loadEnvelope(t, vaultStore)

	_, err := s.UpsertRecord(context.Background(), gmailRecord())
	require.NoError(t, err)
	second := loadEnvelope(t, vaultStore)

	assert.Equal(t, first.Salt, second.Salt, "salt never changes")
	assert.NotEqual(t, first.Nonce, second.Nonce, "every write uses a fresh nonce")
}

func TestVaultSession_UpsertRecord_PersistenceFailure(t *testing.T) {
	// Arrange: setup succeeds, the next write fails
	ctrl := gomock.NewController(t)
	vaultStore := mock.NewMockVaultStore(ctrl)
	var stored []byte
	gomock.InOrder(
		vaultStore.EXPECT().Exists(gomock.Any()).Return(false, nil),
		vaultStore.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, data []byte) error {
			stored = append([]byte(nil), data...)
			return nil
		}),
		vaultStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errDiskFull),
	)

	s := newTestSession(t, vaultStore)
	require.NoError(t, s.Setup(context.Background(), testPassword, testPassword))
	storedBefore := append([]byte(nil), stored...)

	// Act
	_, err := s.UpsertRecord(context.Background(), gmailRecord())

	// Assert
	assert.ErrorIs(t, err, ErrPersistenceFailure)
	assert.ErrorIs(t, err, errDiskFull)
	records, listErr := s.ListRecords()
	require.NoError(t, listErr)
	assert.Empty(t, records, "in-memory records must not change")
	assert.Equal(t, storedBefore, stored, "stored vault must not change")
	assert.Equal(t, models.SessionUnlocked, s.State())
}

func TestVaultSession_UpsertRecord_SealFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	keys := mock.NewMockKeyChainService(ctrl)
	vaultStore := store.NewMemoryVaultStore()
	keyChain := newTestKeyChain()

	salt, err := keyChain.GenerateSalt()
	require.NoError(t, err)
	keys.EXPECT().GenerateSalt().Return(salt, nil)
	keys.EXPECT().DeriveKey(testPassword, salt).DoAndReturn(keyChain.DeriveKey)
	gomock.InOrder(
		keys.EXPECT().Seal(gomock.Any(), gomock.Any()).DoAndReturn(keyChain.Seal),
		keys.EXPECT().Seal(gomock.Any(), gomock.Any()).Return(nil, nil, errors.New("entropy source failed")),
	)

	sess, err := NewVaultSession(context.Background(), vaultStore, keys, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, sess.Setup(context.Background(), testPassword, testPassword))

	_, err = sess.UpsertRecord(context.Background(), gmailRecord())

	assert.ErrorIs(t, err, ErrPersistenceFailure)
	records, err := sess.ListRecords()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestVaultSession_UpsertRecord_CancelledContext(t *testing.T) {
	s, _ := newUnlockedSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.UpsertRecord(ctx, gmailRecord())

	assert.ErrorIs(t, err, context.Canceled)
	records, err := s.ListRecords()
	require.NoError(t, err)
	assert.Empty(t, records)
}

// ── DeleteRecord ─────────────────────────────────────────────────────────────

func TestVaultSession_DeleteRecord(t *testing.T) {
	// Arrange
	s, vaultStore := newUnlockedSession(t)
	a, err := s.UpsertRecord(context.Background(), models.Credential{Title: "A", Password: "1"})
	require.NoError(t, err)
	b, err := s.UpsertRecord(context.Background(), models.Credential{Title: "B", Password: "2"})
	require.NoError(t, err)
	c, err := s.UpsertRecord(context.Background(), models.Credential{Title: "C", Password: "3"})
	require.NoError(t, err)

	// Act
	require.NoError(t, s.DeleteRecord(context.Background(), b.ID))

	// Assert
	records, err := s.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, a.ID, records[0].ID)
	assert.Equal(t, c.ID, records[1].ID)

	_, err = s.Record(b.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	s.Lock()
	reopened := newTestSession(t, vaultStore)
	require.NoError(t, reopened.Unlock(context.Background(), testPassword))
	records, err = reopened.ListRecords()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestVaultSession_DeleteRecord_NotFound(t *testing.T) {
	s, _ := newUnlockedSession(t)
	assert.ErrorIs(t, s.DeleteRecord(context.Background(), "missing"), ErrRecordNotFound)
}

func TestVaultSession_DeleteRecord_PersistenceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	vaultStore := mock.NewMockVaultStore(ctrl)
	gomock.InOrder(
		vaultStore.EXPECT().Exists(gomock.Any()).Return(false, nil),
		vaultStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2),
		vaultStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errDiskFull),
	)

	s := newTestSession(t, vaultStore)
	require.NoError(t, s.Setup(context.Background(), testPassword, testPassword))
	saved, err := s.UpsertRecord(context.Background(), gmailRecord())
	require.NoError(t, err)

	err = s.DeleteRecord(context.Background(), saved.ID)

	assert.ErrorIs(t, err, ErrPersistenceFailure)
	got, err := s.Record(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

// ── ListRecords / Record ─────────────────────────────────────────────────────

func TestVaultSession_ListRecords_ReturnsCopy(t *testing.T) {
	s, _ := newUnlockedSession(t)
	_, err := s.UpsertRecord(context.Background(), gmailRecord())
	require.NoError(t, err)

	records, err := s.ListRecords()
	require.NoError(t, err)
	records[0].Title = "changed"

	again, err := s.ListRecords()
	require.NoError(t, err)
	assert.Equal(t, "Gmail", again[0].Title)
}

// ── ExportEnvelope / ImportEnvelope ──────────────────────────────────────────

func TestVaultSession_ExportEnvelope(t *testing.T) {
	t.Run("no vault", func(t *testing.T) {
		s := newTestSession(t, store.NewMemoryVaultStore())
		_, err := s.ExportEnvelope(context.Background())
		assert.ErrorIs(t, err, ErrNoVault)
	})

	t.Run("verbatim while unlocked and locked", func(t *testing.T) {
		s, vaultStore := newUnlockedSession(t)
		_, err := s.UpsertRecord(context.Background(), gmailRecord())
		require.NoError(t, err)
		stored, err := vaultStore.Load(context.Background())
		require.NoError(t, err)

		unlocked, err := s.ExportEnvelope(context.Background())
		require.NoError(t, err)
		assert.Equal(t, stored, unlocked)

		s.Lock()
		locked, err := s.ExportEnvelope(context.Background())
		require.NoError(t, err)
		assert.Equal(t, stored, locked)
	})

	t.Run("storage read failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		vaultStore := mock.NewMockVaultStore(ctrl)
		vaultStore.EXPECT().Exists(gomock.Any()).Return(true, nil)
		vaultStore.EXPECT().Load(gomock.Any()).Return(nil, errDiskFull)

		s := newTestSession(t, vaultStore)
		_, err := s.ExportEnvelope(context.Background())
		assert.ErrorIs(t, err, ErrPersistenceFailure)
	})
}

func TestVaultSession_ExportImportRoundTrip(t *testing.T) {
	// Arrange
	source, _ := newUnlockedSession(t)
	_, err := source.UpsertRecord(context.Background(), gmailRecord())
	require.NoError(t, err)
	backup, err := source.ExportEnvelope(context.Background())
	require.NoError(t, err)

	targetStore := store.NewMemoryVaultStore()
	target := newTestSession(t, targetStore)

	// Act
	require.NoError(t, target.ImportEnvelope(context.Background(), backup))

	// Assert
	assert.Equal(t, models.SessionLocked, target.State())
	stored, err := targetStore.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, backup, stored, "import stores bytes verbatim")

	require.NoError(t, target.Unlock(context.Background(), testPassword))
	records, err := target.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Gmail", records[0].Title)
}

func TestVaultSession_ImportEnvelope_Errors(t *testing.T) {
	t.Run("unlocked session", func(t *testing.T) {
		s, vaultStore := newUnlockedSession(t)
		backup, err := vaultStore.Load(context.Background())
		require.NoError(t, err)

		assert.ErrorIs(t, s.ImportEnvelope(context.Background(), backup), ErrVaultUnlocked)
		assert.Equal(t, models.SessionUnlocked, s.State())
	})

	t.Run("malformed backup", func(t *testing.T) {
		vaultStore := store.NewMemoryVaultStore()
		s := newTestSession(t, vaultStore)

		err := s.ImportEnvelope(context.Background(), []byte(`{"version":1}`))

		assert.ErrorIs(t, err, envelope.ErrMalformedEnvelope)
		assert.Equal(t, models.SessionNoVault, s.State())
		exists, existsErr := vaultStore.Exists(context.Background())
		require.NoError(t, existsErr)
		assert.False(t, exists)
	})

	t.Run("unsupported version", func(t *testing.T) {
		s := newTestSession(t, store.NewMemoryVaultStore())
		err := s.ImportEnvelope(context.Background(), []byte(`{"version":7,"salt":"","iv":"","data":""}`))
		assert.ErrorIs(t, err, envelope.ErrUnsupportedVersion)
	})

	t.Run("storage write failure", func(t *testing.T) {
		_, source := newUnlockedSession(t)
		backup, err := source.Load(context.Background())
		require.NoError(t, err)

		ctrl := gomock.NewController(t)
		vaultStore := mock.NewMockVaultStore(ctrl)
		vaultStore.EXPECT().Exists(gomock.Any()).Return(false, nil)
		vaultStore.EXPECT().Save(gomock.Any(), backup).Return(errDiskFull)

		s := newTestSession(t, vaultStore)
		err = s.ImportEnvelope(context.Background(), backup)

		assert.ErrorIs(t, err, ErrPersistenceFailure)
		assert.Equal(t, models.SessionNoVault, s.State())
	})
}

func TestVaultSession_ImportEnvelope_ReplacesLockedVault(t *testing.T) {
	s, vaultStore := newUnlockedSession(t)
	_, err := s.UpsertRecord(context.Background(), gmailRecord())
	require.NoError(t, err)
	s.Lock()

	other, _ := newUnlockedSession(t)
	backup, err := other.ExportEnvelope(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.ImportEnvelope(context.Background(), backup))

	stored, err := vaultStore.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, backup, stored)
	require.NoError(t, s.Unlock(context.Background(), testPassword))
	records, err := s.ListRecords()
	require.NoError(t, err)
	assert.Empty(t, records)
}

// loadHookStore runs afterLoad once each Load has read the stored vault.
type loadHookStore struct {
	store.VaultStore
	loads     int
	afterLoad func()
}

func (h *loadHookStore) Load(ctx context.Context) ([]byte, error) {
	raw, err := h.VaultStore.Load(ctx)
	h.loads++
	if h.afterLoad != nil {
		h.afterLoad()
	}
	return raw, err
}

// backupWith returns the envelope of a separate vault sealed with password
// and holding records.
func backupWith(t *testing.T, password string, records ...models.Credential) []byte {
	t.Helper()
	other := newTestSession(t, store.NewMemoryVaultStore())
	require.NoError(t, other.Setup(context.Background(), password, password))
	for _, rec := range records {
		_, err := other.UpsertRecord(context.Background(), rec)
		require.NoError(t, err)
	}
	backup, err := other.ExportEnvelope(context.Background())
	require.NoError(t, err)
	return backup
}

func TestVaultSession_Unlock_VaultImportedDuringUnlock(t *testing.T) {
	githubRecord := models.Credential{Title: "GitHub", Password: "x2", Category: models.CategoryDev}

	tests := []struct {
		name           string
		backupPassword string
		wantErr        error
		wantState      models.SessionState
	}{
		{name: "same password opens the imported vault", backupPassword: testPassword, wantState: models.SessionUnlocked},
		{name: "other password is rejected", backupPassword: "An0ther-Secret", wantErr: ErrInvalidCredentials, wantState: models.SessionLocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange: a locked vault holding Gmail, and a backup holding GitHub
			seeded, inner := newUnlockedSession(t)
			_, err := seeded.UpsertRecord(context.Background(), gmailRecord())
			require.NoError(t, err)
			seeded.Lock()
			backup := backupWith(t, tt.backupPassword, githubRecord)

			hooked := &loadHookStore{VaultStore: inner}
			s := newTestSession(t, hooked)
			var importErr error
			hooked.afterLoad = func() {
				hooked.afterLoad = nil
				importErr = s.ImportEnvelope(context.Background(), backup)
			}

			// Act
			err = s.Unlock(context.Background(), testPassword)

			// Assert
			require.NoError(t, importErr)
			assert.Equal(t, 2, hooked.loads, "the unlock must start over after the import")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantState, s.State())

			stored, err := inner.Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, backup, stored, "the imported vault must stay in storage")

			if tt.wantState != models.SessionUnlocked {
				return
			}
			records, err := s.ListRecords()
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "GitHub", records[0].Title)

			// a later write keeps the imported vault's salt
			_, err = s.UpsertRecord(context.Background(), gmailRecord())
			require.NoError(t, err)
			before, err := envelope.Decode(backup)
			require.NoError(t, err)
			assert.Equal(t, before.Salt, loadEnvelope(t, inner).Salt)
		})
	}
}

func TestVaultSession_Unlock_VaultKeepsChanging(t *testing.T) {
	_, inner := newUnlockedSession(t)
	backup := backupWith(t, testPassword)

	hooked := &loadHookStore{VaultStore: inner}
	s := newTestSession(t, hooked)
	hooked.afterLoad = func() {
		require.NoError(t, s.ImportEnvelope(context.Background(), backup))
	}

	err := s.Unlock(context.Background(), testPassword)

	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, maxUnlockAttempts, hooked.loads)
	assert.Equal(t, models.SessionLocked, s.State())
}

// sealRecords encrypts a raw JSON record list under testPassword.
func sealRecords(t *testing.T, plaintext string) []byte {
	t.Helper()
	keys := newTestKeyChain()
	salt, err := keys.GenerateSalt()
	require.NoError(t, err)
	key, err := keys.DeriveKey(testPassword, salt)
	require.NoError(t, err)
	defer key.Destroy()

	nonce, sealed, err := keys.Seal([]byte(plaintext), key)
	require.NoError(t, err)
	raw, err := envelope.Encode(models.VaultEnvelope{Salt: salt, Nonce: nonce, Ciphertext: sealed})
	require.NoError(t, err)
	return raw
}

const inconsistentRecords = `[
	{"id":"same","title":"Gmail","password":"x1","category":"email","createdAt":"2025-01-01T10:00:00Z","updatedAt":"2025-01-01T10:00:00Z"},
	{"id":"same","title":"GitHub","password":"x2","category":"dev","createdAt":"2025-01-01T10:00:00Z","updatedAt":"2025-01-01T09:00:00Z"},
	{"id":"","title":"Bank","password":"x3","category":"banking","createdAt":"2025-01-01T10:00:00Z","updatedAt":"2025-01-01T10:00:00Z"}
]`

func TestVaultSession_Unlock_RepairsRecords(t *testing.T) {
	// Arrange
	vaultStore := store.NewMemoryVaultStore()
	require.NoError(t, vaultStore.Save(context.Background(), sealRecords(t, inconsistentRecords)))
	s := newTestSession(t, vaultStore)

	// Act
	require.NoError(t, s.Unlock(context.Background(), testPassword))

	// Assert: ids are unique and no record was modified before it was created
	records, err := s.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "same", records[0].ID)
	assert.Equal(t, "id-1", records[1].ID)
	assert.Equal(t, "id-2", records[2].ID)
	for _, rec := range records {
		assert.False(t, rec.UpdatedAt.Before(rec.CreatedAt), rec.Title)
	}

	// deleting by id removes exactly one record
	require.NoError(t, s.DeleteRecord(context.Background(), "same"))
	_, err = s.Record("same")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	// the repaired collection was written back
	restarted := newTestSession(t, vaultStore)
	require.NoError(t, restarted.Unlock(context.Background(), testPassword))
	stored, err := restarted.ListRecords()
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "id-1", stored[0].ID)
	assert.Equal(t, stored[0].CreatedAt, stored[0].UpdatedAt)
}

func TestVaultSession_Unlock_RepairPersistenceFailure(t *testing.T) {
	raw := sealRecords(t, inconsistentRecords)

	ctrl := gomock.NewController(t)
	vaultStore := mock.NewMockVaultStore(ctrl)
	vaultStore.EXPECT().Exists(gomock.Any()).Return(true, nil)
	vaultStore.EXPECT().Load(gomock.Any()).Return(raw, nil)
	vaultStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errDiskFull)

	s := newTestSession(t, vaultStore)

	err := s.Unlock(context.Background(), testPassword)

	require.ErrorIs(t, err, ErrPersistenceFailure)
	assert.Equal(t, models.SessionLocked, s.State())
	assert.Nil(t, s.key)
}

// ── Activity / LockIfIdle ────────────────────────────────────────────────────

func TestVaultSession_LockIfIdle(t *testing.T) {
	// Arrange
	clock := newFakeClock()
	s, _ := newUnlockedSession(t, WithClock(clock.Now))
	threshold := 5 * time.Minute

	// Act & Assert: not idle long enough
	clock.Advance(4 * time.Minute)
	assert.False(t, s.LockIfIdle(threshold))
	assert.Equal(t, models.SessionUnlocked, s.State())

	// activity resets the timer
	s.RecordActivity()
	clock.Advance(4 * time.Minute)
	assert.False(t, s.LockIfIdle(threshold))

	// a mutation counts as activity
	_, err := s.UpsertRecord(context.Background(), gmailRecord())
	require.NoError(t, err)
	clock.Advance(4 * time.Minute)
	assert.False(t, s.LockIfIdle(threshold))

	// exactly at the threshold is not idle yet
	clock.Advance(time.Minute)
	assert.False(t, s.LockIfIdle(threshold))
	assert.Equal(t, models.SessionUnlocked, s.State())

	// idle past the threshold
	clock.Advance(time.Second)
	assert.True(t, s.LockIfIdle(threshold))
	assert.Equal(t, models.SessionLocked, s.State())

	// already locked
	clock.Advance(time.Hour)
	assert.False(t, s.LockIfIdle(threshold))
}

func TestVaultSession_RecordActivity_IgnoredWhileLocked(t *testing.T) {
	clock := newFakeClock()
	s, _ := newUnlockedSession(t, WithClock(clock.Now))
	s.Lock()
	before := s.LastActivity()

	clock.Advance(time.Minute)
	s.RecordActivity()

	assert.Equal(t, before, s.LastActivity())
}

func TestVaultSession_Unlock_RefreshesActivity(t *testing.T) {
	clock := newFakeClock()
	s, _ := newUnlockedSession(t, WithClock(clock.Now))
	s.Lock()

	clock.Advance(time.Hour)
	require.NoError(t, s.Unlock(context.Background(), testPassword))

	assert.Equal(t, clock.Now(), s.LastActivity())
	assert.False(t, s.LockIfIdle(time.Minute))
}

// ── Concurrency ──────────────────────────────────────────────────────────────

func TestVaultSession_ConcurrentAccess(t *testing.T) {
	s, vaultStore := newUnlockedSession(t)
	const writers = 16

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.UpsertRecord(context.Background(), models.Credential{
				Title:    fmt.Sprintf("record %d", i),
				Password: "pw",
			})
			assert.NoError(t, err)
			_, err = s.ListRecords()
			assert.NoError(t, err)
			s.RecordActivity()
			s.LockIfIdle(time.Hour)
		}(i)
	}
	wg.Wait()

	records, err := s.ListRecords()
	require.NoError(t, err)
	assert.Len(t, records, writers)

	s.Lock()
	reopened := newTestSession(t, vaultStore)
	require.NoError(t, reopened.Unlock(context.Background(), testPassword))
	persisted, err := reopened.ListRecords()
	require.NoError(t, err)
	assert.Len(t, persisted, writers, "the last write holds every record")
}

func TestVaultSession_ConcurrentUnlock(t *testing.T) {
	s, _ := newUnlockedSession(t)
	s.Lock()

	const callers = 4
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Unlock(context.Background(), testPassword)
		}()
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadyUnlocked)
	}
	assert.Equal(t, 1, ok, "exactly one unlock commits")
	assert.Equal(t, models.SessionUnlocked, s.State())
}
