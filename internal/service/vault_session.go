// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/MKhiriev/vaultlock/internal/crypto"
	"github.com/MKhiriev/vaultlock/internal/envelope"
	"github.com/MKhiriev/vaultlock/internal/logger"
	"github.com/MKhiriev/vaultlock/internal/store"
	"github.com/MKhiriev/vaultlock/internal/utils"
	"github.com/MKhiriev/vaultlock/internal/validators"
	"github.com/MKhiriev/vaultlock/models"
)

// MinPasswordLength is the minimum master password length in characters.
const MinPasswordLength = 8

// maxUnlockAttempts bounds how often Unlock starts over after the stored
// vault was replaced underneath it.
const maxUnlockAttempts = 3

var errVaultReplaced = errors.New("vault replaced during unlock")

type vaultSession struct {
	store     store.VaultStore
	keys      crypto.KeyChainService
	validator validators.Validator
	ids       IDGenerator
	now       func() time.Time
	logger    *logger.Logger

	mu           sync.Mutex
	state        models.SessionState
	// generation counts writes to the store made by this session.
	generation   uint64
	key          *crypto.Key
	salt         []byte
	records      []models.Credential
	lastActivity time.Time
}

// SessionOption customises a session built by [NewVaultSession].
type SessionOption func(*vaultSession)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SessionOption {
	return func(s *vaultSession) { s.now = now }
}

// WithIDGenerator replaces the UUIDv7 record id generator.
func WithIDGenerator(ids IDGenerator) SessionOption {
	return func(s *vaultSession) { s.ids = ids }
}

// NewVaultSession builds a session over vaultStore. The initial state is
// Locked when the store already holds a vault and NoVault otherwise.
func NewVaultSession(ctx context.Context, vaultStore store.VaultStore, keys crypto.KeyChainService, log *logger.Logger, opts ...SessionOption) (VaultSession, error) {
	s := &vaultSession{
		store:     vaultStore,
		keys:      keys,
		validator: validators.NewCredentialValidator(),
		ids:       utils.NewUUIDGenerator(),
		now:       time.Now,
		logger:    log,
		state:     models.SessionNoVault,
	}
	for _, opt := range opts {
		opt(s)
	}

	exists, err := vaultStore.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: probe vault: %w", ErrPersistenceFailure, err)
	}
	if exists {
		s.state = models.SessionLocked
	}
	s.lastActivity = s.now()

	return s, nil
}

func (s *vaultSession) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *vaultSession) Setup(ctx context.Context, password, confirm string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.State() != models.SessionNoVault {
		return ErrVaultAlreadyExists
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(confirm)) != 1 {
		return ErrPasswordMismatch
	}

	salt, err := s.keys.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	key, err := s.keys.DeriveKey(password, salt)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = ctx.Err(); err != nil {
		key.Destroy()
		return err
	}
	if s.state != models.SessionNoVault {
		key.Destroy()
		return ErrVaultAlreadyExists
	}

	records := []models.Credential{}
	if err = s.persistLocked(ctx, key, salt, records); err != nil {
		key.Destroy()
		return err
	}

	s.key = key
	s.salt = salt
	s.records = records
	s.state = models.SessionUnlocked
	s.lastActivity = s.now()
	s.logger.Info().Str("func", "vaultSession.Setup").Msg("vault created")

	return nil
}

func (s *vaultSession) Unlock(ctx context.Context, password string) error {
	for attempt := 1; ; attempt++ {
		err := s.unlock(ctx, password)
		if !errors.Is(err, errVaultReplaced) {
			return err
		}
		if attempt == maxUnlockAttempts {
			return s.rejectUnlock("vault kept changing during unlock", err)
		}
		s.logger.Debug().Str("func", "vaultSession.Unlock").Int("attempt", attempt).Msg("vault replaced during unlock, retrying")
	}
}

// unlock is a single attempt. It returns errVaultReplaced when the stored
// vault was rewritten between the read and the commit.
func (s *vaultSession) unlock(ctx context.Context, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	state, generation := s.state, s.generation
	s.mu.Unlock()

	switch state {
	case models.SessionNoVault:
		return ErrNoVault
	case models.SessionUnlocked:
		return ErrAlreadyUnlocked
	}

	raw, err := s.store.Load(ctx)
	if errors.Is(err, store.ErrVaultNotFound) {
		s.mu.Lock()
		if s.state == models.SessionLocked && s.generation == generation {
			s.state = models.SessionNoVault
		}
		s.mu.Unlock()
		return ErrNoVault
	}
	if err != nil {
		s.logger.Err(err).Str("func", "vaultSession.Unlock").Msg("failed to load vault")
		return fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}

	env, err := envelope.Decode(raw)
	if err != nil {
		return s.rejectUnlock("vault envelope is malformed", err)
	}
	key, err := s.keys.DeriveKey(password, env.Salt)
	if err != nil {
		return s.rejectUnlock("key derivation failed", err)
	}
	plaintext, err := s.keys.Open(env.Ciphertext, key, env.Nonce)
	if err != nil {
		key.Destroy()
		return s.rejectUnlock("vault authentication failed", err)
	}
	records, err := decodeRecords(plaintext)
	wipe(plaintext)
	if err != nil {
		key.Destroy()
		return s.rejectUnlock("vault plaintext is not a record list", err)
	}
	repaired := s.repairRecords(ctx, records)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = ctx.Err(); err != nil {
		key.Destroy()
		return err
	}
	switch s.state {
	case models.SessionUnlocked:
		key.Destroy()
		return ErrAlreadyUnlocked
	case models.SessionNoVault:
		key.Destroy()
		return ErrNoVault
	}
	if s.generation != generation {
		key.Destroy()
		return errVaultReplaced
	}

	if repaired {
		if err = s.persistLocked(ctx, key, env.Salt, records); err != nil {
			key.Destroy()
			return err
		}
		s.logger.Warn().Str("func", "vaultSession.Unlock").Msg("repaired record ids or timestamps")
	}

	s.key = key
	s.salt = env.Salt
	s.records = records
	s.state = models.SessionUnlocked
	s.lastActivity = s.now()
	s.logger.Info().Str("func", "vaultSession.Unlock").Int("records", len(records)).Msg("vault unlocked")

	return nil
}

// repairRecords gives records with an empty or repeated id a fresh one and
// moves UpdatedAt up to CreatedAt where it lags behind. It reports whether
// anything was changed.
func (s *vaultSession) repairRecords(ctx context.Context, records []models.Credential) bool {
	if err := s.validator.Validate(ctx, records, validators.FieldID, validators.FieldDates); err == nil {
		return false
	}

	seen := make(map[string]struct{}, len(records))
	for i := range records {
		rec := &records[i]
		if _, dup := seen[rec.ID]; dup || rec.ID == "" {
			rec.ID = s.ids.Generate()
		}
		seen[rec.ID] = struct{}{}

		if errors.Is(s.validator.Validate(ctx, rec, validators.FieldDates), validators.ErrInvalidDates) {
			rec.UpdatedAt = rec.CreatedAt
		}
	}
	return true
}

// rejectUnlock logs the real cause and hides it from the caller.
func (s *vaultSession) rejectUnlock(msg string, cause error) error {
	s.logger.Warn().Err(cause).Str("func", "vaultSession.Unlock").Msg(msg)
	return ErrInvalidCredentials
}

func (s *vaultSession) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == models.SessionUnlocked {
		s.lockLocked()
		s.logger.Info().Str("func", "vaultSession.Lock").Msg("vault locked")
	}
}

// lockLocked wipes the session secrets. Caller holds s.mu.
func (s *vaultSession) lockLocked() {
	s.key.Destroy()
	s.key = nil
	s.records = nil
	s.state = models.SessionLocked
}

func (s *vaultSession) UpsertRecord(ctx context.Context, record models.Credential) (models.Credential, error) {
	if err := s.validator.Validate(ctx, record); err != nil {
		return models.Credential{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.SessionUnlocked {
		return models.Credential{}, ErrVaultLocked
	}
	if err := ctx.Err(); err != nil {
		return models.Credential{}, err
	}

	now := s.now()
	record.Category = models.NormalizeCategory(record.Category)

	next := make([]models.Credential, len(s.records), len(s.records)+1)
	copy(next, s.records)

	if record.ID == "" {
		record.ID = s.ids.Generate()
		record.CreatedAt = now
		record.UpdatedAt = now
		next = append(next, record)
	} else {
		idx := indexOfRecord(next, record.ID)
		if idx < 0 {
			return models.Credential{}, ErrRecordNotFound
		}
		record.CreatedAt = next[idx].CreatedAt
		record.UpdatedAt = now
		if record.UpdatedAt.Before(record.CreatedAt) {
			record.UpdatedAt = record.CreatedAt
		}
		next[idx] = record
	}

	if err := s.persistLocked(ctx, s.key, s.salt, next); err != nil {
		return models.Credential{}, err
	}
	s.records = next
	s.lastActivity = now

	return record, nil
}

func (s *vaultSession) DeleteRecord(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.SessionUnlocked {
		return ErrVaultLocked
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	idx := indexOfRecord(s.records, id)
	if idx < 0 {
		return ErrRecordNotFound
	}

	next := make([]models.Credential, 0, len(s.records)-1)
	next = append(next, s.records[:idx]...)
	next = append(next, s.records[idx+1:]...)

	if err := s.persistLocked(ctx, s.key, s.salt, next); err != nil {
		return err
	}
	s.records = next
	s.lastActivity = s.now()

	return nil
}

func (s *vaultSession) ListRecords() ([]models.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.SessionUnlocked {
		return nil, ErrVaultLocked
	}
	out := make([]models.Credential, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *vaultSession) Record(id string) (models.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.SessionUnlocked {
		return models.Credential{}, ErrVaultLocked
	}
	idx := indexOfRecord(s.records, id)
	if idx < 0 {
		return models.Credential{}, ErrRecordNotFound
	}
	return s.records[idx], nil
}

func (s *vaultSession) ExportEnvelope(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == models.SessionNoVault {
		return nil, ErrNoVault
	}

	raw, err := s.store.Load(ctx)
	if errors.Is(err, store.ErrVaultNotFound) {
		return nil, ErrNoVault
	}
	if err != nil {
		s.logger.Err(err).Str("func", "vaultSession.ExportEnvelope").Msg("failed to load vault")
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}
	return raw, nil
}

func (s *vaultSession) ImportEnvelope(ctx context.Context, data []byte) error {
	if _, err := envelope.Decode(data); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == models.SessionUnlocked {
		return ErrVaultUnlocked
	}
	if err := s.store.Save(ctx, data); err != nil {
		s.logger.Err(err).Str("func", "vaultSession.ImportEnvelope").Msg("failed to store imported vault")
		return fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}
	s.generation++
	s.state = models.SessionLocked
	s.logger.Info().Str("func", "vaultSession.ImportEnvelope").Msg("vault imported")

	return nil
}

func (s *vaultSession) RecordActivity() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == models.SessionUnlocked {
		s.lastActivity = s.now()
	}
}

func (s *vaultSession) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *vaultSession) LockIfIdle(threshold time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.SessionUnlocked {
		return false
	}
	if s.now().Sub(s.lastActivity) <= threshold {
		return false
	}
	s.lockLocked()
	return true
}

// persistLocked encrypts records under key with a fresh nonce and saves the
// envelope. Caller holds s.mu. Every failure maps to ErrPersistenceFailure
// and leaves the stored vault as it was.
//
// The whole collection is re-encrypted on every change, so the cost of a
// write grows with the number of records.
func (s *vaultSession) persistLocked(ctx context.Context, key *crypto.Key, salt []byte, records []models.Credential) error {
	plaintext, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: marshal records: %w", ErrPersistenceFailure, err)
	}
	nonce, sealed, err := s.keys.Seal(plaintext, key)
	wipe(plaintext)
	if err != nil {
		return fmt.Errorf("%w: seal: %w", ErrPersistenceFailure, err)
	}

	raw, err := envelope.Encode(models.VaultEnvelope{
		Version:    envelope.CurrentVersion,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: sealed,
	})
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersistenceFailure, err)
	}

	if err = s.store.Save(ctx, raw); err != nil {
		s.logger.Err(err).Str("func", "vaultSession.persist").Msg("failed to save vault")
		return fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}
	s.generation++
	return nil
}

func decodeRecords(plaintext []byte) ([]models.Credential, error) {
	var records []models.Credential
	if err := json.Unmarshal(plaintext, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.Credential{}
	}
	for i := range records {
		records[i].Category = models.NormalizeCategory(records[i].Category)
	}
	return records, nil
}

func indexOfRecord(records []models.Credential, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
