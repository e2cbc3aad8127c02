// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"strings"
	"time"

	"github.com/MKhiriev/vaultlock/models"
)

// EnvPrefix is prepended to every environment variable read by this package.
const EnvPrefix = "VAULTLOCK_"

// Storage backends understood by the store package.
const (
	BackendFile    = "file"
	BackendSQLite  = "sqlite"
	BackendBolt    = "bolt"
	BackendKeyring = "keyring"
	BackendMemory  = "memory"
)

// Generator character classes accepted in [Generator.Classes].
const (
	ClassUpper   = "upper"
	ClassLower   = "lower"
	ClassDigits  = "digits"
	ClassSymbols = "symbols"
	ClassNone    = "none"
)

// StructuredConfig is the top-level configuration container for vaultlock.
// It aggregates all sub-configurations and is populated by merging values
// from environment variables, command-line flags and an optional file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Storage selects where the encrypted vault record lives.
	Storage Storage `envPrefix:"STORAGE_"`

	// Log controls the client log file and verbosity.
	Log Log `envPrefix:"LOG_"`

	// Session holds the auto-lock timing.
	Session Session `envPrefix:"SESSION_"`

	// Generator holds the default password generator policy.
	Generator Generator `envPrefix:"GENERATOR_"`

	// ConfigFilePath is the optional path to a JSON or YAML configuration
	// file. Files ending in .yaml or .yml are read as YAML, anything else as
	// JSON.
	// Env: VAULTLOCK_CONFIG
	ConfigFilePath string `env:"CONFIG"`

	args []string
}

// Storage selects the vault storage backend.
type Storage struct {
	// Backend is one of file, sqlite, bolt, keyring or memory.
	// Env: VAULTLOCK_STORAGE_BACKEND
	Backend string `env:"BACKEND"`

	// Path is the file used by the file, sqlite and bolt backends.
	// Env: VAULTLOCK_STORAGE_PATH
	Path string `env:"PATH"`
}

// Log holds logging settings.
type Log struct {
	// Level is a zerolog level name (debug, info, warn, error).
	// Env: VAULTLOCK_LOG_LEVEL
	Level string `env:"LEVEL"`

	// File receives the JSON log stream.
	// Env: VAULTLOCK_LOG_FILE
	File string `env:"FILE"`
}

// Session holds the idle auto-lock timing.
type Session struct {
	// IdleTimeout is how long an unlocked vault may sit without activity.
	// Env: VAULTLOCK_SESSION_IDLE_TIMEOUT
	IdleTimeout time.Duration `env:"IDLE_TIMEOUT"`

	// PollInterval is how often the guard checks for idleness. A lock can
	// happen up to one interval after IdleTimeout has elapsed.
	// Env: VAULTLOCK_SESSION_POLL_INTERVAL
	PollInterval time.Duration `env:"POLL_INTERVAL"`
}

// Generator holds the default password generator policy.
type Generator struct {
	// Length of generated passwords, 8..32.
	// Env: VAULTLOCK_GENERATOR_LENGTH
	Length int `env:"LENGTH"`

	// Classes is a comma separated subset of upper, lower, digits, symbols,
	// or "none" (which falls back to lowercase).
	// Env: VAULTLOCK_GENERATOR_CLASSES
	Classes string `env:"CLASSES"`
}

// Args returns the positional command-line arguments left after flag
// parsing (the sub-command and its operands).
func (cfg *StructuredConfig) Args() []string {
	return cfg.args
}

// Policy converts the generator settings to a [models.PasswordPolicy].
func (g Generator) Policy() models.PasswordPolicy {
	policy := models.PasswordPolicy{Length: g.Length}
	for _, class := range splitClasses(g.Classes) {
		switch class {
		case ClassUpper:
			policy.Upper = true
		case ClassLower:
			policy.Lower = true
		case ClassDigits:
			policy.Digits = true
		case ClassSymbols:
			policy.Symbols = true
		}
	}
	return policy
}

func splitClasses(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources in the following priority order (last source wins
// for non-zero fields):
//  1. Environment variables
//  2. Command-line flags parsed from args (without the program name)
//  3. Config file (path resolved from sources 1 and 2)
//
// Remaining positional arguments are available through
// [StructuredConfig.Args].
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withFile().
		build()
}
