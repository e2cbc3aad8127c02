package config

import (
	"flag"
	"fmt"
)

// parseFlags parses the global flags in front of the sub-command.
//
// Flags:
//
//	-c/-config     JSON or YAML config file path
//	-backend       storage backend (file, sqlite, bolt, keyring, memory)
//	-path          vault file path for path based backends
//	-log-level     log level (debug, info, warn, error)
//	-log-file      log file path
//	-idle-timeout  auto-lock after this much inactivity (e.g. "5m")
//	-poll-interval idle check interval (e.g. "10s")
//	-gen-length    generated password length
//	-gen-classes   generated password classes (e.g. "upper,lower,digits")
func parseFlags(args []string) (*StructuredConfig, []string, error) {
	cfg := &StructuredConfig{}

	fs := flag.NewFlagSet("vaultlock", flag.ContinueOnError)
	fs.StringVar(&cfg.ConfigFilePath, "c", "", "Config file path (JSON or YAML)")
	fs.StringVar(&cfg.ConfigFilePath, "config", "", "Config file path (alias)")
	fs.StringVar(&cfg.Storage.Backend, "backend", "", "Storage backend: file, sqlite, bolt, keyring, memory")
	fs.StringVar(&cfg.Storage.Path, "path", "", "Vault storage path")
	fs.StringVar(&cfg.Log.Level, "log-level", "", "Log level")
	fs.StringVar(&cfg.Log.File, "log-file", "", "Log file path")
	fs.DurationVar(&cfg.Session.IdleTimeout, "idle-timeout", 0, "Lock after this much inactivity (e.g. 5m)")
	fs.DurationVar(&cfg.Session.PollInterval, "poll-interval", 0, "Idle check interval (e.g. 10s)")
	fs.IntVar(&cfg.Generator.Length, "gen-length", 0, "Generated password length")
	fs.StringVar(&cfg.Generator.Classes, "gen-classes", "", "Generated password classes: upper,lower,digits,symbols")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return cfg, fs.Args(), nil
}
