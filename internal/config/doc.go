// Package config provides configuration loading, merging, and validation
// facilities for vaultlock.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables (prefix VAULTLOCK_)
//  2. Command-line flags
//  3. JSON or YAML config file (-config or VAULTLOCK_CONFIG)
//
// Fields left empty by every source are filled from built-in defaults, then
// the result is validated. The main entry point is [GetStructuredConfig].
package config
