// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the vaultlock process lifecycle.
//
// [App] runs the interactive terminal UI together with the background
// session guard. [CLI] implements the non-interactive sub-commands: backup
// export and import, listing records and generating passwords.
package client
