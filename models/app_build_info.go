// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"strings"
)

// NotAvailable stands in for build metadata the linker did not inject.
const NotAvailable = "N/A"

// AppBuildInfo is the version, date and commit stamped into the binary with
// -ldflags. It is shown by the version sub-command and the TUI about page.
type AppBuildInfo struct {
	version string
	date    string
	commit  string
}

func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	return AppBuildInfo{
		version: strings.TrimSpace(version),
		date:    strings.TrimSpace(date),
		commit:  strings.TrimSpace(commit),
	}
}

// BuildVersion returns the release version or [NotAvailable].
func (a AppBuildInfo) BuildVersion() string { return orNotAvailable(a.version) }

// BuildDate returns the build timestamp or [NotAvailable].
func (a AppBuildInfo) BuildDate() string { return orNotAvailable(a.date) }

// BuildCommit returns the source commit or [NotAvailable].
func (a AppBuildInfo) BuildCommit() string { return orNotAvailable(a.commit) }

// String renders the three values one per line.
func (a AppBuildInfo) String() string {
	return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s",
		a.BuildVersion(), a.BuildDate(), a.BuildCommit())
}

func orNotAvailable(v string) string {
	if v == "" {
		return NotAvailable
	}
	return v
}
