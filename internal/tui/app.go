// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"time"

	"github.com/MKhiriev/vaultlock/internal/service"
	"github.com/MKhiriev/vaultlock/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// lockCheckInterval is how often RootModel looks for a lock made by the
// session guard.
const lockCheckInterval = time.Second

// RootModel is a TUI router:
// 1) keeps active page
// 2) handles global Ctrl+C quit and records activity on every key press
// 3) handles NavigateTo messages
// 4) returns to the unlock page when the session gets locked behind its back
// 5) delegates all other messages to the active page
type RootModel struct {
	session     service.VaultSession
	pages       map[string]tea.Model
	current     tea.Model
	currentName string

	quitByUser bool
	buildInfo  models.AppBuildInfo

	showBuildInfo bool
}

// NewRootModel registers all pages and opens startPage.
func NewRootModel(session service.VaultSession, pages map[string]tea.Model, startPage string, buildInfo models.AppBuildInfo) RootModel {
	return RootModel{
		session:     session,
		pages:       pages,
		current:     pages[startPage],
		currentName: startPage,
		buildInfo:   buildInfo,
	}
}

// startPage picks the first page for a session state.
func startPage(state models.SessionState) string {
	switch state {
	case models.SessionNoVault:
		return pageSetup
	case models.SessionUnlocked:
		return pageList
	default:
		return pageUnlock
	}
}

func (r RootModel) Init() tea.Cmd {
	if r.current == nil {
		return cmdLockCheck()
	}
	return tea.Batch(r.current.Init(), cmdLockCheck())
}

func (r RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Global hotkeys for every page.
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		r.session.RecordActivity()

		switch {
		case keyMsg.String() == "ctrl+c":
			r.quitByUser = true
			return r, tea.Quit
		case key.Matches(keyMsg, keys.version) && r.isEntryPage():
			r.showBuildInfo = !r.showBuildInfo
			return r, nil
		case key.Matches(keyMsg, keys.esc) && r.showBuildInfo:
			r.showBuildInfo = false
			return r, nil
		}

		if r.showBuildInfo {
			return r, nil
		}
	}

	if _, ok := msg.(lockCheckMsg); ok {
		if r.session.State() == models.SessionLocked && r.needsUnlock() {
			var cmd tea.Cmd
			r, cmd = r.switchTo(pageUnlock, lockedNotice{message: "Vault locked after inactivity"})
			return r, tea.Batch(cmd, cmdLockCheck())
		}
		return r, cmdLockCheck()
	}

	// Cross-page navigation.
	if nav, ok := msg.(NavigateTo); ok {
		return r.switchTo(nav.Page, nav.Payload)
	}

	if r.current == nil {
		return r, nil
	}

	updated, cmd := r.current.Update(msg)
	r.current = updated
	return r, cmd
}

// switchTo activates page. The payload, if any, is delivered to the page
// instead of its Init.
func (r RootModel) switchTo(page string, payload any) (RootModel, tea.Cmd) {
	next, exists := r.pages[page]
	if !exists {
		return r, nil
	}

	if _, locked := payload.(lockedNotice); locked {
		r.clearPages()
	}

	r.showBuildInfo = false
	r.current = next
	r.currentName = page

	if payload != nil {
		return r, func() tea.Msg { return payload }
	}
	return r, r.current.Init()
}

// clearer is implemented by pages that hold decrypted data.
type clearer interface {
	clear()
}

func (r RootModel) clearPages() {
	for _, page := range r.pages {
		if c, ok := page.(clearer); ok {
			c.clear()
		}
	}
}

func (r RootModel) View() string {
	if r.showBuildInfo {
		return renderBuildInfoWindow(r.buildInfo)
	}
	if r.current == nil {
		return renderPage("VAULTLOCK", "", "")
	}
	return r.current.View()
}

func (r RootModel) isEntryPage() bool {
	return r.currentName == pageSetup || r.currentName == pageUnlock
}

// needsUnlock reports whether the active page shows vault contents.
func (r RootModel) needsUnlock() bool {
	return r.currentName == pageList || r.currentName == pageDetail || r.currentName == pageForm
}

func navigate(page string, payload any) tea.Cmd {
	return func() tea.Msg { return NavigateTo{Page: page, Payload: payload} }
}

func cmdLockCheck() tea.Cmd {
	return tea.Tick(lockCheckInterval, func(time.Time) tea.Msg {
		return lockCheckMsg{}
	})
}
