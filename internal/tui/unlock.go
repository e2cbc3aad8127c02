// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/MKhiriev/vaultlock/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// UnlockModel is the Bubble Tea model for the unlock screen. It renders a
// single masked input and dispatches an async unlock command on enter, so key
// derivation never blocks the UI loop.
type UnlockModel struct {
	ctx     context.Context
	session service.VaultSession

	input      textinput.Model
	submitting bool
	notice     string
	errMsg     string
}

// NewUnlockModel creates an [UnlockModel] with a focused password input.
func NewUnlockModel(ctx context.Context, session service.VaultSession) *UnlockModel {
	input := newPasswordInput("master password")
	input.Focus()

	return &UnlockModel{
		ctx:     ctx,
		session: session,
		input:   input,
	}
}

// Init implements [tea.Model]. Starts the cursor-blink animation.
func (m *UnlockModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model]. Handled messages:
//   - [lockedNotice]: the session was locked, show why.
//   - [unlockDoneMsg]: on success opens the list, on [service.ErrNoVault]
//     the setup page, otherwise shows the error.
//   - enter: dispatches the async unlock command.
//   - q: quits when the input is empty.
//
// All other key events are forwarded to the input widget.
func (m *UnlockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case lockedNotice:
		m.reset()
		m.notice = msg.message
		return m, textinput.Blink
	case unlockDoneMsg:
		m.submitting = false
		if msg.err == nil {
			m.reset()
			return m, navigate(pageList, nil)
		}
		m.input.Reset()
		if errors.Is(msg.err, service.ErrNoVault) {
			return m, navigate(pageSetup, nil)
		}
		m.errMsg = service.UserMessage(msg.err)
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit) && m.input.Value() == "":
			return m, tea.Quit
		case key.Matches(msg, keys.enter):
			if m.submitting {
				return m, nil
			}
			if m.input.Value() == "" {
				m.errMsg = "Enter the master password"
				return m, nil
			}
			m.errMsg = ""
			m.notice = ""
			m.submitting = true
			return m, m.cmdUnlock(m.input.Value())
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements [tea.Model].
func (m *UnlockModel) View() string {
	var b strings.Builder
	b.WriteString("Master password │ [")
	b.WriteString(m.input.View())
	b.WriteString("]\n")

	if m.submitting {
		b.WriteString("\n[Unlocking...]\n")
	} else {
		b.WriteString("\n[Unlock]\n")
	}
	writeMessages(&b, m.notice, m.errMsg)

	return renderPage("VAULT LOCKED", strings.TrimRight(b.String(), "\n"), "enter: unlock │ q: quit │ f1: version")
}

func (m *UnlockModel) cmdUnlock(password string) tea.Cmd {
	ctx := m.ctx
	session := m.session
	return func() tea.Msg {
		return unlockDoneMsg{err: session.Unlock(ctx, password)}
	}
}

func (m *UnlockModel) reset() {
	m.input.Reset()
	m.input.Focus()
	m.submitting = false
	m.notice = ""
	m.errMsg = ""
}
