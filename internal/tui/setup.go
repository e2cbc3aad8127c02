package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/vaultlock/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SetupModel creates a new vault. It asks for the master password twice and
// shows a strength estimate while typing. Weak passwords are only reported,
// the length rule is enforced by the session.
type SetupModel struct {
	ctx     context.Context
	session service.VaultSession

	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

// NewSetupModel creates a [SetupModel] with the password field focused.
func NewSetupModel(ctx context.Context, session service.VaultSession) *SetupModel {
	password := newPasswordInput("master password")
	password.Focus()
	confirm := newPasswordInput("repeat master password")

	return &SetupModel{
		ctx:     ctx,
		session: session,
		inputs:  []textinput.Model{password, confirm},
	}
}

func newPasswordInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 256
	in.Width = 40
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '*'
	return in
}

func (m *SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(setupDoneMsg); ok {
		m.submitting = false
		if result.err != nil {
			m.errMsg = service.UserMessage(result.err)
			return m, nil
		}
		m.reset()
		return m, navigate(pageList, nil)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.nextField):
			m.focusNext()
			return m, nil
		case key.Matches(keyMsg, keys.prevField):
			m.focusPrev()
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.submitting {
				return m, nil
			}
			if m.focus == 0 {
				m.focusNext()
				return m, nil
			}
			m.errMsg = ""
			m.submitting = true
			return m, m.cmdSetup(m.inputs[0].Value(), m.inputs[1].Value())
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *SetupModel) View() string {
	var b strings.Builder
	b.WriteString("No vault found. Choose a master password (at least 8 characters).\n")
	b.WriteString("It cannot be recovered if you forget it.\n\n")
	b.WriteString("Password │ [")
	b.WriteString(m.inputs[0].View())
	b.WriteString("]\n")
	b.WriteString("Repeat   │ [")
	b.WriteString(m.inputs[1].View())
	b.WriteString("]\n")
	b.WriteString("Strength │ ")
	b.WriteString(renderStrength(m.inputs[0].Value()))
	b.WriteString("\n")

	if m.submitting {
		b.WriteString("\n[Creating vault...]\n")
	} else {
		b.WriteString("\n[Create vault]\n")
	}
	writeMessages(&b, "", m.errMsg)

	return renderPage("NEW VAULT", strings.TrimRight(b.String(), "\n"), "tab: next field │ enter: confirm │ f1: version")
}

func (m *SetupModel) cmdSetup(password, confirm string) tea.Cmd {
	ctx := m.ctx
	session := m.session
	return func() tea.Msg {
		return setupDoneMsg{err: session.Setup(ctx, password, confirm)}
	}
}

func (m *SetupModel) reset() {
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
	m.focus = 0
	m.inputs[0].Focus()
	m.errMsg = ""
}

func (m *SetupModel) focusNext() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *SetupModel) focusPrev() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}
