package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/vaultlock/internal/generator"
	"github.com/MKhiriev/vaultlock/internal/service"
	"github.com/MKhiriev/vaultlock/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Form rows in focus order. The first formInputs rows are text inputs.
const (
	rowTitle = iota
	rowUsername
	rowPassword
	rowURL
	rowNotes
	rowCategory
	rowGenerator

	formInputs = rowNotes + 1
	formRows   = rowGenerator + 1
)

// FormModel adds or edits a record. The generator row builds a password from
// an editable copy of the configured policy.
type FormModel struct {
	ctx       context.Context
	session   service.VaultSession
	generator generator.PasswordGenerator
	defaults  models.PasswordPolicy

	editing  *models.Credential
	backPage string

	inputs     []textinput.Model
	category   int // index into models.Categories
	policy     models.PasswordPolicy
	focus      int
	reveal     bool
	submitting bool
	errMsg     string
}

// NewFormModel creates a [FormModel]. policy is the generator default.
func NewFormModel(ctx context.Context, session service.VaultSession, gen generator.PasswordGenerator, policy models.PasswordPolicy) *FormModel {
	m := &FormModel{
		ctx:       ctx,
		session:   session,
		generator: gen,
		defaults:  policy,
	}
	m.load(nil, pageList)
	return m
}

func (m *FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// load fills the form from rec, or clears it for a new record.
func (m *FormModel) load(rec *models.Credential, backPage string) {
	title := newFormInput("title (required)", 128)
	username := newFormInput("username or email", 128)
	password := newFormInput("password (required)", 256)
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	url := newFormInput("https://", 256)
	notes := newFormInput("notes", 1024)

	m.editing = nil
	m.category = categoryIndex(models.CategoryOther)
	if rec != nil {
		cp := *rec
		m.editing = &cp
		title.SetValue(rec.Title)
		username.SetValue(rec.Username)
		password.SetValue(rec.Password)
		url.SetValue(rec.URL)
		notes.SetValue(rec.Notes)
		m.category = categoryIndex(rec.Category)
	}
	title.Focus()

	m.inputs = []textinput.Model{title, username, password, url, notes}
	m.backPage = backPage
	m.policy = m.defaults
	m.focus = rowTitle
	m.reveal = false
	m.submitting = false
	m.errMsg = ""
}

func (m *FormModel) clear() {
	m.load(nil, pageList)
}

func newFormInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 40
	return in
}

func (m *FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case editRecord:
		m.load(msg.record, msg.backPage)
		return m, textinput.Blink
	case recordSavedMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = service.UserMessage(msg.err)
			return m, nil
		}
		back := m.backPage
		m.load(nil, pageList)
		if back == pageDetail {
			return m, navigate(pageDetail, showRecord{record: msg.record})
		}
		return m, navigate(pageList, listNotice{status: "Record saved"})
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	if m.focus >= formInputs {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *FormModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.esc):
		back := m.backPage
		var payload any
		if back == pageDetail && m.editing != nil {
			payload = showRecord{record: *m.editing}
		}
		m.load(nil, pageList)
		return navigate(back, payload), true
	case key.Matches(msg, keys.nextField):
		m.setFocus((m.focus + 1) % formRows)
		return nil, true
	case key.Matches(msg, keys.prevField):
		m.setFocus((m.focus - 1 + formRows) % formRows)
		return nil, true
	case key.Matches(msg, keys.generate):
		m.generate()
		return nil, true
	case msg.String() == "ctrl+r":
		m.toggleReveal()
		return nil, true
	}

	switch m.focus {
	case rowCategory:
		return m.handleCategoryKey(msg), true
	case rowGenerator:
		return m.handleGeneratorKey(msg), true
	}

	if key.Matches(msg, keys.enter) {
		return m.submit(), true
	}
	return nil, false
}

func (m *FormModel) handleCategoryKey(msg tea.KeyMsg) tea.Cmd {
	n := len(models.Categories)
	switch {
	case key.Matches(msg, keys.right):
		m.category = (m.category + 1) % n
	case key.Matches(msg, keys.left):
		m.category = (m.category - 1 + n) % n
	case key.Matches(msg, keys.enter):
		return m.submit()
	}
	return nil
}

func (m *FormModel) handleGeneratorKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.right):
		if m.policy.Length < generator.MaxLength {
			m.policy.Length++
		}
	case key.Matches(msg, keys.left):
		if m.policy.Length > generator.MinLength {
			m.policy.Length--
		}
	case key.Matches(msg, keys.enter), msg.String() == "g":
		m.generate()
	default:
		switch msg.String() {
		case "1":
			m.policy.Upper = !m.policy.Upper
		case "2":
			m.policy.Lower = !m.policy.Lower
		case "3":
			m.policy.Digits = !m.policy.Digits
		case "4":
			m.policy.Symbols = !m.policy.Symbols
		}
	}
	return nil
}

func (m *FormModel) generate() {
	password, err := m.generator.Generate(m.policy)
	if err != nil {
		m.errMsg = "Could not generate a password: " + err.Error()
		return
	}
	m.inputs[rowPassword].SetValue(password)
	m.errMsg = ""
}

func (m *FormModel) toggleReveal() {
	m.reveal = !m.reveal
	if m.reveal {
		m.inputs[rowPassword].EchoMode = textinput.EchoNormal
	} else {
		m.inputs[rowPassword].EchoMode = textinput.EchoPassword
	}
}

func (m *FormModel) submit() tea.Cmd {
	if m.submitting {
		return nil
	}
	rec := m.record()
	if strings.TrimSpace(rec.Title) == "" || strings.TrimSpace(rec.Password) == "" {
		m.errMsg = "Title and password are required"
		return nil
	}
	m.errMsg = ""
	m.submitting = true
	return cmdSaveRecord(m.ctx, m.session, rec)
}

// record builds the credential from the form fields.
func (m *FormModel) record() models.Credential {
	var rec models.Credential
	if m.editing != nil {
		rec = *m.editing
	}
	rec.Title = strings.TrimSpace(m.inputs[rowTitle].Value())
	rec.Username = strings.TrimSpace(m.inputs[rowUsername].Value())
	rec.Password = m.inputs[rowPassword].Value()
	rec.URL = strings.TrimSpace(m.inputs[rowURL].Value())
	rec.Notes = m.inputs[rowNotes].Value()
	rec.Category = models.Categories[m.category]
	return rec
}

func (m *FormModel) setFocus(row int) {
	if m.focus < formInputs {
		m.inputs[m.focus].Blur()
	}
	m.focus = row
	if m.focus < formInputs {
		m.inputs[m.focus].Focus()
	}
}

func (m *FormModel) View() string {
	var b strings.Builder

	labels := []string{"Title", "Username", "Password", "URL", "Notes"}
	for i, label := range labels {
		b.WriteString(m.cursor(i))
		b.WriteString(padRight(label, 9))
		b.WriteString("│ [")
		b.WriteString(m.inputs[i].View())
		b.WriteString("]\n")
		if i == rowPassword {
			b.WriteString("  ")
			b.WriteString(padRight("Strength", 9))
			b.WriteString("│ ")
			b.WriteString(renderStrength(m.inputs[rowPassword].Value()))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.cursor(rowCategory))
	b.WriteString(padRight("Category", 9))
	b.WriteString("│ ◀ ")
	b.WriteString(selectedStyle.Render(models.Categories[m.category].DisplayName()))
	b.WriteString(" ▶\n")

	b.WriteString(m.cursor(rowGenerator))
	b.WriteString(padRight("Generate", 9))
	b.WriteString("│ ")
	b.WriteString(renderPolicy(m.policy))
	b.WriteString("\n")

	if m.submitting {
		b.WriteString("\n[Saving...]\n")
	} else {
		b.WriteString("\n[Save]\n")
	}
	writeMessages(&b, "", m.errMsg)

	title := "NEW RECORD"
	if m.editing != nil {
		title = "EDIT RECORD"
	}
	help := "tab: next field │ enter: save │ ctrl+g: generate │ ctrl+r: show/hide password │ esc: cancel"
	switch m.focus {
	case rowCategory:
		help = "←/→: change category │ " + help
	case rowGenerator:
		help = "←/→: length │ 1-4: toggle classes │ g: generate │ " + help
	}
	return renderPage(title, strings.TrimRight(b.String(), "\n"), help)
}

func (m *FormModel) cursor(row int) string {
	if m.focus == row {
		return "> "
	}
	return "  "
}

func renderPolicy(p models.PasswordPolicy) string {
	check := func(on bool) string {
		if on {
			return "x"
		}
		return " "
	}
	return fmt.Sprintf("length %d  [%s]1 A-Z  [%s]2 a-z  [%s]3 0-9  [%s]4 symbols",
		p.Length, check(p.Upper), check(p.Lower), check(p.Digits), check(p.Symbols))
}

func categoryIndex(c models.Category) int {
	c = models.NormalizeCategory(c)
	for i, known := range models.Categories {
		if known == c {
			return i
		}
	}
	return len(models.Categories) - 1
}
