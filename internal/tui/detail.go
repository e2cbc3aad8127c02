package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/vaultlock/internal/service"
	"github.com/MKhiriev/vaultlock/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const timeLayout = "2006-01-02 15:04"

// DetailModel shows one record. The password stays masked until revealed.
type DetailModel struct {
	ctx     context.Context
	session service.VaultSession

	record        models.Credential
	reveal        bool
	confirmDelete bool
	status        string
	errMsg        string
}

func NewDetailModel(ctx context.Context, session service.VaultSession) *DetailModel {
	return &DetailModel{ctx: ctx, session: session}
}

func (m *DetailModel) Init() tea.Cmd {
	return nil
}

func (m *DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case showRecord:
		m.record = msg.record
		m.reveal = false
		m.confirmDelete = false
		m.status = ""
		m.errMsg = ""
		return m, nil
	case recordDeletedMsg:
		if msg.err != nil {
			m.errMsg = service.UserMessage(msg.err)
			return m, nil
		}
		m.record = models.Credential{}
		return m, navigate(pageList, listNotice{status: "Record deleted"})
	case clipboardMsg:
		m.status, m.errMsg = clipboardStatus(msg)
		return m, cmdClearStatus()
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case tea.KeyMsg:
		if m.confirmDelete {
			switch {
			case key.Matches(msg, keys.yes):
				m.confirmDelete = false
				return m, cmdDeleteRecord(m.ctx, m.session, m.record.ID)
			case key.Matches(msg, keys.no), key.Matches(msg, keys.esc):
				m.confirmDelete = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.esc):
			m.record = models.Credential{}
			return m, navigate(pageList, nil)
		case key.Matches(msg, keys.reveal):
			m.reveal = !m.reveal
		case key.Matches(msg, keys.edit):
			rec := m.record
			return m, navigate(pageForm, editRecord{record: &rec, backPage: pageDetail})
		case key.Matches(msg, keys.delete):
			m.confirmDelete = true
		case key.Matches(msg, keys.copy):
			return m, cmdCopyToClipboard(m.record.Password, "Password")
		case key.Matches(msg, keys.copyUser):
			if m.record.Username != "" {
				return m, cmdCopyToClipboard(m.record.Username, "Username")
			}
		}
	}
	return m, nil
}

func (m *DetailModel) clear() {
	m.record = models.Credential{}
	m.reveal = false
	m.confirmDelete = false
	m.status = ""
	m.errMsg = ""
}

func (m *DetailModel) View() string {
	var b strings.Builder
	rec := m.record

	password := maskSecret(rec.Password)
	if m.reveal {
		password = rec.Password
	}

	rows := [][2]string{
		{"Username", valueOrDash(rec.Username)},
		{"Password", password},
		{"URL", valueOrDash(rec.URL)},
		{"Category", rec.Category.DisplayName()},
		{"Notes", valueOrDash(rec.Notes)},
		{"Created", rec.CreatedAt.Local().Format(timeLayout)},
		{"Updated", rec.UpdatedAt.Local().Format(timeLayout)},
	}
	for _, row := range rows {
		b.WriteString(padRight(row[0], 9))
		b.WriteString("│ ")
		b.WriteString(row[1])
		b.WriteString("\n")
	}

	if m.confirmDelete {
		b.WriteString("\n")
		b.WriteString(renderConfirmDelete(rec.Title))
		b.WriteString("\n")
	}
	writeMessages(&b, m.status, m.errMsg)

	return renderPage(strings.ToUpper(rec.Title), strings.TrimRight(b.String(), "\n"),
		"r: show/hide password │ c/u: copy password/username │ e: edit │ d: delete │ esc: back")
}

func padRight(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
