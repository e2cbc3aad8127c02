package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/vaultlock/internal/service"
	"github.com/MKhiriev/vaultlock/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ListModel shows the records of the unlocked vault with a title/username
// search and a category filter.
type ListModel struct {
	ctx     context.Context
	session service.VaultSession

	records  []models.Credential
	visible  []models.Credential
	idx      int
	category int // 0 = all, otherwise models.Categories[category-1]

	search    textinput.Model
	searching bool

	confirmDelete bool
	status        string
	errMsg        string
}

// NewListModel creates an empty [ListModel]. Records are loaded by Init.
func NewListModel(ctx context.Context, session service.VaultSession) *ListModel {
	search := textinput.New()
	search.Placeholder = "search title or username"
	search.CharLimit = 64
	search.Width = 32
	search.Prompt = "/ "

	return &ListModel{
		ctx:     ctx,
		session: session,
		search:  search,
	}
}

func (m *ListModel) Init() tea.Cmd {
	return m.cmdLoad()
}

func (m *ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsLoadedMsg:
		if msg.err != nil {
			m.errMsg = service.UserMessage(msg.err)
			return m, nil
		}
		m.records = msg.records
		m.refilter()
		return m, nil
	case listNotice:
		m.status = msg.status
		m.errMsg = ""
		return m, tea.Batch(m.cmdLoad(), cmdClearStatus())
	case recordDeletedMsg:
		if msg.err != nil {
			m.errMsg = service.UserMessage(msg.err)
			return m, nil
		}
		m.status = "Record deleted"
		return m, tea.Batch(m.cmdLoad(), cmdClearStatus())
	case clipboardMsg:
		m.status, m.errMsg = clipboardStatus(msg)
		return m, cmdClearStatus()
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case tea.KeyMsg:
		if m.confirmDelete {
			return m.updateConfirm(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m *ListModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.lock):
		m.session.Lock()
		return m, navigate(pageUnlock, lockedNotice{message: "Vault locked"})
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(m.visible)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.right), key.Matches(msg, keys.tab):
		m.category = (m.category + 1) % (len(models.Categories) + 1)
		m.refilter()
	case key.Matches(msg, keys.left), key.Matches(msg, keys.backtab):
		m.category = (m.category + len(models.Categories)) % (len(models.Categories) + 1)
		m.refilter()
	case key.Matches(msg, keys.search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, keys.esc):
		if m.search.Value() != "" || m.category != 0 {
			m.search.Reset()
			m.category = 0
			m.refilter()
		}
	case key.Matches(msg, keys.newItem):
		return m, navigate(pageForm, editRecord{backPage: pageList})
	case key.Matches(msg, keys.enter):
		if rec, ok := m.current(); ok {
			return m, navigate(pageDetail, showRecord{record: rec})
		}
	case key.Matches(msg, keys.edit):
		if rec, ok := m.current(); ok {
			return m, navigate(pageForm, editRecord{record: &rec, backPage: pageList})
		}
	case key.Matches(msg, keys.delete):
		if _, ok := m.current(); ok {
			m.confirmDelete = true
		}
	case key.Matches(msg, keys.copy):
		if rec, ok := m.current(); ok {
			return m, cmdCopyToClipboard(rec.Password, "Password")
		}
	case key.Matches(msg, keys.copyUser):
		if rec, ok := m.current(); ok && rec.Username != "" {
			return m, cmdCopyToClipboard(rec.Username, "Username")
		}
	}
	return m, nil
}

func (m *ListModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.esc) || key.Matches(msg, keys.enter) {
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refilter()
	return m, cmd
}

func (m *ListModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		m.confirmDelete = false
		if rec, ok := m.current(); ok {
			return m, cmdDeleteRecord(m.ctx, m.session, rec.ID)
		}
	case key.Matches(msg, keys.no), key.Matches(msg, keys.esc):
		m.confirmDelete = false
	}
	return m, nil
}

func (m *ListModel) View() string {
	var b strings.Builder

	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString("Category: ")
	b.WriteString(selectedStyle.Render(m.categoryLabel()))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		if len(m.records) == 0 {
			b.WriteString("No records yet. Press n to add one.\n")
		} else {
			b.WriteString("Nothing matches the filter.\n")
		}
	} else {
		b.WriteString(fmt.Sprintf("  %-28s │ %-24s │ %s\n", "Title", "Username", "Category"))
		b.WriteString("  " + strings.Repeat("─", 28) + "─┼─" + strings.Repeat("─", 24) + "─┼─" + strings.Repeat("─", 13) + "\n")
		for i, rec := range m.visible {
			cursor := " "
			if i == m.idx {
				cursor = ">"
			}
			b.WriteString(fmt.Sprintf("%s %-28s │ %-24s │ %s\n",
				cursor,
				fitText(rec.Title, 28),
				fitText(valueOrDash(rec.Username), 24),
				rec.Category.DisplayName(),
			))
		}
	}

	if m.confirmDelete {
		if rec, ok := m.current(); ok {
			b.WriteString("\n")
			b.WriteString(renderConfirmDelete(rec.Title))
			b.WriteString("\n")
		}
	}
	writeMessages(&b, m.status, m.errMsg)

	title := fmt.Sprintf("VAULT (%d/%d)", len(m.visible), len(m.records))
	return renderPage(title, strings.TrimRight(b.String(), "\n"),
		"enter: open │ n: new │ e: edit │ d: delete │ c/u: copy password/username │ /: search │ ←/→: category │ ctrl+l: lock │ q: quit")
}

func (m *ListModel) current() (models.Credential, bool) {
	if m.idx < 0 || m.idx >= len(m.visible) {
		return models.Credential{}, false
	}
	return m.visible[m.idx], true
}

func (m *ListModel) categoryLabel() string {
	if m.category == 0 {
		return "All"
	}
	return models.Categories[m.category-1].DisplayName()
}

func (m *ListModel) selectedCategory() models.Category {
	if m.category == 0 {
		return ""
	}
	return models.Categories[m.category-1]
}

func (m *ListModel) refilter() {
	m.visible = filterRecords(m.records, m.search.Value(), m.selectedCategory())
	if m.idx >= len(m.visible) {
		m.idx = len(m.visible) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
}

// clear drops the decrypted records held by the page.
func (m *ListModel) clear() {
	m.records = nil
	m.visible = nil
	m.idx = 0
	m.category = 0
	m.search.Reset()
	m.search.Blur()
	m.searching = false
	m.confirmDelete = false
	m.status = ""
	m.errMsg = ""
}

func (m *ListModel) cmdLoad() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		records, err := session.ListRecords()
		return recordsLoadedMsg{records: records, err: err}
	}
}

// filterRecords keeps records whose title or username contains query
// (case-insensitive) and, when category is set, that belong to it.
func filterRecords(records []models.Credential, query string, category models.Category) []models.Credential {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Credential, 0, len(records))
	for _, rec := range records {
		if category != "" && rec.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(rec.Title), query) &&
			!strings.Contains(strings.ToLower(rec.Username), query) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
