package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/vaultlock/internal/app"
	"github.com/MKhiriev/vaultlock/internal/crypto"
	"github.com/MKhiriev/vaultlock/internal/generator"
	"github.com/MKhiriev/vaultlock/internal/service"
	"github.com/MKhiriev/vaultlock/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── filterRecords ────────────────────────────────────────────────────────────

func TestFilterRecords(t *testing.T) {
	records := sampleRecords()

	tests := []struct {
		name     string
		query    string
		category models.Category
		want     []string
	}{
		{name: "no filter", want: []string{"Gmail", "GitHub", "Bank"}},
		{name: "title case-insensitive", query: "gI", want: []string{"GitHub"}},
		{name: "username", query: "example.com", want: []string{"Gmail"}},
		{name: "shared prefix", query: "g", want: []string{"Gmail", "GitHub"}},
		{name: "category", category: models.CategoryBanking, want: []string{"Bank"}},
		{name: "query and category", query: "alice", category: models.CategoryDev, want: []string{"GitHub"}},
		{name: "no match", query: "zzz", want: []string{}},
		{name: "whitespace query", query: "   ", want: []string{"Gmail", "GitHub", "Bank"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterRecords(records, tt.query, tt.category)
			titles := make([]string, 0, len(got))
			for _, rec := range got {
				titles = append(titles, rec.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

// ── SetupModel ───────────────────────────────────────────────────────────────

func TestSetupModel_CreatesVault(t *testing.T) {
	// Arrange
	session := newTestSession(t)
	var m tea.Model = NewSetupModel(context.Background(), session)

	// Act
	m = typeText(m, testPassword)
	m, _ = m.Update(keyType(tea.KeyEnter)) // moves to the confirmation field
	m = typeText(m, testPassword)
	m, cmd := m.Update(keyType(tea.KeyEnter))
	m, cmd = m.Update(runCmd(t, cmd))

	// Assert
	assert.Equal(t, models.SessionUnlocked, session.State())
	assert.Equal(t, NavigateTo{Page: pageList}, runCmd(t, cmd))
	assert.Empty(t, m.(*SetupModel).inputs[0].Value(), "inputs are cleared")
}

func TestSetupModel_ShowsSessionErrors(t *testing.T) {
	session := newTestSession(t)
	m := NewSetupModel(context.Background(), session)

	m.Update(setupDoneMsg{err: service.ErrWeakPassword})
	assert.Contains(t, m.View(), app.MsgWeakPassword)

	m.Update(setupDoneMsg{err: service.ErrPasswordMismatch})
	assert.Contains(t, m.View(), app.MsgPasswordMismatch)
	assert.Equal(t, models.SessionNoVault, session.State())
}

// ── UnlockModel ──────────────────────────────────────────────────────────────

func TestUnlockModel_Unlock(t *testing.T) {
	// Arrange
	session := newUnlockedTestSession(t)
	session.Lock()
	var m tea.Model = NewUnlockModel(context.Background(), session)

	// Act
	m = typeText(m, testPassword)
	m, cmd := m.Update(keyType(tea.KeyEnter))
	msg := runCmd(t, cmd)
	_, cmd = m.Update(msg)

	// Assert
	assert.Equal(t, unlockDoneMsg{}, msg)
	assert.Equal(t, models.SessionUnlocked, session.State())
	assert.Equal(t, NavigateTo{Page: pageList}, runCmd(t, cmd))
}

func TestUnlockModel_WrongPassword(t *testing.T) {
	session := newUnlockedTestSession(t)
	session.Lock()
	var m tea.Model = NewUnlockModel(context.Background(), session)

	m = typeText(m, "wrongpass")
	m, cmd := m.Update(keyType(tea.KeyEnter))
	m, _ = m.Update(runCmd(t, cmd))

	assert.Equal(t, models.SessionLocked, session.State())
	assert.Contains(t, m.View(), app.MsgInvalidCredentials)
	assert.Empty(t, m.(*UnlockModel).input.Value(), "password input is cleared")
}

func TestUnlockModel_EmptyPassword(t *testing.T) {
	m := NewUnlockModel(context.Background(), newTestSession(t))

	_, cmd := m.Update(keyType(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Enter the master password")
}

func TestUnlockModel_NoVaultOpensSetup(t *testing.T) {
	m := NewUnlockModel(context.Background(), newTestSession(t))

	_, cmd := m.Update(unlockDoneMsg{err: service.ErrNoVault})

	assert.Equal(t, NavigateTo{Page: pageSetup}, runCmd(t, cmd))
}

func TestUnlockModel_LockedNotice(t *testing.T) {
	m := NewUnlockModel(context.Background(), newTestSession(t))

	m.Update(lockedNotice{message: "Vault locked after inactivity"})

	assert.Contains(t, m.View(), "Vault locked after inactivity")
}

// ── ListModel ────────────────────────────────────────────────────────────────

func newLoadedList(t *testing.T, session service.VaultSession) *ListModel {
	t.Helper()
	m := NewListModel(context.Background(), session)
	m.Update(runCmd(t, m.Init()))
	return m
}

func TestListModel_LoadAndFilter(t *testing.T) {
	m := newLoadedList(t, newUnlockedTestSession(t, sampleRecords()...))
	require.Len(t, m.visible, 3)

	// search
	m.Update(keyRunes("/"))
	require.True(t, m.searching)
	typeText(m, "git")
	m.Update(keyType(tea.KeyEnter))
	assert.False(t, m.searching)
	require.Len(t, m.visible, 1)
	assert.Equal(t, "GitHub", m.visible[0].Title)

	// esc clears the filter
	m.Update(keyType(tea.KeyEsc))
	assert.Len(t, m.visible, 3)

	// category cycles forward from "All"
	m.Update(keyType(tea.KeyRight))
	assert.Equal(t, models.Categories[0], m.selectedCategory())
	m.Update(keyType(tea.KeyLeft))
	m.Update(keyType(tea.KeyLeft))
	assert.Equal(t, models.CategoryOther, m.selectedCategory())
	assert.Empty(t, m.visible)
	assert.Contains(t, m.View(), "Nothing matches the filter.")
}

func TestListModel_Empty(t *testing.T) {
	m := newLoadedList(t, newUnlockedTestSession(t))

	assert.Contains(t, m.View(), "No records yet")
}

func TestListModel_LockedSession(t *testing.T) {
	session := newUnlockedTestSession(t)
	session.Lock()

	m := newLoadedList(t, session)

	assert.Contains(t, m.View(), app.MsgVaultLocked)
}

func TestListModel_Copy(t *testing.T) {
	var copied string
	writeClipboard = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { writeClipboard = defaultWriteClipboard })

	m := newLoadedList(t, newUnlockedTestSession(t, sampleRecords()...))

	_, cmd := m.Update(keyRunes("c"))
	m.Update(runCmd(t, cmd))
	assert.Equal(t, "x1", copied)
	assert.Contains(t, m.View(), "Password copied to clipboard")

	_, cmd = m.Update(keyRunes("u"))
	runCmd(t, cmd)
	assert.Equal(t, "alice@example.com", copied)
}

func TestListModel_CopyFailure(t *testing.T) {
	writeClipboard = func(string) error { return errors.New("no display") }
	t.Cleanup(func() { writeClipboard = defaultWriteClipboard })

	m := newLoadedList(t, newUnlockedTestSession(t, sampleRecords()...))

	_, cmd := m.Update(keyRunes("c"))
	m.Update(runCmd(t, cmd))

	assert.Contains(t, m.View(), "Clipboard is not available")
}

func TestListModel_DeleteWithConfirmation(t *testing.T) {
	// Arrange
	session := newUnlockedTestSession(t, sampleRecords()...)
	m := newLoadedList(t, session)
	m.Update(keyType(tea.KeyDown))

	// Act & Assert: "n" cancels
	m.Update(keyRunes("d"))
	require.True(t, m.confirmDelete)
	assert.Contains(t, m.View(), `Delete "GitHub"?`)
	m.Update(keyRunes("n"))
	assert.False(t, m.confirmDelete)

	// "y" deletes
	m.Update(keyRunes("d"))
	_, cmd := m.Update(keyRunes("y"))
	_, cmd = m.Update(runCmd(t, cmd))
	require.NotNil(t, cmd)

	records, err := session.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Gmail", records[0].Title)
	assert.Equal(t, "Bank", records[1].Title)
}

func TestListModel_OpenNewAndLock(t *testing.T) {
	session := newUnlockedTestSession(t, sampleRecords()...)
	m := newLoadedList(t, session)

	_, cmd := m.Update(keyType(tea.KeyEnter))
	assert.Equal(t, NavigateTo{Page: pageDetail, Payload: showRecord{record: m.visible[0]}}, runCmd(t, cmd))

	_, cmd = m.Update(keyRunes("n"))
	assert.Equal(t, NavigateTo{Page: pageForm, Payload: editRecord{backPage: pageList}}, runCmd(t, cmd))

	_, cmd = m.Update(keyType(tea.KeyCtrlL))
	assert.Equal(t, NavigateTo{Page: pageUnlock, Payload: lockedNotice{message: "Vault locked"}}, runCmd(t, cmd))
	assert.Equal(t, models.SessionLocked, session.State())
}

// ── DetailModel ──────────────────────────────────────────────────────────────

func TestDetailModel_RevealPassword(t *testing.T) {
	m := NewDetailModel(context.Background(), newUnlockedTestSession(t))
	rec := models.Credential{Title: "Gmail", Username: "alice", Password: "hunter2-secret", Category: models.CategoryEmail}

	m.Update(showRecord{record: rec})
	assert.NotContains(t, m.View(), "hunter2-secret")
	assert.Contains(t, m.View(), "GMAIL")

	m.Update(keyRunes("r"))
	assert.Contains(t, m.View(), "hunter2-secret")

	// a new record starts masked again
	m.Update(showRecord{record: rec})
	assert.NotContains(t, m.View(), "hunter2-secret")
}

func TestDetailModel_Delete(t *testing.T) {
	session := newUnlockedTestSession(t, sampleRecords()...)
	records, err := session.ListRecords()
	require.NoError(t, err)
	m := NewDetailModel(context.Background(), session)
	m.Update(showRecord{record: records[0]})

	m.Update(keyRunes("d"))
	_, cmd := m.Update(keyRunes("y"))
	_, cmd = m.Update(runCmd(t, cmd))

	assert.Equal(t, NavigateTo{Page: pageList, Payload: listNotice{status: "Record deleted"}}, runCmd(t, cmd))
	_, err = session.Record(records[0].ID)
	assert.ErrorIs(t, err, service.ErrRecordNotFound)
}

// ── FormModel ────────────────────────────────────────────────────────────────

func newTestForm(session service.VaultSession) *FormModel {
	return NewFormModel(context.Background(), session,
		generator.NewPasswordGenerator(crypto.SystemRandom()), generator.DefaultPolicy())
}

func TestFormModel_CreateRecord(t *testing.T) {
	// Arrange
	session := newUnlockedTestSession(t)
	m := newTestForm(session)
	m.Update(editRecord{backPage: pageList})

	// Act: title, username, generated password, category "email"
	typeText(m, "Gmail")
	m.Update(keyType(tea.KeyTab))
	typeText(m, "alice@example.com")
	m.Update(keyType(tea.KeyCtrlG))
	password := m.inputs[rowPassword].Value()
	for m.focus != rowCategory {
		m.Update(keyType(tea.KeyTab))
	}
	m.Update(keyType(tea.KeyRight)) // other wraps around to social
	m.Update(keyType(tea.KeyRight))
	_, cmd := m.Update(keyType(tea.KeyEnter))
	_, cmd = m.Update(runCmd(t, cmd))

	// Assert
	assert.Len(t, password, generator.DefaultPolicy().Length)
	records, err := session.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Gmail", records[0].Title)
	assert.Equal(t, "alice@example.com", records[0].Username)
	assert.Equal(t, password, records[0].Password)
	assert.Equal(t, models.CategoryEmail, records[0].Category)
	assert.Equal(t, NavigateTo{Page: pageList, Payload: listNotice{status: "Record saved"}}, runCmd(t, cmd))
}

func TestFormModel_EditRecord(t *testing.T) {
	session := newUnlockedTestSession(t, sampleRecords()...)
	records, err := session.ListRecords()
	require.NoError(t, err)
	original := records[1]

	m := newTestForm(session)
	m.Update(editRecord{record: &original, backPage: pageDetail})
	assert.Contains(t, m.View(), "EDIT RECORD")

	m.Update(keyType(tea.KeyEnd))
	typeText(m, " Enterprise")
	_, cmd := m.Update(keyType(tea.KeyEnter))
	_, cmd = m.Update(runCmd(t, cmd))

	got, err := session.Record(original.ID)
	require.NoError(t, err)
	assert.Equal(t, "GitHub Enterprise", got.Title)
	assert.Equal(t, original.Password, got.Password)
	assert.Equal(t, original.CreatedAt, got.CreatedAt)

	nav := runCmd(t, cmd).(NavigateTo)
	assert.Equal(t, pageDetail, nav.Page)
	assert.Equal(t, "GitHub Enterprise", nav.Payload.(showRecord).record.Title)
}

func TestFormModel_RequiresTitleAndPassword(t *testing.T) {
	session := newUnlockedTestSession(t)
	m := newTestForm(session)
	m.Update(editRecord{backPage: pageList})

	typeText(m, "   ")
	_, cmd := m.Update(keyType(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Title and password are required")
	records, err := session.ListRecords()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFormModel_GeneratorRow(t *testing.T) {
	m := newTestForm(newUnlockedTestSession(t))
	m.Update(editRecord{backPage: pageList})
	for m.focus != rowGenerator {
		m.Update(keyType(tea.KeyTab))
	}

	// shorten to the minimum, digits only
	for i := 0; i < 40; i++ {
		m.Update(keyType(tea.KeyLeft))
	}
	m.Update(keyRunes("1"))
	m.Update(keyRunes("2"))
	m.Update(keyRunes("4"))
	m.Update(keyRunes("g"))

	password := m.inputs[rowPassword].Value()
	assert.Equal(t, generator.MinLength, m.policy.Length)
	assert.Len(t, password, generator.MinLength)
	assert.Regexp(t, `^[0-9]+$`, password)
	assert.Contains(t, m.View(), "length 8")
}

func TestFormModel_EscReturns(t *testing.T) {
	m := newTestForm(newUnlockedTestSession(t))
	rec := models.Credential{ID: "id-1", Title: "Gmail", Password: "x1"}

	m.Update(editRecord{record: &rec, backPage: pageDetail})
	_, cmd := m.Update(keyType(tea.KeyEsc))
	assert.Equal(t, NavigateTo{Page: pageDetail, Payload: showRecord{record: rec}}, runCmd(t, cmd))

	m.Update(editRecord{backPage: pageList})
	_, cmd = m.Update(keyType(tea.KeyEsc))
	assert.Equal(t, NavigateTo{Page: pageList}, runCmd(t, cmd))
}
