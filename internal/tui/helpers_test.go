package tui

import (
	"context"
	"testing"

	"github.com/MKhiriev/vaultlock/internal/crypto"
	"github.com/MKhiriev/vaultlock/internal/generator"
	"github.com/MKhiriev/vaultlock/internal/logger"
	"github.com/MKhiriev/vaultlock/internal/service"
	"github.com/MKhiriev/vaultlock/internal/store"
	"github.com/MKhiriev/vaultlock/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

const testPassword = "Sup3rSecret!"

func newTestSession(t *testing.T) service.VaultSession {
	t.Helper()
	s, err := service.NewVaultSession(context.Background(), store.NewMemoryVaultStore(),
		crypto.NewKeyChainService(crypto.SystemRandom()), logger.Nop())
	require.NoError(t, err)
	return s
}

func newUnlockedTestSession(t *testing.T, records ...models.Credential) service.VaultSession {
	t.Helper()
	s := newTestSession(t)
	require.NoError(t, s.Setup(context.Background(), testPassword, testPassword))
	for _, rec := range records {
		_, err := s.UpsertRecord(context.Background(), rec)
		require.NoError(t, err)
	}
	return s
}

func newTestServices(session service.VaultSession) *service.Services {
	return &service.Services{
		Session:   session,
		Generator: generator.NewPasswordGenerator(crypto.SystemRandom()),
		Policy:    generator.DefaultPolicy(),
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// typeText feeds s to m one rune at a time.
func typeText(m tea.Model, s string) tea.Model {
	for _, r := range s {
		m, _ = m.Update(keyRunes(string(r)))
	}
	return m
}

// runCmd executes cmd synchronously. Only use it for commands that do not
// tick.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func sampleRecords() []models.Credential {
	return []models.Credential{
		{Title: "Gmail", Username: "alice@example.com", Password: "x1", Category: models.CategoryEmail},
		{Title: "GitHub", Username: "alice", Password: "x2", Category: models.CategoryDev},
		{Title: "Bank", Username: "4242", Password: "x3", Category: models.CategoryBanking},
	}
}
