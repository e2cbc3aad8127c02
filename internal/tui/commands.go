package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/vaultlock/internal/service"
	"github.com/MKhiriev/vaultlock/models"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	defaultWriteClipboard = clipboard.WriteAll
	// writeClipboard is swapped in tests.
	writeClipboard = defaultWriteClipboard
)

func cmdCopyToClipboard(text, label string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return clipboardMsg{label: label, err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return clipboardMsg{label: label}
	}
}

func clipboardStatus(msg clipboardMsg) (status, errMsg string) {
	if msg.err != nil {
		return "", "Clipboard is not available"
	}
	return msg.label + " copied to clipboard", ""
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func cmdSaveRecord(ctx context.Context, session service.VaultSession, record models.Credential) tea.Cmd {
	return func() tea.Msg {
		saved, err := session.UpsertRecord(ctx, record)
		return recordSavedMsg{record: saved, err: err}
	}
}

func cmdDeleteRecord(ctx context.Context, session service.VaultSession, id string) tea.Cmd {
	return func() tea.Msg {
		return recordDeletedMsg{err: session.DeleteRecord(ctx, id)}
	}
}

func renderConfirmDelete(title string) string {
	content := "Delete \"" + title + "\"?\n\n"
	content += "y yes    n no"
	return overlayBoxStyle.Render(content)
}
