package tui

import (
	"github.com/MKhiriev/vaultlock/models"
)

// Page names registered with [RootModel].
const (
	pageSetup  = "setup"
	pageUnlock = "unlock"
	pageList   = "list"
	pageDetail = "detail"
	pageForm   = "form"
)

// NavigateTo switches the active page. When Payload is set it is delivered
// to the new page instead of calling its Init.
type NavigateTo struct {
	Page    string
	Payload any
}

type setupDoneMsg struct {
	err error
}

type unlockDoneMsg struct {
	err error
}

type recordsLoadedMsg struct {
	records []models.Credential
	err     error
}

type recordSavedMsg struct {
	record models.Credential
	err    error
}

type recordDeletedMsg struct {
	err error
}

type clipboardMsg struct {
	label string
	err   error
}

type clearStatusMsg struct{}

// lockCheckMsg drives the periodic session state check in RootModel.
type lockCheckMsg struct{}

// lockedNotice opens the unlock page with a message.
type lockedNotice struct {
	message string
}

// showRecord opens the detail page for a record.
type showRecord struct {
	record models.Credential
}

// editRecord opens the form. A nil record starts a new one.
type editRecord struct {
	record   *models.Credential
	backPage string
}

// listNotice reloads the list and shows status.
type listNotice struct {
	status string
}
