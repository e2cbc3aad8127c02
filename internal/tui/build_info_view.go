package tui

import (
	"strings"

	"github.com/MKhiriev/vaultlock/models"
)

func renderBuildInfoWindow(info models.AppBuildInfo) string {
	var b strings.Builder

	b.WriteString("Application: VaultLock\n")
	b.WriteString("Version: " + info.BuildVersion() + "\n")
	b.WriteString("Date: " + info.BuildDate() + "\n")
	b.WriteString("Commit: " + info.BuildCommit())

	return renderPage("ABOUT", b.String(), "esc: back")
}
