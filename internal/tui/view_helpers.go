package tui

import (
	"strings"

	"github.com/MKhiriev/vaultlock/internal/generator"
)

const uiDivider = "──────────────────────────────────────────────────────"

func renderPage(title, data, hotKeys string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(uiDivider)
	b.WriteString("\n\n")

	if strings.TrimSpace(data) != "" {
		for _, line := range strings.Split(data, "\n") {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	} else {
		b.WriteString("  -\n")
	}

	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(uiDivider)
	b.WriteString("\n")

	if strings.TrimSpace(hotKeys) != "" {
		b.WriteString("  ")
		b.WriteString(helpStyle.Render(hotKeys))
		b.WriteString("\n")
	}
	b.WriteString("  ")
	b.WriteString(helpStyle.Render("ctrl+c: quit"))

	return appStyle.Render(b.String())
}

// writeMessages appends the status and error lines of a page.
func writeMessages(b *strings.Builder, status, errMsg string) {
	if status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(status))
		b.WriteString("\n")
	}
	if errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + errMsg))
		b.WriteString("\n")
	}
}

func renderStrength(password string) string {
	if password == "" {
		return "-"
	}
	s := generator.Estimate(password)
	score := s.Score
	if score < 0 {
		score = 0
	}
	if score >= len(strengthStyles) {
		score = len(strengthStyles) - 1
	}
	bar := strings.Repeat("█", score+1) + strings.Repeat("░", len(strengthStyles)-1-score)
	label := bar + " " + s.Label()
	if s.CrackTime != "" {
		label += " (cracked in " + s.CrackTime + ")"
	}
	return strengthStyles[score].Render(label)
}

func valueOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func fitText(v string, max int) string {
	r := []rune(v)
	if max <= 0 || len(r) <= max {
		return v
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func maskSecret(v string) string {
	if v == "" {
		return "-"
	}
	return "••••••••"
}
