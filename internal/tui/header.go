package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/younsl/gwatch/internal/ui"
)

func RenderHeader(server, org, user, version string, width int) string {
	left := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#F9FAFB")).
		Render(fmt.Sprintf(" gwatch %s | %s/%s", version, server, org))

	right := lipgloss.NewStyle().Foreground(ui.ColorSuccess).
		Render(fmt.Sprintf("@%s ", user))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#1F2937")).
		Width(width).
		Render(left + padding + right)
}
