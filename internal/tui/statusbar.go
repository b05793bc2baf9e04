package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/younsl/gwatch/internal/ui"
)

func RenderStatusBar(status, progress string, width int) string {
	left := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("  " + status)

	right := lipgloss.NewStyle().Foreground(ui.ColorMuted).
		Render(progress + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#111827")).
		Width(width).
		Render(left + padding + right)
}
