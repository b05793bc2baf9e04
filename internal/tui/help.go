package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/younsl/gwatch/internal/ui"
)

func renderHelp() string {
	bindings := []key.Binding{
		ui.Keys.ToggleView,
		ui.Keys.Refresh,
		ui.Keys.Approve,
		ui.Keys.Cancel,
		ui.Keys.Open,
		ui.Keys.Up,
		ui.Keys.Down,
		ui.Keys.PrevPage,
		ui.Keys.NextPage,
		ui.Keys.Help,
		ui.Keys.Quit,
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary).Render("Key bindings"))
	b.WriteString("\n\n")
	for _, binding := range bindings {
		h := binding.Help()
		b.WriteString(lipgloss.NewStyle().Foreground(ui.ColorWarning).Width(10).Render(h.Key))
		b.WriteString(" " + h.Desc + "\n")
	}
	b.WriteString("\n" + ui.StyleMuted.Render("press any key to close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Padding(1, 2).
		Render(b.String())
}
