package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/younsl/gwatch/internal/model"
)

var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorFailure   = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorInfo      = lipgloss.Color("#3B82F6")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorHighlight = lipgloss.Color("#1F2937")

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(ColorPrimary).
			Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleFailure = lipgloss.NewStyle().Foreground(ColorFailure)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)

	// StyleNew marks rows observed for the first time, until their
	// highlight expires.
	StyleNew = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FCD34D"))

	StyleCursor = lipgloss.NewStyle().Background(ColorHighlight)
)

func StatusStyle(status model.JobStatus) lipgloss.Style {
	switch status {
	case model.StatusCompleted:
		return StyleSuccess
	case model.StatusFailure:
		return StyleFailure
	case model.StatusCancelled:
		return StyleWarning
	case model.StatusInProgress:
		return StyleInfo
	default:
		return StyleMuted
	}
}

func StatusIcon(status model.JobStatus) string {
	switch status {
	case model.StatusCompleted:
		return StyleSuccess.Render("V")
	case model.StatusFailure:
		return StyleFailure.Render("X")
	case model.StatusCancelled:
		return StyleWarning.Render("!")
	case model.StatusInProgress:
		return StyleInfo.Render("*")
	case model.StatusWaiting:
		return StyleWarning.Render("w")
	default:
		return StyleMuted.Render("o")
	}
}
