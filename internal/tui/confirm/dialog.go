package confirm

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/younsl/gwatch/internal/model"
)

type Action string

const (
	ActionCancel  Action = "cancel"
	ActionApprove Action = "approve"
)

type ResultMsg struct {
	Confirmed bool
	Action    Action
	Job       model.WorkflowJob
}

// Model is the confirmation overlay for a mutating action on one job.
// The selection defaults to No; enter submits whatever is selected.
type Model struct {
	Action   Action
	Job      model.WorkflowJob
	active   bool
	selected bool // true = Yes selected
}

func New(action Action, job model.WorkflowJob) Model {
	return Model{
		Action: action,
		Job:    job,
		active: true,
	}
}

func (m Model) IsActive() bool { return m.active }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y":
			m.active = false
			return m, m.result(true)
		case "n", "N", "esc":
			m.active = false
			return m, m.result(false)
		case "enter":
			m.active = false
			return m, m.result(m.selected)
		case "tab", "left", "right", "h", "l":
			m.selected = !m.selected
		}
	}
	return m, nil
}

func (m Model) result(confirmed bool) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{Confirmed: confirmed, Action: m.Action, Job: m.Job}
	}
}

func (m Model) title() string {
	if m.Action == ActionApprove {
		return "Approve deployment?"
	}
	return "Cancel workflow run?"
}

func (m Model) View() string {
	if !m.active {
		return ""
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#F59E0B")).
		Padding(1, 2).
		Width(56)

	title := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#F59E0B")).
		Render(m.title())

	detail := fmt.Sprintf("%s #%d  %s", m.Job.Repo, m.Job.RunNumber, m.Job.Name)

	yesStyle := lipgloss.NewStyle().Padding(0, 1)
	noStyle := lipgloss.NewStyle().Padding(0, 1)

	if m.selected {
		yesStyle = yesStyle.Bold(true).Background(lipgloss.Color("#10B981")).Foreground(lipgloss.Color("#F9FAFB"))
		noStyle = noStyle.Foreground(lipgloss.Color("#6B7280"))
	} else {
		yesStyle = yesStyle.Foreground(lipgloss.Color("#6B7280"))
		noStyle = noStyle.Bold(true).Background(lipgloss.Color("#EF4444")).Foreground(lipgloss.Color("#F9FAFB"))
	}

	content := fmt.Sprintf("%s\n\n%s\n\n%s  %s\n\ny/n to confirm, esc to cancel",
		title, detail,
		yesStyle.Render("Yes"), noStyle.Render("No"))

	return style.Render(content)
}
