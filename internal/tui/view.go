package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/younsl/gwatch/internal/model"
	"github.com/younsl/gwatch/internal/tui/viewstate"
	"github.com/younsl/gwatch/internal/ui"
)

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := RenderHeader(a.cfg.Server, a.cfg.Org, a.user, a.version, a.width)
	status := RenderStatusBar(a.statusLine(), a.progressLine(), a.width)

	bodyHeight := a.height - lipgloss.Height(header) - lipgloss.Height(status)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	switch {
	case a.confirm.IsActive():
		body = lipgloss.Place(a.width, bodyHeight, lipgloss.Center, lipgloss.Center, a.confirm.View())
	case a.showHelp:
		body = lipgloss.Place(a.width, bodyHeight, lipgloss.Center, lipgloss.Center, renderHelp())
	default:
		body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(a.renderJobs(bodyHeight))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (a *App) renderJobs(height int) string {
	jobs := a.state.VisibleJobs()
	now := time.Now()

	var b strings.Builder
	b.WriteString(" " + a.viewTitle(len(jobs)) + "\n\n")

	if len(jobs) == 0 {
		if a.scanning || a.loading {
			b.WriteString(ui.StyleMuted.Render("  Scanning..."))
		} else {
			b.WriteString(ui.StyleMuted.Render("  No workflow runs"))
		}
		return b.String()
	}

	// Keep the cursor row on screen for small terminals.
	maxRows := height - 3
	if maxRows < 1 {
		maxRows = 1
	}
	start := 0
	if a.state.Cursor() >= maxRows {
		start = a.state.Cursor() - maxRows + 1
	}

	for i := start; i < len(jobs) && i < start+maxRows; i++ {
		b.WriteString(a.renderRow(jobs[i], i == a.state.Cursor(), now))
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderRow(job model.WorkflowJob, focused bool, now time.Time) string {
	icon := ui.StatusIcon(job.Status)

	name := job.Name
	if name == "" {
		name = job.WorkflowName
	}
	nameCell := fmt.Sprintf("%-36.36s", name)
	if job.Highlighted(now) {
		nameCell = ui.StyleNew.Render(nameCell)
	}

	line := fmt.Sprintf(" %s %-28.28s #%-6d %s %-18.18s %-12.12s %-10.10s %s",
		icon,
		job.Repo,
		job.RunNumber,
		nameCell,
		ui.StyleInfo.Render(fmt.Sprintf("%-18.18s", job.Branch)),
		job.Event,
		job.Actor,
		ui.StyleMuted.Render(ageLabel(job, now)),
	)

	if focused {
		return ui.StyleCursor.Width(a.width).Render(line)
	}
	return line
}

func (a *App) viewTitle(visible int) string {
	if a.state.View() == viewstate.ViewPending {
		return ui.StyleHeader.Render(fmt.Sprintf(" Pending approvals (%d) ", visible))
	}
	return ui.StyleHeader.Render(fmt.Sprintf(" Recent runs | page %d/%d (%d total) ",
		a.state.Page()+1, a.state.PageCount(), a.state.RecentCount()))
}

func (a *App) statusLine() string {
	if a.errText != "" {
		return ui.StyleFailure.Render(a.errText)
	}
	return a.status
}

func (a *App) progressLine() string {
	p := a.progress
	parts := make([]string, 0, 4)

	switch p.Mode {
	case model.ScanFull, model.ScanTargeted:
		parts = append(parts, fmt.Sprintf("scan %d/%d", p.Completed, p.TotalRepos))
	case model.ScanCompleted:
		parts = append(parts, fmt.Sprintf("scanned %d repos", p.Completed))
	}
	if p.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", p.Skipped))
	}
	if p.CacheState != "" {
		parts = append(parts, "cache: "+p.CacheState)
	}
	if p.MemUsage != "" {
		parts = append(parts, p.MemUsage)
	}
	if a.state.View() == viewstate.ViewRecent && !a.lastRecent.IsZero() {
		remaining := recentInterval - time.Since(a.lastRecent)
		if remaining > 0 {
			parts = append(parts, fmt.Sprintf("next refresh %ds", int(remaining.Seconds())))
		}
	}

	return strings.Join(parts, " | ")
}

func ageLabel(job model.WorkflowJob, now time.Time) string {
	t := job.SortTime()
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t).Truncate(time.Minute)
	if d < time.Minute {
		return "<1m"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}
