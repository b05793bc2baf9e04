package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cli/go-gh/v2/pkg/browser"

	"github.com/younsl/gwatch/internal/config"
	"github.com/younsl/gwatch/internal/github"
	"github.com/younsl/gwatch/internal/model"
	"github.com/younsl/gwatch/internal/monitor"
	"github.com/younsl/gwatch/internal/tui/confirm"
	"github.com/younsl/gwatch/internal/tui/viewstate"
	"github.com/younsl/gwatch/internal/ui"
)

const (
	tickInterval      = time.Second
	recentInterval    = 30 * time.Second
	fullScanInterval  = 2 * time.Minute
	benignSettleDelay = 3 * time.Second
)

// Streamer is the monitor capability the app consumes.
type Streamer interface {
	Stream(ctx context.Context, ch chan<- monitor.Update)
	Fetch(ctx context.Context) ([]model.WorkflowJob, error)
	FetchRecent(ctx context.Context) ([]model.WorkflowJob, error)
	AuthenticatedUser(ctx context.Context) string
	Progress() model.ScanProgress
}

// Actions is the mutating slice of the GitHub client.
type Actions interface {
	CancelWorkflowRun(ctx context.Context, repo string, runID int64) error
	GetPendingDeployments(ctx context.Context, repo string, runID int64) ([]github.PendingDeployment, error)
	ApprovePendingDeployments(ctx context.Context, repo string, runID int64, environmentIDs []int64, comment string) error
}

// App is the single-threaded reducer loop. All state mutation happens
// here; background work only ever arrives as messages.
type App struct {
	ctx     context.Context
	cfg     config.Config
	monitor Streamer
	actions Actions
	logger  *slog.Logger
	version string

	state    *viewstate.State
	confirm  confirm.Model
	progress model.ScanProgress
	user     string
	status   string
	errText  string

	width, height int
	showHelp      bool
	scanning      bool // streamed sweep in flight
	loading       bool // point-in-time fetch in flight
	lastRecent    time.Time

	updates <-chan monitor.Update
	openURL func(url string) error
}

func NewApp(ctx context.Context, cfg config.Config, mon Streamer, actions Actions, logger *slog.Logger, version string) *App {
	b := browser.New("", io.Discard, io.Discard)
	return &App{
		ctx:     ctx,
		cfg:     cfg,
		monitor: mon,
		actions: actions,
		logger:  logger,
		version: version,
		state:   viewstate.New(),
		user:    "unknown",
		status:  "Scanning repositories...",
		openURL: b.Browse,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.startSweep(), a.loadUser(), tickCmd())
}

// --- Commands ---

func (a *App) startSweep() tea.Cmd {
	if a.scanning {
		return nil
	}
	a.scanning = true
	ch := make(chan monitor.Update, 16)
	a.updates = ch
	go a.monitor.Stream(a.ctx, ch)
	return a.waitForUpdate()
}

// waitForUpdate reads the next streamed sweep update. The reducer
// re-issues it after each SweepUpdateMsg, so partial results render as
// workers finish.
func (a *App) waitForUpdate() tea.Cmd {
	ch := a.updates
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return ui.SweepDoneMsg{}
		}
		return ui.SweepUpdateMsg{Repo: u.Repo, Jobs: u.Jobs, Err: u.Err, Progress: u.Progress}
	}
}

func (a *App) loadPending() tea.Cmd {
	return func() tea.Msg {
		jobs, err := a.monitor.Fetch(a.ctx)
		return ui.PendingLoadedMsg{Jobs: jobs, Err: err}
	}
}

func (a *App) loadRecent() tea.Cmd {
	return func() tea.Msg {
		jobs, err := a.monitor.FetchRecent(a.ctx)
		return ui.RecentLoadedMsg{Jobs: jobs, Err: err}
	}
}

func (a *App) loadUser() tea.Cmd {
	return func() tea.Msg {
		return ui.UserLoadedMsg{Login: a.monitor.AuthenticatedUser(a.ctx)}
	}
}

func (a *App) doCancel(job model.WorkflowJob) tea.Cmd {
	return func() tea.Msg {
		err := a.actions.CancelWorkflowRun(a.ctx, job.Repo, job.RunID)
		if github.IsBenignConflict(err) {
			return ui.ActionResultMsg{Action: "cancel", Job: job.Key(), Benign: true}
		}
		return ui.ActionResultMsg{Action: "cancel", Job: job.Key(), Err: err}
	}
}

func (a *App) doApprove(job model.WorkflowJob) tea.Cmd {
	return func() tea.Msg {
		deployments, err := a.actions.GetPendingDeployments(a.ctx, job.Repo, job.RunID)
		if err != nil {
			return ui.ActionResultMsg{Action: "approve", Job: job.Key(), Err: err}
		}
		if len(deployments) == 0 {
			return ui.ActionResultMsg{Action: "approve", Job: job.Key(), Err: errors.New("no pending deployments")}
		}
		ids := make([]int64, 0, len(deployments))
		for _, d := range deployments {
			ids = append(ids, d.Environment.ID)
		}
		comment := approvalComment(a.version, a.cfg.Location, time.Now())
		err = a.actions.ApprovePendingDeployments(a.ctx, job.Repo, job.RunID, ids, comment)
		if github.IsBenignConflict(err) {
			return ui.ActionResultMsg{Action: "approve", Job: job.Key(), Benign: true}
		}
		return ui.ActionResultMsg{Action: "approve", Job: job.Key(), Err: err}
	}
}

func approvalComment(version string, loc *time.Location, now time.Time) string {
	if loc == nil {
		loc = time.UTC
	}
	return fmt.Sprintf("Approved via gwatch %s at %s", version, now.In(loc).Format(time.RFC3339))
}

func (a *App) openInBrowser(url string) tea.Cmd {
	open := a.openURL
	return func() tea.Msg {
		return ui.BrowserOpenedMsg{Err: open(url)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return ui.TickMsg(t)
	})
}

func settleCmd() tea.Cmd {
	return tea.Tick(benignSettleDelay, func(time.Time) tea.Msg {
		return ui.RefreshDelayMsg{}
	})
}

func nextSweepCmd() tea.Cmd {
	return tea.Tick(fullScanInterval, func(time.Time) tea.Msg {
		return ui.SweepTickMsg{}
	})
}

// refreshCurrent re-fetches whichever view is active, unless a fetch
// is already in flight.
func (a *App) refreshCurrent() tea.Cmd {
	if a.loading {
		return nil
	}
	a.loading = true
	if a.state.View() == viewstate.ViewRecent {
		return a.loadRecent()
	}
	return a.loadPending()
}

// --- Update ---

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Dialog result arrives after the dialog deactivated itself.
	if result, ok := msg.(confirm.ResultMsg); ok {
		if !result.Confirmed {
			a.status = "Aborted"
			return a, nil
		}
		switch result.Action {
		case confirm.ActionCancel:
			a.status = fmt.Sprintf("Cancelling %s #%d...", result.Job.Repo, result.Job.RunNumber)
			return a, a.doCancel(result.Job)
		case confirm.ActionApprove:
			a.status = fmt.Sprintf("Approving %s #%d...", result.Job.Repo, result.Job.RunNumber)
			return a, a.doApprove(result.Job)
		}
		return a, nil
	}

	// While the overlay is open it owns all key handling.
	if a.confirm.IsActive() {
		var cmd tea.Cmd
		a.confirm, cmd = a.confirm.Update(msg)
		return a, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case ui.SweepUpdateMsg:
		a.progress = msg.Progress
		if msg.Err != nil {
			if msg.Repo == "" {
				a.errText = fmt.Sprintf("sweep failed: %v", msg.Err)
			} else {
				a.errText = fmt.Sprintf("scan %s: %v", msg.Repo, msg.Err)
			}
		} else {
			a.state.MergePending(msg.Jobs)
		}
		return a, a.waitForUpdate()

	case ui.SweepDoneMsg:
		a.scanning = false
		a.progress = a.monitor.Progress()
		a.status = fmt.Sprintf("Scan complete: %d repos", a.progress.Completed)
		return a, nextSweepCmd()

	case ui.SweepTickMsg:
		return a, a.startSweep()

	case ui.PendingLoadedMsg:
		a.loading = false
		if msg.Err != nil {
			a.errText = fmt.Sprintf("refresh failed: %v", msg.Err)
			return a, nil
		}
		a.state.ReplacePending(msg.Jobs)
		a.status = fmt.Sprintf("Pending: %d runs", a.state.PendingCount())
		return a, nil

	case ui.RecentLoadedMsg:
		a.loading = false
		if msg.Err != nil {
			a.errText = fmt.Sprintf("refresh failed: %v", msg.Err)
			return a, nil
		}
		a.lastRecent = time.Now()
		a.state.ReplaceRecent(msg.Jobs)
		a.status = fmt.Sprintf("Recent: %d runs", a.state.RecentCount())
		return a, nil

	case ui.ActionResultMsg:
		if msg.Benign {
			a.status = fmt.Sprintf("%s accepted, waiting for remote to settle", msg.Action)
			return a, settleCmd()
		}
		if msg.Err != nil {
			a.errText = fmt.Sprintf("%s failed: %v", msg.Action, msg.Err)
			return a, nil
		}
		a.status = fmt.Sprintf("%s submitted for %s", msg.Action, msg.Job.Repo)
		return a, a.refreshCurrent()

	case ui.RefreshDelayMsg:
		return a, a.refreshCurrent()

	case ui.TickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.state.View() == viewstate.ViewRecent && !a.scanning && !a.loading &&
			time.Since(a.lastRecent) > recentInterval {
			a.loading = true
			cmds = append(cmds, a.loadRecent())
		}
		return a, tea.Batch(cmds...)

	case ui.UserLoadedMsg:
		a.user = msg.Login
		return a, nil

	case ui.BrowserOpenedMsg:
		if msg.Err != nil {
			a.errText = fmt.Sprintf("open browser: %v", msg.Err)
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key dismisses help.
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	a.errText = ""

	switch {
	case key.Matches(msg, ui.Keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, ui.Keys.Help):
		a.showHelp = true
		return a, nil

	case key.Matches(msg, ui.Keys.ToggleView):
		a.state.ToggleView()
		if a.state.View() == viewstate.ViewRecent && a.state.RecentCount() == 0 && !a.loading {
			a.loading = true
			a.status = "Loading recent runs..."
			return a, a.loadRecent()
		}
		return a, nil

	case key.Matches(msg, ui.Keys.Refresh):
		a.status = "Refreshing..."
		return a, a.refreshCurrent()

	case key.Matches(msg, ui.Keys.Up):
		a.state.MoveCursor(-1)
		return a, nil

	case key.Matches(msg, ui.Keys.Down):
		a.state.MoveCursor(1)
		return a, nil

	case key.Matches(msg, ui.Keys.PrevPage):
		if a.state.View() == viewstate.ViewRecent {
			a.state.PrevPage()
		}
		return a, nil

	case key.Matches(msg, ui.Keys.NextPage):
		if a.state.View() == viewstate.ViewRecent {
			a.state.NextPage()
		}
		return a, nil

	case key.Matches(msg, ui.Keys.Cancel):
		job := a.state.SelectedJob()
		switch {
		case job == nil:
			a.errText = "no job selected"
		case !job.Active():
			a.errText = "job is not active"
		default:
			a.confirm = confirm.New(confirm.ActionCancel, *job)
		}
		return a, nil

	case key.Matches(msg, ui.Keys.Approve):
		job := a.state.SelectedJob()
		switch {
		case a.state.View() != viewstate.ViewPending:
			a.errText = "approve works in the pending view"
		case job == nil:
			a.errText = "no job selected"
		case job.Status != model.StatusWaiting:
			a.errText = "job is not awaiting approval"
		default:
			a.confirm = confirm.New(confirm.ActionApprove, *job)
		}
		return a, nil

	case key.Matches(msg, ui.Keys.Open):
		job := a.state.SelectedJob()
		if job == nil {
			a.errText = "no job selected"
			return a, nil
		}
		return a, a.openInBrowser(job.HTMLURL)
	}

	return a, nil
}
