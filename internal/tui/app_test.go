package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/younsl/gwatch/internal/config"
	"github.com/younsl/gwatch/internal/github"
	"github.com/younsl/gwatch/internal/model"
	"github.com/younsl/gwatch/internal/monitor"
	"github.com/younsl/gwatch/internal/tui/confirm"
	"github.com/younsl/gwatch/internal/tui/viewstate"
	"github.com/younsl/gwatch/internal/ui"
)

type fakeStreamer struct {
	pending []model.WorkflowJob
	recent  []model.WorkflowJob
}

func (f *fakeStreamer) Stream(ctx context.Context, ch chan<- monitor.Update) { close(ch) }
func (f *fakeStreamer) Fetch(ctx context.Context) ([]model.WorkflowJob, error) {
	return f.pending, nil
}
func (f *fakeStreamer) FetchRecent(ctx context.Context) ([]model.WorkflowJob, error) {
	return f.recent, nil
}
func (f *fakeStreamer) AuthenticatedUser(ctx context.Context) string { return "octocat" }
func (f *fakeStreamer) Progress() model.ScanProgress                 { return model.ScanProgress{} }

type fakeActions struct {
	cancelErr    error
	deployments  []github.PendingDeployment
	deployErr    error
	approveErr   error
	cancelCalls  int
	approveCalls int
	lastComment  string
	lastEnvIDs   []int64
}

func (f *fakeActions) CancelWorkflowRun(ctx context.Context, repo string, runID int64) error {
	f.cancelCalls++
	return f.cancelErr
}

func (f *fakeActions) GetPendingDeployments(ctx context.Context, repo string, runID int64) ([]github.PendingDeployment, error) {
	return f.deployments, f.deployErr
}

func (f *fakeActions) ApprovePendingDeployments(ctx context.Context, repo string, runID int64, environmentIDs []int64, comment string) error {
	f.approveCalls++
	f.lastEnvIDs = environmentIDs
	f.lastComment = comment
	return f.approveErr
}

func newTestApp(actions *fakeActions) *App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{Org: "acme", Location: time.UTC}
	return NewApp(context.Background(), cfg, &fakeStreamer{}, actions, logger, "test")
}

func waitingJob(repo string, runID int64) model.WorkflowJob {
	return model.WorkflowJob{
		Repo:      repo,
		RunID:     runID,
		RunNumber: int(runID),
		Name:      "deploy",
		Status:    model.StatusWaiting,
		StartedAt: time.Now().Add(-time.Hour),
		HTMLURL:   "https://example.com/run",
	}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestSweepUpdateMergesAndKeepsListening(t *testing.T) {
	a := newTestApp(&fakeActions{})

	_, cmd := a.Update(ui.SweepUpdateMsg{
		Repo: "api",
		Jobs: []model.WorkflowJob{waitingJob("api", 1)},
	})

	if a.state.PendingCount() != 1 {
		t.Errorf("pending count = %d", a.state.PendingCount())
	}
	if cmd == nil {
		t.Error("reducer must re-issue the stream read after each update")
	}
}

func TestSweepUpdateErrorTagged(t *testing.T) {
	a := newTestApp(&fakeActions{})

	a.Update(ui.SweepUpdateMsg{Repo: "api", Err: errors.New("boom")})
	if !strings.Contains(a.errText, "api") {
		t.Errorf("errText = %q, want the repo named", a.errText)
	}

	a.errText = ""
	a.Update(ui.SweepUpdateMsg{Err: errors.New("bad credentials")})
	if !strings.Contains(a.errText, "sweep failed") {
		t.Errorf("errText = %q for a sweep-wide failure", a.errText)
	}
}

func TestSweepDoneSchedulesNextSweep(t *testing.T) {
	a := newTestApp(&fakeActions{})
	a.scanning = true

	_, cmd := a.Update(ui.SweepDoneMsg{})
	if a.scanning {
		t.Error("scanning flag not cleared")
	}
	if cmd == nil {
		t.Error("expected the next sweep to be scheduled")
	}
}

func TestDeclinedConfirmDoesNothing(t *testing.T) {
	actions := &fakeActions{}
	a := newTestApp(actions)

	_, cmd := a.Update(confirm.ResultMsg{Confirmed: false, Action: confirm.ActionCancel, Job: waitingJob("api", 1)})
	if cmd != nil {
		t.Error("declined dialog must not dispatch an action")
	}
	if actions.cancelCalls != 0 {
		t.Errorf("cancel called %d times", actions.cancelCalls)
	}
	if a.status != "Aborted" {
		t.Errorf("status = %q", a.status)
	}
}

func TestConfirmedCancelDispatches(t *testing.T) {
	actions := &fakeActions{}
	a := newTestApp(actions)

	_, cmd := a.Update(confirm.ResultMsg{Confirmed: true, Action: confirm.ActionCancel, Job: waitingJob("api", 1)})
	if cmd == nil {
		t.Fatal("expected a cancel command")
	}
	msg, ok := cmd().(ui.ActionResultMsg)
	if !ok {
		t.Fatalf("unexpected message %T", cmd())
	}
	if actions.cancelCalls != 1 {
		t.Errorf("cancel called %d times", actions.cancelCalls)
	}
	if msg.Err != nil || msg.Benign {
		t.Errorf("result = %+v", msg)
	}
}

func TestBenignConflictTreatedAsSuccess(t *testing.T) {
	actions := &fakeActions{cancelErr: errors.New("HTTP 409: Conflict")}
	a := newTestApp(actions)

	cmd := a.doCancel(waitingJob("api", 1))
	msg := cmd().(ui.ActionResultMsg)
	if !msg.Benign || msg.Err != nil {
		t.Fatalf("409 should be benign, got %+v", msg)
	}

	_, next := a.Update(msg)
	if a.errText != "" {
		t.Errorf("benign conflict surfaced as error: %q", a.errText)
	}
	if next == nil {
		t.Error("expected a delayed refresh to be scheduled")
	}
}

func TestApproveCollectsEnvironmentIDs(t *testing.T) {
	actions := &fakeActions{deployments: []github.PendingDeployment{
		{Environment: github.Environment{ID: 10, Name: "staging"}},
		{Environment: github.Environment{ID: 20, Name: "production"}},
	}}
	a := newTestApp(actions)

	msg := a.doApprove(waitingJob("api", 1))().(ui.ActionResultMsg)
	if msg.Err != nil {
		t.Fatalf("approve failed: %v", msg.Err)
	}
	if len(actions.lastEnvIDs) != 2 || actions.lastEnvIDs[0] != 10 || actions.lastEnvIDs[1] != 20 {
		t.Errorf("environment ids = %v", actions.lastEnvIDs)
	}
	if !strings.Contains(actions.lastComment, "Approved via gwatch test") {
		t.Errorf("comment = %q", actions.lastComment)
	}
}

func TestApproveWithoutPendingDeployments(t *testing.T) {
	actions := &fakeActions{}
	a := newTestApp(actions)

	msg := a.doApprove(waitingJob("api", 1))().(ui.ActionResultMsg)
	if msg.Err == nil || !strings.Contains(msg.Err.Error(), "no pending deployments") {
		t.Fatalf("result = %+v", msg)
	}
	if actions.approveCalls != 0 {
		t.Errorf("approve called %d times without deployments", actions.approveCalls)
	}
}

func TestApproveKeyRequiresWaitingJob(t *testing.T) {
	a := newTestApp(&fakeActions{})
	job := waitingJob("api", 1)
	job.Status = model.StatusInProgress
	a.state.MergePending([]model.WorkflowJob{job})

	a.Update(runeKey('a'))
	if a.confirm.IsActive() {
		t.Error("approve dialog opened for a non-waiting job")
	}
	if a.errText == "" {
		t.Error("expected a validation message")
	}
}

func TestApproveKeyOpensDialog(t *testing.T) {
	a := newTestApp(&fakeActions{})
	a.state.MergePending([]model.WorkflowJob{waitingJob("api", 1)})

	a.Update(runeKey('a'))
	if !a.confirm.IsActive() {
		t.Fatal("expected the confirmation dialog to open")
	}
	if a.confirm.Action != confirm.ActionApprove {
		t.Errorf("dialog action = %v", a.confirm.Action)
	}
}

func TestCancelKeyRejectsTerminalJob(t *testing.T) {
	a := newTestApp(&fakeActions{})
	job := waitingJob("api", 1)
	job.Status = model.StatusFailure
	job.CompletedAt = time.Now()
	a.state.MergeRecent([]model.WorkflowJob{job})
	a.state.ToggleView()

	a.Update(runeKey('c'))
	if a.confirm.IsActive() {
		t.Error("cancel dialog opened for a terminal job")
	}
}

func TestDialogOwnsKeysWhileOpen(t *testing.T) {
	a := newTestApp(&fakeActions{})
	a.state.MergePending([]model.WorkflowJob{waitingJob("api", 1)})
	a.Update(runeKey('a'))

	// 'q' would normally quit; the open dialog must swallow it.
	_, cmd := a.Update(runeKey('q'))
	if cmd != nil {
		t.Error("key leaked past the open dialog")
	}
	if !a.confirm.IsActive() {
		t.Error("dialog closed on an unbound key")
	}
}

func TestRecentViewAutoRefreshWhenStale(t *testing.T) {
	a := newTestApp(&fakeActions{})
	a.state.ToggleView()
	a.lastRecent = time.Now().Add(-time.Minute)

	_, cmd := a.Update(ui.TickMsg(time.Now()))
	if !a.loading {
		t.Error("stale recent view should trigger a refresh")
	}
	if cmd == nil {
		t.Error("expected batched tick and refresh commands")
	}

	// A second tick while loading must not double-fetch.
	a.Update(ui.TickMsg(time.Now()))
}

func TestPendingViewNotAutoRefreshed(t *testing.T) {
	a := newTestApp(&fakeActions{})
	a.lastRecent = time.Now().Add(-time.Minute)

	a.Update(ui.TickMsg(time.Now()))
	if a.loading {
		t.Error("pending view refreshes via the sweep, not the tick")
	}
}

func TestHelpDismissedByAnyKey(t *testing.T) {
	a := newTestApp(&fakeActions{})
	a.Update(runeKey('?'))
	if !a.showHelp {
		t.Fatal("help not shown")
	}
	_, cmd := a.Update(runeKey('q'))
	if a.showHelp {
		t.Error("help not dismissed")
	}
	if cmd != nil {
		t.Error("dismissing key must not also act")
	}
}

func TestRefreshReplacesPending(t *testing.T) {
	a := newTestApp(&fakeActions{})
	a.state.MergePending([]model.WorkflowJob{waitingJob("api", 1), waitingJob("web", 2)})

	a.loading = true
	a.Update(ui.PendingLoadedMsg{Jobs: []model.WorkflowJob{waitingJob("api", 1)}})
	if a.loading {
		t.Error("loading flag not cleared")
	}
	if got := a.state.PendingCount(); got != 1 {
		t.Errorf("pending count after replace = %d, want 1", got)
	}
	if a.state.View() != viewstate.ViewPending {
		t.Errorf("view changed unexpectedly")
	}
}

func TestApprovalComment(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	now := time.Date(2026, 9, 1, 0, 30, 0, 0, time.UTC)
	got := approvalComment("1.2.0", loc, now)
	want := "Approved via gwatch 1.2.0 at 2026-09-01T09:30:00+09:00"
	if got != want {
		t.Errorf("comment = %q, want %q", got, want)
	}

	if got := approvalComment("dev", nil, now); !strings.Contains(got, "Z") {
		t.Errorf("nil location should fall back to UTC: %q", got)
	}
}
