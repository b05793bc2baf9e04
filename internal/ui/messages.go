package ui

import (
	"time"

	"github.com/younsl/gwatch/internal/model"
)

// Streamed sweep messages. SweepUpdateMsg merges into the pending
// list; it is a different message kind from the replace messages below
// so a stale streamed batch can never clobber a full refresh.
type SweepUpdateMsg struct {
	Repo     string
	Jobs     []model.WorkflowJob
	Err      error
	Progress model.ScanProgress
}

// SweepDoneMsg is delivered when the update channel closes.
type SweepDoneMsg struct{}

// SweepTickMsg triggers the next background pending sweep.
type SweepTickMsg struct{}

// Replace messages: a point-in-time fetch fully replaces its view.
type PendingLoadedMsg struct {
	Jobs []model.WorkflowJob
	Err  error
}

type RecentLoadedMsg struct {
	Jobs []model.WorkflowJob
	Err  error
}

// TickMsg drives the countdown and the staleness auto-refresh.
type TickMsg time.Time

// RefreshDelayMsg fires after the benign-pending settle delay.
type RefreshDelayMsg struct{}

// ActionResultMsg is the single result of a cancel or approve call.
type ActionResultMsg struct {
	Action string // "cancel" or "approve"
	Job    model.JobKey
	Benign bool // remote accepted the action but has not converged yet
	Err    error
}

type UserLoadedMsg struct {
	Login string
}

type BrowserOpenedMsg struct {
	Err error
}
