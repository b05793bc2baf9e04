package model

import "time"

// JobStatus is the coarse status of a workflow job as shown in the
// dashboard. Completed runs collapse their conclusion into the status,
// so a failed run carries StatusFailure rather than completed+failure.
type JobStatus string

const (
	StatusWaiting    JobStatus = "waiting"
	StatusQueued     JobStatus = "queued"
	StatusInProgress JobStatus = "in_progress"
	StatusCompleted  JobStatus = "completed"
	StatusFailure    JobStatus = "failure"
	StatusCancelled  JobStatus = "cancelled"
)

// JobKey uniquely identifies a job across scans. Lookups and
// deduplication always go through the key, never object identity.
type JobKey struct {
	Repo  string
	RunID int64
	JobID int64
}

// WorkflowJob is one workflow run observed at one point in time.
// Records are replaced wholesale when a newer scan returns the same
// key; they are never mutated in place.
type WorkflowJob struct {
	Repo         string
	RunID        int64
	JobID        int64
	RunNumber    int
	Name         string
	WorkflowName string
	Status       JobStatus
	Branch       string
	Event        string
	Actor        string
	StartedAt    time.Time // zero when the run has not started
	CompletedAt  time.Time // zero while the run is active
	HTMLURL      string

	// Highlight bookkeeping for the UI. Not part of remote truth.
	IsNew    bool
	NewUntil time.Time
}

func (j WorkflowJob) Key() JobKey {
	return JobKey{Repo: j.Repo, RunID: j.RunID, JobID: j.JobID}
}

// Active reports whether the job can still change state remotely.
func (j WorkflowJob) Active() bool {
	switch j.Status {
	case StatusWaiting, StatusQueued, StatusInProgress:
		return true
	}
	return false
}

func (j WorkflowJob) Terminal() bool {
	return !j.Active()
}

// Highlighted reports whether the newly-observed marker is still live.
func (j WorkflowJob) Highlighted(now time.Time) bool {
	return j.IsNew && now.Before(j.NewUntil)
}

// SortTime is the timestamp the Recent view orders by: completion time
// when the job finished, start time otherwise.
func (j WorkflowJob) SortTime() time.Time {
	if !j.CompletedAt.IsZero() {
		return j.CompletedAt
	}
	return j.StartedAt
}

func (j WorkflowJob) Duration() time.Duration {
	if j.StartedAt.IsZero() || j.CompletedAt.IsZero() {
		return 0
	}
	return j.CompletedAt.Sub(j.StartedAt)
}
