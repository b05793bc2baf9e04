package viewstate

import (
	"sort"
	"time"

	"github.com/younsl/gwatch/internal/model"
)

type View int

const (
	ViewPending View = iota
	ViewRecent
)

func (v View) String() string {
	if v == ViewRecent {
		return "recent"
	}
	return "pending"
}

const (
	// PageSize is the Recent view page size.
	PageSize = 50

	highlightTTL = 3 * time.Second
	overlayTTL   = 30 * time.Minute
)

// State holds the in-memory dashboard state: the two job lists, the
// locally-known-completed overlay, highlight bookkeeping, cursor and
// pagination. It is owned by the UI loop and touched by exactly one
// goroutine; all operations are pure in-memory transformations that
// cannot fail.
type State struct {
	view      View
	pending   []model.WorkflowJob
	recent    []model.WorkflowJob
	completed map[model.JobKey]model.WorkflowJob
	seen      map[model.JobKey]time.Time // key -> highlight expiry
	cursor    int
	page      int

	now func() time.Time
}

func New() *State {
	return &State{
		completed: make(map[model.JobKey]model.WorkflowJob),
		seen:      make(map[model.JobKey]time.Time),
		now:       time.Now,
	}
}

func (s *State) View() View { return s.view }

// ToggleView switches between Pending and Recent. The cursor always
// resets; entering Recent also resets the page.
func (s *State) ToggleView() {
	if s.view == ViewPending {
		s.view = ViewRecent
		s.page = 0
	} else {
		s.view = ViewPending
	}
	s.cursor = 0
}

// MergePending folds a streamed batch into the pending list by key:
// matches replace, misses append. Merge order does not matter, so
// streamed updates may arrive in any worker-completion order.
func (s *State) MergePending(jobs []model.WorkflowJob) {
	jobs = s.reconcileCompleted(jobs)
	s.pending = mergeByKey(s.pending, s.markNew(jobs))
	sortPending(s.pending)
	s.clampCursor()
}

// MergeRecent folds a streamed batch into the recent list by key.
func (s *State) MergeRecent(jobs []model.WorkflowJob) {
	s.recent = mergeByKey(s.recent, s.markNew(jobs))
	sortRecent(s.recent)
	s.clampCursor()
}

// ReplacePending swaps in a full point-in-time pending snapshot.
// Before replacing, keys that were active and are absent from the new
// snapshot are captured into the completed overlay with a synthetic
// completion time of now, so rows fade out instead of vanishing.
func (s *State) ReplacePending(jobs []model.WorkflowJob) {
	jobs = s.reconcileCompleted(jobs)
	now := s.now()
	fresh := make(map[model.JobKey]struct{}, len(jobs))
	for _, j := range jobs {
		fresh[j.Key()] = struct{}{}
	}
	for _, old := range s.pending {
		if !old.Active() {
			continue
		}
		if _, ok := fresh[old.Key()]; ok {
			continue
		}
		gone := old
		gone.Status = model.StatusCompleted
		gone.CompletedAt = now
		gone.IsNew = false
		s.completed[gone.Key()] = gone
	}

	s.pending = s.markNew(jobs)
	sortPending(s.pending)
	s.clampCursor()
}

// ReplaceRecent swaps in a full recent snapshot.
func (s *State) ReplaceRecent(jobs []model.WorkflowJob) {
	s.recent = s.markNew(jobs)
	sortRecent(s.recent)
	s.clampCursor()
}

// CombinedPending is the rendered pending view: the raw pending set
// plus overlay entries not already present. Active jobs come first,
// longest-waiting on top; terminal and overlay jobs follow, newest
// completion first.
func (s *State) CombinedPending() []model.WorkflowJob {
	s.evictOverlay()

	combined := make([]model.WorkflowJob, len(s.pending))
	copy(combined, s.pending)

	present := make(map[model.JobKey]struct{}, len(s.pending))
	for _, j := range s.pending {
		present[j.Key()] = struct{}{}
	}
	for key, j := range s.completed {
		if _, ok := present[key]; ok {
			continue
		}
		combined = append(combined, j)
	}

	sort.SliceStable(combined, func(i, k int) bool {
		a, b := combined[i], combined[k]
		if a.Active() != b.Active() {
			return a.Active()
		}
		if a.Active() {
			return a.StartedAt.Before(b.StartedAt)
		}
		return a.CompletedAt.After(b.CompletedAt)
	})
	return combined
}

// evictOverlay drops overlay entries whose synthetic completion is
// older than the overlay TTL, bounding a long-running session.
func (s *State) evictOverlay() {
	cutoff := s.now().Add(-overlayTTL)
	for key, j := range s.completed {
		if j.CompletedAt.Before(cutoff) {
			delete(s.completed, key)
		}
	}
}

// VisibleJobs returns the rows the active view currently shows: the
// combined pending list, or the current page of the recent list.
func (s *State) VisibleJobs() []model.WorkflowJob {
	if s.view == ViewPending {
		return s.CombinedPending()
	}
	return s.GetPaginatedJobs()
}

func (s *State) SelectedJob() *model.WorkflowJob {
	visible := s.VisibleJobs()
	if s.cursor < 0 || s.cursor >= len(visible) {
		return nil
	}
	job := visible[s.cursor]
	return &job
}

func (s *State) Cursor() int { return s.cursor }

func (s *State) MoveCursor(delta int) {
	s.cursor += delta
	s.clampCursor()
}

func (s *State) clampCursor() {
	max := len(s.VisibleJobs()) - 1
	if s.cursor > max {
		s.cursor = max
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// --- Recent pagination ---

func (s *State) Page() int { return s.page }

func (s *State) PageCount() int {
	count := (len(s.recent) + PageSize - 1) / PageSize
	if count < 1 {
		count = 1
	}
	return count
}

// GetPaginatedJobs returns the current page of the recent list, at
// most PageSize rows.
func (s *State) GetPaginatedJobs() []model.WorkflowJob {
	start := s.page * PageSize
	if start >= len(s.recent) {
		return nil
	}
	end := start + PageSize
	if end > len(s.recent) {
		end = len(s.recent)
	}
	return s.recent[start:end]
}

func (s *State) NextPage() {
	s.setPage(s.page + 1)
}

func (s *State) PrevPage() {
	s.setPage(s.page - 1)
}

func (s *State) setPage(page int) {
	max := s.PageCount() - 1
	if page > max {
		page = max
	}
	if page < 0 {
		page = 0
	}
	if page != s.page {
		s.page = page
		s.cursor = 0
	}
}

// RecentCount reports the total recent list size across pages.
func (s *State) RecentCount() int { return len(s.recent) }

// PendingCount reports the raw pending list size, without overlay.
func (s *State) PendingCount() int { return len(s.pending) }

// --- internals ---

// reconcileCompleted enforces the terminal-is-final invariant: a key
// already captured as locally completed is dropped if a batch claims
// it active again, while a genuinely terminal record supersedes the
// synthetic overlay entry.
func (s *State) reconcileCompleted(jobs []model.WorkflowJob) []model.WorkflowJob {
	if len(s.completed) == 0 {
		return jobs
	}
	out := make([]model.WorkflowJob, 0, len(jobs))
	for _, j := range jobs {
		if _, ok := s.completed[j.Key()]; ok {
			if j.Active() {
				continue
			}
			delete(s.completed, j.Key())
		}
		out = append(out, j)
	}
	return out
}

// markNew stamps highlight expiries on a batch: keys never seen before
// get now+TTL; keys seen before keep their highlight only while the
// original expiry has not elapsed. Computed once per batch, read many
// times by the renderer.
func (s *State) markNew(jobs []model.WorkflowJob) []model.WorkflowJob {
	now := s.now()
	out := make([]model.WorkflowJob, len(jobs))
	for i, j := range jobs {
		expiry, ok := s.seen[j.Key()]
		if !ok {
			expiry = now.Add(highlightTTL)
			s.seen[j.Key()] = expiry
		}
		j.IsNew = now.Before(expiry)
		j.NewUntil = expiry
		out[i] = j
	}
	return out
}

func mergeByKey(dst, batch []model.WorkflowJob) []model.WorkflowJob {
	for _, j := range batch {
		replaced := false
		for i := range dst {
			if dst[i].Key() == j.Key() {
				dst[i] = j
				replaced = true
				break
			}
		}
		if !replaced {
			dst = append(dst, j)
		}
	}
	return dst
}

// Pending sorts oldest start first so the longest-waiting approvals
// surface on top.
func sortPending(jobs []model.WorkflowJob) {
	sort.SliceStable(jobs, func(i, k int) bool {
		return jobs[i].StartedAt.Before(jobs[k].StartedAt)
	})
}

// Recent sorts newest completion (or start) first.
func sortRecent(jobs []model.WorkflowJob) {
	sort.SliceStable(jobs, func(i, k int) bool {
		return jobs[i].SortTime().After(jobs[k].SortTime())
	})
}
