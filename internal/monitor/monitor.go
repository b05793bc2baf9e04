package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/younsl/gwatch/internal/github"
	"github.com/younsl/gwatch/internal/model"
	"github.com/younsl/gwatch/internal/scanner"
)

// API is the slice of the GitHub client the monitor consumes.
type API interface {
	scanner.RunLister
	ListOrgRepos(ctx context.Context, max int) ([]github.Repository, error)
	CurrentUser(ctx context.Context) (string, error)
}

const (
	maxRepos     = 200
	scanWorkers  = 2
	scanTimeout  = 10 * time.Second
	repoCacheTTL = 5 * time.Minute
)

// Update is one unit of streamed sweep output: the jobs of a single
// repository, or an error tag for it, plus a progress snapshot. A
// sweep-wide failure carries an empty Repo.
type Update struct {
	Repo     string
	Jobs     []model.WorkflowJob
	Err      error
	Progress model.ScanProgress
}

// Monitor owns the repository sweeps. Job lists live in the UI loop;
// the monitor only produces immutable update messages. Its own
// progress and repo cache are shared between pool workers and guarded
// by mu.
type Monitor struct {
	api     API
	pending *scanner.Scanner
	recent  *scanner.Scanner
	fixed   []string // explicit watch list; empty means sweep the org
	logger  *slog.Logger

	mu        sync.Mutex
	progress  model.ScanProgress
	repoCache struct {
		repos     []string
		skipped   int
		fetchedAt time.Time
	}

	userOnce sync.Mutex
	user     string
}

type Options struct {
	Repos  []string
	Logger *slog.Logger
}

func New(api API, opts Options) *Monitor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := &Monitor{
		api:     api,
		pending: scanner.New(api, "waiting"),
		recent:  scanner.New(api, ""),
		fixed:   opts.Repos,
		logger:  logger,
	}
	m.progress.Mode = model.ScanIdle
	return m
}

// Stream sweeps the target repositories for runs awaiting approval and
// pushes one update per repository into ch as each worker finishes,
// without waiting for the rest. The channel is closed when the sweep
// ends. Cancelling ctx stops dispatch promptly; sends always select on
// ctx so a full channel cannot deadlock the producer.
func (m *Monitor) Stream(ctx context.Context, ch chan<- Update) {
	defer close(ch)

	repos, err := m.targetRepos(ctx)
	if err != nil {
		m.logger.Error("sweep aborted", "error", err)
		m.send(ctx, ch, Update{Err: err, Progress: m.Progress()})
		return
	}
	m.beginSweep(model.ScanFull, len(repos))

	sem := make(chan struct{}, scanWorkers)
	var wg sync.WaitGroup
	for _, repo := range repos {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(repo string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			jobs, err := m.scanOne(ctx, m.pending, repo)
			m.repoDone()
			if err != nil {
				m.logger.Warn("repo scan failed", "repo", repo, "error", err)
			}
			m.send(ctx, ch, Update{Repo: repo, Jobs: jobs, Err: err, Progress: m.Progress()})
		}(repo)
	}
	wg.Wait()
	m.finishSweep()
	m.logger.Info("sweep finished", "repos", len(repos))
}

// Fetch performs one full sweep synchronously and returns the merged
// job list. Individual repository failures are logged and skipped.
func (m *Monitor) Fetch(ctx context.Context) ([]model.WorkflowJob, error) {
	return m.sweep(ctx, m.pending, model.ScanFull)
}

// FetchRecent scans the target set without a status filter, for the
// reverse-chronological Recent view.
func (m *Monitor) FetchRecent(ctx context.Context) ([]model.WorkflowJob, error) {
	return m.sweep(ctx, m.recent, model.ScanTargeted)
}

func (m *Monitor) sweep(ctx context.Context, sc *scanner.Scanner, mode model.ScanMode) ([]model.WorkflowJob, error) {
	repos, err := m.targetRepos(ctx)
	if err != nil {
		return nil, err
	}
	m.beginSweep(mode, len(repos))
	defer m.finishSweep()

	var (
		mu  sync.Mutex
		all []model.WorkflowJob
		sem = make(chan struct{}, scanWorkers)
		wg  sync.WaitGroup
	)
	for _, repo := range repos {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(repo string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			jobs, err := m.scanOne(ctx, sc, repo)
			m.repoDone()
			if err != nil {
				m.logger.Warn("repo scan failed", "repo", repo, "error", err)
				return
			}
			mu.Lock()
			all = append(all, jobs...)
			mu.Unlock()
		}(repo)
	}
	wg.Wait()
	return all, ctx.Err()
}

func (m *Monitor) scanOne(ctx context.Context, sc *scanner.Scanner, repo string) ([]model.WorkflowJob, error) {
	sctx, cancel := context.WithTimeout(ctx, scanTimeout)
	defer cancel()
	return sc.Scan(sctx, repo)
}

// AuthenticatedUser resolves the identity once and caches it for the
// process lifetime. Failures degrade to "unknown" and are retried on
// the next call.
func (m *Monitor) AuthenticatedUser(ctx context.Context) string {
	m.userOnce.Lock()
	defer m.userOnce.Unlock()
	if m.user != "" {
		return m.user
	}
	login, err := m.api.CurrentUser(ctx)
	if err != nil {
		m.logger.Warn("resolve identity failed", "error", err)
		return "unknown"
	}
	m.user = login
	return login
}

// Progress returns a copy of the current scan progress.
func (m *Monitor) Progress() model.ScanProgress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progress
}

func (m *Monitor) send(ctx context.Context, ch chan<- Update, u Update) {
	select {
	case ch <- u:
	case <-ctx.Done():
	}
}

// targetRepos resolves the repositories to sweep: the fixed watch list
// when configured, otherwise the org's most recently pushed repos with
// archived/disabled ones filtered out. The org listing is cached for a
// short TTL since every recent-view refresh hits it.
func (m *Monitor) targetRepos(ctx context.Context) ([]string, error) {
	if len(m.fixed) > 0 {
		m.setCacheState("fixed list")
		return m.fixed, nil
	}

	m.mu.Lock()
	if age := time.Since(m.repoCache.fetchedAt); m.repoCache.repos != nil && age < repoCacheTTL {
		repos := m.repoCache.repos
		m.progress.Skipped = m.repoCache.skipped
		m.progress.CacheState = fmt.Sprintf("cached %ds ago", int(age.Seconds()))
		m.mu.Unlock()
		return repos, nil
	}
	m.mu.Unlock()

	listed, err := m.api.ListOrgRepos(ctx, maxRepos)
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}

	repos := make([]string, 0, len(listed))
	skipped := 0
	for _, r := range listed {
		if r.Archived || r.Disabled {
			skipped++
			continue
		}
		repos = append(repos, r.Name)
	}

	m.mu.Lock()
	m.repoCache.repos = repos
	m.repoCache.skipped = skipped
	m.repoCache.fetchedAt = time.Now()
	m.progress.Skipped = skipped
	m.progress.CacheState = "refreshed"
	m.mu.Unlock()
	return repos, nil
}

func (m *Monitor) setCacheState(state string) {
	m.mu.Lock()
	m.progress.CacheState = state
	m.mu.Unlock()
}

func (m *Monitor) beginSweep(mode model.ScanMode, total int) {
	m.mu.Lock()
	m.progress.Mode = mode
	m.progress.TotalRepos = total
	m.progress.Completed = 0
	m.progress.MemUsage = memUsage()
	m.mu.Unlock()
}

func (m *Monitor) repoDone() {
	m.mu.Lock()
	m.progress.Completed++
	m.mu.Unlock()
}

func (m *Monitor) finishSweep() {
	m.mu.Lock()
	m.progress.Mode = model.ScanCompleted
	m.progress.MemUsage = memUsage()
	m.mu.Unlock()
}

func memUsage() string {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return fmt.Sprintf("%dMB", ms.Alloc/1024/1024)
}
