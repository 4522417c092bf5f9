package enrich

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var ErrJobRunning = errors.New("an enrichment job is already running")

const (
	JobRunning   = "running"
	JobCompleted = "completed"
	JobStopped   = "stopped"
	JobFailed    = "failed"
)

type Job struct {
	ID         string
	Status     string
	Total      int64
	Completed  int64
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
	done       chan struct{}
}

// JobStatus is a point-in-time copy of a Job.
type JobStatus struct {
	JobID      string     `json:"jobId"`
	Status     string     `json:"status"`
	Total      int64      `json:"total"`
	Completed  int64      `json:"completed"`
	Remaining  int64      `json:"remaining"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// Manager runs at most one enrichment job at a time and keeps a record of
// past jobs.
type Manager struct {
	runner    *Runner
	words     WordStore
	batchSize int

	mu        sync.RWMutex
	jobs      map[string]*Job
	cancelFns map[string]context.CancelFunc
	running   string
}

func NewManager(runner *Runner, words WordStore, batchSize int) *Manager {
	return &Manager{
		runner:    runner,
		words:     words,
		batchSize: batchSize,
		jobs:      make(map[string]*Job),
		cancelFns: make(map[string]context.CancelFunc),
	}
}

// Start launches a job in the background. limit caps how many words it
// enriches; 0 means all of them.
func (m *Manager) Start(ctx context.Context, limit int) (JobStatus, error) {
	m.mu.Lock()
	if m.running != "" {
		id := m.running
		m.mu.Unlock()
		status, _ := m.Get(id)
		return status, ErrJobRunning
	}

	total, err := m.words.CountUnenriched(ctx)
	if err != nil {
		m.mu.Unlock()
		return JobStatus{}, err
	}
	if limit > 0 && int64(limit) < total {
		total = int64(limit)
	}

	job := &Job{
		ID:        uuid.New().String(),
		Status:    JobRunning,
		Total:     total,
		StartedAt: time.Now(),
		done:      make(chan struct{}),
	}
	runCtx, cancel := context.WithCancel(context.Background())
	m.jobs[job.ID] = job
	m.cancelFns[job.ID] = cancel
	m.running = job.ID
	status := m.snapshot(job)
	m.mu.Unlock()

	log.Printf("[EnrichJob %s] started, %d words pending", job.ID, total)
	go m.run(runCtx, job, limit)

	return status, nil
}

func (m *Manager) run(ctx context.Context, job *Job, limit int) {
	defer close(job.done)

	_, err := m.runner.Run(ctx, Options{
		BatchSize: m.batchSize,
		Limit:     limit,
		OnProgress: func(completed int) {
			atomic.StoreInt64(&job.Completed, int64(completed))
		},
	})

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	job.FinishedAt = &now
	switch {
	case err == nil:
		job.Status = JobCompleted
	case IsPause(err):
		job.Status = JobStopped
	default:
		job.Status = JobFailed
		job.Error = err.Error()
	}
	if cancel, ok := m.cancelFns[job.ID]; ok {
		cancel()
		delete(m.cancelFns, job.ID)
	}
	if m.running == job.ID {
		m.running = ""
	}
	log.Printf("[EnrichJob %s] %s after %d words", job.ID, job.Status, atomic.LoadInt64(&job.Completed))
}

// Stop cancels the running job, if any. The job finishes the word it is on
// and then stops. It reports whether a job was running.
func (m *Manager) Stop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running == "" {
		return false
	}
	if cancel, ok := m.cancelFns[m.running]; ok {
		cancel()
	}
	return true
}

func (m *Manager) Get(id string) (JobStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[id]
	if !ok {
		return JobStatus{}, false
	}
	return m.snapshot(job), true
}

// Running returns the id of the active job, or "".
func (m *Manager) Running() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// List returns all known jobs, newest first.
func (m *Manager) List() []JobStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]JobStatus, 0, len(m.jobs))
	for _, job := range m.jobs {
		out = append(out, m.snapshot(job))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out
}

// Done returns a channel closed when the job finishes.
func (m *Manager) Done(id string) <-chan struct{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if job, ok := m.jobs[id]; ok {
		return job.done
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}

// snapshot must be called with m.mu held.
func (m *Manager) snapshot(job *Job) JobStatus {
	completed := atomic.LoadInt64(&job.Completed)
	remaining := job.Total - completed
	if remaining < 0 {
		remaining = 0
	}
	return JobStatus{
		JobID:      job.ID,
		Status:     job.Status,
		Total:      job.Total,
		Completed:  completed,
		Remaining:  remaining,
		Error:      job.Error,
		StartedAt:  job.StartedAt,
		FinishedAt: job.FinishedAt,
	}
}
