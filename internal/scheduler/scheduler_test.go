package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ordforrad/api/internal/enrich"
)

type fakeJobs struct {
	mu      sync.Mutex
	running string
	err     error
	starts  []int
}

func (f *fakeJobs) Start(ctx context.Context, limit int) (enrich.JobStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return enrich.JobStatus{}, f.err
	}
	f.starts = append(f.starts, limit)
	return enrich.JobStatus{JobID: "job-1", Status: enrich.JobRunning}, nil
}

func (f *fakeJobs) Running() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *fakeJobs) startCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.starts)
}

func TestTickStartsJob(t *testing.T) {
	jobs := &fakeJobs{}
	s := NewEnrichmentScheduler(jobs, Config{Interval: time.Hour, Limit: 25})

	s.tick()

	if len(jobs.starts) != 1 || jobs.starts[0] != 25 {
		t.Fatalf("starts = %v, want [25]", jobs.starts)
	}
	status := s.GetStatus()
	if status["jobsStarted"] != 1 || status["lastJobId"] != "job-1" {
		t.Errorf("status = %v", status)
	}
}

func TestTickSkipsWhileRunning(t *testing.T) {
	jobs := &fakeJobs{running: "job-0"}
	s := NewEnrichmentScheduler(jobs, Config{})

	s.tick()

	if len(jobs.starts) != 0 {
		t.Errorf("started a job while one was running: %v", jobs.starts)
	}
	if s.GetStatus()["ticks"] != 1 {
		t.Errorf("tick not counted")
	}
}

func TestTickRecordsError(t *testing.T) {
	jobs := &fakeJobs{err: errors.New("db down")}
	s := NewEnrichmentScheduler(jobs, Config{})

	s.tick()
	if s.GetStatus()["lastError"] != "db down" {
		t.Errorf("status = %v", s.GetStatus())
	}

	jobs.err = enrich.ErrJobRunning
	s.tick()
	if s.GetStatus()["lastError"] != "db down" {
		t.Errorf("ErrJobRunning should not overwrite the last real error")
	}
}

func TestStartRunsImmediately(t *testing.T) {
	jobs := &fakeJobs{}
	s := NewEnrichmentScheduler(jobs, Config{Interval: time.Hour})

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	// gocron runs a new job once right after StartAsync.
	deadline := time.Now().Add(2 * time.Second)
	for jobs.startCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if jobs.startCount() == 0 {
		t.Fatal("scheduler never ticked")
	}
	if s.GetStatus()["running"] != true {
		t.Error("status should report running")
	}
}
