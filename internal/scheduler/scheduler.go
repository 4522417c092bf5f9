package scheduler

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/ordforrad/api/internal/enrich"
)

// JobStarter starts batch enrichment jobs.
type JobStarter interface {
	Start(ctx context.Context, limit int) (enrich.JobStatus, error)
	Running() string
}

type Config struct {
	Interval time.Duration
	// Limit caps the words enriched per scheduled run; 0 means all.
	Limit int
}

// EnrichmentScheduler periodically starts an enrichment job unless one is
// already running.
type EnrichmentScheduler struct {
	scheduler *gocron.Scheduler
	jobs      JobStarter
	interval  time.Duration
	limit     int

	mu        sync.Mutex
	running   bool
	ticks     int
	started   int
	lastRun   time.Time
	lastJobID string
	lastError string
}

func NewEnrichmentScheduler(jobs JobStarter, cfg Config) *EnrichmentScheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	return &EnrichmentScheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		jobs:      jobs,
		interval:  cfg.Interval,
		limit:     cfg.Limit,
	}
}

// Start schedules the tick and returns immediately.
func (s *EnrichmentScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if _, err := s.scheduler.Every(s.interval).Do(s.tick); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	s.running = true
	log.Printf("[Scheduler] Enrichment scheduled every %s", s.interval)
	return nil
}

func (s *EnrichmentScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.scheduler.Stop()
	s.scheduler.Clear()
	s.running = false
	log.Printf("[Scheduler] Stopped")
}

func (s *EnrichmentScheduler) tick() {
	s.mu.Lock()
	s.ticks++
	s.lastRun = time.Now()
	s.mu.Unlock()

	if id := s.jobs.Running(); id != "" {
		log.Printf("[Scheduler] Job %s still running, skipping", id)
		return
	}

	status, err := s.jobs.Start(context.Background(), s.limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case errors.Is(err, enrich.ErrJobRunning):
		// Started by an admin between the check and Start.
	case err != nil:
		s.lastError = err.Error()
		log.Printf("[Scheduler] Failed to start enrichment: %v", err)
	default:
		s.started++
		s.lastJobID = status.JobID
		s.lastError = ""
	}
}

// GetStatus returns current scheduler status
func (s *EnrichmentScheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":     s.running,
		"interval":    s.interval.String(),
		"limit":       s.limit,
		"ticks":       s.ticks,
		"jobsStarted": s.started,
		"lastJobId":   s.lastJobID,
		"lastError":   s.lastError,
	}
	if !s.lastRun.IsZero() {
		status["lastRun"] = s.lastRun
	}
	return status
}
