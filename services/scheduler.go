package services

import (
	"context"
	"log"
	"time"
)

// Job is one periodic task: the budget-alert check, the recurring
// transaction processor, the monthly report run. Schedule enforcement
// lives here; the jobs themselves just do one evaluation per Run.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler drives each job on its own ticker. Every job also runs once
// at startup so a restarted process catches up immediately.
type Scheduler struct {
	jobs       []Job
	runTimeout time.Duration
}

func NewScheduler(jobs ...Job) *Scheduler {
	return &Scheduler{jobs: jobs, runTimeout: 30 * time.Second}
}

// Start launches one goroutine per job and returns. Cancelling ctx stops
// all of them.
func (s *Scheduler) Start(ctx context.Context) {
	for _, job := range s.jobs {
		go s.runLoop(ctx, job)
	}
}

func (s *Scheduler) runLoop(ctx context.Context, job Job) {
	s.runOnce(ctx, job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, job)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, job Job) {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	if err := job.Run(runCtx); err != nil {
		log.Printf("❌ Job %s failed: %v", job.Name, err)
	}
}
