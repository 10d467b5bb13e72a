package jobs

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/maumlog/maumlog-backend/internal/pkg/logger"
	"github.com/maumlog/maumlog-backend/internal/repos"
)

const (
	pollInterval      = 1 * time.Second
	maxAttempts       = 5
	retryDelay        = 30 * time.Second
	staleRunning      = 2 * time.Minute
	heartbeatInterval = 20 * time.Second
)

// Worker polls the job_run table and dispatches claimed jobs to registered
// handlers. Claimed jobs run to completion on a background context; they are
// not cancelled when the triggering request goes away.
type Worker struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.JobRunRepo
	registry *Registry
}

func NewWorker(db *gorm.DB, baseLog *logger.Logger, repo repos.JobRunRepo, registry *Registry) *Worker {
	return &Worker{
		db:       db,
		log:      baseLog.With("component", "JobWorker"),
		repo:     repo,
		registry: registry,
	}
}

func (w *Worker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.poll(ctx)
			}
		}
	}()
}

func (w *Worker) poll(ctx context.Context) {
	job, err := w.repo.ClaimNextRunnable(ctx, nil, maxAttempts, retryDelay, staleRunning)
	if err != nil {
		w.log.Warn("ClaimNextRunnable failed", "error", err)
		return
	}
	if job == nil {
		return
	}

	jc := NewContext(context.WithoutCancel(ctx), w.db, job, w.repo, w.log)
	h, ok := w.registry.Get(job.JobType)
	if !ok {
		w.log.Warn("No handler registered for job_type", "job_type", job.JobType, "job_id", job.ID)
		jc.Fail(fmt.Errorf("no handler registered for job_type=%s", job.JobType))
		return
	}

	func() {
		stopHeartbeat := jc.KeepAlive(heartbeatInterval)
		defer stopHeartbeat()
		defer func() {
			if r := recover(); r != nil {
				w.log.Error("Job handler panic", "job_id", job.ID, "job_type", job.JobType, "panic", r)
				jc.Fail(fmt.Errorf("panic: %v", r))
			}
		}()
		if err := h.Run(jc); err != nil {
			w.log.Error("Job failed", "job_id", job.ID, "job_type", job.JobType, "error", err)
			jc.Fail(err)
			return
		}
		jc.Succeed()
	}()
}
