package jobs

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/maumlog/maumlog-backend/internal/pkg/apperr"
	"github.com/maumlog/maumlog-backend/internal/pkg/logger"
	"github.com/maumlog/maumlog-backend/internal/repos"
	"github.com/maumlog/maumlog-backend/internal/types"
)

// Context is the execution handle for one claimed job run. Handlers report
// their outcome through Succeed/Fail; they never touch the job_run row
// directly.
type Context struct {
	Ctx context.Context
	DB  *gorm.DB
	Job *types.JobRun
	Log *logger.Logger

	repo repos.JobRunRepo
}

func NewContext(ctx context.Context, db *gorm.DB, job *types.JobRun, repo repos.JobRunRepo, log *logger.Logger) *Context {
	return &Context{
		Ctx:  ctx,
		DB:   db,
		Job:  job,
		Log:  log.With("job_id", job.ID, "job_type", job.JobType),
		repo: repo,
	}
}

// DecodePayload unmarshals the job payload into out.
func (c *Context) DecodePayload(out any) error {
	if len(c.Job.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(c.Job.Payload, out)
}

// Heartbeat marks the run as still alive so a restarted worker does not
// reclaim it as stale.
func (c *Context) Heartbeat() {
	if err := c.repo.Heartbeat(c.Ctx, nil, c.Job.ID); err != nil {
		c.Log.Warn("Heartbeat failed", "error", err)
	}
}

// KeepAlive pumps heartbeats on a ticker until the returned stop func is
// called. A handler can block on a single model call for tens of seconds,
// so relying on the handler to heartbeat between steps leaves long runs
// looking stale to other workers. The stop func waits for the pump to
// exit and is safe to call more than once.
func (c *Context) KeepAlive(interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	var once sync.Once
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-c.Ctx.Done():
				return
			case <-stop:
				return
			case <-t.C:
				c.Heartbeat()
			}
		}
	}()
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
		})
	}
}

func (c *Context) Succeed() {
	updates := map[string]interface{}{
		"status":     types.JobStatusSucceeded,
		"updated_at": time.Now().UTC(),
	}
	if err := c.repo.UpdateFields(c.Ctx, nil, c.Job.ID, updates); err != nil {
		c.Log.Error("Failed to mark job succeeded", "error", err)
	}
}

// Fail records the error. Non-transient failures exhaust the attempt
// budget so the claim query never retries them.
func (c *Context) Fail(err error) {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":        types.JobStatusFailed,
		"last_error":    err.Error(),
		"last_error_at": &now,
		"updated_at":    now,
	}
	if !apperr.Transient(err) {
		updates["attempts"] = maxAttempts
	}
	if uerr := c.repo.UpdateFields(c.Ctx, nil, c.Job.ID, updates); uerr != nil {
		c.Log.Error("Failed to mark job failed", "error", uerr)
	}
}
