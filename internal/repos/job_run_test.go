package repos

import (
	"context"
	"testing"
	"time"

	"github.com/maumlog/maumlog-backend/internal/pkg/logger"
	"github.com/maumlog/maumlog-backend/internal/types"
)

func TestClaimNextRunnable(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRunRepo(db, logger.NewNop())
	user := seedUser(t, db)
	ctx := context.Background()

	// Empty queue claims nothing.
	job, err := repo.ClaimNextRunnable(ctx, nil, 5, time.Minute, time.Minute)
	if err != nil {
		t.Fatalf("claim on empty queue: %v", err)
	}
	if job != nil {
		t.Fatalf("claimed %v from an empty queue", job.ID)
	}

	created, err := repo.Create(ctx, nil, []*types.JobRun{{
		OwnerUserID: user.ID,
		JobType:     "analysis_refresh",
		Status:      types.JobStatusQueued,
	}})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	job, err = repo.ClaimNextRunnable(ctx, nil, 5, time.Minute, time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if job == nil || job.ID != created[0].ID {
		t.Fatalf("claimed %+v, want job %v", job, created[0].ID)
	}

	// The row is now running with one attempt.
	var row types.JobRun
	if err := db.Where("id = ?", job.ID).First(&row).Error; err != nil {
		t.Fatalf("load row: %v", err)
	}
	if row.Status != types.JobStatusRunning {
		t.Fatalf("status %q, want running", row.Status)
	}
	if row.Attempts != 1 {
		t.Fatalf("attempts %d, want 1", row.Attempts)
	}
	if row.HeartbeatAt == nil || row.LockedAt == nil {
		t.Fatal("claim did not stamp locked_at/heartbeat_at")
	}

	// A freshly running job is not claimable again.
	job, err = repo.ClaimNextRunnable(ctx, nil, 5, time.Minute, time.Minute)
	if err != nil {
		t.Fatalf("reclaim: %v", err)
	}
	if job != nil {
		t.Fatal("reclaimed a running job with a fresh heartbeat")
	}
}

func TestClaimNextRunnableRetriesFailed(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRunRepo(db, logger.NewNop())
	user := seedUser(t, db)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	created, err := repo.Create(ctx, nil, []*types.JobRun{{
		OwnerUserID: user.ID,
		JobType:     "analysis_refresh",
		Status:      types.JobStatusFailed,
		Attempts:    1,
		LastError:   "model unavailable",
		LastErrorAt: &past,
	}})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	job, err := repo.ClaimNextRunnable(ctx, nil, 5, time.Minute, time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if job == nil || job.ID != created[0].ID {
		t.Fatal("eligible failed job was not reclaimed")
	}
}

func TestClaimNextRunnableRespectsMaxAttempts(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRunRepo(db, logger.NewNop())
	user := seedUser(t, db)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	_, err := repo.Create(ctx, nil, []*types.JobRun{{
		OwnerUserID: user.ID,
		JobType:     "analysis_refresh",
		Status:      types.JobStatusFailed,
		Attempts:    5,
		LastErrorAt: &past,
	}})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	job, err := repo.ClaimNextRunnable(ctx, nil, 5, time.Minute, time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if job != nil {
		t.Fatal("claimed a job past its attempt budget")
	}
}

func TestClaimNextRunnableReclaimsStaleRunning(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRunRepo(db, logger.NewNop())
	user := seedUser(t, db)
	ctx := context.Background()

	stale := time.Now().UTC().Add(-time.Hour)
	created, err := repo.Create(ctx, nil, []*types.JobRun{{
		OwnerUserID: user.ID,
		JobType:     "analysis_refresh",
		Status:      types.JobStatusRunning,
		Attempts:    1,
		HeartbeatAt: &stale,
	}})
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	job, err := repo.ClaimNextRunnable(ctx, nil, 5, time.Minute, 2*time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if job == nil || job.ID != created[0].ID {
		t.Fatal("stale running job was not reclaimed")
	}
}

func TestClaimNextRunnableOldestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewJobRunRepo(db, logger.NewNop())
	user := seedUser(t, db)
	ctx := context.Background()

	first, err := repo.Create(ctx, nil, []*types.JobRun{{
		OwnerUserID: user.ID,
		JobType:     "analysis_refresh",
		Status:      types.JobStatusQueued,
	}})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	// Force distinct created_at ordering.
	older := time.Now().UTC().Add(-time.Minute)
	if err := db.Model(&types.JobRun{}).Where("id = ?", first[0].ID).Update("created_at", older).Error; err != nil {
		t.Fatalf("backdate first: %v", err)
	}
	if _, err := repo.Create(ctx, nil, []*types.JobRun{{
		OwnerUserID: user.ID,
		JobType:     "analysis_refresh",
		Status:      types.JobStatusQueued,
	}}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	job, err := repo.ClaimNextRunnable(ctx, nil, 5, time.Minute, time.Minute)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if job == nil || job.ID != first[0].ID {
		t.Fatal("claim did not pick the oldest queued job")
	}
}
