package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/maumlog/maumlog-backend/internal/pkg/logger"
	"github.com/maumlog/maumlog-backend/internal/repos"
	"github.com/maumlog/maumlog-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.JobRun{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedRunningJob(t *testing.T, db *gorm.DB, heartbeatAt time.Time) *types.JobRun {
	t.Helper()
	job := &types.JobRun{
		OwnerUserID: uuid.New(),
		JobType:     "analysis_refresh",
		Status:      types.JobStatusRunning,
		Attempts:    1,
		HeartbeatAt: &heartbeatAt,
	}
	if err := db.Create(job).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return job
}

func TestKeepAlivePumpsHeartbeats(t *testing.T) {
	db := newTestDB(t)
	log := logger.NewNop()
	repo := repos.NewJobRunRepo(db, log)

	start := time.Now().UTC().Add(-time.Hour)
	job := seedRunningJob(t, db, start)
	jc := NewContext(context.Background(), db, job, repo, log)

	stop := jc.KeepAlive(5 * time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for {
		var got types.JobRun
		if err := db.First(&got, "id = ?", job.ID).Error; err != nil {
			t.Fatalf("reload job: %v", err)
		}
		if got.HeartbeatAt != nil && got.HeartbeatAt.After(start) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("heartbeat_at never advanced")
		}
		time.Sleep(5 * time.Millisecond)
	}
	stop()
	stop() // stopping twice is fine

	// After stop the pump is quiet.
	var stopped types.JobRun
	if err := db.First(&stopped, "id = ?", job.ID).Error; err != nil {
		t.Fatalf("reload job: %v", err)
	}
	last := *stopped.HeartbeatAt
	time.Sleep(30 * time.Millisecond)
	var after types.JobRun
	if err := db.First(&after, "id = ?", job.ID).Error; err != nil {
		t.Fatalf("reload job: %v", err)
	}
	if !after.HeartbeatAt.Equal(last) {
		t.Fatalf("heartbeat advanced after stop: %v -> %v", last, *after.HeartbeatAt)
	}
}

func TestKeepAliveKeepsLongRunsClaimed(t *testing.T) {
	db := newTestDB(t)
	log := logger.NewNop()
	repo := repos.NewJobRunRepo(db, log)

	// Heartbeat already past the stale cutoff; with the pump running the
	// row is refreshed and a second worker's claim finds nothing.
	job := seedRunningJob(t, db, time.Now().UTC().Add(-staleRunning-time.Minute))
	jc := NewContext(context.Background(), db, job, repo, log)

	stop := jc.KeepAlive(5 * time.Millisecond)
	defer stop()
	time.Sleep(50 * time.Millisecond)

	claimed, err := repo.ClaimNextRunnable(context.Background(), nil, maxAttempts, retryDelay, staleRunning)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed != nil {
		t.Fatalf("live job was reclaimed: %+v", claimed)
	}
}
