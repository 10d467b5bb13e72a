package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maumlog/maumlog-backend/internal/inventory"
	"github.com/maumlog/maumlog-backend/internal/pkg/apperr"
	"github.com/maumlog/maumlog-backend/internal/pkg/logger"
	"github.com/maumlog/maumlog-backend/internal/repos"
	"github.com/maumlog/maumlog-backend/internal/types"
)

func newTestAnswerService(t *testing.T, db *gorm.DB, gw *scriptedGateway) AnswerService {
	t.Helper()
	log := logger.NewNop()
	answerRepo := repos.NewAnswerRepo(db, log)
	questionRepo := repos.NewQuestionRepo(db, log)
	valueMapSvc := newTestValueMapService(t, db, gw)
	extractSvc := NewValueExtractService(
		db, log, gw,
		questionRepo, answerRepo,
		repos.NewValueScoreRepo(db, log),
		valueMapSvc,
	)
	analysisSvc := NewAnalysisService(
		db, log, gw,
		inventory.NewEngine(gw, log),
		repos.NewUserRepo(db, log),
		answerRepo,
		repos.NewAnalysisRepo(db, log),
		repos.NewJobRunRepo(db, log),
	)
	return NewAnswerService(db, log, answerRepo, questionRepo, extractSvc, analysisSvc)
}

func TestSubmitAnswerHappyPath(t *testing.T) {
	db := newTestDB(t)
	gw := newScriptedGateway()
	gw.responses["value_tags"] = twoTagPayload
	svc := newTestAnswerService(t, db, gw)
	user := createTestUser(t, db)
	q, _ := createTestQA(t, db, user.ID, "seed")

	result, err := svc.SubmitAnswer(context.Background(), user.ID, q.ID, "오늘은 친구를 만나서 즐거웠다.")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if result.Answer == nil || result.Answer.ID == uuid.Nil {
		t.Fatal("answer not persisted")
	}
	if result.RefreshStatus != RefreshSoon {
		t.Fatalf("status %q, want %q below the refresh threshold", result.RefreshStatus, RefreshSoon)
	}

	// First answer creates the analysis row.
	var analysisCount int64
	if err := db.Model(&types.Analysis{}).Where("user_id = ?", user.ID).Count(&analysisCount).Error; err != nil {
		t.Fatalf("count analyses: %v", err)
	}
	if analysisCount != 1 {
		t.Fatalf("analysis rows: %d, want 1", analysisCount)
	}

	// Extraction ran inline.
	var scoreCount int64
	if err := db.Model(&types.ValueScore{}).Where("user_id = ?", user.ID).Count(&scoreCount).Error; err != nil {
		t.Fatalf("count scores: %v", err)
	}
	if scoreCount != 2 {
		t.Fatalf("value scores: %d, want 2", scoreCount)
	}
}

func TestSubmitAnswerSurvivesExtractionFailure(t *testing.T) {
	db := newTestDB(t)
	gw := newScriptedGateway()
	gw.extractErr["value_tags"] = apperr.ErrModelUnavailable
	svc := newTestAnswerService(t, db, gw)
	user := createTestUser(t, db)
	q, _ := createTestQA(t, db, user.ID, "seed")

	result, err := svc.SubmitAnswer(context.Background(), user.ID, q.ID, "저장은 되어야 한다.")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	var answerCount int64
	if err := db.Model(&types.Answer{}).Where("id = ?", result.Answer.ID).Count(&answerCount).Error; err != nil {
		t.Fatalf("count answers: %v", err)
	}
	if answerCount != 1 {
		t.Fatal("answer lost when extraction failed")
	}
}

func TestSubmitAnswerTriggersRefreshAtThreshold(t *testing.T) {
	db := newTestDB(t)
	gw := newScriptedGateway()
	gw.responses["value_tags"] = `{"values": []}`
	svc := newTestAnswerService(t, db, gw)
	user := createTestUser(t, db)
	q, _ := createTestQA(t, db, user.ID, "seed")

	var last *SubmitResult
	// The seed answer counts, so 9 submissions reach the threshold of 10.
	for i := 0; i < 9; i++ {
		var err error
		last, err = svc.SubmitAnswer(context.Background(), user.ID, q.ID, fmt.Sprintf("일기 %d", i+1))
		if err != nil {
			t.Fatalf("SubmitAnswer %d: %v", i+1, err)
		}
	}
	if last.RefreshStatus != RefreshStarted {
		t.Fatalf("status at threshold %q, want %q", last.RefreshStatus, RefreshStarted)
	}
	var jobCount int64
	if err := db.Model(&types.JobRun{}).Where("owner_user_id = ?", user.ID).Count(&jobCount).Error; err != nil {
		t.Fatalf("count jobs: %v", err)
	}
	if jobCount != 1 {
		t.Fatalf("enqueued %d jobs, want 1", jobCount)
	}
}

func TestSubmitAnswerUnknownQuestion(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAnswerService(t, db, newScriptedGateway())
	user := createTestUser(t, db)

	_, err := svc.SubmitAnswer(context.Background(), user.ID, uuid.New(), "어느 질문에도 속하지 않는 답")
	if !errors.Is(err, apperr.ErrMissingQuestion) {
		t.Fatalf("got %v, want ErrMissingQuestion", err)
	}
}
