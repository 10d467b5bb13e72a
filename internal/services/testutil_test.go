package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"

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
	err = db.AutoMigrate(
		&types.User{},
		&types.Question{},
		&types.Answer{},
		&types.ValueScore{},
		&types.ValueMap{},
		&types.Analysis{},
		&types.JobRun{},
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *types.User {
	t.Helper()
	user := &types.User{
		Email:    fmt.Sprintf("%s@example.com", uuid.New()),
		Password: "hashed",
		Nickname: "tester",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createTestQA(t *testing.T, db *gorm.DB, userID uuid.UUID, answerText string) (*types.Question, *types.Answer) {
	t.Helper()
	q := &types.Question{UserID: userID, Text: "오늘 무엇이 가장 중요했나요?"}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}
	a := &types.Answer{UserID: userID, QuestionID: q.ID, Text: answerText}
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("create answer: %v", err)
	}
	return q, a
}

// scriptedGateway replays canned responses keyed by schema name; Complete
// always returns completeText. Safe for concurrent use.
type scriptedGateway struct {
	completeText string
	completeErr  error
	responses    map[string]string
	extractErr   map[string]error
	extractCalls atomic.Int64
}

func newScriptedGateway() *scriptedGateway {
	return &scriptedGateway{
		completeText: "오늘도 자신에게 친절하게 대해 보세요.",
		responses:    map[string]string{},
		extractErr:   map[string]error{},
	}
}

func (g *scriptedGateway) Complete(ctx context.Context, system, user string) (string, error) {
	if g.completeErr != nil {
		return "", g.completeErr
	}
	return g.completeText, nil
}

func (g *scriptedGateway) Extract(ctx context.Context, system, user, schemaName string, schema map[string]any, out any) error {
	g.extractCalls.Add(1)
	if err := g.extractErr[schemaName]; err != nil {
		return err
	}
	payload, ok := g.responses[schemaName]
	if !ok {
		return fmt.Errorf("no scripted response for schema %q", schemaName)
	}
	return json.Unmarshal([]byte(payload), out)
}

func newTestValueMapService(t *testing.T, db *gorm.DB, gw *scriptedGateway) ValueMapService {
	t.Helper()
	log := logger.NewNop()
	return NewValueMapService(db, log, gw, repos.NewValueMapRepo(db, log), repos.NewValueScoreRepo(db, log))
}
