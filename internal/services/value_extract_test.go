package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maumlog/maumlog-backend/internal/pkg/apperr"
	"github.com/maumlog/maumlog-backend/internal/pkg/logger"
	"github.com/maumlog/maumlog-backend/internal/repos"
	"github.com/maumlog/maumlog-backend/internal/types"
)

func newTestExtractService(t *testing.T, db *gorm.DB, gw *scriptedGateway) ValueExtractService {
	t.Helper()
	log := logger.NewNop()
	return NewValueExtractService(
		db,
		log,
		gw,
		repos.NewQuestionRepo(db, log),
		repos.NewAnswerRepo(db, log),
		repos.NewValueScoreRepo(db, log),
		newTestValueMapService(t, db, gw),
	)
}

const twoTagPayload = `{"values": [
	{"category": "Extraversion", "value": "Friendliness", "confidence": 0.9, "intensity": 0.8, "polarity": 1, "evidence": ["친구와 만났다"]},
	{"category": "Conscientiousness", "value": "Orderliness", "confidence": 0.7, "intensity": 0.5, "polarity": -1, "evidence": []}
]}`

func TestExtractValuesPersistsAndIntegrates(t *testing.T) {
	db := newTestDB(t)
	gw := newScriptedGateway()
	gw.responses["value_tags"] = twoTagPayload
	svc := newTestExtractService(t, db, gw)
	user := createTestUser(t, db)
	q, a := createTestQA(t, db, user.ID, "친구와 만났다가 방 정리를 미뤘다.")

	scores, err := svc.ExtractValues(context.Background(), user.ID, q.ID, a.ID)
	if err != nil {
		t.Fatalf("ExtractValues: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("got %d scores, want 2", len(scores))
	}
	if scores[0].Value != "Friendliness" || scores[1].Value != "Orderliness" {
		t.Fatalf("scores in wrong order: %s, %s", scores[0].Value, scores[1].Value)
	}

	var stored int64
	if err := db.Model(&types.ValueScore{}).Where("answer_id = ?", a.ID).Count(&stored).Error; err != nil {
		t.Fatalf("count scores: %v", err)
	}
	if stored != 2 {
		t.Fatalf("stored %d scores, want 2", stored)
	}

	// Both tags landed in the value map: Friendliness in the relationship
	// slot, Orderliness in the achievement slot.
	var vm types.ValueMap
	if err := db.Where("user_id = ?", user.ID).First(&vm).Error; err != nil {
		t.Fatalf("load value map: %v", err)
	}
	if vm.SlotSampleCount(1) != 1 || vm.SlotSampleCount(4) != 1 {
		t.Fatalf("slot counts: relationship=%d achievement=%d, want 1/1",
			vm.SlotSampleCount(1), vm.SlotSampleCount(4))
	}
}

func TestExtractValuesEmptyAnswerIsNoOp(t *testing.T) {
	db := newTestDB(t)
	gw := newScriptedGateway()
	gw.responses["value_tags"] = `{"values": []}`
	svc := newTestExtractService(t, db, gw)
	user := createTestUser(t, db)
	q, a := createTestQA(t, db, user.ID, "날씨가 흐렸다.")

	scores, err := svc.ExtractValues(context.Background(), user.ID, q.ID, a.ID)
	if err != nil {
		t.Fatalf("ExtractValues: %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("got %d scores, want 0", len(scores))
	}
	// No value map should be created for a no-signal answer.
	var mapCount int64
	if err := db.Model(&types.ValueMap{}).Where("user_id = ?", user.ID).Count(&mapCount).Error; err != nil {
		t.Fatalf("count maps: %v", err)
	}
	if mapCount != 0 {
		t.Fatal("empty extraction created a value map")
	}
}

func TestExtractValuesMissingRows(t *testing.T) {
	db := newTestDB(t)
	svc := newTestExtractService(t, db, newScriptedGateway())
	user := createTestUser(t, db)
	q, a := createTestQA(t, db, user.ID, "메모")

	if _, err := svc.ExtractValues(context.Background(), user.ID, uuid.New(), a.ID); !errors.Is(err, apperr.ErrMissingQuestion) {
		t.Fatalf("missing question: got %v", err)
	}
	if _, err := svc.ExtractValues(context.Background(), user.ID, q.ID, uuid.New()); !errors.Is(err, apperr.ErrMissingAnswer) {
		t.Fatalf("missing answer: got %v", err)
	}
}

func TestExtractValuesRejectsForeignAnswer(t *testing.T) {
	db := newTestDB(t)
	gw := newScriptedGateway()
	gw.responses["value_tags"] = twoTagPayload
	svc := newTestExtractService(t, db, gw)
	owner := createTestUser(t, db)
	intruder := createTestUser(t, db)
	q, a := createTestQA(t, db, owner.ID, "가족과 시간을 보냈어요.")
	q2, _ := createTestQA(t, db, owner.ID, "다른 질문입니다.")

	// Someone else's answer id.
	if _, err := svc.ExtractValues(context.Background(), intruder.ID, q.ID, a.ID); !errors.Is(err, apperr.ErrMissingAnswer) {
		t.Fatalf("foreign answer: got %v", err)
	}
	// The owner, but the answer belongs to a different question.
	if _, err := svc.ExtractValues(context.Background(), owner.ID, q2.ID, a.ID); !errors.Is(err, apperr.ErrMissingAnswer) {
		t.Fatalf("mismatched question: got %v", err)
	}

	// No scores or map were minted along the way.
	var scoreCount int64
	if err := db.Model(&types.ValueScore{}).Count(&scoreCount).Error; err != nil {
		t.Fatalf("count scores: %v", err)
	}
	if scoreCount != 0 {
		t.Fatalf("got %d scores, want 0", scoreCount)
	}
	var mapCount int64
	if err := db.Model(&types.ValueMap{}).Count(&mapCount).Error; err != nil {
		t.Fatalf("count maps: %v", err)
	}
	if mapCount != 0 {
		t.Fatalf("got %d maps, want 0", mapCount)
	}
}

func TestValueTagsValidate(t *testing.T) {
	polarity := func(p int) *int { return &p }
	cases := []struct {
		name string
		tags valueTags
		ok   bool
	}{
		{"valid", valueTags{Values: []valueTag{{
			Category: "Neuroticism", Value: "Anxiety",
			Confidence: 0.5, Intensity: 0.5, Polarity: polarity(1),
		}}}, true},
		{"unknown facet", valueTags{Values: []valueTag{{
			Category: "Neuroticism", Value: "Bravery",
			Confidence: 0.5, Intensity: 0.5, Polarity: polarity(1),
		}}}, false},
		{"facet in wrong category", valueTags{Values: []valueTag{{
			Category: "Openness", Value: "Anxiety",
			Confidence: 0.5, Intensity: 0.5, Polarity: polarity(1),
		}}}, false},
		{"confidence out of range", valueTags{Values: []valueTag{{
			Category: "Neuroticism", Value: "Anxiety",
			Confidence: 1.5, Intensity: 0.5, Polarity: polarity(1),
		}}}, false},
		{"polarity missing", valueTags{Values: []valueTag{{
			Category: "Neuroticism", Value: "Anxiety",
			Confidence: 0.5, Intensity: 0.5,
		}}}, false},
		{"too much evidence", valueTags{Values: []valueTag{{
			Category: "Neuroticism", Value: "Anxiety",
			Confidence: 0.5, Intensity: 0.5, Polarity: polarity(1),
			Evidence: []string{"a", "b", "c"},
		}}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tags.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected error, got none")
			}
		})
	}
}
