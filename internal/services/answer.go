package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maumlog/maumlog-backend/internal/pkg/apperr"
	"github.com/maumlog/maumlog-backend/internal/pkg/logger"
	"github.com/maumlog/maumlog-backend/internal/repos"
	"github.com/maumlog/maumlog-backend/internal/types"
)

// SubmitResult is what the client sees after submitting an answer: the
// persisted answer plus a refresh status string.
type SubmitResult struct {
	Answer        *types.Answer `json:"answer"`
	RefreshStatus string        `json:"refresh_status"`
}

type AnswerService interface {
	// SubmitAnswer persists the answer, runs value extraction inline and
	// applies the throttled refresh gate. Extraction failures are logged
	// and swallowed so the submission itself always succeeds.
	SubmitAnswer(ctx context.Context, userID, questionID uuid.UUID, text string) (*SubmitResult, error)

	ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.Answer, error)
}

type answerService struct {
	db           *gorm.DB
	log          *logger.Logger
	answerRepo   repos.AnswerRepo
	questionRepo repos.QuestionRepo
	extract      ValueExtractService
	analysis     AnalysisService
}

func NewAnswerService(
	db *gorm.DB,
	baseLog *logger.Logger,
	answerRepo repos.AnswerRepo,
	questionRepo repos.QuestionRepo,
	extract ValueExtractService,
	analysis AnalysisService,
) AnswerService {
	return &answerService{
		db:           db,
		log:          baseLog.With("service", "AnswerService"),
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		extract:      extract,
		analysis:     analysis,
	}
}

func (s *answerService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.Answer, error) {
	return s.answerRepo.ListByUser(ctx, nil, userID)
}

func (s *answerService) SubmitAnswer(ctx context.Context, userID, questionID uuid.UUID, text string) (*SubmitResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty answer text", apperr.ErrMissingAnswer)
	}
	question, err := s.questionRepo.GetByID(ctx, nil, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrMissingQuestion, questionID)
	}

	created, err := s.answerRepo.Create(ctx, nil, []*types.Answer{{
		UserID:     userID,
		QuestionID: questionID,
		Text:       text,
	}})
	if err != nil {
		return nil, err
	}
	answer := created[0]

	if _, err := s.analysis.EnsureAnalysis(ctx, userID); err != nil {
		return nil, err
	}

	if _, err := s.extract.ExtractValues(ctx, userID, questionID, answer.ID); err != nil {
		// The journal entry is already saved; losing one extraction pass
		// only delays the value map, so the submission still succeeds.
		s.log.Error("Value extraction failed", "user_id", userID, "answer_id", answer.ID, "error", err)
	}

	status, err := s.analysis.RequestRefresh(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrInsufficientAnswers) {
			status = RefreshSoon
		} else {
			s.log.Error("Refresh gate failed", "user_id", userID, "error", err)
			status = RefreshSoon
		}
	}
	return &SubmitResult{Answer: answer, RefreshStatus: status}, nil
}
