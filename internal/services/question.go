package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maumlog/maumlog-backend/internal/llm"
	"github.com/maumlog/maumlog-backend/internal/pkg/apperr"
	"github.com/maumlog/maumlog-backend/internal/pkg/logger"
	"github.com/maumlog/maumlog-backend/internal/prompts"
	"github.com/maumlog/maumlog-backend/internal/repos"
	"github.com/maumlog/maumlog-backend/internal/types"
)

// questionContextSize caps how many recent answers feed question generation.
const questionContextSize = 5

type QuestionService interface {
	// Generate writes a new reflection question grounded in the user's
	// recent answers and persists it.
	Generate(ctx context.Context, userID uuid.UUID) (*types.Question, error)

	Get(ctx context.Context, questionID uuid.UUID) (*types.Question, error)
}

type questionService struct {
	db           *gorm.DB
	log          *logger.Logger
	gw           llm.Gateway
	questionRepo repos.QuestionRepo
	answerRepo   repos.AnswerRepo
}

func NewQuestionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	gw llm.Gateway,
	questionRepo repos.QuestionRepo,
	answerRepo repos.AnswerRepo,
) QuestionService {
	return &questionService{
		db:           db,
		log:          baseLog.With("service", "QuestionService"),
		gw:           gw,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
	}
}

func (s *questionService) Generate(ctx context.Context, userID uuid.UUID) (*types.Question, error) {
	answers, err := s.answerRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	recent := make([]string, 0, questionContextSize)
	start := len(answers) - questionContextSize
	if start < 0 {
		start = 0
	}
	for _, a := range answers[start:] {
		recent = append(recent, a.Text)
	}

	text, err := s.gw.Complete(ctx, prompts.QuestionGenSystem, prompts.QuestionGenUser(recent))
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty question text", apperr.ErrSchemaValidation)
	}

	created, err := s.questionRepo.Create(ctx, nil, []*types.Question{{
		UserID: userID,
		Text:   text,
	}})
	if err != nil {
		return nil, err
	}
	s.log.Info("Generated question", "user_id", userID, "question_id", created[0].ID)
	return created[0], nil
}

func (s *questionService) Get(ctx context.Context, questionID uuid.UUID) (*types.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, nil, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrMissingQuestion, questionID)
	}
	return question, nil
}
