package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/maumlog/maumlog-backend/internal/bigfive"
	"github.com/maumlog/maumlog-backend/internal/llm"
	"github.com/maumlog/maumlog-backend/internal/pkg/apperr"
	"github.com/maumlog/maumlog-backend/internal/pkg/logger"
	"github.com/maumlog/maumlog-backend/internal/prompts"
	"github.com/maumlog/maumlog-backend/internal/repos"
	"github.com/maumlog/maumlog-backend/internal/types"
)

type ValueExtractService interface {
	// ExtractValues tags the answer's expressed values, persists them and
	// folds each into the user's value map. Returns the persisted scores.
	ExtractValues(ctx context.Context, userID, questionID, answerID uuid.UUID) ([]*types.ValueScore, error)
}

type valueExtractService struct {
	db            *gorm.DB
	log           *logger.Logger
	gw            llm.Gateway
	questionRepo  repos.QuestionRepo
	answerRepo    repos.AnswerRepo
	valueScoreRepo repos.ValueScoreRepo
	valueMap      ValueMapService
}

func NewValueExtractService(
	db *gorm.DB,
	baseLog *logger.Logger,
	gw llm.Gateway,
	questionRepo repos.QuestionRepo,
	answerRepo repos.AnswerRepo,
	valueScoreRepo repos.ValueScoreRepo,
	valueMap ValueMapService,
) ValueExtractService {
	return &valueExtractService{
		db:             db,
		log:            baseLog.With("service", "ValueExtractService"),
		gw:             gw,
		questionRepo:   questionRepo,
		answerRepo:     answerRepo,
		valueScoreRepo: valueScoreRepo,
		valueMap:       valueMap,
	}
}

type valueTag struct {
	Category   string   `json:"category"`
	Value      string   `json:"value"`
	Confidence float64  `json:"confidence"`
	Intensity  float64  `json:"intensity"`
	Polarity   *int     `json:"polarity"`
	Evidence   []string `json:"evidence"`
}

type valueTags struct {
	Values []valueTag `json:"values"`
}

func (t *valueTags) Validate() error {
	if len(t.Values) > 6 {
		return fmt.Errorf("got %d values, max 6", len(t.Values))
	}
	for i, v := range t.Values {
		if !bigfive.IsFacet(v.Value) {
			return fmt.Errorf("value %d: %q is not a known facet", i, v.Value)
		}
		if axis, _ := bigfive.FacetAxis(v.Value); axis != v.Category {
			return fmt.Errorf("value %d: %q does not belong to category %q", i, v.Value, v.Category)
		}
		if v.Confidence < 0 || v.Confidence > 1 {
			return fmt.Errorf("value %d: confidence %v out of range", i, v.Confidence)
		}
		if v.Intensity < 0 || v.Intensity > 1 {
			return fmt.Errorf("value %d: intensity %v out of range", i, v.Intensity)
		}
		if v.Polarity == nil || *v.Polarity < -1 || *v.Polarity > 1 {
			return fmt.Errorf("value %d: polarity missing or out of range", i)
		}
		if len(v.Evidence) > 2 {
			return fmt.Errorf("value %d: got %d evidence spans, max 2", i, len(v.Evidence))
		}
	}
	return nil
}

func (s *valueExtractService) ExtractValues(ctx context.Context, userID, questionID, answerID uuid.UUID) ([]*types.ValueScore, error) {
	question, err := s.questionRepo.GetByID(ctx, nil, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrMissingQuestion, questionID)
	}
	answer, err := s.answerRepo.GetByID(ctx, nil, answerID)
	if err != nil {
		return nil, err
	}
	if answer == nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrMissingAnswer, answerID)
	}
	// A foreign or mismatched answer id must not mint scores under this
	// user's map. Treated the same as the row not existing.
	if answer.UserID != userID || answer.QuestionID != questionID {
		return nil, fmt.Errorf("%w: %s", apperr.ErrMissingAnswer, answerID)
	}

	var tags valueTags
	err = s.gw.Extract(
		ctx,
		prompts.ValueExtractionSystem,
		prompts.ValueExtractionUser(question.Text, answer.Text),
		"value_tags",
		prompts.ValueTagsSchema(),
		&tags,
	)
	if err != nil {
		return nil, err
	}
	if len(tags.Values) == 0 {
		s.log.Debug("No values expressed in answer", "answer_id", answerID)
		return nil, nil
	}

	if _, _, err := s.valueMap.EnsureMap(ctx, userID); err != nil {
		return nil, err
	}

	scores := make([]*types.ValueScore, 0, len(tags.Values))
	for _, tag := range tags.Values {
		evidence, err := json.Marshal(tag.Evidence)
		if err != nil {
			return nil, err
		}
		scores = append(scores, &types.ValueScore{
			UserID:     userID,
			QuestionID: questionID,
			AnswerID:   answerID,
			Category:   tag.Category,
			Value:      tag.Value,
			Confidence: tag.Confidence,
			Intensity:  tag.Intensity,
			Polarity:   *tag.Polarity,
			Evidence:   datatypes.JSON(evidence),
		})
	}
	persisted, err := s.valueScoreRepo.Insert(ctx, nil, scores)
	if err != nil {
		return nil, err
	}

	for _, sc := range persisted {
		if err := s.valueMap.Integrate(ctx, sc); err != nil {
			return nil, err
		}
	}
	s.log.Info("Extracted values from answer",
		"user_id", userID,
		"answer_id", answerID,
		"count", len(persisted),
	)
	return persisted, nil
}
