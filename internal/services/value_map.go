package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maumlog/maumlog-backend/internal/llm"
	"github.com/maumlog/maumlog-backend/internal/pkg/apperr"
	"github.com/maumlog/maumlog-backend/internal/pkg/logger"
	"github.com/maumlog/maumlog-backend/internal/prompts"
	"github.com/maumlog/maumlog-backend/internal/repos"
	"github.com/maumlog/maumlog-backend/internal/types"
)

// DisplayValue is one entry of the surfaced top-values list.
type DisplayValue struct {
	Label     string  `json:"label"`
	Intensity float64 `json:"intensity"`
}

type ValueMapService interface {
	// EnsureMap creates the user's empty value map if it does not exist.
	// Reports whether a map was created.
	EnsureMap(ctx context.Context, userID uuid.UUID) (*types.ValueMap, bool, error)

	// Integrate folds one value score into its category slot's running
	// average. Serialized per user.
	Integrate(ctx context.Context, score *types.ValueScore) error

	// TopValues returns up to five display values: the user's strongest
	// scores with neutral polarity dropped and negative polarity replaced
	// by the in-category antonym.
	TopValues(ctx context.Context, userID uuid.UUID) ([]DisplayValue, error)

	// RegenerateCommentary rewrites the map's commentary and personality
	// insight from the current slot averages.
	RegenerateCommentary(ctx context.Context, userID uuid.UUID) error

	GetByUser(ctx context.Context, userID uuid.UUID) (*types.ValueMap, error)

	// History returns every value score extracted for the user, oldest
	// first.
	History(ctx context.Context, userID uuid.UUID) ([]*types.ValueScore, error)
}

type valueMapService struct {
	db            *gorm.DB
	log           *logger.Logger
	gw            llm.Gateway
	valueMapRepo  repos.ValueMapRepo
	valueScoreRepo repos.ValueScoreRepo
	locks         *userLocks
}

func NewValueMapService(
	db *gorm.DB,
	baseLog *logger.Logger,
	gw llm.Gateway,
	valueMapRepo repos.ValueMapRepo,
	valueScoreRepo repos.ValueScoreRepo,
) ValueMapService {
	return &valueMapService{
		db:             db,
		log:            baseLog.With("service", "ValueMapService"),
		gw:             gw,
		valueMapRepo:   valueMapRepo,
		valueScoreRepo: valueScoreRepo,
		locks:          newUserLocks(),
	}
}

func (s *valueMapService) GetByUser(ctx context.Context, userID uuid.UUID) (*types.ValueMap, error) {
	return s.valueMapRepo.GetByUser(ctx, nil, userID)
}

func (s *valueMapService) History(ctx context.Context, userID uuid.UUID) ([]*types.ValueScore, error) {
	return s.valueScoreRepo.ListByUser(ctx, nil, userID)
}

func (s *valueMapService) EnsureMap(ctx context.Context, userID uuid.UUID) (*types.ValueMap, bool, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	existing, err := s.valueMapRepo.GetByUser(ctx, nil, userID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	created, err := s.valueMapRepo.CreateEmpty(ctx, nil, userID)
	if err != nil {
		return nil, false, err
	}
	s.log.Info("Created empty value map", "user_id", userID)
	return created, true, nil
}

func (s *valueMapService) Integrate(ctx context.Context, score *types.ValueScore) error {
	slot, ok := slotByFacet[score.Value]
	if !ok {
		return fmt.Errorf("%w: %q", apperr.ErrUnknownCategory, score.Value)
	}

	unlock := s.locks.Lock(score.UserID)
	defer unlock()

	vm, err := s.valueMapRepo.GetByUser(ctx, nil, score.UserID)
	if err != nil {
		return err
	}
	if vm == nil {
		if vm, err = s.valueMapRepo.CreateEmpty(ctx, nil, score.UserID); err != nil {
			return err
		}
	}

	oldAvg := vm.SlotScore(slot)
	oldCount := vm.SlotSampleCount(slot)
	newCount := oldCount + 1
	newAvg := (oldAvg*float64(oldCount) + score.Intensity) / float64(newCount)

	if err := s.valueMapRepo.UpdateCategory(ctx, nil, score.UserID, slot, newAvg, newCount, time.Now().UTC()); err != nil {
		return err
	}
	s.log.Debug("Integrated value score",
		"user_id", score.UserID,
		"value", score.Value,
		"slot", slot,
		"avg", newAvg,
		"count", newCount,
	)
	return nil
}

type oppositeValue struct {
	Opposite string `json:"opposite"`
}

func (o *oppositeValue) Validate() error {
	if strings.TrimSpace(o.Opposite) == "" {
		return fmt.Errorf("opposite is empty")
	}
	return nil
}

func (s *valueMapService) TopValues(ctx context.Context, userID uuid.UUID) ([]DisplayValue, error) {
	scores, err := s.valueScoreRepo.TopByIntensity(ctx, nil, userID, 5)
	if err != nil {
		return nil, err
	}

	out := make([]DisplayValue, 0, len(scores))
	for _, sc := range scores {
		switch sc.Polarity {
		case 0:
			continue
		case 1:
			out = append(out, DisplayValue{Label: sc.Value, Intensity: sc.Intensity})
		case -1:
			var opp oppositeValue
			err := s.gw.Extract(
				ctx,
				prompts.OppositeValueSystem,
				prompts.OppositeValueUser(sc.Value, sc.Category),
				"opposite_value",
				prompts.OppositeValueSchema(),
				&opp,
			)
			if err != nil {
				return nil, err
			}
			out = append(out, DisplayValue{Label: opp.Opposite, Intensity: sc.Intensity})
		}
	}
	return out, nil
}

type valueMapCommentary struct {
	Comment            string `json:"comment"`
	PersonalityInsight string `json:"personality_insight"`
}

func (c *valueMapCommentary) Validate() error {
	if strings.TrimSpace(c.Comment) == "" || strings.TrimSpace(c.PersonalityInsight) == "" {
		return fmt.Errorf("commentary fields must be non-empty")
	}
	return nil
}

func (s *valueMapService) RegenerateCommentary(ctx context.Context, userID uuid.UUID) error {
	vm, err := s.valueMapRepo.GetByUser(ctx, nil, userID)
	if err != nil {
		return err
	}
	if vm == nil {
		return apperr.ErrNotYetAnalyzed
	}

	var commentary valueMapCommentary
	err = s.gw.Extract(
		ctx,
		prompts.ValueMapCommentarySystem,
		prompts.ValueMapCommentaryUser(vm.SlotScores()),
		"value_map_commentary",
		prompts.ValueMapCommentarySchema(),
		&commentary,
	)
	if err != nil {
		return err
	}

	return s.valueMapRepo.UpdateCommentary(ctx, nil, userID, commentary.Comment, commentary.PersonalityInsight, time.Now().UTC())
}
