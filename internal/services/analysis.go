package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/maumlog/maumlog-backend/internal/bigfive"
	"github.com/maumlog/maumlog-backend/internal/inventory"
	"github.com/maumlog/maumlog-backend/internal/llm"
	"github.com/maumlog/maumlog-backend/internal/pkg/apperr"
	"github.com/maumlog/maumlog-backend/internal/pkg/logger"
	"github.com/maumlog/maumlog-backend/internal/prompts"
	"github.com/maumlog/maumlog-backend/internal/repos"
	"github.com/maumlog/maumlog-backend/internal/types"
)

const (
	// RefreshThreshold is the minimum answer count before any refresh.
	RefreshThreshold = 10

	// JobTypeAnalysisRefresh is the background job type for a full refresh.
	JobTypeAnalysisRefresh = "analysis_refresh"

	RefreshStarted = "update started"
	RefreshSoon    = "update soon"
)

// Advice is the personalized-advice pair returned to clients.
type Advice struct {
	Theory string `json:"theory"`
	Text   string `json:"text"`
}

// AnalysisRefreshPayload is the JSON payload of an analysis_refresh job.
type AnalysisRefreshPayload struct {
	UserID uuid.UUID `json:"user_id"`
}

type AnalysisService interface {
	// EnsureAnalysis creates the user's Analysis row if it does not exist.
	EnsureAnalysis(ctx context.Context, userID uuid.UUID) (*types.Analysis, error)

	GetUserType(ctx context.Context, userID uuid.UUID) (string, error)
	GetAxisCommentary(ctx context.Context, userID uuid.UUID, axis string) (string, error)

	// GetPersonalizedAdvice refreshes the advice synchronously first when
	// the analysis was last updated on a prior UTC day.
	GetPersonalizedAdvice(ctx context.Context, userID uuid.UUID) (Advice, error)

	// RequestRefresh gates the expensive background refresh: fewer than 10
	// answers fails, an exact multiple of 10 enqueues a job, anything else
	// returns a wait message without scheduling.
	RequestRefresh(ctx context.Context, userID uuid.UUID) (string, error)

	// RunRefresh executes the four refresh steps in order. Each step is
	// transactional on its own; a step failure is logged and the remaining
	// steps still run.
	RunRefresh(ctx context.Context, userID uuid.UUID) error

	RefreshAdvice(ctx context.Context, userID uuid.UUID) error
}

type analysisService struct {
	db           *gorm.DB
	log          *logger.Logger
	gw           llm.Gateway
	engine       *inventory.Engine
	userRepo     repos.UserRepo
	answerRepo   repos.AnswerRepo
	analysisRepo repos.AnalysisRepo
	jobRunRepo   repos.JobRunRepo
	locks        *userLocks
}

func NewAnalysisService(
	db *gorm.DB,
	baseLog *logger.Logger,
	gw llm.Gateway,
	engine *inventory.Engine,
	userRepo repos.UserRepo,
	answerRepo repos.AnswerRepo,
	analysisRepo repos.AnalysisRepo,
	jobRunRepo repos.JobRunRepo,
) AnalysisService {
	return &analysisService{
		db:           db,
		log:          baseLog.With("service", "AnalysisService"),
		gw:           gw,
		engine:       engine,
		userRepo:     userRepo,
		answerRepo:   answerRepo,
		analysisRepo: analysisRepo,
		jobRunRepo:   jobRunRepo,
		locks:        newUserLocks(),
	}
}

func (s *analysisService) EnsureAnalysis(ctx context.Context, userID uuid.UUID) (*types.Analysis, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	existing, err := s.analysisRepo.GetByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	created, err := s.analysisRepo.Create(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	s.log.Info("Created analysis record", "user_id", userID)
	return created, nil
}

func (s *analysisService) GetUserType(ctx context.Context, userID uuid.UUID) (string, error) {
	analysis, err := s.analysisRepo.GetByUser(ctx, nil, userID)
	if err != nil {
		return "", err
	}
	if analysis == nil || analysis.UserType == "" {
		return "", apperr.ErrNotYetAnalyzed
	}
	return analysis.UserType, nil
}

func (s *analysisService) GetAxisCommentary(ctx context.Context, userID uuid.UUID, axis string) (string, error) {
	analysis, err := s.analysisRepo.GetByUser(ctx, nil, userID)
	if err != nil {
		return "", err
	}
	if analysis == nil {
		return "", apperr.ErrNotYetAnalyzed
	}
	comment, ok := analysis.AxisComment(axis)
	if !ok {
		return "", fmt.Errorf("%w: %q is not an axis code", apperr.ErrUnknownCategory, axis)
	}
	if comment == "" {
		return "", apperr.ErrNotYetAnalyzed
	}
	return comment, nil
}

// sameUTCDay reports whether two instants fall on the same UTC calendar day.
func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func (s *analysisService) GetPersonalizedAdvice(ctx context.Context, userID uuid.UUID) (Advice, error) {
	analysis, err := s.analysisRepo.GetByUser(ctx, nil, userID)
	if err != nil {
		return Advice{}, err
	}
	if analysis == nil {
		return Advice{}, apperr.ErrNotYetAnalyzed
	}
	if analysis.Advice == "" || !sameUTCDay(analysis.UpdatedAt, time.Now()) {
		if err := s.RefreshAdvice(ctx, userID); err != nil {
			return Advice{}, err
		}
		if analysis, err = s.analysisRepo.GetByUser(ctx, nil, userID); err != nil {
			return Advice{}, err
		}
	}
	return Advice{Theory: analysis.AdviceTheory, Text: analysis.Advice}, nil
}

func (s *analysisService) RequestRefresh(ctx context.Context, userID uuid.UUID) (string, error) {
	count, err := s.answerRepo.CountByUser(ctx, nil, userID)
	if err != nil {
		return "", err
	}
	if count < RefreshThreshold {
		return "", fmt.Errorf("%w: %d answers, need %d", apperr.ErrInsufficientAnswers, count, RefreshThreshold)
	}
	if count%RefreshThreshold != 0 {
		return RefreshSoon, nil
	}

	payload, err := json.Marshal(AnalysisRefreshPayload{UserID: userID})
	if err != nil {
		return "", err
	}
	_, err = s.jobRunRepo.Create(ctx, nil, []*types.JobRun{{
		OwnerUserID: userID,
		JobType:     JobTypeAnalysisRefresh,
		Status:      types.JobStatusQueued,
		Payload:     datatypes.JSON(payload),
	}})
	if err != nil {
		return "", err
	}
	s.log.Info("Enqueued analysis refresh", "user_id", userID, "answer_count", count)
	return RefreshStarted, nil
}

func (s *analysisService) RunRefresh(ctx context.Context, userID uuid.UUID) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	if _, err := s.analysisRepo.GetByUser(ctx, nil, userID); err != nil {
		return err
	}

	// Steps run in order and failures are swallowed so a late-step outage
	// never discards earlier fresh data.
	if err := s.refreshScores(ctx, userID); err != nil {
		s.log.Error("Score refresh failed", "user_id", userID, "error", err)
	}
	if err := s.refreshUserType(ctx, userID); err != nil {
		s.log.Error("User-type refresh failed", "user_id", userID, "error", err)
	}
	if err := s.refreshCommentary(ctx, userID); err != nil {
		s.log.Error("Commentary refresh failed", "user_id", userID, "error", err)
	}
	if err := s.refreshAdviceLocked(ctx, userID); err != nil {
		s.log.Error("Advice refresh failed", "user_id", userID, "error", err)
	}
	return nil
}

// refreshScores runs the inventory inference and writes the five-axis
// percentile map.
func (s *analysisService) refreshScores(ctx context.Context, userID uuid.UUID) error {
	answers, err := s.answerRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return err
	}
	texts := make([]string, 0, len(answers))
	for _, a := range answers {
		texts = append(texts, a.Text)
	}

	age, sex, err := s.demographics(ctx, userID)
	if err != nil {
		return err
	}
	result, err := s.engine.Infer(ctx, texts, age, sex)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(result.Axes)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.analysisRepo.Patch(ctx, tx, userID, map[string]interface{}{
			"scores": datatypes.JSON(raw),
		})
	})
}

func (s *analysisService) refreshUserType(ctx context.Context, userID uuid.UUID) error {
	scores, err := s.storedScores(ctx, userID)
	if err != nil {
		return err
	}
	label := ClassifyUserType(scores)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.analysisRepo.Patch(ctx, tx, userID, map[string]interface{}{
			"user_type": label,
		})
	})
}

func (s *analysisService) refreshCommentary(ctx context.Context, userID uuid.UUID) error {
	scores, err := s.storedScores(ctx, userID)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{}
	for i, axis := range bigfive.Axes {
		text, err := s.gw.Complete(ctx, prompts.AxisCommentarySystem, prompts.AxisCommentaryUser(axis, scores))
		if err != nil {
			return err
		}
		updates["comment_"+strings.ToLower(bigfive.AxisCodes[i])] = strings.TrimSpace(text)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.analysisRepo.Patch(ctx, tx, userID, updates)
	})
}

func (s *analysisService) RefreshAdvice(ctx context.Context, userID uuid.UUID) error {
	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.refreshAdviceLocked(ctx, userID)
}

func (s *analysisService) refreshAdviceLocked(ctx context.Context, userID uuid.UUID) error {
	scores, err := s.storedScores(ctx, userID)
	if err != nil {
		return err
	}
	theory := prompts.AdviceTheories[rand.Intn(len(prompts.AdviceTheories))]
	text, err := s.gw.Complete(ctx, prompts.AdviceSystem, prompts.AdviceUser(theory, scores))
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.analysisRepo.Patch(ctx, tx, userID, map[string]interface{}{
			"advice_theory": theory,
			"advice":        strings.TrimSpace(text),
		})
	})
}

// storedScores reads the persisted five-axis map so each refresh step works
// from the same written state rather than a value held in memory.
func (s *analysisService) storedScores(ctx context.Context, userID uuid.UUID) (map[string]int, error) {
	analysis, err := s.analysisRepo.GetByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if analysis == nil || len(analysis.Scores) == 0 {
		return nil, apperr.ErrNotYetAnalyzed
	}
	var scores map[string]int
	if err := json.Unmarshal(analysis.Scores, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

// demographics resolves the user's age and sex for norm lookup, falling
// back to the norm table defaults when the profile leaves them unset.
func (s *analysisService) demographics(ctx context.Context, userID uuid.UUID) (int, inventory.Sex, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return 0, "", err
	}
	age := inventory.DefaultAge
	sex := inventory.DefaultSex
	if user != nil {
		if user.Age != nil {
			age = *user.Age
		}
		if user.Gender != nil {
			switch strings.ToLower(*user.Gender) {
			case "male", "m":
				sex = inventory.Male
			case "female", "f":
				sex = inventory.Female
			}
		}
	}
	return age, sex, nil
}
