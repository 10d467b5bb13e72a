package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maumlog/maumlog-backend/internal/pkg/logger"
	"github.com/maumlog/maumlog-backend/internal/types"
)

type ValueScoreRepo interface {
	Insert(ctx context.Context, tx *gorm.DB, scores []*types.ValueScore) ([]*types.ValueScore, error)
	// TopByIntensity returns up to k scores ordered by intensity descending,
	// ties broken by most recent created_at, then id descending.
	TopByIntensity(ctx context.Context, tx *gorm.DB, userID uuid.UUID, k int) ([]*types.ValueScore, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ValueScore, error)
}

type valueScoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewValueScoreRepo(db *gorm.DB, baseLog *logger.Logger) ValueScoreRepo {
	return &valueScoreRepo{db: db, log: baseLog.With("repo", "ValueScoreRepo")}
}

func (r *valueScoreRepo) Insert(ctx context.Context, tx *gorm.DB, scores []*types.ValueScore) ([]*types.ValueScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(scores) == 0 {
		return []*types.ValueScore{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *valueScoreRepo) TopByIntensity(ctx context.Context, tx *gorm.DB, userID uuid.UUID, k int) ([]*types.ValueScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if k <= 0 {
		return []*types.ValueScore{}, nil
	}
	var out []*types.ValueScore
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("intensity DESC").
		Order("created_at DESC").
		Order("id DESC").
		Limit(k).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *valueScoreRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ValueScore, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ValueScore
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
