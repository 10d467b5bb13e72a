package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maumlog/maumlog-backend/internal/pkg/logger"
	"github.com/maumlog/maumlog-backend/internal/types"
)

type AnalysisRepo interface {
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Analysis, error)
	Create(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Analysis, error)
	// Patch applies a partial field update and always touches updated_at.
	Patch(ctx context.Context, tx *gorm.DB, userID uuid.UUID, updates map[string]interface{}) error
}

type analysisRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) AnalysisRepo {
	return &analysisRepo{db: db, log: baseLog.With("repo", "AnalysisRepo")}
}

func (r *analysisRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Analysis, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var analysis types.Analysis
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&analysis).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (r *analysisRepo) Create(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Analysis, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	analysis := &types.Analysis{UserID: userID}
	if err := transaction.WithContext(ctx).Create(analysis).Error; err != nil {
		return nil, err
	}
	return analysis, nil
}

func (r *analysisRepo) Patch(ctx context.Context, tx *gorm.DB, userID uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	res := transaction.WithContext(ctx).
		Model(&types.Analysis{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
