package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maumlog/maumlog-backend/internal/pkg/logger"
	"github.com/maumlog/maumlog-backend/internal/types"
)

type ValueMapRepo interface {
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.ValueMap, error)
	CreateEmpty(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.ValueMap, error)
	// UpdateCategory writes a single slot's (score, count) pair and touches
	// updated_at. The other six slots are untouched.
	UpdateCategory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, slot int, newAvg float64, newCount int, ts time.Time) error
	UpdateCommentary(ctx context.Context, tx *gorm.DB, userID uuid.UUID, comment, insight string, ts time.Time) error
}

type valueMapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewValueMapRepo(db *gorm.DB, baseLog *logger.Logger) ValueMapRepo {
	return &valueMapRepo{db: db, log: baseLog.With("repo", "ValueMapRepo")}
}

func (r *valueMapRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.ValueMap, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var vm types.ValueMap
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&vm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vm, nil
}

func (r *valueMapRepo) CreateEmpty(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.ValueMap, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	vm := &types.ValueMap{UserID: userID}
	if err := transaction.WithContext(ctx).Create(vm).Error; err != nil {
		return nil, err
	}
	return vm, nil
}

func (r *valueMapRepo) UpdateCategory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, slot int, newAvg float64, newCount int, ts time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if slot < 0 || slot >= types.SlotCount {
		return fmt.Errorf("value map slot out of range: %d", slot)
	}
	updates := map[string]interface{}{
		fmt.Sprintf("score_%d", slot): newAvg,
		fmt.Sprintf("count_%d", slot): newCount,
		"updated_at":                  ts,
	}
	res := transaction.WithContext(ctx).
		Model(&types.ValueMap{}).
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

func (r *valueMapRepo) UpdateCommentary(ctx context.Context, tx *gorm.DB, userID uuid.UUID, comment, insight string, ts time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.ValueMap{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"comment":             comment,
			"personality_insight": insight,
			"updated_at":          ts,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
