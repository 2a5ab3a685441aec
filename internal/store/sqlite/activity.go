package sqlite

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tradify/internal/store/model"
)

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) *activityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Insert(ctx context.Context, entry *model.ActivityLogModel) error {
	if entry == nil {
		return errors.New("activity entry cannot be nil")
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityRepository) ListRecent(ctx context.Context, userID string, limit int) ([]model.ActivityLogModel, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []model.ActivityLogModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
