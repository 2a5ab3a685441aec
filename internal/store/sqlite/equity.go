package sqlite

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tradify/internal/store"
	"tradify/internal/store/model"
)

type equityRepository struct {
	db *gorm.DB
}

func NewEquityRepo(db *gorm.DB) *equityRepository {
	return &equityRepository{db: db}
}

func (r *equityRepository) Create(ctx context.Context, tx *model.EquityTransactionModel) error {
	if tx == nil {
		return errors.New("equity transaction cannot be nil")
	}
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *equityRepository) ListByUser(ctx context.Context, userID string) ([]model.EquityTransactionModel, error) {
	var txs []model.EquityTransactionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *equityRepository) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&model.EquityTransactionModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
