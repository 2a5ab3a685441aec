package sqlite

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tradify/internal/store"
	"tradify/internal/store/model"
)

// tradeRepository implements the TradeRepository interface.
type tradeRepository struct {
	db *gorm.DB
}

func NewTradeRepo(db *gorm.DB) *tradeRepository {
	return &tradeRepository{db: db}
}

func (r *tradeRepository) Create(ctx context.Context, trade *model.TradeModel) error {
	if trade == nil {
		return errors.New("trade cannot be nil")
	}
	return r.db.WithContext(ctx).Create(trade).Error
}

func (r *tradeRepository) FindByID(ctx context.Context, userID, id string) (*model.TradeModel, error) {
	var trade model.TradeModel
	err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&trade).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// ListByUser returns every trade of one user, newest entry first. The
// analytics engine re-sorts by close date itself, so delivery order here only
// matters for the history table.
func (r *tradeRepository) ListByUser(ctx context.Context, userID string) ([]model.TradeModel, error) {
	var trades []model.TradeModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}

// LastByTicker returns the most recently created trade for a ticker, used to
// prefill asset type and strategy on the entry form.
func (r *tradeRepository) LastByTicker(ctx context.Context, userID, ticker string) (*model.TradeModel, error) {
	var trade model.TradeModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND ticker = ?", userID, ticker).
		Order("created_at DESC, id DESC").
		First(&trade).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

func (r *tradeRepository) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&model.TradeModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
