package sqlite

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"tradify/internal/store"
	"tradify/internal/store/model"
)

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.SessionModel) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) Find(ctx context.Context, token string) (*model.SessionModel, error) {
	var session model.SessionModel
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&model.SessionModel{}).Error
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&model.SessionModel{})
	return res.RowsAffected, res.Error
}
