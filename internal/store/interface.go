package store

import (
	"context"
	"errors"
	"time"

	"tradify/internal/store/model"
)

// ErrNotFound is returned by lookups that matched no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint rejects a write.
var ErrDuplicate = errors.New("record already exists")

// Store is the entry point for database access.
type Store interface {
	// Users returns the user repository.
	Users() UserRepository
	// Sessions returns the session repository.
	Sessions() SessionRepository
	// Trades returns the trade repository.
	Trades() TradeRepository
	// Equity returns the equity-ledger repository.
	Equity() EquityRepository
	// Activity returns the activity-log repository.
	Activity() ActivityRepository

	// Begin starts a new UnitOfWork (transaction).
	Begin(ctx context.Context) (UnitOfWork, error)
	// Close closes the store connection.
	Close() error
}

// UnitOfWork defines a transaction scope. Used by bulk import so a partially
// invalid batch never lands.
type UnitOfWork interface {
	Commit() error
	Rollback() error

	Trades() TradeRepository
	Activity() ActivityRepository
}

// UserRepository handles account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *model.UserModel) error
	FindByID(ctx context.Context, id string) (*model.UserModel, error)
	FindByEmail(ctx context.Context, email string) (*model.UserModel, error)
	Update(ctx context.Context, user *model.UserModel) error
}

// SessionRepository handles bearer sessions and reset tokens.
type SessionRepository interface {
	Create(ctx context.Context, session *model.SessionModel) error
	Find(ctx context.Context, token string) (*model.SessionModel, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// TradeRepository handles trade persistence. Every query is scoped to one
// user; the analytics input never mixes owners.
type TradeRepository interface {
	Create(ctx context.Context, trade *model.TradeModel) error
	FindByID(ctx context.Context, userID, id string) (*model.TradeModel, error)
	ListByUser(ctx context.Context, userID string) ([]model.TradeModel, error)
	LastByTicker(ctx context.Context, userID, ticker string) (*model.TradeModel, error)
	Delete(ctx context.Context, userID, id string) error
}

// EquityRepository handles the cash-movement ledger.
type EquityRepository interface {
	Create(ctx context.Context, tx *model.EquityTransactionModel) error
	ListByUser(ctx context.Context, userID string) ([]model.EquityTransactionModel, error)
	Delete(ctx context.Context, userID, id string) error
}

// ActivityRepository records journal mutations for later inspection.
type ActivityRepository interface {
	Insert(ctx context.Context, entry *model.ActivityLogModel) error
	ListRecent(ctx context.Context, userID string, limit int) ([]model.ActivityLogModel, error)
}
