package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tradify/internal/store"
	"tradify/internal/store/model"
)

func newTestStore(t *testing.T) *SqliteStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	s, err := NewSqliteStoreFromDB(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedTrade(t *testing.T, s *SqliteStore, userID, id, ticker string, createdAt time.Time) {
	t.Helper()
	require.NoError(t, s.Trades().Create(context.Background(), &model.TradeModel{
		ID:           id,
		UserID:       userID,
		Ticker:       ticker,
		AssetType:    "Stock",
		Position:     "Long",
		EntryPrice:   10,
		ExitPrice:    12,
		PositionSize: 1,
		CreatedAt:    createdAt,
	}))
}

func TestTradeRepo_ScopedToUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	seedTrade(t, s, "user-a", "t1", "AAPL", now)
	seedTrade(t, s, "user-b", "t2", "AAPL", now)

	trades, err := s.Trades().ListByUser(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "t1", trades[0].ID)

	_, err = s.Trades().FindByID(ctx, "user-a", "t2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTradeRepo_ListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Now().UTC()

	seedTrade(t, s, "u", "old", "AAA", base.Add(-time.Hour))
	seedTrade(t, s, "u", "new", "BBB", base)

	trades, err := s.Trades().ListByUser(context.Background(), "u")
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "new", trades[0].ID)
	assert.Equal(t, "old", trades[1].ID)
}

func TestTradeRepo_LastByTicker(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	seedTrade(t, s, "u", "first", "AAPL", base.Add(-2*time.Hour))
	seedTrade(t, s, "u", "second", "AAPL", base.Add(-time.Hour))
	seedTrade(t, s, "u", "other", "MSFT", base)

	last, err := s.Trades().LastByTicker(ctx, "u", "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "second", last.ID)

	_, err = s.Trades().LastByTicker(ctx, "u", "TSLA")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTradeRepo_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedTrade(t, s, "u", "t1", "AAPL", time.Now().UTC())
	require.NoError(t, s.Trades().Delete(ctx, "u", "t1"))
	assert.ErrorIs(t, s.Trades().Delete(ctx, "u", "t1"), store.ErrNotFound)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := &model.UserModel{ID: "u1", Email: "trader@example.com", PasswordHash: "x"}
	require.NoError(t, s.Users().Create(ctx, first))

	dup := &model.UserModel{ID: "u2", Email: "trader@example.com", PasswordHash: "y"}
	assert.ErrorIs(t, s.Users().Create(ctx, dup), store.ErrDuplicate)
}

func TestSessionRepo_DeleteExpired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.Sessions().Create(ctx, &model.SessionModel{Token: "live", UserID: "u", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, s.Sessions().Create(ctx, &model.SessionModel{Token: "dead", UserID: "u", ExpiresAt: now.Add(-time.Hour)}))

	n, err := s.Sessions().DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Sessions().Find(ctx, "dead")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Sessions().Find(ctx, "live")
	assert.NoError(t, err)
}

func TestEquityRepo_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tx := &model.EquityTransactionModel{
		ID:     "e1",
		UserID: "u",
		Type:   "deposit",
		Amount: decimal.RequireFromString("1500.25"),
		Date:   time.Now().UTC(),
	}
	require.NoError(t, s.Equity().Create(ctx, tx))

	list, err := s.Equity().ListByUser(ctx, "u")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Amount.Equal(decimal.RequireFromString("1500.25")))
}

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	uow, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, uow.Trades().Create(ctx, &model.TradeModel{ID: "tx1", UserID: "u", Ticker: "AAA"}))
	require.NoError(t, uow.Rollback())

	trades, err := s.Trades().ListByUser(ctx, "u")
	require.NoError(t, err)
	assert.Empty(t, trades)
}
