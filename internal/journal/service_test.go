package journal

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tradify/internal/analytics"
	storesqlite "tradify/internal/store/sqlite"
	"tradify/internal/types"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:journal_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	st, err := storesqlite.NewSqliteStoreFromDB(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return NewService(st)
}

func f(v float64) *float64 { return &v }
func ip(v int) *int        { return &v }

func advancedInput(ticker string, entry, exit, size float64, closed time.Time) TradeInput {
	return TradeInput{
		Ticker:       ticker,
		Position:     "Long",
		AssetType:    "Stock",
		EntryPrice:   f(entry),
		ExitPrice:    f(exit),
		PositionSize: f(size),
		CloseDate:    &closed,
	}
}

func TestCreateTrade_UppercasesTicker(t *testing.T) {
	svc := newTestService(t)
	trade, err := svc.CreateTrade(context.Background(), "u", advancedInput(" aapl ", 100, 120, 10, time.Now().UTC()))
	require.NoError(t, err)
	assert.Equal(t, "AAPL", trade.Ticker)
	assert.NotEmpty(t, trade.ID)
}

func TestCreateTrade_SimpleModeSynthesizesPrices(t *testing.T) {
	svc := newTestService(t)

	long, err := svc.CreateTrade(context.Background(), "u", TradeInput{Ticker: "BTC", Position: "Long", Pnl: f(42.5)})
	require.NoError(t, err)
	assert.InDelta(t, 42.5, analytics.CalculatePnL(long), 1e-9)
	assert.True(t, long.Closed())
	assert.Equal(t, types.AssetStock, long.AssetType)

	short, err := svc.CreateTrade(context.Background(), "u", TradeInput{Ticker: "BTC", Position: "Short", Pnl: f(42.5)})
	require.NoError(t, err)
	assert.InDelta(t, 42.5, analytics.CalculatePnL(short), 1e-9)
}

func TestCreateTrade_ValidationErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	closed := time.Now().UTC()
	opened := closed.Add(time.Hour) // open after close: invalid

	cases := map[string]TradeInput{
		"empty ticker":       advancedInput("  ", 1, 2, 1, closed),
		"bad position":       {Ticker: "A", Position: "Sideways", AssetType: "Stock", EntryPrice: f(1), ExitPrice: f(2), PositionSize: f(1)},
		"bad asset type":     {Ticker: "A", Position: "Long", AssetType: "Bond", EntryPrice: f(1), ExitPrice: f(2), PositionSize: f(1)},
		"zero entry":         {Ticker: "A", Position: "Long", AssetType: "Stock", EntryPrice: f(0), ExitPrice: f(2), PositionSize: f(1)},
		"missing exit":       {Ticker: "A", Position: "Long", AssetType: "Stock", EntryPrice: f(1), PositionSize: f(1)},
		"entry equals exit":  {Ticker: "A", Position: "Long", AssetType: "Stock", EntryPrice: f(5), ExitPrice: f(5), PositionSize: f(1)},
		"negative size":      {Ticker: "A", Position: "Long", AssetType: "Stock", EntryPrice: f(1), ExitPrice: f(2), PositionSize: f(-1)},
		"negative commission": {Ticker: "A", Position: "Long", AssetType: "Stock", EntryPrice: f(1), ExitPrice: f(2), PositionSize: f(1), Commission: f(-3)},
		"close before open":  {Ticker: "A", Position: "Long", AssetType: "Stock", EntryPrice: f(1), ExitPrice: f(2), PositionSize: f(1), OpenDate: &opened, CloseDate: &closed},
		"rating out of range": {Ticker: "A", Position: "Long", AssetType: "Stock", EntryPrice: f(1), ExitPrice: f(2), PositionSize: f(1), ExecutionRating: ip(9)},
	}
	for name, in := range cases {
		_, err := svc.CreateTrade(ctx, "u", in)
		assert.Error(t, err, name)
	}

	trades, err := svc.ListTrades(ctx, "u")
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestSummary_RecomputedOnEveryMutation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var published []analytics.Summary
	svc.OnChange(func(userID string, summary analytics.Summary) {
		assert.Equal(t, "u", userID)
		published = append(published, summary)
	})

	summary, err := svc.Summary(ctx, "u")
	require.NoError(t, err)
	assert.Zero(t, summary.TotalNetPnl)

	trade, err := svc.CreateTrade(ctx, "u", advancedInput("AAPL", 100, 120, 10, time.Now().UTC()))
	require.NoError(t, err)

	summary, err = svc.Summary(ctx, "u")
	require.NoError(t, err)
	assert.InDelta(t, 200.0, summary.TotalNetPnl, 1e-9)
	require.Len(t, summary.EquityCurve, 1)

	require.NoError(t, svc.DeleteTrade(ctx, "u", trade.ID))
	summary, err = svc.Summary(ctx, "u")
	require.NoError(t, err)
	assert.Zero(t, summary.TotalNetPnl)
	assert.Empty(t, summary.EquityCurve)

	// create + delete each published a fresh snapshot
	assert.GreaterOrEqual(t, len(published), 2)
}

func TestSummary_ScopedPerUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTrade(ctx, "alice", advancedInput("AAPL", 100, 120, 10, time.Now().UTC()))
	require.NoError(t, err)

	bob, err := svc.Summary(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, bob.TotalNetPnl)
	assert.Empty(t, bob.EquityCurve)
}

func TestLastTradeByTicker(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first := advancedInput("AAPL", 100, 120, 10, time.Now().UTC())
	first.Strategy = "Breakout"
	_, err := svc.CreateTrade(ctx, "u", first)
	require.NoError(t, err)

	second := advancedInput("AAPL", 50, 60, 2, time.Now().UTC())
	second.Strategy = "Swing"
	second.AssetType = "Crypto"
	// CreatedAt comes from the service clock; force a later moment.
	svc.now = func() time.Time { return time.Now().Add(time.Minute) }
	_, err = svc.CreateTrade(ctx, "u", second)
	require.NoError(t, err)

	prefill, err := svc.LastTradeByTicker(ctx, "u", "aapl")
	require.NoError(t, err)
	assert.True(t, prefill.Found)
	assert.Equal(t, types.AssetCrypto, prefill.AssetType)
	assert.Equal(t, "Swing", prefill.Strategy)

	miss, err := svc.LastTradeByTicker(ctx, "u", "TSLA")
	require.NoError(t, err)
	assert.False(t, miss.Found)
}

func TestDeleteTrade_NotFound(t *testing.T) {
	svc := newTestService(t)
	err := svc.DeleteTrade(context.Background(), "u", "missing")
	assert.ErrorIs(t, err, ErrTradeNotFound)
}

func TestActivityLog_RecordsMutations(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	trade, err := svc.CreateTrade(ctx, "u", advancedInput("AAPL", 100, 120, 10, time.Now().UTC()))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTrade(ctx, "u", trade.ID))

	entries, err := svc.ActivityLog(ctx, "u", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "trade.delete", entries[0].Action)
	assert.Equal(t, "trade.create", entries[1].Action)
}
