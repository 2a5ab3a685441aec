package analytics

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradify/internal/types"
)

func tp(t time.Time) *time.Time { return &t }

var (
	d1 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	d2 = time.Date(2024, 3, 5, 16, 30, 0, 0, time.UTC)
	d3 = time.Date(2024, 3, 9, 9, 15, 0, 0, time.UTC)
)

func closedTrade(ticker string, side types.PositionSide, entry, exit, size, commission float64, closed time.Time) types.Trade {
	return types.Trade{
		Ticker:       ticker,
		Position:     side,
		EntryPrice:   entry,
		ExitPrice:    exit,
		PositionSize: size,
		Commission:   commission,
		CloseDate:    tp(closed),
	}
}

func TestCalculatePnL_Long(t *testing.T) {
	trade := closedTrade("AAPL", types.PositionLong, 100, 120, 10, 5, d1)
	assert.InDelta(t, 195.0, CalculatePnL(trade), 1e-9)
}

func TestCalculatePnL_Short(t *testing.T) {
	trade := closedTrade("EURUSD", types.PositionShort, 50, 40, 2, 1, d1)
	assert.InDelta(t, 19.0, CalculatePnL(trade), 1e-9)
}

func TestCalculatePnL_FlippingSideNegatesPriceTerm(t *testing.T) {
	long := closedTrade("BTC", types.PositionLong, 230, 250, 3, 7, d1)
	short := long
	short.Position = types.PositionShort

	priceTerm := (long.ExitPrice - long.EntryPrice) * long.PositionSize
	assert.InDelta(t, priceTerm-7, CalculatePnL(long), 1e-9)
	// Commission still subtracts after the price differential flips sign.
	assert.InDelta(t, -priceTerm-7, CalculatePnL(short), 1e-9)
}

func TestCalculatePnL_MissingFieldsContributeZero(t *testing.T) {
	cases := map[string]types.Trade{
		"no entry": {Ticker: "X", Position: types.PositionLong, ExitPrice: 10, PositionSize: 1},
		"no exit":  {Ticker: "X", Position: types.PositionLong, EntryPrice: 10, PositionSize: 1},
		"no size":  {Ticker: "X", Position: types.PositionShort, EntryPrice: 10, ExitPrice: 12},
		"empty":    {},
	}
	for name, trade := range cases {
		assert.Zero(t, CalculatePnL(trade), name)
	}
}

func TestCalculate_EmptyInput(t *testing.T) {
	summary := Calculate(nil)

	assert.Zero(t, summary.TotalNetPnl)
	assert.Zero(t, summary.WinRate)
	assert.Zero(t, summary.ProfitFactor)
	assert.Zero(t, summary.AvgWin)
	assert.Zero(t, summary.AvgLoss)
	assert.Zero(t, summary.TotalGains)
	assert.Zero(t, summary.TotalLosses)
	assert.Empty(t, summary.EquityCurve)
	assert.Empty(t, summary.PnlPerAsset)
	assert.NotNil(t, summary.EquityCurve)
	assert.NotNil(t, summary.PnlPerAsset)
}

func TestCalculate_OnlyOpenTrades(t *testing.T) {
	open := types.Trade{Ticker: "AAPL", Position: types.PositionLong, EntryPrice: 10, ExitPrice: 12, PositionSize: 5}
	summary := Calculate([]types.Trade{open})

	assert.Zero(t, summary.TotalNetPnl)
	assert.Empty(t, summary.EquityCurve)
	assert.Empty(t, summary.PnlPerAsset)
}

func TestCalculate_SingleWinningLong(t *testing.T) {
	// Scenario: entry=100, exit=120, size=10, commission=5 → pnl=195.
	summary := Calculate([]types.Trade{closedTrade("AAPL", types.PositionLong, 100, 120, 10, 5, d1)})

	assert.InDelta(t, 195.0, summary.TotalNetPnl, 1e-9)
	assert.InDelta(t, 100.0, summary.WinRate, 1e-9)
	assert.True(t, math.IsInf(summary.ProfitFactor, 1))
	assert.InDelta(t, 195.0, summary.AvgWin, 1e-9)
	assert.Zero(t, summary.AvgLoss)
	require.Len(t, summary.EquityCurve, 1)
	assert.Equal(t, d1, summary.EquityCurve[0].Date)
	assert.InDelta(t, 195.0, summary.EquityCurve[0].Equity, 1e-9)
}

func TestCalculate_TwoTradesMixedOutcome(t *testing.T) {
	trades := []types.Trade{
		// AAA: +100 closes first, BBB: -40 closes later.
		closedTrade("AAA", types.PositionLong, 10, 20, 10, 0, d1),
		closedTrade("BBB", types.PositionLong, 20, 10, 4, 0, d2),
	}
	summary := Calculate(trades)

	assert.InDelta(t, 60.0, summary.TotalNetPnl, 1e-9)
	assert.InDelta(t, 50.0, summary.WinRate, 1e-9)
	assert.InDelta(t, 100.0, summary.TotalGains, 1e-9)
	assert.InDelta(t, 40.0, summary.TotalLosses, 1e-9)
	assert.InDelta(t, 2.5, summary.ProfitFactor, 1e-9)
	assert.InDelta(t, 100.0, summary.AvgWin, 1e-9)
	assert.InDelta(t, 40.0, summary.AvgLoss, 1e-9)

	require.Len(t, summary.EquityCurve, 2)
	assert.Equal(t, d1, summary.EquityCurve[0].Date)
	assert.InDelta(t, 100.0, summary.EquityCurve[0].Equity, 1e-9)
	assert.Equal(t, d2, summary.EquityCurve[1].Date)
	assert.InDelta(t, 60.0, summary.EquityCurve[1].Equity, 1e-9)

	require.Len(t, summary.PnlPerAsset, 2)
	assert.Contains(t, summary.PnlPerAsset, AssetPnl{Ticker: "AAA", Pnl: 100})
	assert.Contains(t, summary.PnlPerAsset, AssetPnl{Ticker: "BBB", Pnl: -40})
}

func TestCalculate_AllLosing(t *testing.T) {
	trades := []types.Trade{
		closedTrade("AAA", types.PositionLong, 20, 10, 1, 0, d1),
		closedTrade("BBB", types.PositionShort, 10, 20, 1, 0, d2),
	}
	summary := Calculate(trades)

	assert.Zero(t, summary.WinRate)
	assert.Zero(t, summary.ProfitFactor)
	assert.Zero(t, summary.AvgWin)
	assert.InDelta(t, -20.0, summary.TotalNetPnl, 1e-9)
	assert.InDelta(t, 10.0, summary.AvgLoss, 1e-9)
}

func TestCalculate_OpenTradeExcludedEverywhere(t *testing.T) {
	open := types.Trade{Ticker: "OPEN", Position: types.PositionLong, EntryPrice: 1, ExitPrice: 2, PositionSize: 1000}
	closed := closedTrade("AAPL", types.PositionLong, 100, 120, 10, 5, d1)
	summary := Calculate([]types.Trade{open, closed})

	assert.InDelta(t, 195.0, summary.TotalNetPnl, 1e-9)
	assert.InDelta(t, 100.0, summary.WinRate, 1e-9)
	require.Len(t, summary.EquityCurve, 1)
	require.Len(t, summary.PnlPerAsset, 1)
	assert.Equal(t, "AAPL", summary.PnlPerAsset[0].Ticker)
}

func TestCalculate_ZeroPnlTrade(t *testing.T) {
	trades := []types.Trade{
		closedTrade("WIN", types.PositionLong, 10, 20, 1, 0, d1),
		// Exactly breaks even after commission: pnl == 0.
		closedTrade("FLAT", types.PositionLong, 10, 11, 10, 10, d2),
	}
	summary := Calculate(trades)

	// Zero-pnl trades dilute the win rate but join neither bucket.
	assert.InDelta(t, 50.0, summary.WinRate, 1e-9)
	assert.InDelta(t, 10.0, summary.TotalGains, 1e-9)
	assert.Zero(t, summary.TotalLosses)
	assert.InDelta(t, 10.0, summary.AvgWin, 1e-9)
	assert.Zero(t, summary.AvgLoss)
	assert.InDelta(t, 10.0, summary.TotalNetPnl, 1e-9)
	require.Len(t, summary.EquityCurve, 2)
}

func TestCalculate_InputOrderIrrelevant(t *testing.T) {
	trades := []types.Trade{
		closedTrade("AAA", types.PositionLong, 10, 20, 10, 2, d3),
		closedTrade("BBB", types.PositionShort, 30, 25, 4, 1, d1),
		closedTrade("AAA", types.PositionLong, 50, 45, 2, 0, d2),
		closedTrade("CCC", types.PositionShort, 5, 9, 3, 0.5, d2.Add(time.Hour)),
	}
	want := Calculate(trades)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]types.Trade(nil), trades...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := Calculate(shuffled)

		assert.Equal(t, want.TotalNetPnl, got.TotalNetPnl)
		assert.Equal(t, want.WinRate, got.WinRate)
		assert.Equal(t, want.ProfitFactor, got.ProfitFactor)
		assert.Equal(t, want.AvgWin, got.AvgWin)
		assert.Equal(t, want.AvgLoss, got.AvgLoss)
		assert.Equal(t, want.TotalGains, got.TotalGains)
		assert.Equal(t, want.TotalLosses, got.TotalLosses)
		// The curve is re-sorted internally, so it never depends on input order.
		assert.Equal(t, want.EquityCurve, got.EquityCurve)
		assert.ElementsMatch(t, want.PnlPerAsset, got.PnlPerAsset)
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	trades := []types.Trade{
		closedTrade("AAA", types.PositionLong, 10, 20, 10, 2, d1),
		closedTrade("BBB", types.PositionShort, 30, 25, 4, 1, d2),
	}
	first := Calculate(trades)
	second := Calculate(trades)
	assert.Equal(t, first, second)
}

func TestCalculate_MalformedTradeContributesNothingButCounts(t *testing.T) {
	trades := []types.Trade{
		closedTrade("GOOD", types.PositionLong, 10, 20, 1, 0, d1),
		// Closed but missing its exit price: pnl degrades to zero.
		{Ticker: "BAD", Position: types.PositionLong, EntryPrice: 10, PositionSize: 5, CloseDate: tp(d2)},
	}
	summary := Calculate(trades)

	assert.InDelta(t, 10.0, summary.TotalNetPnl, 1e-9)
	assert.InDelta(t, 50.0, summary.WinRate, 1e-9)
	require.Len(t, summary.EquityCurve, 2)
	assert.InDelta(t, 10.0, summary.EquityCurve[1].Equity, 1e-9)
}
