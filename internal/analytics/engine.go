package analytics

import (
	"math"
	"sort"
	"time"

	"tradify/internal/types"
)

// Summary is the derived view the dashboard renders. It has no identity of
// its own: every change to the underlying trade collection produces a fresh
// Summary via Calculate. All monetary fields are in the trades' native price
// currency; display-currency conversion happens downstream.
type Summary struct {
	TotalNetPnl  float64       `json:"total_net_pnl"`
	WinRate      float64       `json:"win_rate"`
	ProfitFactor float64       `json:"profit_factor"`
	AvgWin       float64       `json:"avg_win"`
	AvgLoss      float64       `json:"avg_loss"`
	TotalGains   float64       `json:"total_gains"`
	TotalLosses  float64       `json:"total_losses"`
	EquityCurve  []EquityPoint `json:"equity_curve"`
	PnlPerAsset  []AssetPnl    `json:"pnl_per_asset"`
}

// EquityPoint is one step of the cumulative realized P&L series, in
// ascending close-date order. Date formatting is left to callers.
type EquityPoint struct {
	Date   time.Time `json:"date"`
	Equity float64   `json:"equity"`
}

// AssetPnl is the summed realized P&L of one ticker.
type AssetPnl struct {
	Ticker string  `json:"ticker"`
	Pnl    float64 `json:"pnl"`
}

// CalculatePnL returns the realized P&L of a single trade. A trade missing
// entry price, exit price or position size contributes zero rather than an
// error: one malformed record must not poison the whole aggregation.
func CalculatePnL(trade types.Trade) float64 {
	if trade.EntryPrice == 0 || trade.ExitPrice == 0 || trade.PositionSize == 0 {
		return 0
	}
	if trade.Position == types.PositionShort {
		return (trade.EntryPrice-trade.ExitPrice)*trade.PositionSize - trade.Commission
	}
	return (trade.ExitPrice-trade.EntryPrice)*trade.PositionSize - trade.Commission
}

type enrichedTrade struct {
	ticker    string
	pnl       float64
	closeDate time.Time
}

// Calculate reduces an unordered trade collection to a Summary. Open trades
// (no close date) are dropped entirely; the remainder is re-sorted by close
// date so the equity curve is stable regardless of input order. It never
// returns an error: every degenerate input maps to a well-defined Summary.
//
// Bucket convention: winners are pnl > 0, losers are pnl < 0. Exact-zero
// trades count toward TotalNetPnl and the win-rate denominator but belong to
// neither bucket.
func Calculate(trades []types.Trade) Summary {
	enriched := make([]enrichedTrade, 0, len(trades))
	for _, trade := range trades {
		if !trade.Closed() {
			continue
		}
		enriched = append(enriched, enrichedTrade{
			ticker:    trade.Ticker,
			pnl:       CalculatePnL(trade),
			closeDate: *trade.CloseDate,
		})
	}
	if len(enriched) == 0 {
		return Summary{EquityCurve: []EquityPoint{}, PnlPerAsset: []AssetPnl{}}
	}

	sort.SliceStable(enriched, func(i, j int) bool {
		return enriched[i].closeDate.Before(enriched[j].closeDate)
	})

	var (
		totalNetPnl float64
		totalGains  float64
		totalLosses float64
		wins        int
		losses      int
	)
	for _, t := range enriched {
		totalNetPnl += t.pnl
		switch {
		case t.pnl > 0:
			totalGains += t.pnl
			wins++
		case t.pnl < 0:
			totalLosses += t.pnl
			losses++
		}
	}
	totalLosses = math.Abs(totalLosses)

	winRate := float64(wins) / float64(len(enriched)) * 100

	profitFactor := math.Inf(1)
	if totalLosses > 0 {
		profitFactor = totalGains / totalLosses
	}
	var avgWin, avgLoss float64
	if wins > 0 {
		avgWin = totalGains / float64(wins)
	}
	if losses > 0 {
		avgLoss = totalLosses / float64(losses)
	}

	var cumulative float64
	curve := make([]EquityPoint, 0, len(enriched))
	for _, t := range enriched {
		cumulative += t.pnl
		curve = append(curve, EquityPoint{Date: t.closeDate, Equity: cumulative})
	}

	perAsset := make([]AssetPnl, 0)
	index := make(map[string]int)
	for _, t := range enriched {
		i, ok := index[t.ticker]
		if !ok {
			index[t.ticker] = len(perAsset)
			perAsset = append(perAsset, AssetPnl{Ticker: t.ticker, Pnl: t.pnl})
			continue
		}
		perAsset[i].Pnl += t.pnl
	}

	return Summary{
		TotalNetPnl:  totalNetPnl,
		WinRate:      winRate,
		ProfitFactor: profitFactor,
		AvgWin:       avgWin,
		AvgLoss:      avgLoss,
		TotalGains:   totalGains,
		TotalLosses:  totalLosses,
		EquityCurve:  curve,
		PnlPerAsset:  perAsset,
	}
}
