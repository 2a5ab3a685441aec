package webhttp

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"tradify/internal/analytics"
	"tradify/internal/equity"
	"tradify/internal/journal"
	"tradify/internal/store/model"
	"tradify/internal/strategy"
	"tradify/internal/types"
)

// AuthService is the slice of the auth layer the HTTP handlers need.
type AuthService interface {
	Register(ctx context.Context, email, password, displayName string) (types.User, error)
	Login(ctx context.Context, email, password string) (types.Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (types.User, error)
	UpdateDisplayName(ctx context.Context, userID, displayName string) (types.User, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// JournalService covers trades, analytics snapshots and the activity feed.
type JournalService interface {
	CreateTrade(ctx context.Context, userID string, in journal.TradeInput) (types.Trade, error)
	GetTrade(ctx context.Context, userID, id string) (types.Trade, error)
	ListTrades(ctx context.Context, userID string) ([]types.Trade, error)
	DeleteTrade(ctx context.Context, userID, id string) error
	ImportTrades(ctx context.Context, userID string, raw []byte) (journal.ImportResult, error)
	LastTradeByTicker(ctx context.Context, userID, ticker string) (journal.Prefill, error)
	Summary(ctx context.Context, userID string) (analytics.Summary, error)
	ActivityLog(ctx context.Context, userID string, limit int) ([]model.ActivityLogModel, error)
}

// EquityService is the cash ledger surface.
type EquityService interface {
	Record(ctx context.Context, userID string, in equity.TransactionInput) (types.EquityTransaction, error)
	List(ctx context.Context, userID string) ([]types.EquityTransaction, error)
	Balance(ctx context.Context, userID string) (decimal.Decimal, error)
	Delete(ctx context.Context, userID, id string) error
}

// CurrencyService exposes the cached display rate.
type CurrencyService interface {
	Pair() (base, display string)
	Rate(ctx context.Context) float64
}

// StrategySource lists the configured strategy presets.
type StrategySource interface {
	Presets() []strategy.Preset
}

const dateLayout = "2006-01-02"

type equityPointDTO struct {
	Date   string  `json:"date"`
	Equity float64 `json:"equity"`
}

type assetPnlDTO struct {
	Ticker string  `json:"ticker"`
	Pnl    float64 `json:"pnl"`
}

// summaryDTO is the wire shape of an analytics snapshot. ProfitFactor is
// either a number or the string "Infinity": encoding/json cannot represent
// +Inf and an all-winning journal is a legal state.
type summaryDTO struct {
	TotalNetPnl  float64          `json:"total_net_pnl"`
	WinRate      float64          `json:"win_rate"`
	ProfitFactor any              `json:"profit_factor"`
	AvgWin       float64          `json:"avg_win"`
	AvgLoss      float64          `json:"avg_loss"`
	TotalGains   float64          `json:"total_gains"`
	TotalLosses  float64          `json:"total_losses"`
	EquityCurve  []equityPointDTO `json:"equity_curve"`
	PnlPerAsset  []assetPnlDTO    `json:"pnl_per_asset"`
	Currency     string           `json:"currency"`
	Rate         float64          `json:"rate,omitempty"`
}

func summaryToDTO(summary analytics.Summary, currency string, rate float64) summaryDTO {
	dto := summaryDTO{
		TotalNetPnl: summary.TotalNetPnl,
		WinRate:     summary.WinRate,
		AvgWin:      summary.AvgWin,
		AvgLoss:     summary.AvgLoss,
		TotalGains:  summary.TotalGains,
		TotalLosses: summary.TotalLosses,
		EquityCurve: make([]equityPointDTO, len(summary.EquityCurve)),
		PnlPerAsset: make([]assetPnlDTO, len(summary.PnlPerAsset)),
		Currency:    currency,
		Rate:        rate,
	}
	if math.IsInf(summary.ProfitFactor, 1) {
		dto.ProfitFactor = "Infinity"
	} else {
		dto.ProfitFactor = summary.ProfitFactor
	}
	for i, p := range summary.EquityCurve {
		dto.EquityCurve[i] = equityPointDTO{Date: p.Date.UTC().Format(dateLayout), Equity: p.Equity}
	}
	for i, a := range summary.PnlPerAsset {
		dto.PnlPerAsset[i] = assetPnlDTO{Ticker: a.Ticker, Pnl: a.Pnl}
	}
	return dto
}

type activityEntryDTO struct {
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details,omitempty"`
	Timestamp string          `json:"timestamp"`
}

func activityToDTO(entries []model.ActivityLogModel) []activityEntryDTO {
	out := make([]activityEntryDTO, len(entries))
	for i, e := range entries {
		out[i] = activityEntryDTO{
			Action:    e.Action,
			Details:   json.RawMessage(e.Details),
			Timestamp: time.UnixMilli(e.Timestamp).UTC().Format(time.RFC3339),
		}
	}
	return out
}
