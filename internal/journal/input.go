package journal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tradify/internal/types"
)

// TradeInput mirrors the entry form. Two modes, as in the form's tabs:
//   - simple: ticker + direction + a raw P&L figure
//   - advanced: full prices, size, commission and dates
//
// Pnl set selects simple mode; otherwise the advanced fields are required.
type TradeInput struct {
	Ticker       string     `json:"ticker"`
	Position     string     `json:"position"`
	JournalNotes string     `json:"journal_notes"`

	Pnl *float64 `json:"pnl,omitempty"`

	AssetType       string     `json:"asset_type,omitempty"`
	OpenDate        *time.Time `json:"open_date,omitempty"`
	CloseDate       *time.Time `json:"close_date,omitempty"`
	EntryPrice      *float64   `json:"entry_price,omitempty"`
	ExitPrice       *float64   `json:"exit_price,omitempty"`
	PositionSize    *float64   `json:"position_size,omitempty"`
	Commission      *float64   `json:"commission,omitempty"`
	Strategy        string     `json:"strategy,omitempty"`
	ExecutionRating *int       `json:"execution_rating,omitempty"`
}

func (in TradeInput) simpleMode() bool { return in.Pnl != nil }

func normalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// toTrade validates the input and materializes a Trade (without ID/UserID,
// which the service assigns). Tickers are canonicalized to uppercase here,
// at write time; the engine treats them as opaque case-sensitive strings.
func (in TradeInput) toTrade(now time.Time) (types.Trade, error) {
	ticker := normalizeTicker(in.Ticker)
	if ticker == "" {
		return types.Trade{}, errors.New("ticker cannot be empty")
	}
	position, ok := types.ParsePositionSide(in.Position)
	if !ok {
		return types.Trade{}, fmt.Errorf("invalid position %q", in.Position)
	}

	trade := types.Trade{
		Ticker:       ticker,
		Position:     position,
		JournalNotes: strings.TrimSpace(in.JournalNotes),
		CreatedAt:    now,
	}

	if in.simpleMode() {
		// Synthesize prices so the recorded trade reproduces the stated P&L:
		// entry=1, size=1, exit chosen by direction, zero commission.
		pnl := *in.Pnl
		trade.AssetType = types.AssetStock
		trade.EntryPrice = 1
		trade.PositionSize = 1
		if position == types.PositionLong {
			trade.ExitPrice = 1 + pnl
		} else {
			trade.ExitPrice = 1 - pnl
		}
		closed := now
		trade.CloseDate = &closed
		return trade, nil
	}

	assetType, ok := types.ParseAssetType(in.AssetType)
	if !ok {
		return types.Trade{}, fmt.Errorf("invalid asset type %q", in.AssetType)
	}
	trade.AssetType = assetType

	if in.EntryPrice == nil || *in.EntryPrice <= 0 {
		return types.Trade{}, errors.New("entry price must be positive")
	}
	if in.ExitPrice == nil || *in.ExitPrice <= 0 {
		return types.Trade{}, errors.New("exit price must be positive")
	}
	if *in.EntryPrice == *in.ExitPrice {
		return types.Trade{}, errors.New("exit price cannot equal entry price")
	}
	if in.PositionSize == nil || *in.PositionSize <= 0 {
		return types.Trade{}, errors.New("position size must be positive")
	}
	if in.Commission != nil && *in.Commission < 0 {
		return types.Trade{}, errors.New("commission cannot be negative")
	}
	if in.OpenDate != nil && in.CloseDate != nil && !in.CloseDate.After(*in.OpenDate) {
		return types.Trade{}, errors.New("close date must be after open date")
	}
	if in.ExecutionRating != nil && (*in.ExecutionRating < 1 || *in.ExecutionRating > 5) {
		return types.Trade{}, errors.New("execution rating must be between 1 and 5")
	}

	trade.EntryPrice = *in.EntryPrice
	trade.ExitPrice = *in.ExitPrice
	trade.PositionSize = *in.PositionSize
	if in.Commission != nil {
		trade.Commission = *in.Commission
	}
	trade.OpenDate = in.OpenDate
	trade.CloseDate = in.CloseDate
	trade.Strategy = strings.TrimSpace(in.Strategy)
	if in.ExecutionRating != nil {
		trade.ExecutionRating = *in.ExecutionRating
	}
	return trade, nil
}
