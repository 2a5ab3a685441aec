package types

import (
	"strings"
	"time"
)

// AssetType is the closed set of instrument classes a trade can belong to.
type AssetType string

const (
	AssetStock  AssetType = "Stock"
	AssetCrypto AssetType = "Crypto"
	AssetForex  AssetType = "Forex"
)

func ParseAssetType(s string) (AssetType, bool) {
	switch AssetType(strings.TrimSpace(s)) {
	case AssetStock:
		return AssetStock, true
	case AssetCrypto:
		return AssetCrypto, true
	case AssetForex:
		return AssetForex, true
	}
	return "", false
}

// PositionSide is the trade direction.
type PositionSide string

const (
	PositionLong  PositionSide = "Long"
	PositionShort PositionSide = "Short"
)

func ParsePositionSide(s string) (PositionSide, bool) {
	switch PositionSide(strings.TrimSpace(s)) {
	case PositionLong:
		return PositionLong, true
	case PositionShort:
		return PositionShort, true
	}
	return "", false
}

// Trade is a single journal entry. IDs are opaque strings assigned by the
// store. Prices, commission and P&L share one currency unit (USD by default).
// CloseDate is nil while the position is still open; such trades carry no
// realized P&L.
type Trade struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	Ticker          string       `json:"ticker"`
	AssetType       AssetType    `json:"asset_type"`
	Position        PositionSide `json:"position"`
	EntryPrice      float64      `json:"entry_price"`
	ExitPrice       float64      `json:"exit_price"`
	PositionSize    float64      `json:"position_size"`
	Commission      float64      `json:"commission"`
	OpenDate        *time.Time   `json:"open_date,omitempty"`
	CloseDate       *time.Time   `json:"close_date,omitempty"`
	Strategy        string       `json:"strategy,omitempty"`
	JournalNotes    string       `json:"journal_notes,omitempty"`
	ExecutionRating int          `json:"execution_rating,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

// Closed reports whether the trade has a recorded close date.
func (t Trade) Closed() bool {
	return t.CloseDate != nil && !t.CloseDate.IsZero()
}
