package types

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EquityTransactionType labels an entry in the account equity ledger.
type EquityTransactionType string

const (
	EquityDeposit  EquityTransactionType = "deposit"
	EquityTransfer EquityTransactionType = "transfer"
	EquityProfit   EquityTransactionType = "profit"
)

func ParseEquityTransactionType(s string) (EquityTransactionType, bool) {
	switch EquityTransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case EquityDeposit:
		return EquityDeposit, true
	case EquityTransfer:
		return EquityTransfer, true
	case EquityProfit:
		return EquityProfit, true
	}
	return "", false
}

// EquityTransaction is a cash movement on the account, separate from trade
// P&L. Amounts are signed: withdrawals are negative deposits.
type EquityTransaction struct {
	ID        string                `json:"id"`
	UserID    string                `json:"user_id"`
	Type      EquityTransactionType `json:"type"`
	Amount    decimal.Decimal       `json:"amount"`
	Date      time.Time             `json:"date"`
	Notes     string                `json:"notes,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}
