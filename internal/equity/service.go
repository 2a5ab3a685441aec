package equity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradify/internal/store"
	"tradify/internal/store/model"
	"tradify/internal/types"
)

var ErrTransactionNotFound = errors.New("equity transaction not found")

// Service manages the cash ledger that sits beside the trade journal:
// deposits, transfers and booked profits. Amounts are decimals; float drift
// on account balances is not acceptable even if trade P&L stays float.
type Service struct {
	store store.Store
	now   func() time.Time
}

func NewService(st store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// TransactionInput is the API-facing shape of a ledger entry.
type TransactionInput struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	Date   *time.Time      `json:"date,omitempty"`
	Notes  string          `json:"notes,omitempty"`
}

func (s *Service) Record(ctx context.Context, userID string, in TransactionInput) (types.EquityTransaction, error) {
	txType, ok := types.ParseEquityTransactionType(in.Type)
	if !ok {
		return types.EquityTransaction{}, errors.New("type must be deposit, transfer or profit")
	}
	if in.Amount.IsZero() {
		return types.EquityTransaction{}, errors.New("amount cannot be zero")
	}
	now := s.now().UTC()
	date := now
	if in.Date != nil && !in.Date.IsZero() {
		date = in.Date.UTC()
	}
	tm := &model.EquityTransactionModel{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      string(txType),
		Amount:    in.Amount,
		Date:      date,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
	}
	if err := s.store.Equity().Create(ctx, tm); err != nil {
		return types.EquityTransaction{}, err
	}
	return tm.ToDomain(), nil
}

// List returns the user's ledger, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]types.EquityTransaction, error) {
	models, err := s.store.Equity().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs := make([]types.EquityTransaction, 0, len(models))
	for i := range models {
		txs = append(txs, models[i].ToDomain())
	}
	return txs, nil
}

// Balance sums the signed ledger amounts.
func (s *Service) Balance(ctx context.Context, userID string) (decimal.Decimal, error) {
	models, err := s.store.Equity().ListByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	balance := decimal.Zero
	for i := range models {
		balance = balance.Add(models[i].Amount)
	}
	return balance, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	err := s.store.Equity().Delete(ctx, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTransactionNotFound
	}
	return err
}
