package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"tradify/internal/types"
)

type UserModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	DisplayName  string    `gorm:"column:display_name"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) ToDomain() types.User {
	return types.User{
		ID:           m.ID,
		Email:        m.Email,
		DisplayName:  m.DisplayName,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type SessionKind int

const (
	SessionKindLogin         SessionKind = 0
	SessionKindPasswordReset SessionKind = 1
)

type SessionModel struct {
	Token     string      `gorm:"column:token;primaryKey"`
	UserID    string      `gorm:"column:user_id;index"`
	Kind      SessionKind `gorm:"column:kind"`
	ExpiresAt time.Time   `gorm:"column:expires_at;index"`
	CreatedAt time.Time   `gorm:"column:created_at"`
}

func (SessionModel) TableName() string { return "sessions" }

type TradeModel struct {
	ID              string     `gorm:"column:id;primaryKey"`
	UserID          string     `gorm:"column:user_id;index:idx_trades_user"`
	Ticker          string     `gorm:"column:ticker;index:idx_trades_user_ticker"`
	AssetType       string     `gorm:"column:asset_type"`
	Position        string     `gorm:"column:position"`
	EntryPrice      float64    `gorm:"column:entry_price"`
	ExitPrice       float64    `gorm:"column:exit_price"`
	PositionSize    float64    `gorm:"column:position_size"`
	Commission      float64    `gorm:"column:commission"`
	OpenDate        *time.Time `gorm:"column:open_date"`
	CloseDate       *time.Time `gorm:"column:close_date;index"`
	Strategy        string     `gorm:"column:strategy"`
	JournalNotes    string     `gorm:"column:journal_notes"`
	ExecutionRating int        `gorm:"column:execution_rating"`
	CreatedAt       time.Time  `gorm:"column:created_at;index"`
}

func (TradeModel) TableName() string { return "trades" }

func (m *TradeModel) ToDomain() types.Trade {
	return types.Trade{
		ID:              m.ID,
		UserID:          m.UserID,
		Ticker:          m.Ticker,
		AssetType:       types.AssetType(m.AssetType),
		Position:        types.PositionSide(m.Position),
		EntryPrice:      m.EntryPrice,
		ExitPrice:       m.ExitPrice,
		PositionSize:    m.PositionSize,
		Commission:      m.Commission,
		OpenDate:        m.OpenDate,
		CloseDate:       m.CloseDate,
		Strategy:        m.Strategy,
		JournalNotes:    m.JournalNotes,
		ExecutionRating: m.ExecutionRating,
		CreatedAt:       m.CreatedAt,
	}
}

func TradeFromDomain(t types.Trade) TradeModel {
	return TradeModel{
		ID:              t.ID,
		UserID:          t.UserID,
		Ticker:          t.Ticker,
		AssetType:       string(t.AssetType),
		Position:        string(t.Position),
		EntryPrice:      t.EntryPrice,
		ExitPrice:       t.ExitPrice,
		PositionSize:    t.PositionSize,
		Commission:      t.Commission,
		OpenDate:        t.OpenDate,
		CloseDate:       t.CloseDate,
		Strategy:        t.Strategy,
		JournalNotes:    t.JournalNotes,
		ExecutionRating: t.ExecutionRating,
		CreatedAt:       t.CreatedAt,
	}
}

type EquityTransactionModel struct {
	ID        string          `gorm:"column:id;primaryKey"`
	UserID    string          `gorm:"column:user_id;index"`
	Type      string          `gorm:"column:type"`
	Amount    decimal.Decimal `gorm:"column:amount;type:TEXT"`
	Date      time.Time       `gorm:"column:date;index"`
	Notes     string          `gorm:"column:notes"`
	CreatedAt time.Time       `gorm:"column:created_at"`
}

func (EquityTransactionModel) TableName() string { return "equity_transactions" }

func (m *EquityTransactionModel) ToDomain() types.EquityTransaction {
	return types.EquityTransaction{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      types.EquityTransactionType(m.Type),
		Amount:    m.Amount,
		Date:      m.Date,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
}

// ActivityLogModel maps to 'activity_log'. Details is a free-form JSON blob
// describing the mutation (trade id, ticker, source of the write).
type ActivityLogModel struct {
	ID        int64          `gorm:"column:id;primaryKey"`
	UserID    string         `gorm:"column:user_id;index"`
	Action    string         `gorm:"column:action"`
	Details   datatypes.JSON `gorm:"column:details;type:TEXT"`
	Timestamp int64          `gorm:"column:timestamp;index"`
}

func (ActivityLogModel) TableName() string { return "activity_log" }
