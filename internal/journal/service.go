package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"tradify/internal/analytics"
	"tradify/internal/logger"
	"tradify/internal/store"
	"tradify/internal/store/model"
	"tradify/internal/types"
)

var ErrTradeNotFound = errors.New("trade not found")

// Service is the application layer over the trade store. Every mutation
// triggers a full, from-scratch recomputation of the owner's analytics
// summary; there is no incremental maintenance. Listeners observe each new
// snapshot.
type Service struct {
	store      store.Store
	cache      *summaryCache
	now        func() time.Time
	strategies StrategyValidator

	listenerMu sync.RWMutex
	listeners  []ChangeListener
}

// StrategyValidator checks trade strategy labels against configured presets.
type StrategyValidator interface {
	Validate(name string) bool
}

func NewService(st store.Store) *Service {
	return &Service{store: st, cache: newSummaryCache(), now: time.Now}
}

// SetStrategyValidator enables preset validation of strategy labels. Without
// one, any free-text label is accepted.
func (s *Service) SetStrategyValidator(v StrategyValidator) {
	s.strategies = v
}

func (s *Service) validStrategy(name string) bool {
	return s.strategies == nil || s.strategies.Validate(name)
}

// OnChange registers a listener for summary recomputations.
func (s *Service) OnChange(fn ChangeListener) {
	if fn == nil {
		return
	}
	s.listenerMu.Lock()
	s.listeners = append(s.listeners, fn)
	s.listenerMu.Unlock()
}

// CreateTrade validates the input, persists the trade and republishes the
// owner's summary.
func (s *Service) CreateTrade(ctx context.Context, userID string, in TradeInput) (types.Trade, error) {
	trade, err := in.toTrade(s.now().UTC())
	if err != nil {
		return types.Trade{}, err
	}
	if !s.validStrategy(trade.Strategy) {
		return types.Trade{}, fmt.Errorf("unknown strategy %q", trade.Strategy)
	}
	trade.ID = uuid.NewString()
	trade.UserID = userID

	tm := model.TradeFromDomain(trade)
	if err := s.store.Trades().Create(ctx, &tm); err != nil {
		return types.Trade{}, err
	}
	s.logActivity(ctx, userID, "trade.create", map[string]any{
		"trade_id": trade.ID,
		"ticker":   trade.Ticker,
		"mode":     map[bool]string{true: "simple", false: "advanced"}[in.simpleMode()],
	})
	if _, err := s.Recompute(ctx, userID); err != nil {
		logger.Warnf("recompute after create failed for user %s: %v", userID, err)
	}
	return trade, nil
}

func (s *Service) GetTrade(ctx context.Context, userID, id string) (types.Trade, error) {
	tm, err := s.store.Trades().FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Trade{}, ErrTradeNotFound
		}
		return types.Trade{}, err
	}
	return tm.ToDomain(), nil
}

// ListTrades returns the user's full journal, newest entry first.
func (s *Service) ListTrades(ctx context.Context, userID string) ([]types.Trade, error) {
	models, err := s.store.Trades().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	trades := make([]types.Trade, 0, len(models))
	for i := range models {
		trades = append(trades, models[i].ToDomain())
	}
	return trades, nil
}

func (s *Service) DeleteTrade(ctx context.Context, userID, id string) error {
	if err := s.store.Trades().Delete(ctx, userID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTradeNotFound
		}
		return err
	}
	s.logActivity(ctx, userID, "trade.delete", map[string]any{"trade_id": id})
	if _, err := s.Recompute(ctx, userID); err != nil {
		logger.Warnf("recompute after delete failed for user %s: %v", userID, err)
	}
	return nil
}

// Prefill holds the form defaults derived from the last trade on a ticker.
type Prefill struct {
	Ticker    string          `json:"ticker"`
	AssetType types.AssetType `json:"asset_type,omitempty"`
	Strategy  string          `json:"strategy,omitempty"`
	Found     bool            `json:"found"`
}

// LastTradeByTicker looks up the most recent trade on a ticker to prefill
// asset type and strategy on the entry form. A plain point query, kept out
// of the analytics engine on purpose.
func (s *Service) LastTradeByTicker(ctx context.Context, userID, ticker string) (Prefill, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return Prefill{}, errors.New("ticker cannot be empty")
	}
	tm, err := s.store.Trades().LastByTicker(ctx, userID, ticker)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Prefill{Ticker: ticker}, nil
		}
		return Prefill{}, err
	}
	return Prefill{
		Ticker:    ticker,
		AssetType: types.AssetType(tm.AssetType),
		Strategy:  tm.Strategy,
		Found:     true,
	}, nil
}

// Summary returns the user's analytics snapshot, recomputing on a cache miss.
func (s *Service) Summary(ctx context.Context, userID string) (analytics.Summary, error) {
	if summary, ok := s.cache.Get(userID); ok {
		return summary, nil
	}
	return s.Recompute(ctx, userID)
}

// Recompute re-reads the user's trades and runs the engine over the full
// collection, then publishes the result to listeners.
func (s *Service) Recompute(ctx context.Context, userID string) (analytics.Summary, error) {
	models, err := s.store.Trades().ListByUser(ctx, userID)
	if err != nil {
		return analytics.Summary{}, err
	}
	trades := make([]types.Trade, 0, len(models))
	for i := range models {
		trades = append(trades, models[i].ToDomain())
	}
	summary := analytics.Calculate(trades)
	s.cache.Set(userID, summary)

	s.listenerMu.RLock()
	listeners := append([]ChangeListener(nil), s.listeners...)
	s.listenerMu.RUnlock()
	for _, fn := range listeners {
		fn(userID, summary)
	}
	return summary, nil
}

// ActivityLog returns recent journal mutations, newest first.
func (s *Service) ActivityLog(ctx context.Context, userID string, limit int) ([]model.ActivityLogModel, error) {
	return s.store.Activity().ListRecent(ctx, userID, limit)
}

func (s *Service) logActivity(ctx context.Context, userID, action string, details map[string]any) {
	raw, err := json.Marshal(details)
	if err != nil {
		raw = []byte("{}")
	}
	entry := &model.ActivityLogModel{
		UserID:    userID,
		Action:    action,
		Details:   datatypes.JSON(raw),
		Timestamp: s.now().UTC().UnixMilli(),
	}
	if err := s.store.Activity().Insert(ctx, entry); err != nil {
		logger.Warnf("activity log write failed: %v", err)
	}
}
