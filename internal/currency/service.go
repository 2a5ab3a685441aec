package currency

import (
	"context"
	"errors"
	"sync"
	"time"

	"tradify/internal/analytics"
	"tradify/internal/config"
	"tradify/internal/logger"
)

// RateSource is implemented by Client; decoupled for tests.
type RateSource interface {
	FetchRate(ctx context.Context, base, display string) (float64, error)
}

// Service caches the base→display exchange rate with a TTL and falls back
// to a configured static rate when the upstream is unreachable. It is the
// "display transform" collaborator: conversion happens strictly after the
// analytics engine has returned its summary.
type Service struct {
	cfg     config.CurrencyConfig
	source  RateSource
	history *HistoryStore
	ttl     time.Duration
	now     func() time.Time

	mu        sync.RWMutex
	rate      float64
	fetchedAt time.Time
}

func NewService(cfg config.CurrencyConfig, source RateSource, history *HistoryStore) *Service {
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{cfg: cfg, source: source, history: history, ttl: ttl, now: time.Now}
}

func (s *Service) Pair() (base, display string) {
	return s.cfg.BaseCurrency, s.cfg.DisplayCurrency
}

// Rate returns the cached rate, refreshing when the cache is stale. It never
// fails: upstream errors degrade to the last known rate, then the fallback.
func (s *Service) Rate(ctx context.Context) float64 {
	s.mu.RLock()
	rate, fetchedAt := s.rate, s.fetchedAt
	s.mu.RUnlock()
	if rate > 0 && s.now().Sub(fetchedAt) < s.ttl {
		return rate
	}
	if refreshed, err := s.Refresh(ctx); err == nil {
		return refreshed
	}
	if rate > 0 {
		return rate
	}
	return s.cfg.FallbackRate
}

// Refresh fetches a fresh rate and appends it to the history store.
func (s *Service) Refresh(ctx context.Context) (float64, error) {
	if s.source == nil {
		return 0, errors.New("no rate source configured")
	}
	rate, err := s.source.FetchRate(ctx, s.cfg.BaseCurrency, s.cfg.DisplayCurrency)
	if err != nil {
		logger.Warnf("currency rate refresh failed (%s→%s): %v", s.cfg.BaseCurrency, s.cfg.DisplayCurrency, err)
		return 0, err
	}
	now := s.now()
	s.mu.Lock()
	s.rate = rate
	s.fetchedAt = now
	s.mu.Unlock()
	if s.history != nil {
		if err := s.history.Append(ctx, s.cfg.BaseCurrency, s.cfg.DisplayCurrency, rate, now); err != nil {
			logger.Warnf("appending rate history failed: %v", err)
		}
	}
	logger.Debugf("currency rate refreshed: 1 %s = %.4f %s", s.cfg.BaseCurrency, rate, s.cfg.DisplayCurrency)
	return rate, nil
}

// RunRefreshLoop refreshes the rate on an interval until ctx is done. The
// journal stays usable without it; Rate falls back as needed.
func (s *Service) RunRefreshLoop(ctx context.Context) error {
	interval := s.ttl
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	if _, err := s.Refresh(ctx); err != nil {
		logger.Warnf("initial currency refresh failed: %v", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				logger.Warnf("currency refresh failed: %v", err)
			}
		}
	}
}

// ConvertSummary returns a copy of the summary with every monetary field
// scaled by rate. Ratios (win rate, profit factor) are untouched.
func ConvertSummary(summary analytics.Summary, rate float64) analytics.Summary {
	if rate == 1 {
		return summary
	}
	out := summary
	out.TotalNetPnl *= rate
	out.AvgWin *= rate
	out.AvgLoss *= rate
	out.TotalGains *= rate
	out.TotalLosses *= rate
	out.EquityCurve = make([]analytics.EquityPoint, len(summary.EquityCurve))
	for i, p := range summary.EquityCurve {
		out.EquityCurve[i] = analytics.EquityPoint{Date: p.Date, Equity: p.Equity * rate}
	}
	out.PnlPerAsset = make([]analytics.AssetPnl, len(summary.PnlPerAsset))
	for i, a := range summary.PnlPerAsset {
		out.PnlPerAsset[i] = analytics.AssetPnl{Ticker: a.Ticker, Pnl: a.Pnl * rate}
	}
	return out
}
