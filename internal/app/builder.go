package app

import (
	"context"
	"fmt"
	"time"

	"tradify/internal/auth"
	trcfg "tradify/internal/config"
	"tradify/internal/currency"
	"tradify/internal/equity"
	"tradify/internal/journal"
	"tradify/internal/logger"
	"tradify/internal/store"
	"tradify/internal/store/sqlite"
	"tradify/internal/strategy"
	webhttp "tradify/internal/transport/http/web"
)

// AppBuilder assembles the application graph. The function fields exist so
// tests can swap a collaborator without standing up the real thing.
type AppBuilder struct {
	cfg *trcfg.Config

	storeFn      func(trcfg.DatabaseConfig) (store.Store, error)
	rateSourceFn func(trcfg.CurrencyConfig) currency.RateSource
	historyFn    func(trcfg.DatabaseConfig) (*currency.HistoryStore, error)
	presetsFn    func(trcfg.StrategyConfig) (*strategy.Registry, error)
	httpServerFn func(trcfg.AppConfig, webhttp.ServerConfig) (*webhttp.Server, error)
}

type AppBuilderOption func(*AppBuilder)

func NewAppBuilder(cfg *trcfg.Config, opts ...AppBuilderOption) *AppBuilder {
	b := &AppBuilder{
		cfg:          cfg,
		storeFn:      buildStore,
		rateSourceFn: buildRateSource,
		historyFn:    buildRateHistory,
		presetsFn:    buildPresets,
		httpServerFn: buildHTTPServer,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// WithStore overrides the persistence layer, used by tests.
func WithStore(st store.Store) AppBuilderOption {
	return func(b *AppBuilder) {
		b.storeFn = func(trcfg.DatabaseConfig) (store.Store, error) { return st, nil }
	}
}

// WithRateSource overrides the exchange-rate source, used by tests.
func WithRateSource(src currency.RateSource) AppBuilderOption {
	return func(b *AppBuilder) {
		b.rateSourceFn = func(trcfg.CurrencyConfig) currency.RateSource { return src }
	}
}

func buildStore(cfg trcfg.DatabaseConfig) (store.Store, error) {
	return sqlite.NewSqliteStore(cfg.Path)
}

func buildRateSource(cfg trcfg.CurrencyConfig) currency.RateSource {
	return currency.NewClient(cfg.APIKey)
}

func buildRateHistory(cfg trcfg.DatabaseConfig) (*currency.HistoryStore, error) {
	if cfg.RateHistoryPath == "" {
		return nil, nil
	}
	return currency.NewHistoryStore(cfg.RateHistoryPath)
}

func buildPresets(cfg trcfg.StrategyConfig) (*strategy.Registry, error) {
	if cfg.PresetsPath == "" {
		return nil, nil
	}
	return strategy.LoadRegistry(cfg.PresetsPath)
}

func buildHTTPServer(appCfg trcfg.AppConfig, cfg webhttp.ServerConfig) (*webhttp.Server, error) {
	cfg.Addr = appCfg.HTTPAddr
	return webhttp.NewServer(cfg)
}

// Build wires the full application from configuration.
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if b.cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	cfg := b.cfg
	logger.SetLevel(cfg.App.LogLevel)

	st, err := b.storeFn(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening store failed: %w", err)
	}

	authSvc := auth.NewService(st,
		time.Duration(cfg.Auth.SessionTTLHours)*time.Hour,
		cfg.Auth.BcryptCost,
	)
	journalSvc := journal.NewService(st)
	equitySvc := equity.NewService(st)

	history, err := b.historyFn(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening rate history failed: %w", err)
	}
	currencySvc := currency.NewService(cfg.Currency, b.rateSourceFn(cfg.Currency), history)

	presets, err := b.presetsFn(cfg.Strategy)
	if err != nil {
		return nil, fmt.Errorf("loading strategy presets failed: %w", err)
	}
	if presets != nil {
		journalSvc.SetStrategyValidator(presets)
	}

	serverCfg := webhttp.ServerConfig{
		Auth:     authSvc,
		Journal:  journalSvc,
		Equity:   equitySvc,
		Currency: currencySvc,
	}
	if presets != nil {
		serverCfg.Strategies = presets
	}
	httpServer, err := b.httpServerFn(cfg.App, serverCfg)
	if err != nil {
		return nil, fmt.Errorf("building http server failed: %w", err)
	}

	return &App{
		cfg:      cfg,
		store:    st,
		auth:     authSvc,
		journal:  journalSvc,
		currency: currencySvc,
		presets:  presets,
		http:     httpServer,
		Summary:  newStartupSummary(cfg, httpServer.Addr(), presets),
	}, nil
}
