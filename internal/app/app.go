package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"tradify/internal/auth"
	trcfg "tradify/internal/config"
	"tradify/internal/currency"
	"tradify/internal/journal"
	"tradify/internal/logger"
	"tradify/internal/store"
	"tradify/internal/strategy"
	webhttp "tradify/internal/transport/http/web"
)

const sessionPurgeInterval = time.Hour

// App owns application-level orchestration: config in, services wired,
// HTTP plus background loops running until shutdown.
type App struct {
	cfg      *trcfg.Config
	store    store.Store
	auth     *auth.Service
	journal  *journal.Service
	currency *currency.Service
	presets  *strategy.Registry
	http     *webhttp.Server
	Summary  *StartupSummary
}

// NewApp builds the application object without starting it.
func NewApp(cfg *trcfg.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(context.Background(), cfg)
}

// Run serves HTTP and the background loops until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.http == nil {
		return fmt.Errorf("http server not initialized")
	}
	if a.Summary != nil {
		a.Summary.Print()
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := a.http.Start(ctx); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	if a.currency != nil {
		group.Go(func() error {
			return a.currency.RunRefreshLoop(ctx)
		})
	}

	if a.presets != nil {
		group.Go(func() error {
			return a.presets.Watch(ctx)
		})
	}

	group.Go(func() error {
		ticker := time.NewTicker(sessionPurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				a.auth.PurgeExpiredSessions(ctx)
			}
		}
	})

	err := group.Wait()
	if closeErr := a.store.Close(); closeErr != nil {
		logger.Warnf("closing store failed: %v", closeErr)
	}
	return err
}

// Journal exposes the journal service, mainly for test harnesses.
func (a *App) Journal() *journal.Service {
	if a == nil {
		return nil
	}
	return a.journal
}
