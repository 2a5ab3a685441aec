package webhttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tradify/internal/logger"
)

// Server hosts the journal API and the server-rendered dashboard.
type Server struct {
	addr   string
	router *gin.Engine
}

// ServerConfig describes the services the HTTP layer exposes.
type ServerConfig struct {
	Addr       string
	Auth       AuthService
	Journal    JournalService
	Equity     EquityService
	Currency   CurrencyService
	Strategies StrategySource
}

// NewServer builds the HTTP server and mounts all routes.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Auth == nil || cfg.Journal == nil {
		return nil, errors.New("http server requires auth and journal services")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8990"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := NewRouter(RouterConfig{
		Auth:       cfg.Auth,
		Journal:    cfg.Journal,
		Equity:     cfg.Equity,
		Currency:   cfg.Currency,
		Strategies: cfg.Strategies,
	})
	api.Register(router)

	return &Server{addr: cfg.Addr, router: router}, nil
}

// requestLogger records API calls for tracing manual operations.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		client := c.ClientIP()
		c.Next()
		dur := time.Since(start)
		status := c.Writer.Status()
		fullPath := path
		if query != "" {
			fullPath = path + "?" + query
		}
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s", method, fullPath, status, client, dur)
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Handler exposes the underlying router, mainly for tests.
func (s *Server) Handler() http.Handler {
	if s == nil {
		return nil
	}
	return s.router
}

// Start serves HTTP until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
