package webhttp

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tradify/internal/types"
)

const (
	ctxUserKey  = "tradify.user"
	ctxTokenKey = "tradify.token"
)

// Router mounts the journal API onto a gin engine.
type Router struct {
	auth       AuthService
	journal    JournalService
	equity     EquityService
	currency   CurrencyService
	strategies StrategySource
}

// RouterConfig carries the Router's service dependencies.
type RouterConfig struct {
	Auth       AuthService
	Journal    JournalService
	Equity     EquityService
	Currency   CurrencyService
	Strategies StrategySource
}

func NewRouter(cfg RouterConfig) *Router {
	return &Router{
		auth:       cfg.Auth,
		journal:    cfg.Journal,
		equity:     cfg.Equity,
		currency:   cfg.Currency,
		strategies: cfg.Strategies,
	}
}

// Register mounts public auth routes and the session-guarded API.
func (r *Router) Register(engine *gin.Engine) {
	if engine == nil {
		return
	}
	public := engine.Group("/api/auth")
	public.POST("/register", r.handleRegister)
	public.POST("/login", r.handleLogin)
	public.POST("/password-reset", r.handlePasswordResetRequest)
	public.POST("/reset", r.handleResetPassword)

	api := engine.Group("/api", r.requireAuth())
	api.POST("/auth/logout", r.handleLogout)
	api.GET("/auth/profile", r.handleProfile)
	api.PATCH("/auth/profile", r.handleUpdateProfile)

	api.GET("/trades", r.handleListTrades)
	api.POST("/trades", r.handleCreateTrade)
	api.POST("/trades/import", r.handleImportTrades)
	api.GET("/trades/last", r.handlePrefill)
	api.GET("/trades/:id", r.handleGetTrade)
	api.DELETE("/trades/:id", r.handleDeleteTrade)

	api.GET("/analytics", r.handleAnalytics)
	api.GET("/activity", r.handleActivity)

	if r.equity != nil {
		api.GET("/equity", r.handleListEquity)
		api.POST("/equity", r.handleRecordEquity)
		api.GET("/equity/balance", r.handleEquityBalance)
		api.DELETE("/equity/:id", r.handleDeleteEquity)
	}
	if r.strategies != nil {
		api.GET("/strategies", r.handleStrategies)
	}

	engine.GET("/dashboard", r.requireAuth(), r.handleDashboard)
}

// requireAuth resolves the session token from the Authorization header or,
// for browser-rendered pages, a token query parameter.
func (r *Router) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = strings.TrimSpace(c.Query("token"))
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}
		user, err := r.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session invalid or expired"})
			return
		}
		c.Set(ctxUserKey, user)
		c.Set(ctxTokenKey, token)
		c.Next()
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func currentUser(c *gin.Context) types.User {
	val, ok := c.Get(ctxUserKey)
	if !ok {
		return types.User{}
	}
	user, _ := val.(types.User)
	return user
}

func (r *Router) handleStrategies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"strategies": r.strategies.Presets()})
}
