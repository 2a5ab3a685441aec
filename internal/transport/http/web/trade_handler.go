package webhttp

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tradify/internal/currency"
	"tradify/internal/journal"
	"tradify/internal/logger"
)

// displayConversion resolves the currency code and rate an analytics
// response should be rendered in. Without ?converted=1 (or without a rate
// service at all) values stay in the base currency.
func (r *Router) displayConversion(c *gin.Context) (string, float64) {
	if r.currency == nil {
		return "USD", 1
	}
	base, display := r.currency.Pair()
	converted := strings.TrimSpace(c.Query("converted"))
	if converted == "" || converted == "0" || strings.EqualFold(converted, "false") {
		return base, 1
	}
	return display, r.currency.Rate(c.Request.Context())
}

func (r *Router) handleCreateTrade(c *gin.Context) {
	var in journal.TradeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	trade, err := r.journal.CreateTrade(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"trade": trade})
}

func (r *Router) handleListTrades(c *gin.Context) {
	trades, err := r.journal.ListTrades(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		logger.Errorf("[api] trade list failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trades": trades, "count": len(trades)})
}

func (r *Router) handleGetTrade(c *gin.Context) {
	trade, err := r.journal.GetTrade(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, journal.ErrTradeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trade": trade})
}

func (r *Router) handleDeleteTrade(c *gin.Context) {
	err := r.journal.DeleteTrade(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, journal.ErrTradeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Router) handleImportTrades(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading request body failed"})
		return
	}
	result, err := r.journal.ImportTrades(c.Request.Context(), currentUser(c).ID, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": result.Imported, "tickers": result.Tickers})
}

// handlePrefill serves the ticker-blur lookup on the entry form.
func (r *Router) handlePrefill(c *gin.Context) {
	ticker := strings.TrimSpace(c.Query("ticker"))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticker query parameter required"})
		return
	}
	prefill, err := r.journal.LastTradeByTicker(c.Request.Context(), currentUser(c).ID, ticker)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, prefill)
}

// handleAnalytics returns the user's summary snapshot, optionally converted
// into the configured display currency with ?converted=1.
func (r *Router) handleAnalytics(c *gin.Context) {
	summary, err := r.journal.Summary(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		logger.Errorf("[api] analytics failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	code, rate := r.displayConversion(c)
	if rate != 1 {
		summary = currency.ConvertSummary(summary, rate)
	}
	c.JSON(http.StatusOK, summaryToDTO(summary, code, rate))
}

func (r *Router) handleActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	entries, err := r.journal.ActivityLog(c.Request.Context(), currentUser(c).ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": activityToDTO(entries)})
}
