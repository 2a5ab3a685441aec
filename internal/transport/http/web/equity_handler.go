package webhttp

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tradify/internal/equity"
)

func (r *Router) handleRecordEquity(c *gin.Context) {
	var in equity.TransactionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	tx, err := r.equity.Record(c.Request.Context(), currentUser(c).ID, in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

func (r *Router) handleListEquity(c *gin.Context) {
	txs, err := r.equity.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs, "count": len(txs)})
}

func (r *Router) handleEquityBalance(c *gin.Context) {
	balance, err := r.equity.Balance(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (r *Router) handleDeleteEquity(c *gin.Context) {
	err := r.equity.Delete(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, equity.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
