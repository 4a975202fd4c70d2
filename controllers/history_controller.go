package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"insightedge/backend/database"
)

var errBadLimit = errors.New("limit must be a positive integer")

// History lists recent ask outcomes, newest first.
func History(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := database.DefaultHistoryLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": errBadLimit.Error()})
				return
			}
			limit = database.ClampLimit(n)
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		items, err := d.Store.ListAsks(ctx, limit)
		if err != nil {
			d.Logger.Error("list ask history", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit})
	}
}
