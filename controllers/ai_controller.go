package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"insightedge/backend/insights"
	"insightedge/backend/models"
)

// Ask answers a dashboard question. Remote model failures never surface;
// only a failed local answer is a 500.
func Ask(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body", "details": err.Error()})
			return
		}

		out, err := d.Asker.Ask(c.Request.Context(), *req.Query, req.Dataset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		recordAsk(d, *req.Query, out.Source, out.Response)
		c.JSON(http.StatusOK, out.Response)
	}
}

func recordAsk(d *Deps, query, source string, resp models.NormalizedAnalysisResponse) {
	if d.Store == nil {
		return
	}
	rec := models.AskRecord{
		ID:           uuid.NewString(),
		Query:        query,
		Source:       source,
		KPICount:     len(resp.KPIs),
		InsightCount: len(resp.Insights),
		ChartCount:   len(resp.Charts),
		CreatedAt:    time.Now().UTC(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := d.Store.SaveAsk(ctx, rec); err != nil {
		d.Logger.Warn("record ask", zap.String("id", rec.ID), zap.Error(err))
	}
}

// Status reports whether the remote model is configured.
func Status(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"enabled": d.Asker.RemoteEnabled(), "model": d.Asker.Model()})
	}
}

// Insights runs the local intent classifier and insight generators.
func Insights(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.InsightsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body", "details": err.Error()})
			return
		}
		res, err := insights.ProcessQuery(d.Logger, *req.Query, req.Dataset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// InferMetrics maps dataset columns to revenue, expenses, profit and date.
func InferMetrics(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.InferMetricsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, d.Mapper.Infer(c.Request.Context(), req.Headers, req.SampleRows))
	}
}
