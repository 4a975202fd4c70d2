package controllers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"insightedge/backend/models"
	"insightedge/backend/utils"
)

// Analyze runs the metrics engine over a posted dataset.
func Analyze(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body", "details": err.Error()})
			return
		}
		out, err := d.Engine.Analyze(req.Dataset, req.ColumnMapping)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// UploadAnalyze parses an uploaded CSV/XLSX file, infers its column mapping
// and analyzes it.
func UploadAnalyze(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing file (field 'file')"})
			return
		}
		defer file.Close()

		if d.Cfg.MaxUploadBytes > 0 && header.Size > d.Cfg.MaxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		buf, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
			return
		}

		ds, err := utils.ReadTable(buf, strings.ToLower(filepath.Ext(header.Filename)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		m := d.Mapper.Infer(c.Request.Context(), ds.Headers, ds.Data)
		cm := m.ColumnMapping()
		out, err := d.Engine.Analyze(ds, &cm)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"filename": header.Filename,
			"headers":  ds.Headers,
			"rowCount": len(ds.Data),
			"mapping":  m,
			"analysis": out,
		})
	}
}

// Health is a liveness probe.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
