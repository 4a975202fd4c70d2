package routes

import (
	"github.com/gin-gonic/gin"

	"insightedge/backend/controllers"
	"insightedge/backend/middlewares"
)

func Register(r *gin.Engine, d *controllers.Deps) {
	api := r.Group("/api")
	{
		api.GET("/health", controllers.Health())
		api.GET("/ai/status", controllers.Status(d))

		priv := api.Group("/")
		priv.Use(middlewares.Auth(d.Cfg.JWTSecret))
		// Question answering, remote model first with local fallback
		priv.POST("ai/ask", controllers.Ask(d))
		priv.POST("ai/insights", controllers.Insights(d))
		priv.POST("ai/infer-metrics", controllers.InferMetrics(d))
		priv.GET("ai/history", controllers.History(d))
		// Dashboard metrics from JSON or an uploaded CSV/XLSX file
		priv.POST("data/analyze", controllers.Analyze(d))
		priv.POST("data/upload-analyze", controllers.UploadAnalyze(d))
	}
}

// NewRouter builds the engine with the standard middleware chain.
func NewRouter(d *controllers.Deps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = d.Cfg.MaxUploadBytes
	r.Use(
		middlewares.RequestID(),
		middlewares.Logging(d.Logger),
		middlewares.Recovery(d.Logger),
		middlewares.CORS(d.Cfg.CORSOrigins),
	)
	Register(r, d)
	return r
}
