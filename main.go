package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"insightedge/backend/analysis"
	"insightedge/backend/ask"
	"insightedge/backend/config"
	"insightedge/backend/controllers"
	"insightedge/backend/database"
	"insightedge/backend/mapping"
	"insightedge/backend/routes"
	"insightedge/backend/utils"
)

func main() {
	cfg := config.Load()
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	store := openStore(ctx, cfg, logger)
	defer store.Close()

	var gen ask.Generator
	var textModel mapping.TextModel
	if cfg.GeminiAPIKey != "" {
		client, err := utils.NewGeminiClient(ctx, utils.AIConfig{APIKey: cfg.GeminiAPIKey, Endpoint: cfg.GeminiEndpoint})
		if err != nil {
			logger.Warn("gemini client unavailable, answers stay local", zap.Error(err))
		} else {
			defer client.Close()
			gen, textModel = client, client
		}
	}

	engine := analysis.NewEngine(logger)
	deps := &controllers.Deps{
		Cfg:    cfg,
		Logger: logger,
		Engine: engine,
		Asker:  ask.New(ask.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel, Timeout: cfg.AITimeout}, gen, engine, logger),
		Mapper: mapping.NewInferrer(textModel, cfg.GeminiModel, cfg.AITimeout, store, logger),
		Store:  store,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := routes.NewRouter(deps)
	logger.Info("server starting", zap.String("port", cfg.Port), zap.Bool("remote_ai", deps.Asker.RemoteEnabled()))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// openStore uses Postgres when DATABASE_URL is set and memory otherwise.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) database.Store {
	if cfg.DatabaseURL == "" {
		logger.Info("DATABASE_URL not set, keeping history in memory")
		return database.NewMemoryStore()
	}
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connect", zap.Error(err))
	}
	if err := database.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("database schema", zap.Error(err))
	}
	return database.NewPgStore(pool)
}
