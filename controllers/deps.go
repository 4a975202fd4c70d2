package controllers

import (
	"go.uber.org/zap"

	"insightedge/backend/analysis"
	"insightedge/backend/ask"
	"insightedge/backend/config"
	"insightedge/backend/database"
	"insightedge/backend/mapping"
)

// Deps are the shared services handlers are built from.
type Deps struct {
	Cfg    config.Config
	Logger *zap.Logger
	Engine *analysis.Engine
	Asker  *ask.Orchestrator
	Mapper *mapping.Inferrer
	Store  database.Store
}
