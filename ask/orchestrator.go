// Package ask answers dashboard questions. A remote model is tried first
// when configured; otherwise, or when it fails, the answer is computed
// locally from the dataset.
package ask

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"insightedge/backend/analysis"
	"insightedge/backend/insights"
	"insightedge/backend/models"
	"insightedge/backend/normalize"
)

// DefaultModel is retried once when a configured model fails.
const DefaultModel = "gemini-1.5-flash"

const defaultTimeout = 15 * time.Second

// ErrAssembly means the local answer could not be put together. It is the
// only error Ask returns.
var ErrAssembly = errors.New("failed to assemble local answer")

// Config selects the remote model. An empty APIKey keeps every request local.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Generator calls a remote text model and returns its decoded JSON reply.
type Generator interface {
	Generate(ctx context.Context, model, instruction, prompt string) (any, error)
}

// Outcome is an answer plus where it came from.
type Outcome struct {
	Response models.NormalizedAnalysisResponse
	Source   string
}

type Orchestrator struct {
	cfg    Config
	gen    Generator
	engine *analysis.Engine
	logger *zap.Logger
}

func New(cfg Config, gen Generator, engine *analysis.Engine, logger *zap.Logger) *Orchestrator {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = analysis.NewEngine(logger)
	}
	return &Orchestrator{cfg: cfg, gen: gen, engine: engine, logger: logger}
}

// RemoteEnabled reports whether questions go to the remote model first.
func (o *Orchestrator) RemoteEnabled() bool {
	return o.cfg.APIKey != "" && o.gen != nil
}

func (o *Orchestrator) Model() string { return o.cfg.Model }

// Ask answers query against ds. Remote failures are logged and never
// returned. A remote reply that normalizes to no KPIs, insights or charts
// and carries no answer is treated as a failure, so the question falls
// through to the month fast path and then the local answer.
func (o *Orchestrator) Ask(ctx context.Context, query string, ds *models.Dataset) (*Outcome, error) {
	capped := CapDataset(ds)
	var headers []string
	if capped != nil {
		headers = capped.Headers
	}

	if o.RemoteEnabled() {
		if resp, ok := o.askRemote(ctx, query, capped, headers); ok {
			return &Outcome{Response: resp, Source: models.SourceRemote}, nil
		}
	}

	metrics := o.analyze(capped)

	if q, ok := parseExtremeQuery(query); ok {
		if resp, ok := extremeMonthResponse(q, metrics); ok {
			return &Outcome{Response: resp, Source: models.SourceFastPath}, nil
		}
	}

	resp, err := o.local(query, capped, metrics)
	if err != nil {
		o.logger.Error("local ask fallback", zap.Error(err))
		return nil, err
	}
	return &Outcome{Response: resp, Source: models.SourceLocal}, nil
}

func (o *Orchestrator) askRemote(ctx context.Context, query string, capped *models.Dataset, headers []string) (models.NormalizedAnalysisResponse, bool) {
	prompt := BuildPrompt(query, capped)
	raw, err := o.generate(ctx, o.cfg.Model, prompt)
	if err != nil && o.cfg.Model != DefaultModel {
		o.logger.Warn("remote model failed, retrying default", zap.String("model", o.cfg.Model), zap.Error(err))
		raw, err = o.generate(ctx, DefaultModel, prompt)
	}
	if err != nil {
		o.logger.Warn("remote model failed, falling back to local", zap.Error(err))
		return models.NormalizedAnalysisResponse{}, false
	}

	resp := normalize.Normalize(raw, headers)
	if !normalize.Valid(resp) || (normalize.Empty(resp) && resp.Answer == nil) {
		o.logger.Warn("remote reply had no usable content, falling back to local")
		return models.NormalizedAnalysisResponse{}, false
	}
	return resp, true
}

func (o *Orchestrator) generate(ctx context.Context, model, prompt string) (raw any, err error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			raw, err = nil, fmt.Errorf("generator panic: %v", r)
		}
	}()
	return o.gen.Generate(ctx, model, Instruction, prompt)
}

func (o *Orchestrator) analyze(capped *models.Dataset) *models.AnalyzedMetrics {
	if capped == nil {
		return nil
	}
	metrics, err := o.engine.Analyze(*capped, nil)
	if err != nil {
		o.logger.Warn("dataset analysis failed during fallback", zap.Error(err))
		return nil
	}
	return metrics
}

func (o *Orchestrator) local(query string, capped *models.Dataset, metrics *models.AnalyzedMetrics) (models.NormalizedAnalysisResponse, error) {
	resp := models.NormalizedAnalysisResponse{
		KPIs:     []models.KPI{},
		Insights: []string{},
		Charts:   []models.ChartSuggestion{},
	}
	if metrics != nil {
		resp.KPIs = append(resp.KPIs, metrics.KPIs...)
		resp.Charts = synthesizeCharts(metrics.ChartData)
	}

	result, err := insights.ProcessQuery(o.logger, query, capped)
	if err != nil {
		return resp, fmt.Errorf("%w: %v", ErrAssembly, err)
	}
	for _, in := range result.Response {
		if in.Title != "" {
			resp.Insights = append(resp.Insights, in.Title+": "+in.Description)
		} else {
			resp.Insights = append(resp.Insights, in.Description)
		}
	}

	if !normalize.Valid(resp) {
		return resp, ErrAssembly
	}
	return resp, nil
}

// synthesizeCharts suggests one line chart per series metric.
func synthesizeCharts(series []models.ChartSeriesPoint) []models.ChartSuggestion {
	charts := []models.ChartSuggestion{}
	if len(series) == 0 {
		return charts
	}
	for _, metric := range []string{"revenue", "sales", "profit", "expenses"} {
		charts = append(charts, models.ChartSuggestion{
			Type:  models.ChartLine,
			Title: strings.ToUpper(metric[:1]) + metric[1:] + " over time",
			XAxis: "month",
			YAxis: []string{metric},
		})
	}
	return charts
}
