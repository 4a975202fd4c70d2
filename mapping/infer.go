// Package mapping decides which dataset columns hold revenue, expenses,
// profit and dates.
package mapping

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"

	"insightedge/backend/analysis"
	"insightedge/backend/database"
	"insightedge/backend/models"
	"insightedge/backend/utils"
)

// Where a mapping came from.
const (
	SourceModel     = "model"
	SourceHeuristic = "heuristic"
	SourceCache     = "cache"
)

const (
	DefaultSalesTitle  = "Monthly Sales"
	DefaultProfitTitle = "Profit Trend"

	maxSampleRows = 50
)

const prompt = `You are mapping dataset columns to business metrics for a dashboard.
Given headers and sample rows, pick best-fit columns for: revenue/sales, expenses/costs, and profit (if explicit).
Also propose two concise chart titles (<= 4 words) suitable for monthly time series: one for sales/revenue and one for profit.
If a date column exists, mention it. If no profit column, indicate profit should be computed as revenue - expenses.
Return strict JSON with keys: {
  "columns": { "revenue": string|null, "expenses": string|null, "profit": string|null, "date": string|null },
  "charts": { "salesTitle": string, "profitTitle": string }
}`

// TextModel produces a text reply for a prompt.
type TextModel interface {
	GenerateText(ctx context.Context, model string, parts ...genai.Part) (string, error)
}

// Cache stores mappings by header signature.
type Cache interface {
	GetMapping(ctx context.Context, signature string) (*models.MetricMapping, error)
	PutMapping(ctx context.Context, signature string, m models.MetricMapping) error
}

type Inferrer struct {
	model     TextModel
	modelName string
	timeout   time.Duration
	cache     Cache
	logger    *zap.Logger
}

// NewInferrer builds an Inferrer. A nil model keeps inference heuristic and
// a nil cache disables caching.
func NewInferrer(model TextModel, modelName string, timeout time.Duration, cache Cache, logger *zap.Logger) *Inferrer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Inferrer{model: model, modelName: modelName, timeout: timeout, cache: cache, logger: logger}
}

// Infer returns the cached mapping for this header layout, else asks the
// model, else falls back to keyword matching. It always returns a mapping.
func (i *Inferrer) Infer(ctx context.Context, headers []string, sample []models.Row) models.MetricMapping {
	sig := utils.HeaderSignature(headers)
	if i.cache != nil {
		cached, err := i.cache.GetMapping(ctx, sig)
		if err == nil {
			cached.Source = SourceCache
			return *cached
		}
		if !errors.Is(err, database.ErrNotFound) {
			i.logger.Warn("mapping cache lookup", zap.Error(err))
		}
	}

	m, err := i.fromModel(ctx, headers, sample)
	if err != nil {
		if i.model != nil {
			i.logger.Warn("metric inference failed, using heuristic", zap.Error(err))
		}
		m = Heuristic(headers, sample)
	}

	if i.cache != nil {
		if err := i.cache.PutMapping(ctx, sig, m); err != nil {
			i.logger.Warn("mapping cache store", zap.Error(err))
		}
	}
	return m
}

type reply struct {
	Columns struct {
		Revenue  *string `json:"revenue"`
		Expenses *string `json:"expenses"`
		Profit   *string `json:"profit"`
		Date     *string `json:"date"`
	} `json:"columns"`
	Charts struct {
		SalesTitle  string `json:"salesTitle"`
		ProfitTitle string `json:"profitTitle"`
	} `json:"charts"`
}

var (
	errNoModel    = errors.New("no model configured")
	errEmptyReply = errors.New("model named no columns")
)

func (i *Inferrer) fromModel(ctx context.Context, headers []string, sample []models.Row) (models.MetricMapping, error) {
	var m models.MetricMapping
	if i.model == nil {
		return m, errNoModel
	}
	if len(sample) > maxSampleRows {
		sample = sample[:maxSampleRows]
	}
	body := fmt.Sprintf("%s\n\nHeaders: %s\nSample: %s", prompt, compact(headers), compact(sample))

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	text, err := i.model.GenerateText(ctx, i.modelName, genai.Text(body))
	if err != nil {
		return m, fmt.Errorf("generate mapping: %w", err)
	}
	var r reply
	if err := utils.ParseLenient(text, &r); err != nil {
		return m, err
	}
	if r.Columns.Revenue == nil && r.Columns.Expenses == nil && r.Columns.Profit == nil && r.Columns.Date == nil {
		return m, errEmptyReply
	}

	m.Columns.Revenue = matchHeader(headers, r.Columns.Revenue)
	m.Columns.Expenses = matchHeader(headers, r.Columns.Expenses)
	m.Columns.Profit = matchHeader(headers, r.Columns.Profit)
	m.Columns.Date = matchHeader(headers, r.Columns.Date)
	m.Charts.SalesTitle = orDefault(r.Charts.SalesTitle, DefaultSalesTitle)
	m.Charts.ProfitTitle = orDefault(r.Charts.ProfitTitle, DefaultProfitTitle)
	m.Source = SourceModel
	return m, nil
}

// Heuristic maps each metric to the first header matching its keywords.
func Heuristic(headers []string, sample []models.Row) models.MetricMapping {
	if len(sample) == 0 {
		sample = []models.Row{{}}
	}
	pick := func(keywords []string) *string {
		cols := analysis.FindColumns(headers, sample, keywords, "")
		if len(cols) == 0 {
			return nil
		}
		return &cols[0]
	}
	var m models.MetricMapping
	m.Columns.Revenue = pick(analysis.RevenueKeywords)
	m.Columns.Expenses = pick(analysis.ExpenseKeywords)
	m.Columns.Profit = pick(analysis.ProfitKeywords)
	m.Columns.Date = pick(analysis.DateKeywords)
	m.Charts.SalesTitle = DefaultSalesTitle
	m.Charts.ProfitTitle = DefaultProfitTitle
	m.Source = SourceHeuristic
	return m
}

// matchHeader returns the real header the model named, ignoring case.
// Names that are not headers are dropped.
func matchHeader(headers []string, name *string) *string {
	if name == nil {
		return nil
	}
	want := strings.TrimSpace(*name)
	for i := range headers {
		if strings.EqualFold(headers[i], want) {
			return &headers[i]
		}
	}
	return nil
}

func orDefault(s, def string) string {
	if t := strings.TrimSpace(s); t != "" {
		return t
	}
	return def
}
