package insights

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"go.uber.org/zap"

	"insightedge/backend/models"
)

// ErrQueryFailed is returned when insight generation panics.
var ErrQueryFailed = errors.New("failed to process query")

const recentRows = 10

// Generate dispatches to the generator for intent. Fields that lack enough
// values contribute nothing; the result is never nil.
func Generate(intent string, headers []string, rows []models.Row) []models.Insight {
	var out []models.Insight
	switch intent {
	case IntentRevenue:
		out = revenueInsights(headers, rows)
	case IntentCosts:
		out = costInsights(headers, rows)
	case IntentCustomers:
		out = customerInsights(headers, rows)
	case IntentTrend:
		out = trendInsights(headers, rows)
	case IntentPerformance:
		out = performanceInsights(headers, rows)
	default:
		out = generalInsights(headers, rows)
	}
	if out == nil {
		out = []models.Insight{}
	}
	return out
}

// ProcessQuery classifies query and generates insights and follow-up
// questions for it.
func ProcessQuery(logger *zap.Logger, query string, ds *models.Dataset) (res *models.QueryResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			if logger != nil {
				logger.Error("process natural language query", zap.Any("panic", r))
			}
			res, err = nil, ErrQueryFailed
		}
	}()

	var headers []string
	var rows []models.Row
	if ds != nil {
		headers, rows = ds.Headers, ds.Data
	}
	intent := Classify(query)
	return &models.QueryResult{
		Query:            query,
		Intent:           intent,
		Response:         Generate(intent, headers, rows),
		SuggestedQueries: SuggestedQueries(intent),
	}, nil
}

func tail(rows []models.Row, n int) []models.Row {
	if len(rows) > n {
		return rows[len(rows)-n:]
	}
	return rows
}

func head(rows []models.Row, n int) []models.Row {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

func confidence(v float64) *float64 { return &v }

func fixed(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func revenueInsights(headers []string, rows []models.Row) []models.Insight {
	fields := fieldsMatching(numericFields(headers, rows), "revenue", "sales", "income")
	if len(fields) == 0 {
		return nil
	}
	field := fields[0]
	values := fieldValues(rows, field)
	if len(values) <= 5 {
		return nil
	}
	trend := analyzeTrend(values)
	impact := "low"
	switch trend {
	case TrendDecreasing:
		impact = "high"
	case TrendIncreasing:
		impact = "medium"
	}
	return []models.Insight{{
		Type:          "trend",
		Title:         "Revenue Trend Analysis",
		Description:   fmt.Sprintf("%s is currently %s. Current value: %s, Average: %s", field, trend, fixed(values[len(values)-1], 2), fixed(mean(values), 2)),
		Confidence:    confidence(85),
		Impact:        impact,
		Category:      "revenue",
		Data:          tail(rows, recentRows),
		Visualization: "chart",
		Actionable:    true,
		ActionItems: []string{
			"Monitor revenue trends closely",
			"Analyze factors affecting revenue performance",
			"Consider revenue optimization strategies",
		},
	}}
}

func costInsights(headers []string, rows []models.Row) []models.Insight {
	fields := fieldsMatching(numericFields(headers, rows), "cost", "expense", "spending")
	if len(fields) == 0 {
		return nil
	}
	field := fields[0]
	values := fieldValues(rows, field)
	if len(values) <= 5 {
		return nil
	}
	trend := analyzeTrend(values)
	impact := "medium"
	if trend == TrendIncreasing {
		impact = "high"
	}
	return []models.Insight{{
		Type:          "trend",
		Title:         "Cost Analysis",
		Description:   fmt.Sprintf("%s is currently %s. Current value: %s, Average: %s", field, trend, fixed(values[len(values)-1], 2), fixed(mean(values), 2)),
		Confidence:    confidence(82),
		Impact:        impact,
		Category:      "costs",
		Data:          tail(rows, recentRows),
		Visualization: "chart",
		Actionable:    true,
		ActionItems: []string{
			"Review cost structure and identify optimization opportunities",
			"Implement cost control measures where necessary",
			"Monitor cost trends and their impact on profitability",
		},
	}}
}

func customerInsights(headers []string, rows []models.Row) []models.Insight {
	fields := fieldsMatching(numericFields(headers, rows), "customer", "user", "client")
	if len(fields) == 0 {
		return nil
	}
	field := fields[0]
	values := fieldValues(rows, field)
	if len(values) <= 3 {
		return nil
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return []models.Insight{{
		Type:          "trend",
		Title:         "Customer Analysis",
		Description:   fmt.Sprintf("Analyzing %s: Total customers: %s, Average: %s", field, fixed(total, 0), fixed(total/float64(len(values)), 1)),
		Confidence:    confidence(78),
		Impact:        "medium",
		Category:      "customers",
		Data:          tail(rows, recentRows),
		Visualization: "chart",
		Actionable:    true,
		ActionItems: []string{
			"Analyze customer acquisition and retention patterns",
			"Identify high-value customer segments",
			"Develop customer-focused strategies",
		},
	}}
}

func trendInsights(headers []string, rows []models.Row) []models.Insight {
	fields := numericFields(headers, rows)
	if len(fields) > 3 {
		fields = fields[:3]
	}
	var out []models.Insight
	for _, field := range fields {
		values := fieldValues(rows, field)
		if len(values) <= 3 {
			continue
		}
		rc := recentChange(values)
		impact := "low"
		switch {
		case math.Abs(rc) > 10:
			impact = "high"
		case math.Abs(rc) > 5:
			impact = "medium"
		}
		out = append(out, models.Insight{
			Type:          "trend",
			Title:         field + " Trend",
			Description:   fmt.Sprintf("%s is showing a %s trend with %s%% recent change", field, analyzeTrend(values), fixed(rc, 1)),
			Confidence:    confidence(75),
			Impact:        impact,
			Category:      categorizeField(field),
			Data:          tail(rows, recentRows),
			Visualization: "chart",
			Actionable:    true,
			ActionItems: []string{
				fmt.Sprintf("Monitor %s trends closely", field),
				"Investigate factors driving the trend",
				"Plan appropriate response strategies",
			},
		})
	}
	return out
}

func performanceInsights(headers []string, rows []models.Row) []models.Insight {
	fields := numericFields(headers, rows)
	if len(fields) == 0 {
		return nil
	}
	stable, volatile := 0, 0
	for _, field := range fields {
		values := fieldValues(rows, field)
		if len(values) == 0 {
			volatile++
			continue
		}
		avg := mean(values)
		var variance float64
		for _, v := range values {
			variance += (v - avg) * (v - avg)
		}
		variance /= float64(len(values))
		if variance < avg*0.1 {
			stable++
		} else {
			volatile++
		}
	}
	impact := "medium"
	if volatile > stable {
		impact = "high"
	}
	return []models.Insight{{
		Type:          "recommendation",
		Title:         "Performance Overview",
		Description:   fmt.Sprintf("Found %d stable metrics and %d volatile metrics in your data", stable, volatile),
		Confidence:    confidence(85),
		Impact:        impact,
		Category:      "operations",
		Data:          tail(rows, recentRows),
		Visualization: "metric",
		Actionable:    true,
		ActionItems: []string{
			"Focus on stabilizing volatile metrics",
			"Leverage stable metrics for consistent growth",
			"Implement performance monitoring systems",
		},
	}}
}

func generalInsights(headers []string, rows []models.Row) []models.Insight {
	totalFields := len(fieldNames(headers, rows))
	var quality float64
	if totalFields > 0 {
		quality = float64(len(numericFields(headers, rows))) / float64(totalFields)
	}
	impact := "medium"
	if quality > 0.5 {
		impact = "low"
	}
	return []models.Insight{{
		Type:  "recommendation",
		Title: "Data Quality Assessment",
		Description: fmt.Sprintf("Your dataset contains %d records with %d fields. %s%% of fields contain numeric data suitable for analysis.",
			len(rows), totalFields, fixed(quality*100, 0)),
		Confidence:    confidence(95),
		Impact:        impact,
		Category:      "operations",
		Data:          head(rows, 5),
		Visualization: "table",
		Actionable:    true,
		ActionItems: []string{
			"Ensure data consistency across all records",
			"Consider adding more quantitative metrics for deeper analysis",
			"Regular data quality audits recommended",
		},
	}}
}
