package ask

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"insightedge/backend/analysis"
	"insightedge/backend/models"
)

const (
	highWords = `highest|most|max|maximum|best|top|peak|biggest|largest`
	lowWords  = `lowest|least|min|minimum|worst|bottom|smallest`
)

var (
	// "which month had the highest sales", "what was the month with the lowest profit"
	questionPattern = regexp.MustCompile(`(?i)\b(?:which|what)(?:\s+\w+){0,3}?\s+months?\b(.*)$`)
	// "best month for revenue", "lowest sales month"
	leadPattern   = regexp.MustCompile(`(?i)^\W*(?:the\s+)?(` + highWords + `|` + lowWords + `)\s+(?:(sales|revenue|profits?)\s+)?months?\b(.*)$`)
	highPattern   = regexp.MustCompile(`(?i)\b(?:` + highWords + `)\b`)
	lowPattern    = regexp.MustCompile(`(?i)\b(?:` + lowWords + `)\b`)
	metricPattern = regexp.MustCompile(`(?i)\b(sales|revenue|profits?)\b`)
)

type extremeQuery struct {
	metric string // sales, revenue or profit
	high   bool
}

// parseExtremeQuery recognizes questions asking which month is highest or
// lowest for sales, revenue or profit. The month clause must come first,
// then the direction word, then the metric. When both directions appear
// the earlier word wins.
func parseExtremeQuery(query string) (extremeQuery, bool) {
	if m := leadPattern.FindStringSubmatch(query); m != nil {
		metric := m[2]
		if metric == "" {
			metric = metricPattern.FindString(m[3])
		}
		if metric == "" {
			return extremeQuery{}, false
		}
		return newExtremeQuery(metric, highPattern.MatchString(m[1])), true
	}

	m := questionPattern.FindStringSubmatch(query)
	if m == nil {
		return extremeQuery{}, false
	}
	tail := m[1]
	hi := highPattern.FindStringIndex(tail)
	lo := lowPattern.FindStringIndex(tail)
	if hi == nil && lo == nil {
		return extremeQuery{}, false
	}
	high := hi != nil && (lo == nil || hi[0] < lo[0])
	at := lo
	if high {
		at = hi
	}
	metric := metricPattern.FindString(tail[at[1]:])
	if metric == "" {
		return extremeQuery{}, false
	}
	return newExtremeQuery(metric, high), true
}

func newExtremeQuery(metric string, high bool) extremeQuery {
	q := extremeQuery{metric: strings.ToLower(metric), high: high}
	if strings.HasPrefix(q.metric, "profit") {
		q.metric = "profit"
	}
	return q
}

func (q extremeQuery) value(p models.ChartSeriesPoint) float64 {
	if q.metric == "profit" {
		return p.Profit
	}
	return p.Sales
}

// extremeMonthResponse answers q from the monthly series. Only months with
// data compete and the earliest month wins ties. Placeholder series are
// declined. The answer names the full month ("February"); the chart axis
// keeps the series labels.
func extremeMonthResponse(q extremeQuery, metrics *models.AnalyzedMetrics) (models.NormalizedAnalysisResponse, bool) {
	if metrics == nil || metrics.SeriesSynthesized {
		return models.NormalizedAnalysisResponse{}, false
	}
	best := -1
	for i, p := range metrics.ChartData {
		if p.Sales == 0 && p.Expenses == 0 && p.Profit == 0 {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		v, cur := q.value(p), q.value(metrics.ChartData[best])
		if (q.high && v > cur) || (!q.high && v < cur) {
			best = i
		}
	}
	if best < 0 {
		return models.NormalizedAnalysisResponse{}, false
	}

	direction, label := "highest", "Highest"
	if !q.high {
		direction, label = "lowest", "Lowest"
	}
	month := time.Month(best + 1).String()
	amount := analysis.FormatCurrency(q.value(metrics.ChartData[best]))
	metricTitle := strings.ToUpper(q.metric[:1]) + q.metric[1:]
	answer := fmt.Sprintf("%s has the %s %s (%s).", month, direction, q.metric, amount)

	return models.NormalizedAnalysisResponse{
		KPIs: []models.KPI{{
			Title: fmt.Sprintf("%s Monthly %s", label, metricTitle),
			Value: amount,
		}},
		Insights: []string{
			fmt.Sprintf("%s %s: %s recorded %s across the months in the dataset.", label, q.metric, month, amount),
		},
		Charts: []models.ChartSuggestion{{
			Type:  models.ChartBar,
			Title: metricTitle + " by Month",
			XAxis: "month",
			YAxis: []string{q.metric},
		}},
		Answer: &answer,
	}, true
}
