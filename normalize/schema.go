package normalize

import (
	"insightedge/backend/models"
)

var (
	validTrends = map[string]bool{
		models.TrendUp:     true,
		models.TrendDown:   true,
		models.TrendStable: true,
	}
	validChartTypes = map[string]bool{
		models.ChartLine:    true,
		models.ChartBar:     true,
		models.ChartPie:     true,
		models.ChartScatter: true,
	}
)

// decodeStrict accepts raw only when it already has the response shape:
// the three arrays present with correctly typed members, optional fields
// either absent or of the right type. Unknown keys are ignored.
func decodeStrict(raw any) (models.NormalizedAnalysisResponse, bool) {
	var out models.NormalizedAnalysisResponse
	obj, ok := raw.(map[string]any)
	if !ok {
		return out, false
	}

	kpis, ok := obj["kpis"].([]any)
	if !ok {
		return out, false
	}
	out.KPIs = make([]models.KPI, 0, len(kpis))
	for _, item := range kpis {
		k, ok := strictKPI(item)
		if !ok {
			return out, false
		}
		out.KPIs = append(out.KPIs, k)
	}

	insights, ok := obj["insights"].([]any)
	if !ok {
		return out, false
	}
	out.Insights = make([]string, 0, len(insights))
	for _, item := range insights {
		s, ok := item.(string)
		if !ok {
			return out, false
		}
		out.Insights = append(out.Insights, s)
	}

	charts, ok := obj["charts"].([]any)
	if !ok {
		return out, false
	}
	out.Charts = make([]models.ChartSuggestion, 0, len(charts))
	for _, item := range charts {
		c, ok := strictChart(item)
		if !ok {
			return out, false
		}
		out.Charts = append(out.Charts, c)
	}

	if v, present := obj["answer"]; present {
		s, ok := v.(string)
		if !ok {
			return out, false
		}
		out.Answer = &s
	}
	return out, true
}

func strictKPI(item any) (models.KPI, bool) {
	var k models.KPI
	m, ok := item.(map[string]any)
	if !ok {
		return k, false
	}
	if k.Title, ok = m["title"].(string); !ok {
		return k, false
	}
	if k.Value, ok = m["value"].(string); !ok {
		return k, false
	}
	if v, present := m["change"]; present {
		s, ok := v.(string)
		if !ok {
			return k, false
		}
		k.Change = &s
	}
	if v, present := m["trend"]; present {
		s, ok := v.(string)
		if !ok || !validTrends[s] {
			return k, false
		}
		k.Trend = &s
	}
	if v, present := m["previousValue"]; present {
		f, ok := v.(float64)
		if !ok {
			return k, false
		}
		k.PreviousValue = &f
	}
	return k, true
}

func strictChart(item any) (models.ChartSuggestion, bool) {
	var c models.ChartSuggestion
	m, ok := item.(map[string]any)
	if !ok {
		return c, false
	}
	if c.Type, ok = m["type"].(string); !ok || !validChartTypes[c.Type] {
		return c, false
	}
	if c.Title, ok = m["title"].(string); !ok {
		return c, false
	}
	if c.XAxis, ok = m["xAxis"].(string); !ok {
		return c, false
	}
	ys, ok := m["yAxis"].([]any)
	if !ok {
		return c, false
	}
	c.YAxis = make([]string, 0, len(ys))
	for _, y := range ys {
		s, ok := y.(string)
		if !ok {
			return c, false
		}
		c.YAxis = append(c.YAxis, s)
	}
	return c, true
}

// Valid reports whether resp satisfies the response contract.
func Valid(resp models.NormalizedAnalysisResponse) bool {
	if resp.KPIs == nil || resp.Insights == nil || resp.Charts == nil {
		return false
	}
	for _, k := range resp.KPIs {
		if k.Trend != nil && !validTrends[*k.Trend] {
			return false
		}
	}
	for _, c := range resp.Charts {
		if !validChartTypes[c.Type] || c.YAxis == nil {
			return false
		}
	}
	return true
}

// Empty reports whether resp carries no KPIs, insights or charts.
func Empty(resp models.NormalizedAnalysisResponse) bool {
	return len(resp.KPIs) == 0 && len(resp.Insights) == 0 && len(resp.Charts) == 0
}
