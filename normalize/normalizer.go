// Package normalize coerces loosely shaped model replies into the
// dashboard's analysis response.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"insightedge/backend/models"
)

// Normalize turns raw, a decoded JSON value or a string, into a valid
// response. headers feed chart axis defaults. It never fails: input it
// cannot make sense of yields empty arrays with raw attached.
func Normalize(raw any, headers []string) (resp models.NormalizedAnalysisResponse) {
	defer func() {
		if r := recover(); r != nil {
			resp = emptyResponse(raw)
		}
	}()

	if direct, ok := decodeStrict(raw); ok {
		direct.Raw = raw
		return direct
	}

	candidate := coerceFields(mergeAnswer(raw), headers)
	if Empty(candidate) {
		if found, ok := fromText(raw, headers); ok {
			candidate.KPIs, candidate.Insights, candidate.Charts = found.KPIs, found.Insights, found.Charts
			if candidate.Answer == nil {
				candidate.Answer = found.Answer
			}
		}
	}

	candidate.Raw = raw
	if !Valid(candidate) {
		return emptyResponse(raw)
	}
	return candidate
}

func emptyResponse(raw any) models.NormalizedAnalysisResponse {
	return models.NormalizedAnalysisResponse{
		KPIs:     []models.KPI{},
		Insights: []string{},
		Charts:   []models.ChartSuggestion{},
		Raw:      raw,
	}
}

// mergeAnswer overlays a JSON object embedded in raw.answer onto a copy of
// raw. An answer that was nothing but that JSON is dropped unless the
// object brings its own.
func mergeAnswer(raw any) map[string]any {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	answer, ok := obj["answer"].(string)
	if !ok {
		return obj
	}
	embedded, direct, ok := extractObject(answer)
	if !ok {
		return obj
	}
	merged := make(map[string]any, len(obj)+len(embedded))
	for k, v := range obj {
		merged[k] = v
	}
	if direct {
		delete(merged, "answer")
	}
	for k, v := range embedded {
		merged[k] = v
	}
	return merged
}

// fromText looks for a JSON object carrying kpis, insights or charts in the
// reply's text fields. The first one found wins.
func fromText(raw any, headers []string) (models.NormalizedAnalysisResponse, bool) {
	for _, text := range textSources(raw) {
		obj, _, ok := extractObject(text)
		if !ok {
			continue
		}
		if !hasAnyKey(obj, "kpis", "insights", "charts") {
			continue
		}
		return coerceFields(obj, headers), true
	}
	return models.NormalizedAnalysisResponse{}, false
}

func hasAnyKey(obj map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

func coerceFields(obj map[string]any, headers []string) models.NormalizedAnalysisResponse {
	out := models.NormalizedAnalysisResponse{
		KPIs:     coerceKPIs(obj["kpis"]),
		Insights: coerceInsights(obj["insights"]),
		Charts:   coerceCharts(firstTruthy(obj, "charts", "suggestedCharts", "suggested_charts"), headers),
	}
	if s, ok := obj["answer"].(string); ok {
		out.Answer = &s
	}
	return out
}

func coerceInsights(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
			continue
		}
		if m, ok := item.(map[string]any); ok {
			if s := nonEmptyString(m["description"]); s != "" {
				out = append(out, s)
				continue
			}
			if s := nonEmptyString(m["title"]); s != "" {
				out = append(out, s)
				continue
			}
		}
		out = append(out, stringify(item))
	}
	return out
}

func coerceKPIs(v any) []models.KPI {
	items, _ := v.([]any)
	out := make([]models.KPI, 0, len(items))
	for _, item := range items {
		// Non-object entries keep the default title and value.
		m, _ := item.(map[string]any)
		k := models.KPI{Title: "KPI", Value: "N/A"}
		if s := nonEmptyString(m["title"]); s != "" {
			k.Title = s
		} else if s := nonEmptyString(m["name"]); s != "" {
			k.Title = s
		}
		if val, present := m["value"]; present && val != nil {
			k.Value = textOf(val)
		}
		if truthy(m["change"]) {
			change := textOf(m["change"])
			k.Change = &change
		}
		if s, ok := m["trend"].(string); ok && validTrends[s] {
			k.Trend = &s
		}
		if f, ok := m["previousValue"].(float64); ok {
			k.PreviousValue = &f
		}
		out = append(out, k)
	}
	return out
}

func coerceCharts(v any, headers []string) []models.ChartSuggestion {
	items, _ := v.([]any)
	out := make([]models.ChartSuggestion, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		c := models.ChartSuggestion{Type: models.ChartLine, Title: "Suggested Chart"}
		if s, ok := m["type"].(string); ok && validChartTypes[s] {
			c.Type = s
		}
		if s := nonEmptyString(m["title"]); s != "" {
			c.Title = s
		} else if s := nonEmptyString(m["name"]); s != "" {
			c.Title = s
		}
		switch {
		case nonEmptyString(m["xAxis"]) != "":
			c.XAxis = nonEmptyString(m["xAxis"])
		case nonEmptyString(m["x"]) != "":
			c.XAxis = nonEmptyString(m["x"])
		case len(headers) > 0:
			c.XAxis = headers[0]
		}
		if ys, ok := m["yAxis"].([]any); ok {
			c.YAxis = make([]string, 0, len(ys))
			for _, y := range ys {
				c.YAxis = append(c.YAxis, textOf(y))
			}
		} else if y := nonEmptyString(m["y"]); y != "" {
			c.YAxis = []string{y}
		} else {
			c.YAxis = []string{}
			if len(headers) > 1 {
				c.YAxis = append(c.YAxis, headers[1])
			}
		}
		out = append(out, c)
	}
	return out
}

// firstTruthy returns the first of keys whose value is set and truthy.
func firstTruthy(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v := obj[k]; truthy(v) {
			return v
		}
	}
	return nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	}
	return true
}

func nonEmptyString(v any) string {
	s, _ := v.(string)
	return s
}

// textOf renders a scalar the way it would print in a template string.
func textOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return "null"
	}
	return stringify(v)
}

func stringify(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
