package ask

import (
	"bytes"
	"encoding/json"
	"strings"

	"insightedge/backend/models"
)

// Instruction is sent ahead of every question. Its JSON contract is part of
// the public behavior of the ask endpoint.
const Instruction = `You are an analytics copilot for a business dashboard.
You are given a user question and an optional dataset (headers + sample rows).
If the question can be answered from the dataset, use it and be specific; otherwise provide a helpful general answer.
CRITICAL: Respond ONLY as a single JSON object containing kpis (array), insights (array of strings), and charts (array of chart suggestions).
Example structure (values are illustrative only; do NOT copy them—compute from the dataset or provide reasonable estimates when needed):
{
  "kpis": [{"title":"Total Revenue","value":"$<number>","change":"+<percent>%","trend":"up"}],
  "insights": ["Revenue increased in Q3 due to ..."],
  "charts": [{"type":"line","title":"Revenue over time","xAxis":"date","yAxis":["revenue"]}]
}
Do not include markdown fences or extra commentary. Keep responses concise.`

// BuildPrompt renders the question and, when present, the capped dataset.
func BuildPrompt(query string, ds *models.Dataset) string {
	lines := []string{"Question: " + query}
	if ds != nil {
		lines = append(lines,
			"Dataset headers: "+compactJSON(ds.Headers),
			"Sample rows (capped): "+compactJSON(ds.Data),
		)
	}
	return strings.Join(lines, "\n")
}

func compactJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "null"
	}
	return strings.TrimSpace(buf.String())
}
