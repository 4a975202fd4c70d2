package normalize

import (
	"encoding/json"
	"strings"
)

// ExtractJSON finds a JSON value in free text. The whole text is tried
// first, then the span from the first '{' to the last '}'. direct reports
// whether the whole text parsed.
func ExtractJSON(text string) (v any, direct bool, ok bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false, false
	}
	if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
		return v, true, true
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return nil, false, false
	}
	v = nil
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &v); err != nil {
		return nil, false, false
	}
	return v, false, true
}

// extractObject is ExtractJSON restricted to JSON objects.
func extractObject(text string) (map[string]any, bool, bool) {
	v, direct, ok := ExtractJSON(text)
	if !ok {
		return nil, false, false
	}
	obj, isObj := v.(map[string]any)
	return obj, direct, isObj
}

// textSources lists the places a model reply may carry its text, in the
// order they are tried.
func textSources(raw any) []string {
	if s, ok := raw.(string); ok {
		return []string{s}
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	var out []string
	for _, key := range []string{"text", "content"} {
		if s, ok := obj[key].(string); ok {
			out = append(out, s)
		}
	}
	candidates, _ := obj["candidates"].([]any)
	for _, c := range candidates {
		if s, ok := candidateText(c); ok {
			out = append(out, s)
		}
	}
	return out
}

// candidateText reads candidates[i].content.parts[0].text.
func candidateText(c any) (string, bool) {
	cand, ok := c.(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := cand["content"].(map[string]any)
	if !ok {
		return "", false
	}
	parts, ok := content["parts"].([]any)
	if !ok || len(parts) == 0 {
		return "", false
	}
	part, ok := parts[0].(map[string]any)
	if !ok {
		return "", false
	}
	s, ok := part["text"].(string)
	return s, ok
}
