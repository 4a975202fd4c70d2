package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// ParseLenient decodes model output into v. Strict JSON is tried first,
// then a repaired copy, then Hjson.
func ParseLenient(input string, v any) error {
	text := stripFences(input)
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}
	if repaired, err := jsonrepair.RepairJSON(text); err == nil {
		if err := json.Unmarshal([]byte(repaired), v); err == nil {
			return nil
		}
	}
	var generic any
	if err := hjson.Unmarshal([]byte(text), &generic); err != nil {
		return fmt.Errorf("parse model output: %w", err)
	}
	b, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("parse model output: %w", err)
	}
	return json.Unmarshal(b, v)
}

func stripFences(s string) string {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(t, "```json")
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}
