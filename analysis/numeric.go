package analysis

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	currencyStripper = strings.NewReplacer("$", "", "€", "", "£", "", "¥", "", ",", "")
	decimalPattern   = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
)

// ParseNumber strips currency symbols, thousands separators and whitespace
// from s and parses what is left as a decimal float.
func ParseNumber(s string) (float64, bool) {
	cleaned := strings.Join(strings.Fields(currencyStripper.Replace(s)), "")
	if !decimalPattern.MatchString(cleaned) {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CoerceNumber returns the parsed number for numeric strings. Every other
// value, including numbers, is returned unchanged.
func CoerceNumber(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if f, ok := ParseNumber(s); ok {
		return f
	}
	return v
}

// asNumber reports whether v already is a number.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

func isEmptyCell(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
