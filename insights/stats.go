package insights

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"insightedge/backend/models"
)

// Trend labels produced by analyzeTrend.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

var plainNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// toNumber converts a cell the loose way a spreadsheet formula would: null
// and blank strings are zero, booleans are 0 or 1, and anything that is not
// a plain decimal is NaN.
func toNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(n)
		switch s {
		case "":
			return 0
		case "Infinity", "+Infinity":
			return math.Inf(1)
		case "-Infinity":
			return math.Inf(-1)
		}
		if !plainNumber.MatchString(s) {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

// fieldValues collects the numeric values of field across rows. Rows
// without the field are skipped.
func fieldValues(rows []models.Row, field string) []float64 {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		v, ok := row[field]
		if !ok {
			continue
		}
		if f := toNumber(v); !math.IsNaN(f) {
			values = append(values, f)
		}
	}
	return values
}

// fieldNames lists the first row's fields, in header order when headers are
// given.
func fieldNames(headers []string, rows []models.Row) []string {
	if len(rows) == 0 {
		return nil
	}
	first := rows[0]
	if len(headers) == 0 {
		keys := make([]string, 0, len(first))
		for k := range first {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	}
	var out []string
	for _, h := range headers {
		if _, ok := first[h]; ok {
			out = append(out, h)
		}
	}
	return out
}

// numericFields returns the fields whose value in the first row reads as a
// number.
func numericFields(headers []string, rows []models.Row) []string {
	var out []string
	for _, f := range fieldNames(headers, rows) {
		if !math.IsNaN(toNumber(rows[0][f])) {
			out = append(out, f)
		}
	}
	return out
}

func fieldsMatching(fields []string, keywords ...string) []string {
	var out []string
	for _, f := range fields {
		if containsAny(strings.ToLower(f), keywords) {
			out = append(out, f)
		}
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// analyzeTrend compares the mean of the first half of the values with the
// mean of the second half. Differences within 5% of the first-half mean are
// stable.
func analyzeTrend(values []float64) string {
	if len(values) < 3 {
		return TrendStable
	}
	half := len(values) / 2
	first, second := mean(values[:half]), mean(values[half:])
	change := second - first
	threshold := math.Abs(first) * 0.05
	switch {
	case change > threshold:
		return TrendIncreasing
	case change < -threshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// recentChange is the percent change between the last two values, or zero
// when the earlier one is zero.
func recentChange(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	prev, last := values[len(values)-2], values[len(values)-1]
	if prev == 0 {
		return 0
	}
	return (last - prev) / prev * 100
}

func categorizeField(field string) string {
	lower := strings.ToLower(field)
	switch {
	case containsAny(lower, []string{"revenue", "sales", "income"}):
		return "revenue"
	case containsAny(lower, []string{"cost", "expense", "spending"}):
		return "costs"
	case containsAny(lower, []string{"customer", "client", "user"}):
		return "customers"
	case containsAny(lower, []string{"marketing", "campaign", "ad"}):
		return "marketing"
	default:
		return "operations"
	}
}

// Correlation returns the Pearson coefficient of fields a and b. It is zero
// when the two fields have a different number of values, fewer than two
// values, or no variance.
func Correlation(rows []models.Row, a, b string) float64 {
	xs, ys := fieldValues(rows, a), fieldValues(rows, b)
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}
	n := float64(len(xs))
	var sx, sy, sxx, syy, sxy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxx += xs[i] * xs[i]
		syy += ys[i] * ys[i]
		sxy += xs[i] * ys[i]
	}
	den := math.Sqrt((n*sxx - sx*sx) * (n*syy - sy*sy))
	if den == 0 || math.IsNaN(den) {
		return 0
	}
	return (n*sxy - sx*sy) / den
}
