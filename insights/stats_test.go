package insights

import (
	"math"
	"reflect"
	"testing"

	"insightedge/backend/models"
)

func TestToNumber(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{12.5, 12.5},
		{nil, 0},
		{"", 0},
		{"  42 ", 42},
		{"1e2", 100},
		{true, 1},
	}
	for _, tc := range cases {
		if got := toNumber(tc.in); got != tc.want {
			t.Errorf("toNumber(%#v) = %v, want %v", tc.in, got, tc.want)
		}
	}
	for _, in := range []any{"$1,000", "abc", map[string]any{}, []any{1.0}} {
		if got := toNumber(in); !math.IsNaN(got) {
			t.Errorf("toNumber(%#v) = %v, want NaN", in, got)
		}
	}
}

func TestAnalyzeTrend(t *testing.T) {
	cases := []struct {
		values []float64
		want   string
	}{
		{[]float64{1, 2}, TrendStable},
		{[]float64{100, 100, 120, 130}, TrendIncreasing},
		{[]float64{100, 100, 80, 70}, TrendDecreasing},
		{[]float64{100, 100, 103, 102}, TrendStable},
		{[]float64{-100, -100, -80, -80}, TrendIncreasing},
		{[]float64{10, 20, 30}, TrendIncreasing},
	}
	for _, tc := range cases {
		if got := analyzeTrend(tc.values); got != tc.want {
			t.Errorf("analyzeTrend(%v) = %q, want %q", tc.values, got, tc.want)
		}
	}
}

func TestRecentChange(t *testing.T) {
	if got := recentChange([]float64{100, 110}); math.Abs(got-10) > 1e-9 {
		t.Fatalf("expected 10%%, got %v", got)
	}
	if got := recentChange([]float64{0, 5}); got != 0 {
		t.Fatalf("expected 0 for zero base, got %v", got)
	}
}

func TestNumericFields(t *testing.T) {
	rows := []models.Row{{"name": "a", "sales": "10", "cost": 3.0, "note": nil}}
	got := numericFields([]string{"name", "sales", "missing", "cost", "note"}, rows)
	if want := []string{"sales", "cost", "note"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := numericFields(nil, nil); got != nil {
		t.Fatalf("expected no fields, got %v", got)
	}
}

func TestCategorizeField(t *testing.T) {
	cases := map[string]string{
		"Monthly Sales": "revenue",
		"Spending":      "costs",
		"Active Users":  "customers",
		"Ad Budget":     "marketing",
		"Headcount":     "marketing",
		"Units":         "operations",
	}
	for in, want := range cases {
		if got := categorizeField(in); got != want {
			t.Errorf("categorizeField(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCorrelation(t *testing.T) {
	rows := []models.Row{
		{"a": 1.0, "b": 2.0, "c": 10.0},
		{"a": 2.0, "b": 4.0, "c": 8.0},
		{"a": 3.0, "b": 6.0, "c": 6.0},
	}
	if got := Correlation(rows, "a", "b"); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected perfect correlation, got %v", got)
	}
	if got := Correlation(rows, "a", "c"); math.Abs(got+1) > 1e-9 {
		t.Fatalf("expected perfect negative correlation, got %v", got)
	}
	if got := Correlation(rows[:1], "a", "b"); got != 0 {
		t.Fatalf("expected 0 for a single row, got %v", got)
	}
	uneven := append([]models.Row{{"a": 4.0}}, rows...)
	if got := Correlation(uneven, "a", "b"); got != 0 {
		t.Fatalf("expected 0 for mismatched counts, got %v", got)
	}
	flat := []models.Row{{"a": 1.0, "b": 1.0}, {"a": 2.0, "b": 1.0}}
	if got := Correlation(flat, "a", "b"); got != 0 {
		t.Fatalf("expected 0 without variance, got %v", got)
	}
}
