package analysis

import (
	"reflect"
	"testing"

	"insightedge/backend/models"
)

func TestFindColumns(t *testing.T) {
	headers := []string{"Date", "Gross Sales", "Revenue Adj", "Cost", "Region"}
	rows := []models.Row{{"Date": "2024-01-01", "Gross Sales": 1.0, "Revenue Adj": 2.0, "Cost": 3.0, "Region": "EU"}}

	got := FindColumns(headers, rows, RevenueKeywords, "")
	if want := []string{"Gross Sales", "Revenue Adj"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("keyword match: got %v, want %v", got, want)
	}

	got = FindColumns(headers, rows, RevenueKeywords, "region")
	if want := []string{"Region"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("preferred column: got %v, want %v", got, want)
	}

	got = FindColumns(headers, rows, RevenueKeywords, "missing")
	if len(got) != 2 {
		t.Fatalf("unknown preferred column should fall back to keywords, got %v", got)
	}

	if got := FindColumns(headers, nil, RevenueKeywords, "Region"); len(got) != 0 {
		t.Fatalf("expected no columns without rows, got %v", got)
	}

	if got := FindColumns(headers, rows, []string{"profit"}, ""); len(got) != 0 {
		t.Fatalf("expected no match, got %v", got)
	}
}

func TestFindColumnsWithoutHeaders(t *testing.T) {
	rows := []models.Row{{"sales": 1.0, "amount": 2.0, "name": "x"}}
	got := FindColumns(nil, rows, RevenueKeywords, "")
	if want := []string{"amount", "sales"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
