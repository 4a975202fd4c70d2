package analysis

import (
	"sort"
	"strings"

	"insightedge/backend/models"
)

// Keyword sets used to locate metric columns by header name.
var (
	RevenueKeywords  = []string{"revenue", "sales", "income", "amount"}
	ExpenseKeywords  = []string{"expense", "cost", "spending", "outlay"}
	ProfitKeywords   = []string{"profit", "net", "margin"}
	CustomerKeywords = []string{"customers", "clients", "orders", "transactions"}
	DateKeywords     = []string{"date", "created", "timestamp"}

	reportCustomerKeywords = []string{"customers", "clients", "orders"}
)

// FindColumns returns the headers containing any of keywords, in header
// order. A preferred column that matches a header case-insensitively wins
// outright. Without rows nothing matches.
func FindColumns(headers []string, rows []models.Row, keywords []string, preferred string) []string {
	if len(rows) == 0 {
		return nil
	}
	names := columnNames(headers, rows)
	if preferred != "" {
		for _, h := range names {
			if strings.EqualFold(h, preferred) {
				return []string{h}
			}
		}
	}
	var out []string
	for _, h := range names {
		lower := strings.ToLower(h)
		for _, k := range keywords {
			if strings.Contains(lower, strings.ToLower(k)) {
				out = append(out, h)
				break
			}
		}
	}
	return out
}

// columnNames falls back to the first row's keys when no header list was
// supplied.
func columnNames(headers []string, rows []models.Row) []string {
	if len(headers) > 0 {
		return headers
	}
	keys := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type columnSet struct {
	revenue   []string
	expenses  []string
	profit    []string
	customers []string
	dates     []string
}

func resolveColumns(headers []string, rows []models.Row, mapping *models.ColumnMapping) columnSet {
	var m models.ColumnMapping
	if mapping != nil {
		m = *mapping
	}
	return columnSet{
		revenue:   FindColumns(headers, rows, RevenueKeywords, m.Revenue),
		expenses:  FindColumns(headers, rows, ExpenseKeywords, m.Expenses),
		profit:    FindColumns(headers, rows, ProfitKeywords, m.Profit),
		customers: FindColumns(headers, rows, CustomerKeywords, ""),
		dates:     FindColumns(headers, rows, DateKeywords, m.Date),
	}
}

func sumColumns(rows []models.Row, cols []string) float64 {
	var total float64
	for _, row := range rows {
		total += rowSum(row, cols)
	}
	return total
}

func rowSum(row models.Row, cols []string) float64 {
	var sum float64
	for _, c := range cols {
		if n, ok := asNumber(row[c]); ok {
			sum += n
		}
	}
	return sum
}
