package analysis

import (
	"math"

	"insightedge/backend/models"
)

// MonthLabels is the fixed calendar order of every chart series.
var MonthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

const (
	// placeholderBase is the annual revenue assumed by the placeholder trend
	// when the dataset has no revenue at all.
	placeholderBase         = 600000
	placeholderExpenseRatio = 0.65
)

type monthBucket struct {
	sales, expenses, profit float64
}

// BuildMonthlySeries returns exactly twelve points, Jan through Dec.
//
// With a date column, rows are bucketed by month of year across all years;
// rows whose date does not parse are skipped and empty months stay at zero.
// Profit comes from the profit columns when present, otherwise revenue minus
// expenses.
//
// Without a date column the series is a placeholder: a sinusoidal spread of
// total revenue with expenses fixed at 65% of sales. It is a display
// heuristic, not a forecast. The second return value reports this case.
func BuildMonthlySeries(rows []models.Row, revenueCols, expenseCols, profitCols, dateCols []string) ([]models.ChartSeriesPoint, bool) {
	var buckets [12]monthBucket
	synthesized := len(dateCols) == 0

	if !synthesized {
		dateCol := dateCols[0]
		for _, row := range rows {
			t, ok := ParseDate(row[dateCol])
			if !ok {
				continue
			}
			rev := rowSum(row, revenueCols)
			exp := rowSum(row, expenseCols)
			prof := rev - exp
			if len(profitCols) > 0 {
				prof = rowSum(row, profitCols)
			}
			b := &buckets[int(t.Month())-1]
			b.sales += rev
			b.expenses += exp
			b.profit += prof
		}
	} else {
		base := sumColumns(rows, revenueCols)
		if base == 0 {
			base = placeholderBase
		}
		for i := range buckets {
			factor := 0.9 + math.Sin(float64(i)/12*math.Pi*2)*0.1
			sales := (base / 12) * factor
			expenses := sales * placeholderExpenseRatio
			buckets[i] = monthBucket{sales: sales, expenses: expenses, profit: sales - expenses}
		}
	}

	series := make([]models.ChartSeriesPoint, len(MonthLabels))
	for i, label := range MonthLabels {
		b := buckets[i]
		series[i] = models.ChartSeriesPoint{
			Month:    label,
			Sales:    b.sales,
			Profit:   b.profit,
			Revenue:  b.sales,
			Expenses: b.expenses,
		}
	}
	return series, synthesized
}
