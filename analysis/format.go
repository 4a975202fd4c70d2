package analysis

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"

	"insightedge/backend/models"
)

// FormatCurrency renders v as whole US dollars, e.g. "$3,100" or "-$1,300".
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$0"
	}
	r := math.Round(v)
	if r == 0 {
		return "$0"
	}
	s := "$" + humanize.Commaf(math.Abs(r))
	if r < 0 {
		return "-" + s
	}
	return s
}

// FormatCount groups thousands the way a US locale does.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// periodChange compares total against a synthetic previous period of
// total*factor. The percent is rounded to one decimal before the trend is
// read from its sign.
func periodChange(total, factor float64) (change string, trend string, previous float64) {
	previous = total * factor
	var pct float64
	if previous != 0 {
		pct = (total - previous) / previous * 100
	}
	rounded := strconv.FormatFloat(pct, 'f', 1, 64)
	parsed, _ := strconv.ParseFloat(rounded, 64)
	switch {
	case parsed > 0:
		trend = models.TrendUp
	case parsed < 0:
		trend = models.TrendDown
	default:
		trend = models.TrendStable
	}
	return rounded + "% vs previous period", trend, previous
}

func newKPI(title string, total, factor float64) models.KPI {
	change, trend, previous := periodChange(total, factor)
	return models.KPI{
		Title:         title,
		Value:         FormatCurrency(total),
		Change:        &change,
		Trend:         &trend,
		PreviousValue: &previous,
	}
}
