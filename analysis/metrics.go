package analysis

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"insightedge/backend/models"
)

// ErrAnalysisFailed is the only error Analyze returns. Partial results are
// never handed out.
var ErrAnalysisFailed = errors.New("failed to analyze business data")

const largeDatasetRows = 1000

// KPI titles in canonical display order.
const (
	KPITotalRevenue  = "Total Revenue"
	KPITotalExpenses = "Total Expenses"
	KPINetProfit     = "Net Profit"
	KPIAvgOrderValue = "Avg. Order Value"
)

// Synthetic previous-period factors per KPI.
const (
	revenueBaseline  = 0.95
	expenseBaseline  = 0.98
	profitBaseline   = 0.92
	avgOrderBaseline = 0.97
)

// Engine computes dashboard metrics. It holds no per-request state and is
// safe for concurrent use.
type Engine struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, now: time.Now}
}

// Analyze cleans the dataset and derives KPIs, the monthly series,
// notifications, reports, the growth alert, a data summary and heuristic
// insights. The caller's dataset is not modified.
func (e *Engine) Analyze(ds models.Dataset, mapping *models.ColumnMapping) (out *models.AnalyzedMetrics, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("analyze business data", zap.Any("panic", r))
			out, err = nil, ErrAnalysisFailed
		}
	}()

	cleaned := CleanRows(ds.Data)
	cols := resolveColumns(ds.Headers, cleaned, mapping)

	kpis := buildKPIs(cleaned, cols)
	series, synthesized := BuildMonthlySeries(cleaned, cols.revenue, cols.expenses, cols.profit, cols.dates)

	return &models.AnalyzedMetrics{
		KPIs:              kpis,
		ChartData:         series,
		Notifications:     buildNotifications(len(cleaned), kpis),
		Reports:           e.buildReports(ds.Headers, cleaned),
		GrowthAlert:       buildGrowthAlert(kpis),
		DataSummary:       buildDataSummary(ds, len(cleaned)),
		Insights:          buildInsights(len(cleaned), kpis),
		SeriesSynthesized: synthesized,
	}, nil
}

// CleanRows drops rows where at least half the cells are empty and converts
// numeric strings to numbers. It returns new rows.
func CleanRows(rows []models.Row) []models.Row {
	out := make([]models.Row, 0, len(rows))
	for _, row := range rows {
		empty := 0
		for _, v := range row {
			if isEmptyCell(v) {
				empty++
			}
		}
		if float64(empty) >= float64(len(row))*0.5 {
			continue
		}
		cleaned := make(models.Row, len(row))
		for k, v := range row {
			cleaned[k] = CoerceNumber(v)
		}
		out = append(out, cleaned)
	}
	return out
}

func buildKPIs(rows []models.Row, cols columnSet) []models.KPI {
	var kpis []models.KPI
	hasRevenue := len(cols.revenue) > 0
	hasExpenses := len(cols.expenses) > 0
	totalRevenue := sumColumns(rows, cols.revenue)
	totalExpenses := sumColumns(rows, cols.expenses)

	if hasRevenue {
		kpis = append(kpis, newKPI(KPITotalRevenue, totalRevenue, revenueBaseline))
	}
	if hasExpenses {
		kpis = append(kpis, newKPI(KPITotalExpenses, totalExpenses, expenseBaseline))
	}
	if hasRevenue && hasExpenses {
		kpis = append(kpis, newKPI(KPINetProfit, totalRevenue-totalExpenses, profitBaseline))
	}
	if hasRevenue && len(cols.customers) > 0 {
		var avg float64
		if orders := sumColumns(rows, cols.customers); orders > 0 {
			avg = totalRevenue / orders
		}
		kpis = append(kpis, newKPI(KPIAvgOrderValue, avg, avgOrderBaseline))
	}
	return kpis
}

// FindKPI returns the KPI with the given title.
func FindKPI(kpis []models.KPI, title string) (models.KPI, bool) {
	for _, k := range kpis {
		if k.Title == title {
			return k, true
		}
	}
	return models.KPI{}, false
}

func trendIs(kpis []models.KPI, title, trend string) bool {
	k, ok := FindKPI(kpis, title)
	return ok && k.Trend != nil && *k.Trend == trend
}

func buildNotifications(rowCount int, kpis []models.KPI) []models.Notification {
	notifications := []models.Notification{}
	if rev, ok := FindKPI(kpis, KPITotalRevenue); ok && trendIs(kpis, KPITotalRevenue, models.TrendUp) {
		notifications = append(notifications, models.Notification{
			Title:       "Revenue Growth Detected",
			Description: fmt.Sprintf("Your revenue has increased by %s. Keep up the great work!", *rev.Change),
			Time:        "Just now",
			Type:        "success",
			Priority:    "high",
		})
	}
	if trendIs(kpis, KPITotalExpenses, models.TrendUp) {
		notifications = append(notifications, models.Notification{
			Title:       "Expense Increase Alert",
			Description: "Expenses are trending upward. Consider reviewing cost management strategies.",
			Time:        "2 hours ago",
			Type:        "warning",
			Priority:    "medium",
		})
	}
	if rowCount > largeDatasetRows {
		notifications = append(notifications, models.Notification{
			Title:       "Large Dataset Processed",
			Description: fmt.Sprintf("Successfully analyzed %s records.", FormatCount(rowCount)),
			Time:        "5 minutes ago",
			Type:        "info",
			Priority:    "low",
		})
	}
	return notifications
}

func (e *Engine) buildReports(headers []string, rows []models.Row) []models.Report {
	today := e.now().UTC().Format("2006-01-02")
	var reports []models.Report
	if len(FindColumns(headers, rows, RevenueKeywords, "")) > 0 {
		reports = append(reports, models.Report{
			Name: "Revenue Analysis Report", Date: today, Type: "Financial", Status: "Final",
			Summary: fmt.Sprintf("Comprehensive analysis of %d revenue records", len(rows)),
		})
	}
	if len(FindColumns(headers, rows, reportCustomerKeywords, "")) > 0 {
		reports = append(reports, models.Report{
			Name: "Customer Behavior Report", Date: today, Type: "Customer", Status: "Final",
			Summary: fmt.Sprintf("Insights from %d customer interactions", len(rows)),
		})
	}
	return append(reports,
		models.Report{Name: "Data Quality Assessment", Date: today, Type: "Operations", Status: "Final", Summary: "Analysis of data completeness and accuracy"},
		models.Report{Name: "Performance Metrics Summary", Date: today, Type: "Analytics", Status: "Final", Summary: "Key performance indicators and trends"},
		models.Report{Name: "Strategic Recommendations", Date: today, Type: "Strategy", Status: "Draft", Summary: "Actionable insights for business improvement"},
	)
}

func buildGrowthAlert(kpis []models.KPI) models.GrowthAlert {
	revenueUp := trendIs(kpis, KPITotalRevenue, models.TrendUp)
	switch {
	case revenueUp && trendIs(kpis, KPINetProfit, models.TrendUp):
		return models.GrowthAlert{
			Title:       "Strong Growth Momentum",
			Description: "Both revenue and profit are showing positive trends. Your business is performing excellently!",
			Type:        "positive",
		}
	case revenueUp:
		return models.GrowthAlert{
			Title:       "Revenue Growth",
			Description: "Revenue is trending upward. Focus on maintaining this momentum.",
			Type:        "positive",
		}
	default:
		return models.GrowthAlert{
			Title:       "Performance Review Needed",
			Description: "Some metrics need attention. Consider reviewing your business strategies.",
			Type:        "neutral",
		}
	}
}

func buildInsights(rowCount int, kpis []models.KPI) []models.Insight {
	insights := []models.Insight{}
	if trendIs(kpis, KPITotalRevenue, models.TrendUp) {
		insights = append(insights, models.Insight{
			Title:       "Revenue Growth Opportunity",
			Description: "Revenue is increasing. Consider scaling successful strategies.",
			Impact:      "high",
			Category:    "revenue",
		})
	}
	if trendIs(kpis, KPITotalExpenses, models.TrendUp) {
		insights = append(insights, models.Insight{
			Title:       "Cost Management Focus",
			Description: "Expenses are rising. Review cost structure and identify optimization opportunities.",
			Impact:      "medium",
			Category:    "costs",
		})
	}
	if rowCount > largeDatasetRows {
		insights = append(insights, models.Insight{
			Title:       "Data-Driven Decision Making",
			Description: "Large dataset available. Leverage analytics for strategic decisions.",
			Impact:      "high",
			Category:    "operations",
		})
	}
	return insights
}
