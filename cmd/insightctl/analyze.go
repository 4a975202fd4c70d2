package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"insightedge/backend/analysis"
	"insightedge/backend/insights"
	"insightedge/backend/models"
)

func newAnalyzeCmd() *cobra.Command {
	var file, mappingPath string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute KPIs, growth alert, data summary and the monthly series",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := loadDataset(file)
			if err != nil {
				return err
			}
			mapping, err := loadMapping(mappingPath)
			if err != nil {
				return err
			}
			out, err := analysis.NewEngine(nil).Analyze(ds, mapping)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			renderAnalysis(w, file, out, correlation(ds, mapping))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "CSV or XLSX file")
	cmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "TOML file pinning metric columns")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw analysis as JSON")
	return cmd
}

type pairCorrelation struct {
	Revenue, Expenses string
	Value             float64
	OK                bool
}

// correlation pairs the first revenue and expense columns.
func correlation(ds models.Dataset, mapping *models.ColumnMapping) pairCorrelation {
	rows := analysis.CleanRows(ds.Data)
	var m models.ColumnMapping
	if mapping != nil {
		m = *mapping
	}
	rev := analysis.FindColumns(ds.Headers, rows, analysis.RevenueKeywords, m.Revenue)
	exp := analysis.FindColumns(ds.Headers, rows, analysis.ExpenseKeywords, m.Expenses)
	if len(rev) == 0 || len(exp) == 0 {
		return pairCorrelation{}
	}
	return pairCorrelation{
		Revenue:  rev[0],
		Expenses: exp[0],
		Value:    insights.Correlation(rows, rev[0], exp[0]),
		OK:       true,
	}
}

func renderAnalysis(w io.Writer, file string, out *models.AnalyzedMetrics, corr pairCorrelation) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTitle("DASHBOARD  "+file))
	fmt.Fprintln(w)

	if len(out.KPIs) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  No revenue or expense columns found."))
	}
	for _, k := range out.KPIs {
		fmt.Fprintf(w, "  %-18s %s  %s\n", headerStyle.Render(k.Title), valueStyle.Render(k.Value), renderChange(k))
	}
	fmt.Fprintln(w)

	alert := out.GrowthAlert
	fmt.Fprintf(w, "  %s %s\n", alertStyle(alert.Type).Render(alert.Title), alert.Description)

	s := out.DataSummary
	fmt.Fprintf(w, "  %s %s records, %s quality, %d missing, %d duplicates, range %s\n",
		headerStyle.Render("Data"), analysis.FormatCount(s.TotalRecords), s.DataQuality,
		s.MissingData, s.DuplicateRecords, s.DateRange)
	if corr.OK {
		fmt.Fprintf(w, "  %s %s vs %s: %.2f\n", headerStyle.Render("Correlation"), corr.Revenue, corr.Expenses, corr.Value)
	}
	fmt.Fprintln(w)

	label := "Monthly series"
	if out.SeriesSynthesized {
		label += " (placeholder, no date column)"
	}
	fmt.Fprintln(w, headerStyle.Render("  "+label))
	for _, p := range out.ChartData {
		fmt.Fprintf(w, "  %-4s %12s %12s %12s\n", p.Month,
			analysis.FormatCurrency(p.Revenue), analysis.FormatCurrency(p.Expenses), analysis.FormatCurrency(p.Profit))
	}
}

func renderChange(k models.KPI) string {
	if k.Change == nil {
		return ""
	}
	style := mutedStyle
	if k.Trend != nil {
		switch *k.Trend {
		case models.TrendUp:
			style = upStyle
		case models.TrendDown:
			style = downStyle
		}
	}
	return style.Render(*k.Change)
}
