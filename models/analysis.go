package models

// Trend values shared by KPIs and model replies.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// Chart types accepted in a chart suggestion.
const (
	ChartLine    = "line"
	ChartBar     = "bar"
	ChartPie     = "pie"
	ChartScatter = "scatter"
)

type KPI struct {
	Title         string   `json:"title"`
	Value         string   `json:"value"`
	Change        *string  `json:"change,omitempty"`
	Trend         *string  `json:"trend,omitempty"`
	PreviousValue *float64 `json:"previousValue,omitempty"`
}

// ChartSeriesPoint is one calendar month of the dashboard series. Sales and
// Revenue always carry the same aggregate.
type ChartSeriesPoint struct {
	Month    string  `json:"month"`
	Sales    float64 `json:"sales"`
	Profit   float64 `json:"profit"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
}

type Insight struct {
	Type          string   `json:"type,omitempty"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Confidence    *float64 `json:"confidence,omitempty"`
	Impact        string   `json:"impact,omitempty"`
	Category      string   `json:"category"`
	Actionable    bool     `json:"actionable,omitempty"`
	ActionItems   []string `json:"actionItems,omitempty"`
	Data          []Row    `json:"data,omitempty"`
	Visualization string   `json:"visualization,omitempty"`
}

type ChartSuggestion struct {
	Type  string   `json:"type"`
	Title string   `json:"title"`
	XAxis string   `json:"xAxis"`
	YAxis []string `json:"yAxis"`
}

// NormalizedAnalysisResponse is the only shape returned by the ask endpoint.
// Raw keeps the payload the normalizer started from and is never serialized
// to API clients.
type NormalizedAnalysisResponse struct {
	KPIs     []KPI             `json:"kpis"`
	Insights []string          `json:"insights"`
	Charts   []ChartSuggestion `json:"charts"`
	Answer   *string           `json:"answer,omitempty"`
	Raw      any               `json:"-"`
}

type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        string `json:"time"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
}

type Report struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	Type    string `json:"type"`
	Status  string `json:"status"`
	Summary string `json:"summary"`
}

type GrowthAlert struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type DataSummary struct {
	TotalRecords     int    `json:"totalRecords"`
	DateRange        string `json:"dateRange"`
	DataQuality      string `json:"dataQuality"`
	MissingData      int    `json:"missingData"`
	DuplicateRecords int    `json:"duplicateRecords"`
}

// AnalyzedMetrics is everything the dashboard derives from one dataset.
type AnalyzedMetrics struct {
	KPIs          []KPI              `json:"kpis"`
	ChartData     []ChartSeriesPoint `json:"chartData"`
	Notifications []Notification     `json:"notifications"`
	Reports       []Report           `json:"reports"`
	GrowthAlert   GrowthAlert        `json:"growthAlert"`
	DataSummary   DataSummary        `json:"dataSummary"`
	Insights      []Insight          `json:"insights"`
	// SeriesSynthesized is true when ChartData came from the placeholder
	// trend rather than a date column.
	SeriesSynthesized bool `json:"seriesSynthesized"`
}

type QueryResult struct {
	Query            string    `json:"query"`
	Intent           string    `json:"intent"`
	Response         []Insight `json:"response"`
	SuggestedQueries []string  `json:"suggestedQueries"`
}

type MetricMapping struct {
	Columns struct {
		Revenue  *string `json:"revenue"`
		Expenses *string `json:"expenses"`
		Profit   *string `json:"profit"`
		Date     *string `json:"date"`
	} `json:"columns"`
	Charts struct {
		SalesTitle  string `json:"salesTitle"`
		ProfitTitle string `json:"profitTitle"`
	} `json:"charts"`
	Source string `json:"source"`
}

// ColumnMapping converts the inferred columns into analysis overrides.
func (m MetricMapping) ColumnMapping() ColumnMapping {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return ColumnMapping{
		Revenue:  deref(m.Columns.Revenue),
		Expenses: deref(m.Columns.Expenses),
		Profit:   deref(m.Columns.Profit),
		Date:     deref(m.Columns.Date),
	}
}
