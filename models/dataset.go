package models

// Row is one record of a tabular business file keyed by column name.
// Values are float64, string or nil once decoded from JSON.
type Row map[string]any

// Dataset is the header list plus the rows of an uploaded file.
type Dataset struct {
	Headers []string `json:"headers" binding:"required"`
	Data    []Row    `json:"data" binding:"required"`
}

// ColumnMapping lets a caller pin the column used for a metric instead of
// relying on keyword matching.
type ColumnMapping struct {
	Revenue  string `json:"revenue,omitempty" toml:"revenue"`
	Expenses string `json:"expenses,omitempty" toml:"expenses"`
	Profit   string `json:"profit,omitempty" toml:"profit"`
	Date     string `json:"date,omitempty" toml:"date"`
}

type AskRequest struct {
	Query   *string  `json:"query" binding:"required"`
	Dataset *Dataset `json:"dataset"`
}

type AnalyzeRequest struct {
	Dataset       Dataset        `json:"dataset" binding:"required"`
	ColumnMapping *ColumnMapping `json:"columnMapping"`
}

type InferMetricsRequest struct {
	Headers    []string `json:"headers" binding:"required"`
	SampleRows []Row    `json:"sampleRows"`
}

type InsightsRequest struct {
	Query   *string  `json:"query" binding:"required"`
	Dataset *Dataset `json:"dataset"`
}
