package models

import "time"

// Ask outcome sources recorded in the history log.
const (
	SourceRemote   = "remote"
	SourceFastPath = "fast_path"
	SourceLocal    = "local"
)

type AskRecord struct {
	ID           string    `json:"id"`
	Query        string    `json:"query"`
	Source       string    `json:"source"`
	KPICount     int       `json:"kpiCount"`
	InsightCount int       `json:"insightCount"`
	ChartCount   int       `json:"chartCount"`
	CreatedAt    time.Time `json:"createdAt"`
}
