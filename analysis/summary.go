package analysis

import (
	"encoding/json"
	"time"

	"insightedge/backend/models"
)

func buildDataSummary(ds models.Dataset, cleanedCount int) models.DataSummary {
	total := len(ds.Data)
	return models.DataSummary{
		TotalRecords:     total,
		DateRange:        dateRange(ds.Headers, ds.Data),
		DataQuality:      qualityBucket(cleanedCount, total),
		MissingData:      total - cleanedCount,
		DuplicateRecords: countDuplicates(ds.Data),
	}
}

func qualityBucket(cleaned, total int) string {
	if total == 0 {
		return "poor"
	}
	score := float64(cleaned) / float64(total) * 100
	switch {
	case score >= 95:
		return "excellent"
	case score >= 85:
		return "good"
	case score >= 70:
		return "fair"
	default:
		return "poor"
	}
}

// countDuplicates counts rows equal to an earlier row. Map keys are
// marshaled in sorted order, so key order does not matter.
func countDuplicates(rows []models.Row) int {
	seen := make(map[string]struct{}, len(rows))
	dups := 0
	for _, row := range rows {
		b, err := json.Marshal(row)
		if err != nil {
			continue
		}
		key := string(b)
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

func dateRange(headers []string, rows []models.Row) string {
	cols := FindColumns(headers, rows, DateKeywords, "")
	if len(cols) == 0 {
		return "Unknown"
	}
	var lo, hi time.Time
	found := false
	for _, row := range rows {
		t, ok := ParseDate(row[cols[0]])
		if !ok {
			continue
		}
		if !found || t.Before(lo) {
			lo = t
		}
		if !found || t.After(hi) {
			hi = t
		}
		found = true
	}
	if !found {
		return "Unknown"
	}
	return lo.Format("1/2/2006") + " - " + hi.Format("1/2/2006")
}
