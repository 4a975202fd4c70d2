package ask

import "insightedge/backend/models"

// Limits applied to a dataset before it is analyzed or sent to the model.
const (
	MaxHeaders = 50
	MaxRows    = 500
)

// CapDataset copies at most MaxHeaders headers and MaxRows rows. Cells that
// are not a number, a string or null are left out of the copy.
func CapDataset(ds *models.Dataset) *models.Dataset {
	if ds == nil {
		return nil
	}
	headers := ds.Headers
	if len(headers) > MaxHeaders {
		headers = headers[:MaxHeaders]
	}
	rows := ds.Data
	if len(rows) > MaxRows {
		rows = rows[:MaxRows]
	}

	out := &models.Dataset{
		Headers: append([]string{}, headers...),
		Data:    make([]models.Row, len(rows)),
	}
	for i, row := range rows {
		kept := make(models.Row, len(row))
		for k, v := range row {
			if scalarCell(v) {
				kept[k] = v
			}
		}
		out.Data[i] = kept
	}
	return out
}

func scalarCell(v any) bool {
	switch v.(type) {
	case nil, string, float64, float32, int, int32, int64:
		return true
	}
	return false
}
