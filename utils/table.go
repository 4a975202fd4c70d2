package utils

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"insightedge/backend/models"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type; use .csv or .xlsx")
	ErrNoHeader        = errors.New("file has no header row")
)

// ReadTable parses a CSV or XLSX file into a dataset. The first non-empty
// row is the header; every cell stays a string.
func ReadTable(content []byte, ext string) (models.Dataset, error) {
	rows, err := readAllRows(content, strings.ToLower(ext))
	if err != nil {
		return models.Dataset{}, err
	}
	headerIdx := -1
	for i, r := range rows {
		if !blankRow(r) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return models.Dataset{}, ErrNoHeader
	}
	headers := normalizeHeaders(rows[headerIdx])

	data := make([]models.Row, 0, len(rows)-headerIdx-1)
	for _, r := range rows[headerIdx+1:] {
		if blankRow(r) {
			continue
		}
		row := make(models.Row, len(headers))
		for i, h := range headers {
			cell := ""
			if i < len(r) {
				cell = strings.TrimSpace(r[i])
			}
			row[h] = cell
		}
		data = append(data, row)
	}
	return models.Dataset{Headers: headers, Data: data}, nil
}

func readAllRows(content []byte, ext string) ([][]string, error) {
	switch ext {
	case ".csv":
		r := csv.NewReader(bytes.NewReader(content))
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		rows, err := r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		return rows, nil
	case ".xlsx":
		f, err := excelize.OpenReader(bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("open xlsx: %w", err)
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return [][]string{}, nil
		}
		return readSheet(f, sheets[0])
	default:
		return nil, ErrUnsupportedFile
	}
}

// readSheet returns raw cell values so numbers lose their display format.
// Date-styled serials become ISO dates.
func readSheet(f *excelize.File, sheet string) ([][]string, error) {
	rs, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	defer rs.Close()
	dates := dateStyles{f: f, sheet: sheet, known: map[int]bool{}}
	rows := [][]string{}
	for n := 1; rs.Next(); n++ {
		r, err := rs.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		for c, v := range r {
			if v == "" {
				continue
			}
			serial, err := strconv.ParseFloat(v, 64)
			if err != nil || serial < 1 {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, n)
			if err != nil || !dates.is(axis) {
				continue
			}
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				r[c] = isoDate(t)
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func isoDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02T15:04:05")
}

// dateStyles remembers which cell styles carry a date number format.
type dateStyles struct {
	f     *excelize.File
	sheet string
	known map[int]bool
}

func (d dateStyles) is(axis string) bool {
	id, err := d.f.GetCellStyle(d.sheet, axis)
	if err != nil || id == 0 {
		return false
	}
	if v, ok := d.known[id]; ok {
		return v
	}
	st, err := d.f.GetStyle(id)
	v := err == nil && st != nil && dateFormat(st)
	d.known[id] = v
	return v
}

// Built-in number formats 14-22, 27-36, 45-47 and 50-58 are dates or times.
func dateFormat(st *excelize.Style) bool {
	if st.CustomNumFmt != nil {
		return customDateFormat(*st.CustomNumFmt)
	}
	n := st.NumFmt
	return (n >= 14 && n <= 22) || (n >= 27 && n <= 36) || (n >= 45 && n <= 47) || (n >= 50 && n <= 58)
}

var (
	quotedSection  = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)
	dateFormatCode = regexp.MustCompile(`[ymd]`)
)

func customDateFormat(code string) bool {
	return dateFormatCode.MatchString(strings.ToLower(quotedSection.ReplaceAllString(code, "")))
}

func blankRow(r []string) bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// normalizeHeaders trims names, names blank columns ColN and suffixes
// repeats so every header is unique.
func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	for i, v := range raw {
		base := strings.TrimSpace(v)
		if base == "" {
			base = "Col" + strconv.Itoa(i)
		}
		name := base
		for n := 2; used[name]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		used[name] = true
		headers[i] = name
	}
	return headers
}

// HeaderSignature hashes a header list so identical file layouts share a
// cached column mapping. Case and surrounding space are ignored.
func HeaderSignature(headers []string) string {
	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = strings.ToLower(strings.TrimSpace(h))
	}
	b, _ := json.Marshal(norm)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
