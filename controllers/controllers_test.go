package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"insightedge/backend/analysis"
	"insightedge/backend/ask"
	"insightedge/backend/config"
	"insightedge/backend/database"
	"insightedge/backend/mapping"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testDeps() *Deps {
	logger := zap.NewNop()
	store := database.NewMemoryStore()
	engine := analysis.NewEngine(logger)
	return &Deps{
		Cfg:    config.Config{GeminiModel: ask.DefaultModel, MaxUploadBytes: 1 << 20},
		Logger: logger,
		Engine: engine,
		Asker:  ask.New(ask.Config{}, nil, engine, logger),
		Mapper: mapping.NewInferrer(nil, "", 0, store, logger),
		Store:  store,
	}
}

func newRouter(d *Deps) *gin.Engine {
	r := gin.New()
	r.GET("/health", Health())
	r.GET("/ai/status", Status(d))
	r.POST("/ai/ask", Ask(d))
	r.POST("/ai/insights", Insights(d))
	r.POST("/ai/infer-metrics", InferMetrics(d))
	r.GET("/ai/history", History(d))
	r.POST("/data/analyze", Analyze(d))
	r.POST("/data/upload-analyze", UploadAnalyze(d))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

const monthlyDataset = `{"headers":["date","sales","expenses"],"data":[
	{"date":"2024-01-10","sales":100,"expenses":50},
	{"date":"2024-02-10","sales":300,"expenses":250},
	{"date":"2024-03-10","sales":200,"expenses":20}]}`

func TestHealth(t *testing.T) {
	w := doJSON(t, newRouter(testDeps()), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"ok"`)) {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}
}

func TestStatusWithoutKey(t *testing.T) {
	w := doJSON(t, newRouter(testDeps()), http.MethodGet, "/ai/status", "")
	var got struct {
		Enabled bool   `json:"enabled"`
		Model   string `json:"model"`
	}
	decode(t, w, &got)
	if got.Enabled || got.Model != ask.DefaultModel {
		t.Fatalf("status = %+v", got)
	}
}

func TestAskRejectsMissingQuery(t *testing.T) {
	w := doJSON(t, newRouter(testDeps()), http.MethodPost, "/ai/ask", `{"dataset":`+monthlyDataset+`}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", w.Code)
	}
	var got map[string]any
	decode(t, w, &got)
	if got["error"] != "Invalid body" || got["details"] == nil {
		t.Fatalf("body = %v", got)
	}
}

func TestAskFastPathRecordsHistory(t *testing.T) {
	d := testDeps()
	r := newRouter(d)
	w := doJSON(t, r, http.MethodPost, "/ai/ask",
		`{"query":"Which month had the highest sales?","dataset":`+monthlyDataset+`}`)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d body = %s", w.Code, w.Body.String())
	}
	var got struct {
		Answer *string          `json:"answer"`
		KPIs   []map[string]any `json:"kpis"`
		Charts []map[string]any `json:"charts"`
	}
	decode(t, w, &got)
	if got.Answer == nil || *got.Answer != "February has the highest sales ($300)." {
		t.Fatalf("answer = %v", got.Answer)
	}
	if len(got.KPIs) != 1 || len(got.Charts) != 1 {
		t.Fatalf("kpis=%d charts=%d", len(got.KPIs), len(got.Charts))
	}

	recs, err := d.Store.ListAsks(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Source != "fast_path" || recs[0].ID == "" {
		t.Fatalf("history = %+v", recs)
	}
}

func TestAskLocalWithoutDataset(t *testing.T) {
	w := doJSON(t, newRouter(testDeps()), http.MethodPost, "/ai/ask", `{"query":"how are we doing"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d body = %s", w.Code, w.Body.String())
	}
	var got map[string]any
	decode(t, w, &got)
	for _, k := range []string{"kpis", "insights", "charts"} {
		if _, ok := got[k].([]any); !ok {
			t.Errorf("%s missing or not an array: %v", k, got[k])
		}
	}
}

func TestInsights(t *testing.T) {
	w := doJSON(t, newRouter(testDeps()), http.MethodPost, "/ai/insights",
		`{"query":"show revenue","dataset":`+monthlyDataset+`}`)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d body = %s", w.Code, w.Body.String())
	}
	var got struct {
		Intent           string   `json:"intent"`
		SuggestedQueries []string `json:"suggestedQueries"`
	}
	decode(t, w, &got)
	if got.Intent != "revenue" || len(got.SuggestedQueries) == 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestInferMetricsHeuristic(t *testing.T) {
	w := doJSON(t, newRouter(testDeps()), http.MethodPost, "/ai/infer-metrics",
		`{"headers":["Order Date","Net Sales","Cost"],"sampleRows":[{"Order Date":"2024-01-01","Net Sales":10,"Cost":4}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d body = %s", w.Code, w.Body.String())
	}
	var got struct {
		Columns map[string]*string `json:"columns"`
		Source  string             `json:"source"`
	}
	decode(t, w, &got)
	if got.Source != mapping.SourceHeuristic {
		t.Fatalf("source = %q", got.Source)
	}
	if rev := got.Columns["revenue"]; rev == nil || *rev != "Net Sales" {
		t.Fatalf("revenue = %v", rev)
	}
	if date := got.Columns["date"]; date == nil || *date != "Order Date" {
		t.Fatalf("date = %v", date)
	}
}

func TestHistoryLimit(t *testing.T) {
	r := newRouter(testDeps())
	if w := doJSON(t, r, http.MethodGet, "/ai/history?limit=abc", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad limit code = %d", w.Code)
	}
	w := doJSON(t, r, http.MethodGet, "/ai/history?limit=1000", "")
	var got struct {
		Items []any `json:"items"`
		Limit int   `json:"limit"`
	}
	decode(t, w, &got)
	if got.Limit != database.MaxHistoryLimit {
		t.Fatalf("limit = %d", got.Limit)
	}
}

func TestAnalyze(t *testing.T) {
	r := newRouter(testDeps())
	if w := doJSON(t, r, http.MethodPost, "/data/analyze", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("empty body code = %d", w.Code)
	}
	w := doJSON(t, r, http.MethodPost, "/data/analyze", `{"dataset":`+monthlyDataset+`}`)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d body = %s", w.Code, w.Body.String())
	}
	var got struct {
		KPIs      []struct{ Title, Value string } `json:"kpis"`
		ChartData []map[string]any                `json:"chartData"`
	}
	decode(t, w, &got)
	if len(got.ChartData) != 12 {
		t.Fatalf("chartData = %d points", len(got.ChartData))
	}
	if len(got.KPIs) == 0 || got.KPIs[0].Value != "$600" {
		t.Fatalf("kpis = %+v", got.KPIs)
	}
}

func TestUploadAnalyzeCSV(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "sales.csv")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("Date,Revenue,Expenses\n2024-01-05,100,40\n2024-02-05,200,50\n"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/data/upload-analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	newRouter(testDeps()).ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d body = %s", w.Code, w.Body.String())
	}
	var got struct {
		Filename string   `json:"filename"`
		Headers  []string `json:"headers"`
		RowCount int      `json:"rowCount"`
		Mapping  struct {
			Source string `json:"source"`
		} `json:"mapping"`
	}
	decode(t, w, &got)
	if got.Filename != "sales.csv" || got.RowCount != 2 || len(got.Headers) != 3 {
		t.Fatalf("got %+v", got)
	}
	if got.Mapping.Source != mapping.SourceHeuristic {
		t.Fatalf("mapping source = %q", got.Mapping.Source)
	}
}

func TestUploadAnalyzeRejectsUnknownExtension(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "notes.txt")
	fw.Write([]byte("hello"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/data/upload-analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	newRouter(testDeps()).ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code = %d", w.Code)
	}
}
