package ask

import (
	"context"
	"errors"
	"strings"
	"testing"

	"insightedge/backend/models"
)

type call struct {
	model, instruction, prompt string
}

type fakeGenerator struct {
	calls   []call
	replies map[string]any
	errs    map[string]error
}

func (f *fakeGenerator) Generate(ctx context.Context, model, instruction, prompt string) (any, error) {
	f.calls = append(f.calls, call{model, instruction, prompt})
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("expected a deadline")
	}
	if err := f.errs[model]; err != nil {
		return nil, err
	}
	return f.replies[model], nil
}

func monthlyDataset() *models.Dataset {
	return &models.Dataset{
		Headers: []string{"date", "revenue", "expenses"},
		Data: []models.Row{
			{"date": "2024-01-10", "revenue": 100.0, "expenses": 50.0},
			{"date": "2024-02-10", "revenue": 300.0, "expenses": 250.0},
			{"date": "2024-03-10", "revenue": 200.0, "expenses": 20.0},
		},
	}
}

func geminiReply(text string) any {
	return map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{"parts": []any{map[string]any{"text": text}}},
		}},
	}
}

func TestAskRemoteSuccess(t *testing.T) {
	gen := &fakeGenerator{replies: map[string]any{
		"custom-model": geminiReply(`{"kpis":[{"title":"Revenue","value":"$600"}],"insights":["Up"],"charts":[]}`),
	}}
	o := New(Config{APIKey: "k", Model: "custom-model"}, gen, nil, nil)

	out, err := o.Ask(context.Background(), "How are we doing?", monthlyDataset())
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if out.Source != models.SourceRemote || len(out.Response.KPIs) != 1 || out.Response.Insights[0] != "Up" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(gen.calls) != 1 || gen.calls[0].instruction != Instruction {
		t.Fatalf("unexpected calls: %+v", gen.calls)
	}
	if !strings.HasPrefix(gen.calls[0].prompt, "Question: How are we doing?\nDataset headers: [\"date\",\"revenue\",\"expenses\"]\nSample rows (capped): [") {
		t.Fatalf("unexpected prompt %q", gen.calls[0].prompt)
	}
}

func TestAskRetriesDefaultModel(t *testing.T) {
	gen := &fakeGenerator{
		errs:    map[string]error{"broken-model": errors.New("404")},
		replies: map[string]any{DefaultModel: map[string]any{"kpis": []any{}, "insights": []any{"from default"}, "charts": []any{}}},
	}
	o := New(Config{APIKey: "k", Model: "broken-model"}, gen, nil, nil)
	out, err := o.Ask(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if len(gen.calls) != 2 || gen.calls[1].model != DefaultModel {
		t.Fatalf("expected a retry on the default model, got %+v", gen.calls)
	}
	if out.Source != models.SourceRemote || out.Response.Insights[0] != "from default" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestAskNoRetryWhenDefaultFails(t *testing.T) {
	gen := &fakeGenerator{errs: map[string]error{DefaultModel: errors.New("boom")}}
	o := New(Config{APIKey: "k"}, gen, nil, nil)
	out, err := o.Ask(context.Background(), "How are sales?", monthlyDataset())
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if len(gen.calls) != 1 {
		t.Fatalf("expected a single call, got %d", len(gen.calls))
	}
	if out.Source != models.SourceLocal {
		t.Fatalf("expected local fallback, got %q", out.Source)
	}
}

func TestAskEmptyRemoteFallsBack(t *testing.T) {
	gen := &fakeGenerator{replies: map[string]any{DefaultModel: geminiReply("I cannot help with that")}}
	o := New(Config{APIKey: "k"}, gen, nil, nil)
	out, err := o.Ask(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if out.Source != models.SourceLocal {
		t.Fatalf("expected local fallback, got %q", out.Source)
	}
}

func TestAskFastPath(t *testing.T) {
	o := New(Config{}, nil, nil, nil)
	out, err := o.Ask(context.Background(), "Which month has the highest sales?", monthlyDataset())
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if out.Source != models.SourceFastPath {
		t.Fatalf("expected fast path, got %q", out.Source)
	}
	r := out.Response
	if r.Answer == nil || *r.Answer != "February has the highest sales ($300)." {
		t.Fatalf("unexpected answer %v", r.Answer)
	}
	if len(r.KPIs) != 1 || len(r.Insights) != 1 || len(r.Charts) != 1 || r.Charts[0].Type != models.ChartBar {
		t.Fatalf("unexpected response: %+v", r)
	}

	out, err = o.Ask(context.Background(), "what was the month with the lowest profit", monthlyDataset())
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if out.Response.Answer == nil || *out.Response.Answer != "January has the lowest profit ($50)." {
		t.Fatalf("unexpected answer %v", out.Response.Answer)
	}
}

func TestAskGeneralMonthQuestionsStayLocal(t *testing.T) {
	o := New(Config{}, nil, nil, nil)
	for _, q := range []string{
		"What is the best way to grow sales this month?",
		"How can we minimize costs and keep sales at least flat next month?",
	} {
		out, err := o.Ask(context.Background(), q, monthlyDataset())
		if err != nil {
			t.Fatalf("ask %q: %v", q, err)
		}
		if out.Source != models.SourceLocal || out.Response.Answer != nil {
			t.Fatalf("%q: expected local answer, got %s %v", q, out.Source, out.Response.Answer)
		}
	}
}

func TestAskFastPathAfterRemoteFailure(t *testing.T) {
	gen := &fakeGenerator{errs: map[string]error{DefaultModel: errors.New("down")}}
	o := New(Config{APIKey: "k"}, gen, nil, nil)
	out, err := o.Ask(context.Background(), "Which month had the top revenue?", monthlyDataset())
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if out.Source != models.SourceFastPath || *out.Response.Answer != "February has the highest revenue ($300)." {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestFastPathDeclinesPlaceholderSeries(t *testing.T) {
	ds := &models.Dataset{
		Headers: []string{"month", "revenue"},
		Data:    []models.Row{{"month": "Jan", "revenue": 10.0}, {"month": "Feb", "revenue": 20.0}},
	}
	out, err := New(Config{}, nil, nil, nil).Ask(context.Background(), "Which month has the highest sales?", ds)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if out.Source != models.SourceLocal || out.Response.Answer != nil {
		t.Fatalf("expected local answer, got %+v", out)
	}
}

func TestAskLocalFallback(t *testing.T) {
	o := New(Config{}, nil, nil, nil)
	out, err := o.Ask(context.Background(), "Tell me about revenue", monthlyDataset())
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	r := out.Response
	if out.Source != models.SourceLocal {
		t.Fatalf("expected local, got %q", out.Source)
	}
	if len(r.KPIs) != 3 || r.KPIs[0].Value != "$600" {
		t.Fatalf("unexpected KPIs: %+v", r.KPIs)
	}
	titles := make([]string, len(r.Charts))
	for i, c := range r.Charts {
		titles[i] = c.Title
	}
	if strings.Join(titles, ",") != "Revenue over time,Sales over time,Profit over time,Expenses over time" {
		t.Fatalf("unexpected charts %v", titles)
	}
	// three revenue values is too few for a revenue insight
	if r.Insights == nil || len(r.Insights) != 0 {
		t.Fatalf("unexpected insights %q", r.Insights)
	}

	out, err = o.Ask(context.Background(), "give me an overview", nil)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if len(out.Response.KPIs) != 0 || len(out.Response.Charts) != 0 || len(out.Response.Insights) != 1 {
		t.Fatalf("unexpected dataset-free answer: %+v", out.Response)
	}
	if !strings.HasPrefix(out.Response.Insights[0], "Data Quality Assessment: Your dataset contains 0 records") {
		t.Fatalf("unexpected insight %q", out.Response.Insights[0])
	}
}

func TestCapDataset(t *testing.T) {
	headers := make([]string, 60)
	for i := range headers {
		headers[i] = "h"
	}
	rows := make([]models.Row, 600)
	for i := range rows {
		rows[i] = models.Row{"n": 1.0, "s": "x", "z": nil, "obj": map[string]any{"a": 1}, "arr": []any{1.0}, "b": true}
	}
	capped := CapDataset(&models.Dataset{Headers: headers, Data: rows})
	if len(capped.Headers) != MaxHeaders || len(capped.Data) != MaxRows {
		t.Fatalf("caps not applied: %d headers, %d rows", len(capped.Headers), len(capped.Data))
	}
	row := capped.Data[0]
	if len(row) != 3 {
		t.Fatalf("expected only scalar cells, got %v", row)
	}
	if _, ok := row["z"]; !ok {
		t.Fatalf("null cells should be kept")
	}
	if len(rows[0]) != 6 {
		t.Fatalf("input row was modified")
	}
	if CapDataset(nil) != nil {
		t.Fatalf("expected nil for nil dataset")
	}
}

func TestParseExtremeQuery(t *testing.T) {
	cases := []struct {
		q      string
		ok     bool
		metric string
		high   bool
	}{
		{"Which month has the highest sales?", true, "sales", true},
		{"which month had the least PROFITS", true, "profit", false},
		{"what was the month with the lowest profit", true, "profit", false},
		{"Which month has the lowest, not the highest, revenue?", true, "revenue", false},
		{"Best month for revenue", true, "revenue", true},
		{"the top sales month", true, "sales", true},
		{"lowest month, not the highest, for sales", true, "sales", false},
		{"What are total sales?", false, "", false},
		{"Which month is busiest?", false, "", false},
		{"which month had sales", false, "", false},
		{"Which month had sales at their highest?", false, "", false},
		{"month with least PROFITS", false, "", false},
		{"What is the best way to grow sales this month?", false, "", false},
		{"How can we minimize costs and keep sales at least flat next month?", false, "", false},
		{"Show the highest sales for each month", false, "", false},
	}
	for _, tc := range cases {
		got, ok := parseExtremeQuery(tc.q)
		if ok != tc.ok || (ok && (got.metric != tc.metric || got.high != tc.high)) {
			t.Errorf("parseExtremeQuery(%q) = %+v, %v", tc.q, got, ok)
		}
	}
}
