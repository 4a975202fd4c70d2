package utils

import "testing"

type mappingReply struct {
	Revenue *string `json:"revenue"`
	Date    *string `json:"date"`
}

func TestParseLenient(t *testing.T) {
	inputs := []string{
		`{"revenue":"Sales","date":"Order Date"}`,
		"```json\n{\"revenue\":\"Sales\",\"date\":\"Order Date\"}\n```",
		`{'revenue': 'Sales', 'date': 'Order Date',}`,
	}
	for _, in := range inputs {
		var out mappingReply
		if err := ParseLenient(in, &out); err != nil {
			t.Fatalf("ParseLenient(%q): %v", in, err)
		}
		if out.Revenue == nil || *out.Revenue != "Sales" || out.Date == nil || *out.Date != "Order Date" {
			t.Fatalf("ParseLenient(%q) = %+v", in, out)
		}
	}
}

func TestParseLenientRejectsGarbage(t *testing.T) {
	var out []int
	if err := ParseLenient(`{"revenue":"Sales"}`, &out); err == nil {
		t.Fatalf("expected an object to be rejected for a slice target")
	}
}
