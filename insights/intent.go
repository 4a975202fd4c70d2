package insights

import "strings"

// Intent tags a question is bucketed into.
const (
	IntentRevenue     = "revenue"
	IntentCosts       = "costs"
	IntentCustomers   = "customers"
	IntentTrend       = "trend"
	IntentPerformance = "performance"
	IntentGeneral     = "general"
)

type intentRule struct {
	intent   string
	keywords []string
}

// Checked in order; the first group with a hit wins.
var intentRules = []intentRule{
	{IntentRevenue, []string{"revenue", "sales", "income"}},
	{IntentCosts, []string{"cost", "expense", "spending"}},
	{IntentCustomers, []string{"customer", "client", "user"}},
	{IntentTrend, []string{"trend", "pattern", "change"}},
	{IntentPerformance, []string{"performance", "kpi", "metric"}},
}

// Classify buckets a natural-language question by plain substring match.
func Classify(query string) string {
	lower := strings.ToLower(query)
	for _, rule := range intentRules {
		for _, k := range rule.keywords {
			if strings.Contains(lower, k) {
				return rule.intent
			}
		}
	}
	return IntentGeneral
}

var suggestedQueries = map[string][]string{
	IntentRevenue: {
		"What caused the revenue change?",
		"How does revenue compare to last month?",
		"Which products contribute most to revenue?",
	},
	IntentCosts: {
		"Where are costs increasing the most?",
		"How can we optimize our cost structure?",
		"What is the cost per customer?",
	},
	IntentCustomers: {
		"Who are our most valuable customers?",
		"What is the customer retention rate?",
		"How do customers behave differently?",
	},
}

// SuggestedQueries returns follow-up questions for an intent. Intents
// without suggestions get an empty slice.
func SuggestedQueries(intent string) []string {
	out := []string{}
	return append(out, suggestedQueries[intent]...)
}
