package blooms

import "strings"

// Unclassified is returned when no rule matches.
const Unclassified = "Unclassified"

// Rule pairs a level label with its trigger keywords.
type Rule struct {
	Label    string
	Keywords []string
}

// Rules is evaluated in order; the first rule with a matching keyword wins.
type Rules []Rule

// DefaultRules is the six-level keyword table.
var DefaultRules = Rules{
	{Label: "Remember", Keywords: []string{"define", "list", "state", "recall"}},
	{Label: "Understand", Keywords: []string{"explain", "summarize", "describe"}},
	{Label: "Apply", Keywords: []string{"solve", "use", "demonstrate"}},
	{Label: "Analyze", Keywords: []string{"compare", "differentiate", "examine"}},
	{Label: "Evaluate", Keywords: []string{"assess", "justify", "criticize"}},
	{Label: "Create", Keywords: []string{"design", "formulate", "construct"}},
}

// Classify returns the label of the first rule whose keyword occurs
// anywhere in question, ignoring case. Matching is by substring, so
// "misuse" matches "use".
func (r Rules) Classify(question string) string {
	q := strings.ToLower(question)
	for _, rule := range r {
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(q, strings.ToLower(kw)) {
				return rule.Label
			}
		}
	}
	return Unclassified
}
