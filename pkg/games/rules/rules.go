// Package rules implements the constraint validation engine: pure,
// stateless predicate evaluation over a fixed-width boolean vector.
package rules

// Kind identifies the predicate shape of a rule.
type Kind int

const (
	// KindExactCount requires exactly Count of Indices to be true.
	KindExactCount Kind = iota
	// KindImplication requires Then to hold ThenState whenever If
	// holds IfState. Vacuously true when the antecedent is false.
	KindImplication
	// KindExactlyOne requires exactly one of Indices to be true.
	KindExactlyOne
	// KindAllEqual requires every index in Indices to share the same
	// boolean value.
	KindAllEqual
)

// Rule is one predicate over the shared boolean vector.
type Rule struct {
	ID        string
	Kind      Kind
	Indices   []int
	Count     int
	If        int
	IfState   bool
	Then      int
	ThenState bool
	// Text is the human-readable rulebook line shown to players.
	Text string
}

// Related returns the indices the rule depends on.
func (r Rule) Related() []int {
	if r.Kind == KindImplication {
		return []int{r.If, r.Then}
	}
	return r.Indices
}

// Satisfied evaluates the rule against the vector.
func (r Rule) Satisfied(vector []bool) bool {
	switch r.Kind {
	case KindExactCount:
		count := 0
		for _, i := range r.Indices {
			if vector[i] {
				count++
			}
		}
		return count == r.Count
	case KindImplication:
		if vector[r.If] != r.IfState {
			return true
		}
		return vector[r.Then] == r.ThenState
	case KindExactlyOne:
		count := 0
		for _, i := range r.Indices {
			if vector[i] {
				count++
			}
		}
		return count == 1
	case KindAllEqual:
		for _, i := range r.Indices[1:] {
			if vector[i] != vector[r.Indices[0]] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// RuleResult is the per-rule verdict of one evaluation.
type RuleResult struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Satisfied bool   `json:"satisfied"`
}

// Report aggregates the verdicts of one evaluation.
type Report struct {
	PerRule      []RuleResult `json:"rules"`
	Satisfied    int          `json:"satisfied"`
	Total        int          `json:"total"`
	AllSatisfied bool         `json:"allSatisfied"`
}

// Evaluate checks every rule against the vector. Same inputs always
// produce the same report.
func Evaluate(rs []Rule, vector []bool) Report {
	report := Report{
		PerRule: make([]RuleResult, 0, len(rs)),
		Total:   len(rs),
	}
	for _, r := range rs {
		ok := r.Satisfied(vector)
		if ok {
			report.Satisfied++
		}
		report.PerRule = append(report.PerRule, RuleResult{
			ID:        r.ID,
			Text:      r.Text,
			Satisfied: ok,
		})
	}
	report.AllSatisfied = report.Satisfied == report.Total
	return report
}
