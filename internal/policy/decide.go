package policy

import "fmt"

// Decision is the aggregated outcome for one action.
type Decision struct {
	Allow          bool        `json:"allow"`
	Reasons        []string    `json:"reasons,omitempty"`
	DisplayMessage string      `json:"display_message,omitempty"`
	Violations     []Violation `json:"violations,omitempty"`
}

// Allowed is the decision for an action with nothing to object to.
func Allowed() Decision {
	return Decision{Allow: true}
}

// Decide validates every candidate and collects all violations in
// candidate order.
func Decide(candidates []Candidate, t *RuleTable, isolation []*IsolationRule) Decision {
	var vs []Violation
	for _, c := range candidates {
		if v := Validate(c, t, isolation); v != nil {
			vs = append(vs, *v)
		}
	}
	return aggregate(vs)
}

func aggregate(vs []Violation) Decision {
	if len(vs) == 0 {
		return Allowed()
	}
	d := Decision{Violations: vs}
	for _, v := range vs {
		d.Reasons = append(d.Reasons, v.Message)
	}
	d.DisplayMessage = headline(vs)
	return d
}

func headline(vs []Violation) string {
	if len(vs) == 1 {
		return vs[0].Headline
	}
	files := make(map[string]bool)
	for _, v := range vs {
		if v.Path != "" {
			files[v.Path] = true
		}
	}
	if len(files) == len(vs) {
		return fmt.Sprintf("🚫 architecture violations in %d files", len(files))
	}
	return fmt.Sprintf("🚫 %d policy violations", len(vs))
}
