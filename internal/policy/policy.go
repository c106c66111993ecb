// Package policy decides whether an attempted file write or shell command
// conforms to the configured layered architecture.
package policy

import (
	"fmt"

	"github.com/adrianpk/layerguard/internal/config"
	"github.com/adrianpk/layerguard/internal/parser"
)

// Policy is the compiled, read-only rule set. It is safe for concurrent use.
type Policy struct {
	Table     *RuleTable
	Isolation []*IsolationRule
	Guards    []*Guard

	extractor *Extractor
}

// New compiles cfg into a Policy.
func New(cfg *config.Config) (*Policy, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	table, err := NewRuleTable(cfg.Architecture, cfg.Scope)
	if err != nil {
		return nil, err
	}

	p := &Policy{Table: table, extractor: NewExtractor(table)}

	for _, ic := range cfg.Isolation {
		r, err := NewIsolationRule(ic)
		if err != nil {
			return nil, err
		}
		p.Isolation = append(p.Isolation, r)
	}

	for _, gc := range cfg.Commands.Guards {
		g, err := NewGuard(gc)
		if err != nil {
			return nil, err
		}
		p.Guards = append(p.Guards, g)
	}

	return p, nil
}

// Extract derives the candidates of an action.
func (p *Policy) Extract(a ActionDescription) []Candidate {
	return p.extractor.Extract(a)
}

// Validate checks one candidate.
func (p *Policy) Validate(c Candidate) *Violation {
	return Validate(c, p.Table, p.Isolation)
}

// Decide aggregates the outcome of every candidate.
func (p *Policy) Decide(candidates []Candidate) Decision {
	return Decide(candidates, p.Table, p.Isolation)
}

// Evaluate decides a full action: command guard violations first, in guard
// order, then every candidate violation.
func (p *Policy) Evaluate(a ActionDescription) Decision {
	var vs []Violation
	var script parser.Script
	if a.Command != "" {
		script = parser.Parse(a.Command)
		for _, g := range p.Guards {
			if v := g.Check(script); v != nil {
				vs = append(vs, *v)
			}
		}
	}
	for _, c := range p.extractor.extract(a, script) {
		if v := p.Validate(c); v != nil {
			vs = append(vs, *v)
		}
	}
	return aggregate(vs)
}
