package policy

import (
	"fmt"
	"regexp"

	"github.com/adrianpk/layerguard/internal/config"
)

// IsolationRule forbids content patterns in files placed under any of its
// layers.
type IsolationRule struct {
	Name    string
	Layers  []string
	Forbid  []*regexp.Regexp
	Message string
}

// NewIsolationRule compiles an isolation rule.
func NewIsolationRule(cfg config.IsolationConfig) (*IsolationRule, error) {
	r := &IsolationRule{
		Name:    cfg.Name,
		Layers:  append([]string(nil), cfg.Layers...),
		Message: cfg.Message,
	}
	for _, f := range cfg.Forbid {
		re, err := regexp.Compile(f)
		if err != nil {
			return nil, fmt.Errorf("isolation %s: forbid %q: %w", cfg.Name, f, err)
		}
		r.Forbid = append(r.Forbid, re)
	}
	return r, nil
}

// Restricted returns the first layer of the rule that dir lies under.
func (r *IsolationRule) Restricted(dir string) (string, bool) {
	for _, l := range r.Layers {
		if inLayer(dir, l) {
			return l, true
		}
	}
	return "", false
}

// FirstMatch returns the first forbidden construct found in content.
func (r *IsolationRule) FirstMatch(content string) (string, bool) {
	for _, re := range r.Forbid {
		if m := re.FindString(content); m != "" {
			return m, true
		}
	}
	return "", false
}
