package policy

import (
	"fmt"
	"regexp"

	"github.com/adrianpk/layerguard/internal/config"
	"github.com/adrianpk/layerguard/internal/parser"
)

// Guard rejects shell commands that match a pattern or use an operator.
type Guard struct {
	Name     string
	Operator string
	Reason   string
	Message  string
	pattern  *regexp.Regexp
}

// NewGuard compiles a command guard.
func NewGuard(cfg config.GuardConfig) (*Guard, error) {
	g := &Guard{
		Name:     cfg.Name,
		Operator: cfg.Operator,
		Reason:   cfg.Reason,
		Message:  cfg.Message,
	}
	if cfg.Pattern != "" {
		re, err := regexp.Compile(cfg.Pattern)
		if err != nil {
			return nil, fmt.Errorf("guard %s: %w", cfg.Name, err)
		}
		g.pattern = re
	}
	return g, nil
}

// Check returns a violation when the command trips the guard. Both the
// pattern and the operator must fire when both are set.
func (g *Guard) Check(script parser.Script) *Violation {
	if script.Raw == "" {
		return nil
	}
	if g.pattern != nil && !g.pattern.MatchString(script.Raw) {
		return nil
	}
	if g.Operator != "" && !script.HasOperator(g.Operator) {
		return nil
	}
	headline := g.Message
	if headline == "" {
		headline = "🚫 command blocked: " + g.Name
	}
	return &Violation{
		Code:     CommandBlocked,
		Message:  g.Reason,
		Headline: headline,
	}
}
