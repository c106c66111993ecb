package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// Operators a command guard may name.
var guardOperators = map[string]bool{
	"&&": true,
	"||": true,
	"|":  true,
	";":  true,
	"&":  true,
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks structural constraints and the semantics of the rule table.
func (c *Config) Validate() error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("invalid config: %w", err)
		}
		for _, fe := range verrs {
			problems = append(problems, formatFieldError(fe))
		}
	}

	problems = append(problems, c.checkRules()...)
	problems = append(problems, c.checkPatterns()...)

	if len(problems) > 0 {
		return fmt.Errorf("invalid config:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// checkRules enforces that suffixes are unique, carry the governed
// extension and are mutually exclusive, so declaration order never decides.
func (c *Config) checkRules() []string {
	var problems []string
	ext := c.Architecture.Extension
	rules := c.Architecture.Rules

	for i, r := range rules {
		if ext != "" && r.Suffix != "" && !strings.HasSuffix(r.Suffix, ext) {
			problems = append(problems, fmt.Sprintf("architecture.rules[%d]: suffix %q does not end with %q", i, r.Suffix, ext))
		}
		for j := 0; j < i; j++ {
			other := rules[j].Suffix
			switch {
			case other == r.Suffix:
				problems = append(problems, fmt.Sprintf("architecture.rules[%d]: duplicate suffix %q", i, r.Suffix))
			case strings.HasSuffix(r.Suffix, other) || strings.HasSuffix(other, r.Suffix):
				problems = append(problems, fmt.Sprintf("architecture.rules[%d]: suffix %q overlaps %q", i, r.Suffix, other))
			}
		}
	}
	return problems
}

func (c *Config) checkPatterns() []string {
	var problems []string
	for i, iso := range c.Isolation {
		for _, p := range iso.Forbid {
			if _, err := regexp.Compile(p); err != nil {
				problems = append(problems, fmt.Sprintf("isolation[%d].forbid: %v", i, err))
			}
		}
	}
	for i, g := range c.Commands.Guards {
		if g.Pattern != "" {
			if _, err := regexp.Compile(g.Pattern); err != nil {
				problems = append(problems, fmt.Sprintf("commands.guards[%d].pattern: %v", i, err))
			}
		}
		if g.Operator != "" && !guardOperators[g.Operator] {
			problems = append(problems, fmt.Sprintf("commands.guards[%d].operator: %q is not one of && || | ; &", i, g.Operator))
		}
	}
	return problems
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required", "required_without":
		return field + ": is required"
	case "min":
		return fmt.Sprintf("%s: needs at least %s item(s)", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s: %q is not one of %s", field, fe.Value(), fe.Param())
	case "startswith":
		return fmt.Sprintf("%s: must start with %q", field, fe.Param())
	default:
		return fmt.Sprintf("%s: failed %s", field, fe.Tag())
	}
}
