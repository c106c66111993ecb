package policy

import (
	"strings"

	"github.com/adrianpk/layerguard/internal/parser"
)

// Extractor derives candidates from an action.
type Extractor struct {
	scanner *parser.PathScanner
}

// NewExtractor builds an extractor for the table's root and extension.
func NewExtractor(t *RuleTable) *Extractor {
	return &Extractor{scanner: parser.NewPathScanner(t.SourceRoot, t.Extension)}
}

// Extract returns the direct target first, then every distinct governed
// path embedded in the command. Embedded paths carry no content.
func (e *Extractor) Extract(a ActionDescription) []Candidate {
	var script parser.Script
	if a.Command != "" {
		script = parser.Parse(a.Command)
	}
	return e.extract(a, script)
}

// extract works on an already parsed command. Raw tokens come first; words
// of the parsed command add paths that quoting split apart, such as
// "src/a b_entity.rs". A path already seen is skipped, including the direct
// target.
func (e *Extractor) extract(a ActionDescription, script parser.Script) []Candidate {
	var out []Candidate
	seen := make(map[string]bool)
	add := func(c Candidate) {
		key := candidateKey(c.Path)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, c)
	}

	if a.Path != "" {
		add(Candidate{Path: a.Path, Content: a.Content, Cwd: a.Cwd})
	}
	if a.Command == "" {
		return out
	}
	for _, p := range e.scanner.Scan(a.Command) {
		add(Candidate{Path: p, Cwd: a.Cwd})
	}
	for _, w := range script.Words() {
		// Expansions are unknown until run time.
		if strings.ContainsAny(w, "$\n") || !e.scanner.Match(w) {
			continue
		}
		add(Candidate{Path: w, Cwd: a.Cwd})
	}
	return out
}
