package policy

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"

	"github.com/adrianpk/layerguard/internal/config"
)

// RuleEntry maps a filename suffix to the layer it must be placed in.
type RuleEntry struct {
	Suffix string
	Layer  string
}

// RuleTable is the immutable suffix to layer mapping for one governed
// file extension.
type RuleTable struct {
	Extension  string
	SourceRoot string

	entries   []RuleEntry
	whitelist []glob.Glob
	exclude   []glob.Glob
}

// NewRuleTable compiles the architecture and scope configuration.
func NewRuleTable(arch config.ArchitectureConfig, scope config.ScopeConfig) (*RuleTable, error) {
	t := &RuleTable{
		Extension:  arch.Extension,
		SourceRoot: strings.Trim(arch.SourceRoot, "/"),
	}

	for _, r := range arch.Rules {
		t.entries = append(t.entries, RuleEntry{Suffix: r.Suffix, Layer: r.Layer})
	}

	for _, w := range arch.Whitelist {
		g, err := glob.Compile(w)
		if err != nil {
			return nil, fmt.Errorf("whitelist %q: %w", w, err)
		}
		t.whitelist = append(t.whitelist, g)
	}

	for _, e := range scope.Exclude {
		g, err := glob.Compile(e, '/')
		if err != nil {
			return nil, fmt.Errorf("scope exclude %q: %w", e, err)
		}
		t.exclude = append(t.exclude, g)
	}

	return t, nil
}

// LayerFor returns the first entry, in declaration order, whose suffix ends
// filename. Whitelisted filenames never match.
func (t *RuleTable) LayerFor(filename string) (RuleEntry, bool) {
	if t.Whitelisted(filename) {
		return RuleEntry{}, false
	}
	for _, e := range t.entries {
		if strings.HasSuffix(filename, e.Suffix) {
			return e, true
		}
	}
	return RuleEntry{}, false
}

// Whitelisted reports whether filename is exempt from suffix rules.
func (t *RuleTable) Whitelisted(filename string) bool {
	for _, g := range t.whitelist {
		if g.Match(filename) {
			return true
		}
	}
	return false
}

// Governs reports whether filename carries the governed extension.
func (t *RuleTable) Governs(filename string) bool {
	return t.Extension != "" && strings.HasSuffix(filename, t.Extension)
}

// Excluded reports whether a normalized path is outside the policy scope.
// Globs see the path relative to the project: cwd when the path lies under
// it, otherwise the last source root segment. Relative paths are also tried
// with a leading slash so "**/tests/**" matches "tests/a.rs".
func (t *RuleTable) Excluded(p, cwd string) bool {
	if len(t.exclude) == 0 || p == "" {
		return false
	}
	rel := t.scopePath(path.Clean(p), cwd)
	candidates := []string{rel}
	if !isAbs(rel) {
		candidates = append(candidates, "/"+rel)
	}
	for _, g := range t.exclude {
		for _, c := range candidates {
			if g.Match(c) {
				return true
			}
		}
	}
	return false
}

// scopePath strips the part of an absolute path that lies outside the
// project, so parent directories named like an exclude cannot match.
func (t *RuleTable) scopePath(p, cwd string) string {
	if !isAbs(p) {
		return p
	}
	if cwd != "" {
		root := path.Clean(normalizePath(cwd))
		if root != "/" && strings.HasPrefix(p, root+"/") {
			return p[len(root)+1:]
		}
	}
	if t.SourceRoot == "" {
		return p
	}
	segs := strings.Split(p, "/")
	root := strings.Split(t.SourceRoot, "/")
	for i := len(segs) - len(root) - 1; i >= 0; i-- {
		if equalSegments(segs[i:i+len(root)], root) {
			return strings.Join(segs[i:], "/")
		}
	}
	return p
}

func equalSegments(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Entries returns a copy of the rules in declaration order.
func (t *RuleTable) Entries() []RuleEntry {
	out := make([]RuleEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Suffixes lists every configured suffix in declaration order.
func (t *RuleTable) Suffixes() []string {
	out := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.Suffix)
	}
	return out
}
