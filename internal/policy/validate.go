package policy

import (
	"fmt"
	"path"
	"strings"
)

// Code classifies a violation.
type Code string

const (
	UnknownSuffix   Code = "unknown_suffix"
	WrongLayer      Code = "wrong_layer"
	IsolationBreach Code = "isolation_breach"
	CommandBlocked  Code = "command_blocked"
)

// Violation is one reason an action must be denied.
type Violation struct {
	Code     Code   `json:"code"`
	Path     string `json:"path,omitempty"`
	Layer    string `json:"layer,omitempty"`
	Message  string `json:"message"`
	Headline string `json:"headline"`
}

// Validate checks one candidate and returns nil when it passes.
//
// Gates run in order and the first failure wins: governed extension and
// scope, whitelist, known suffix, required layer, then content isolation.
func Validate(c Candidate, t *RuleTable, isolation []*IsolationRule) *Violation {
	p := normalizePath(c.Path)
	name := fileName(p)
	if !t.Governs(name) || t.Excluded(p, c.Cwd) {
		return nil
	}
	if t.Whitelisted(name) {
		return nil
	}

	entry, ok := t.LayerFor(name)
	if !ok {
		return &Violation{
			Code: UnknownSuffix,
			Path: c.Path,
			Message: fmt.Sprintf("%s: file name does not declare an architectural layer; rename it with one of: %s",
				c.Path, strings.Join(t.Suffixes(), ", ")),
			Headline: "🚫 unknown file suffix: " + name,
		}
	}

	dir := dirOf(p)
	// Only directories inside the project count towards a layer.
	projectDir := dirOf(t.scopePath(path.Clean(p), c.Cwd))
	if !inLayer(projectDir, entry.Layer) {
		return &Violation{
			Code:  WrongLayer,
			Path:  c.Path,
			Layer: entry.Layer,
			Message: fmt.Sprintf("%s: files ending in %s belong to layer %q, but the directory is %q; move it under .../%s/",
				c.Path, entry.Suffix, entry.Layer, dir, entry.Layer),
			Headline: fmt.Sprintf("🚫 wrong layer: %s belongs in %s", name, entry.Layer),
		}
	}

	if c.Content == nil {
		return nil
	}
	for _, r := range isolation {
		layer, restricted := r.Restricted(projectDir)
		if !restricted {
			continue
		}
		found, ok := r.FirstMatch(*c.Content)
		if !ok {
			continue
		}
		msg := fmt.Sprintf("%s: %q is forbidden in the %s layer (%s)", c.Path, found, layer, r.Name)
		if r.Message != "" {
			msg += ": " + r.Message
		}
		return &Violation{
			Code:     IsolationBreach,
			Path:     c.Path,
			Layer:    layer,
			Message:  msg,
			Headline: fmt.Sprintf("🚫 isolation breach in %s: %s", layer, found),
		}
	}
	return nil
}
