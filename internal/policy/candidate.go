package policy

import (
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ActionDescription is the tool-agnostic view of one attempted action.
// An empty Path or Command means the field is absent. Cwd is the working
// directory of the agent, when known.
type ActionDescription struct {
	Path    string
	Content *string
	Command string
	Cwd     string
}

// Candidate is one file target derived from an action.
// Content is nil when the text about to be written is unknown.
type Candidate struct {
	Path    string  `json:"path"`
	Content *string `json:"content,omitempty"`
	Cwd     string  `json:"-"`
}

// normalizePath converts separators to '/' and applies NFKC so that
// look-alike characters cannot dodge a layer match.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	return norm.NFKC.String(p)
}

// isAbs reports whether a normalized path is absolute, including drive
// letter paths such as C:/src.
func isAbs(p string) bool {
	if strings.HasPrefix(p, "/") {
		return true
	}
	return len(p) >= 3 && p[1] == ':' && p[2] == '/' &&
		(p[0] >= 'a' && p[0] <= 'z' || p[0] >= 'A' && p[0] <= 'Z')
}

// candidateKey identifies a candidate path regardless of spelling.
func candidateKey(p string) string {
	return path.Clean(normalizePath(p))
}

// fileName returns the base name of a normalized path.
func fileName(p string) string {
	if p == "" || strings.HasSuffix(p, "/") {
		return ""
	}
	return path.Base(p)
}

// dirOf returns the cleaned directory of a normalized path.
func dirOf(p string) string {
	return path.Clean(path.Dir(p))
}

// segments splits a directory or layer into lower-case, non-empty segments.
func segments(p string) []string {
	var out []string
	for _, s := range strings.Split(strings.ToLower(p), "/") {
		if s == "" || s == "." {
			continue
		}
		out = append(out, s)
	}
	return out
}

// containsSegments reports whether want appears in have as a contiguous run.
func containsSegments(have, want []string) bool {
	if len(want) == 0 {
		return false
	}
	for i := 0; i+len(want) <= len(have); i++ {
		match := true
		for j := range want {
			if have[i+j] != want[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// inLayer reports whether dir lies under layer.
func inLayer(dir, layer string) bool {
	return containsSegments(segments(dir), segments(normalizePath(layer)))
}
