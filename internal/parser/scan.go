// Package parser provides shell command parsing utilities.
package parser

import (
	"regexp"
	"strings"
)

// TokenGrammar is the path-token grammar used on raw command text. A token
// is a maximal run of characters that are not whitespace, quotes, backticks,
// shell punctuation (; | & < > ( )) or '='.
const TokenGrammar = "[^\\s\"'`;|&<>()=]+"

var tokenPattern = regexp.MustCompile(TokenGrammar)

// Tokens splits raw command text into path-like tokens.
// It never interprets quoting; quote characters only terminate tokens.
func Tokens(cmd string) []string {
	return tokenPattern.FindAllString(cmd, -1)
}

// PathGrammar returns the anchored expression a token must match to be
// treated as a file under root with the given extension:
//
//	^(?:[^/]*/)*?<root>/(?:[^/]+/)*[^/]+<ext>$
//
// root must start the token or follow a '/', so "xsrc/a.rs" is not under "src".
func PathGrammar(root, ext string) string {
	root = strings.Trim(root, "/")
	return `^(?:[^/]*/)*?` + regexp.QuoteMeta(root) + `/(?:[^/]+/)*[^/]+` + regexp.QuoteMeta(ext) + `$`
}

// PathScanner finds governed file paths embedded in command text.
type PathScanner struct {
	path *regexp.Regexp
}

// NewPathScanner compiles the path grammar for root and ext.
func NewPathScanner(root, ext string) *PathScanner {
	return &PathScanner{path: regexp.MustCompile(PathGrammar(root, ext))}
}

// Scan returns every distinct matching token in first-seen order.
func (s *PathScanner) Scan(cmd string) []string {
	if s == nil || cmd == "" {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	for _, tok := range Tokens(cmd) {
		if seen[tok] || !s.path.MatchString(tok) {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// Match reports whether a single word, such as an unquoted shell argument,
// names a governed file.
func (s *PathScanner) Match(word string) bool {
	return s != nil && s.path.MatchString(word)
}
