package parser

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Command represents one simple command found in a shell script.
// Assignments before the program are not part of it.
type Command struct {
	Program string
	Args    []string
}

// Script is the result of parsing a command line.
type Script struct {
	Raw       string
	Commands  []Command
	Operators []string
	// Redirects holds redirection targets such as the file of "> file".
	Redirects []string
	// Parsed is false when the Bash parser rejected the input and the
	// quote-aware fallback segmenter was used instead.
	Parsed bool
}

// Parse parses a shell command string into its commands and list operators.
// Operators inside quotes or heredocs are never reported.
func Parse(cmd string) Script {
	result := Script{Raw: cmd}
	if strings.TrimSpace(cmd) == "" {
		result.Parsed = true
		return result
	}

	p := syntax.NewParser(syntax.KeepComments(false), syntax.Variant(syntax.LangBash))
	file, err := p.Parse(strings.NewReader(cmd), "")
	if err != nil {
		return parseFallback(cmd)
	}

	result.Parsed = true
	syntax.Walk(file, func(node syntax.Node) bool {
		switch n := node.(type) {
		case *syntax.Stmt:
			// Semicolon also marks a terminating '&' or '|&'.
			switch {
			case n.Background:
				result.Operators = append(result.Operators, "&")
			case n.Coprocess:
			case n.Semicolon.IsValid():
				result.Operators = append(result.Operators, ";")
			}
		case *syntax.BinaryCmd:
			if op := binaryOperator(n.Op); op != "" {
				result.Operators = append(result.Operators, op)
			}
		case *syntax.CallExpr:
			if len(n.Args) > 0 {
				result.Commands = append(result.Commands, callToCommand(n))
			}
		case *syntax.Redirect:
			// Heredoc and here-string words are not files.
			if n.Op != syntax.Hdoc && n.Op != syntax.DashHdoc && n.Op != syntax.WordHdoc && n.Word != nil {
				result.Redirects = append(result.Redirects, wordToString(n.Word))
			}
		}
		return true
	})

	return result
}

// HasOperator reports whether the script uses the given list operator.
func (s Script) HasOperator(op string) bool {
	for _, o := range s.Operators {
		if o == op {
			return true
		}
	}
	return false
}

// Words returns every argument and redirection target with quoting
// removed, in source order per kind.
func (s Script) Words() []string {
	var out []string
	for _, c := range s.Commands {
		out = append(out, c.Args...)
	}
	return append(out, s.Redirects...)
}

func binaryOperator(op syntax.BinCmdOperator) string {
	switch op {
	case syntax.AndStmt:
		return "&&"
	case syntax.OrStmt:
		return "||"
	case syntax.Pipe:
		return "|"
	case syntax.PipeAll:
		return "|&"
	}
	return ""
}

func callToCommand(call *syntax.CallExpr) Command {
	var c Command
	c.Program = wordToString(call.Args[0])
	for _, w := range call.Args[1:] {
		c.Args = append(c.Args, wordToString(w))
	}
	return c
}

// wordToString extracts the literal value of a word. Expansions are kept
// in their source form so callers still see that they are there.
func wordToString(w *syntax.Word) string {
	if w == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range w.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(p.Value)
		case *syntax.SglQuoted:
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, inner := range p.Parts {
				if lit, ok := inner.(*syntax.Lit); ok {
					sb.WriteString(lit.Value)
				}
			}
		case *syntax.ParamExp:
			if p.Param != nil {
				if p.Short {
					sb.WriteString("$" + p.Param.Value)
				} else {
					sb.WriteString("${" + p.Param.Value + "}")
				}
			}
		case *syntax.CmdSubst:
			sb.WriteString("$(…)")
		}
	}
	return sb.String()
}
