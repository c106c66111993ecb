package parser

import "strings"

// parseFallback segments a command the parser could not handle.
// It splits on |, ||, &&, ; and a trailing &, skipping quoted text.
func parseFallback(cmd string) Script {
	result := Script{Raw: cmd}
	segments, ops := splitSegments(cmd)
	result.Operators = ops

	for _, seg := range segments {
		words := splitWords(seg)
		for len(words) > 0 && isAssignment(words[0]) {
			words = words[1:]
		}
		if len(words) == 0 {
			continue
		}
		result.Commands = append(result.Commands, Command{Program: words[0], Args: words[1:]})
	}
	return result
}

// isAssignment reports whether word has the NAME=value form.
func isAssignment(word string) bool {
	name, _, ok := strings.Cut(word, "=")
	if !ok || name == "" {
		return false
	}
	for i, r := range name {
		letter := r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
		if !letter && (i == 0 || r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// splitSegments splits a shell command by its list operators and reports
// the operators seen, in order.
func splitSegments(cmd string) ([]string, []string) {
	var segments, ops []string
	var current strings.Builder
	flush := func(op string) {
		segments = append(segments, current.String())
		current.Reset()
		ops = append(ops, op)
	}

	for i := 0; i < len(cmd); i++ {
		ch := cmd[i]

		switch ch {
		case '|':
			switch {
			case i+1 < len(cmd) && cmd[i+1] == '|':
				flush("||")
				i++
			case i+1 < len(cmd) && cmd[i+1] == '&':
				flush("|&")
				i++
			default:
				flush("|")
			}
		case '&':
			switch {
			case i+1 < len(cmd) && cmd[i+1] == '&':
				flush("&&")
				i++
			case i+1 < len(cmd) && cmd[i+1] == '>':
				// &> redirection
				current.WriteByte(ch)
			case i > 0 && cmd[i-1] == '>':
				// >& redirection
				current.WriteByte(ch)
			default:
				flush("&")
			}
		case ';':
			flush(";")
		case '\'', '"':
			quote := ch
			current.WriteByte(ch)
			i++
			for i < len(cmd) && cmd[i] != quote {
				if quote == '"' && cmd[i] == '\\' && i+1 < len(cmd) {
					current.WriteByte(cmd[i])
					i++
				}
				current.WriteByte(cmd[i])
				i++
			}
			if i < len(cmd) {
				current.WriteByte(cmd[i])
			}
		default:
			current.WriteByte(ch)
		}
	}

	if current.Len() > 0 {
		segments = append(segments, current.String())
	}
	return segments, ops
}

// splitWords splits one segment into words. Quotes group text and are
// dropped; a backslash outside single quotes escapes the next rune.
func splitWords(seg string) []string {
	var words []string
	var word strings.Builder
	inWord := false
	var quote rune
	escaped := false

	for _, r := range seg {
		switch {
		case escaped:
			word.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				word.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case r == ' ' || r == '\t' || r == '\n':
			if inWord {
				words = append(words, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		words = append(words, word.String())
	}
	return words
}
