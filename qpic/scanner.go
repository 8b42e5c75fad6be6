package qpic

import "strings"

// statement is one non-empty source line split into tokens.
type statement struct {
	line   int
	tokens []string
}

// scan splits source into statements, stripping comments and blank lines.
// A '#' outside any token starts a comment running to end of line.
func scan(src string) []statement {
	var stmts []statement
	for i, raw := range strings.Split(src, "\n") {
		line := raw
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		stmts = append(stmts, statement{line: i + 1, tokens: tokens})
	}
	return stmts
}
