package expand

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/visiboole/Visiboole-sub000/pkg/lexer"
	"github.com/visiboole/Visiboole-sub000/pkg/namespace"
)

// Horizontal rewrites one statement's text in place: the leftmost vector
// reference, then the leftmost constant, is repeatedly replaced by its
// space-joined expansion. For assignment and header statements the
// resulting bare variable lists are wrapped in concatenation braces.
func Horizontal(text string, stype lexer.StatementType, memo *Memo, reg *namespace.Registry) (string, error) {
	out, err := replaceLeftmost(text, lexer.VectorSearchRegexp, memo, reg)
	if err != nil {
		return "", err
	}
	out, err = replaceLeftmost(out, lexer.ConstantSearchRegexp, memo, reg)
	if err != nil {
		return "", err
	}

	switch stype {
	case lexer.AssignmentStmt, lexer.ClockStmt:
		return wrapAssignmentSides(out), nil
	case lexer.HeaderStmt:
		return wrapHeaderLists(out), nil
	}
	return out, nil
}

// replaceLeftmost expands every match of re in text, left to right. The
// search resumes after each replacement so expanded output is never
// re-matched.
func replaceLeftmost(text string, re *regexp.Regexp, memo *Memo, reg *namespace.Registry) (string, error) {
	offset := 0
	for {
		loc := re.FindStringIndex(text[offset:])
		if loc == nil {
			return text, nil
		}
		start, end := offset+loc[0], offset+loc[1]
		components, err := memo.Operand(text[start:end], reg)
		if err != nil {
			return "", err
		}
		joined := strings.Join(components, " ")
		text = text[:start] + joined + text[end:]
		offset = start + len(joined)
	}
}

// wrapAssignmentSides wraps each side of an assignment in concatenation
// braces when it has expanded to a bare multi-variable list.
func wrapAssignmentSides(text string) string {
	opStart, opEnd := findAssignmentOperator(text)
	if opStart < 0 {
		return text
	}
	left := wrapBareList(text[:opStart])
	right := wrapBareList(strings.TrimSuffix(strings.TrimRight(text[opEnd:], " \n"), ";"))
	out := left + text[opStart:opEnd] + right
	if strings.HasSuffix(strings.TrimRight(text, " \n"), ";") {
		out += ";"
	}
	return out
}

// findAssignmentOperator locates the statement's assignment or clock
// operator, skipping "==" comparisons.
func findAssignmentOperator(text string) (start, end int) {
	for i := 0; i < len(text); i++ {
		if text[i] != '=' {
			continue
		}
		if i+1 < len(text) && text[i+1] == '=' {
			i++ // skip ==
			continue
		}
		if i > 0 && text[i-1] == '<' {
			end = i + 1
			// Include a trailing @clockName.
			if end < len(text) && text[end] == '@' {
				end++
				for end < len(text) && isWordChar(text[end]) {
					end++
				}
			}
			return i - 1, end
		}
		return i, i + 1
	}
	return -1, -1
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// wrapBareList wraps a side in braces when it holds two or more
// space-separated operands and is not already concatenated or grouped.
func wrapBareList(side string) string {
	trimmed := strings.TrimSpace(side)
	if trimmed == "" || strings.ContainsAny(trimmed, "{}()") {
		return side
	}
	fields := strings.Fields(trimmed)
	if len(fields) < 2 {
		return side
	}
	for _, f := range fields {
		if !isBareOperand(f) {
			return side
		}
	}
	leading := side[:len(side)-len(strings.TrimLeft(side, " \n"))]
	trailing := side[len(strings.TrimRight(side, " \n")):]
	return leading + "{" + trimmed + "}" + trailing
}

func isBareOperand(field string) bool {
	return lexer.ScalarRegexp.MatchString(field) || lexer.ConstantRegexp.MatchString(field)
}

// wrapHeaderLists wraps expanded multi-variable runs between the header's
// separators in concatenation braces.
func wrapHeaderLists(text string) string {
	open := strings.IndexByte(text, '(')
	closing := strings.LastIndexByte(text, ')')
	if open < 0 || closing < open {
		return text
	}
	interior := text[open+1 : closing]
	var b strings.Builder
	segment := strings.Builder{}
	flush := func() {
		b.WriteString(wrapBareList(segment.String()))
		segment.Reset()
	}
	for i := 0; i < len(interior); i++ {
		c := interior[i]
		if c == ',' || c == ':' {
			flush()
			b.WriteByte(c)
			continue
		}
		segment.WriteByte(c)
	}
	flush()
	return text[:open+1] + b.String() + text[closing:]
}

// Vertical rewrites one assignment or clock statement into its
// scalar-equivalent statement lines, one per expanded index. It returns
// nil when the statement is already scalar. The dependent side and every
// expression operand must expand to the same element count.
func Vertical(stmt *lexer.Statement, memo *Memo, reg *namespace.Registry) ([]string, error) {
	if stmt.Type != lexer.AssignmentStmt && stmt.Type != lexer.ClockStmt {
		return nil, nil
	}

	opIdx := -1
	for i, t := range stmt.Tokens {
		if t.Type == lexer.ASSIGNMENT || t.Type == lexer.CLOCK {
			opIdx = i
			break
		}
	}
	if opIdx < 0 {
		return nil, nil
	}

	var dependents []string
	for _, t := range stmt.Tokens[:opIdx] {
		if t.Type != lexer.VARIABLE {
			continue
		}
		components, err := memo.Operand(t.Value, reg)
		if err != nil {
			return nil, err
		}
		dependents = append(dependents, components...)
	}
	n := len(dependents)
	if n == 0 {
		return nil, nil
	}

	// Expand every right-hand operand up front so unequal counts are
	// caught before any output is produced.
	expansions := make(map[int][]string)
	scalar := n == 1
	for i := opIdx + 1; i < len(stmt.Tokens); i++ {
		t := stmt.Tokens[i]
		if !t.IsOperand() {
			continue
		}
		components, err := memo.Operand(t.Value, reg)
		if err != nil {
			return nil, err
		}
		if len(components) != n {
			return nil, fmt.Errorf("expression element counts must be consistent")
		}
		if len(components) > 1 || components[0] != t.Value {
			scalar = false
		}
		expansions[i] = components
	}
	if scalar {
		return nil, nil
	}

	op := stmt.Tokens[opIdx]
	lines := make([]string, n)
	for i := 0; i < n; i++ {
		var b strings.Builder
		b.WriteString(dependents[i])
		b.WriteString(" ")
		b.WriteString(op.Value)
		for j := opIdx + 1; j < len(stmt.Tokens); j++ {
			t := stmt.Tokens[j]
			switch t.Type {
			case lexer.SEMICOLON:
				// Emitted after the loop.
			case lexer.NEWLINE:
				b.WriteString(" ")
			case lexer.VARIABLE, lexer.CONSTANT:
				b.WriteString(expansions[j][i])
			default:
				b.WriteString(t.Value)
			}
		}
		lines[i] = strings.TrimRight(b.String(), " ") + ";"
	}
	return lines, nil
}
