package lexer

import (
	"fmt"
	"strings"
)

// scanner walks one statement's characters and groups them into lexemes.
// It performs character-by-character processing with one byte of lookahead,
// tracking a grouping stack for parentheses and concatenation braces.
type scanner struct {
	input   string
	pos     int
	lexemes []string
	current strings.Builder
	groups  []byte // open '(' and '{' in nesting order
}

// Scan splits one statement's text into lexemes. Separator characters end
// the lexeme under construction and are emitted on their own; multi
// character operators are coalesced with lookahead. The first lexical
// error aborts the scan.
func Scan(text string) ([]string, error) {
	s := &scanner{input: text, lexemes: make([]string, 0, 16)}
	for !s.atEnd() {
		if err := s.scanChar(); err != nil {
			return nil, err
		}
	}
	s.flush()
	if len(s.groups) > 0 {
		return nil, fmt.Errorf("'%c' is never closed", s.groups[len(s.groups)-1])
	}
	return s.lexemes, nil
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.input[s.pos]
}

func (s *scanner) peekNext() byte {
	if s.pos+1 >= len(s.input) {
		return 0
	}
	return s.input[s.pos+1]
}

func (s *scanner) advance() byte {
	ch := s.input[s.pos]
	s.pos++
	return ch
}

// flush emits the lexeme under construction, if any.
func (s *scanner) flush() {
	if s.current.Len() > 0 {
		s.lexemes = append(s.lexemes, s.current.String())
		s.current.Reset()
	}
}

func (s *scanner) emit(lexeme string) {
	s.flush()
	s.lexemes = append(s.lexemes, lexeme)
}

func isNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}

// isLexemeChar reports whether c may appear inside a multi-character
// lexeme: names, bit references, constants, formatters, instantiations,
// library directives and paths.
func isLexemeChar(c byte) bool {
	if isNameChar(c) {
		return true
	}
	switch c {
	case '\'', '.', '[', ']', '%', '#', '/', '\\':
		return true
	}
	return false
}

func (s *scanner) scanChar() error {
	ch := s.peek()

	switch ch {
	case ' ', '\t':
		s.advance()
		s.emit(" ")
		return nil

	case '\n':
		s.advance()
		s.emit("\n")
		return nil

	case '\r':
		s.advance()
		return nil

	case ';', ',', ':':
		s.advance()
		s.emit(string(ch))
		return nil

	case '^', '|', '+', '-':
		s.advance()
		s.emit(string(ch))
		return nil

	case '(':
		if s.groupTop() == '{' {
			return fmt.Errorf("parentheses are not allowed inside a concatenation")
		}
		s.groups = append(s.groups, '(')
		s.advance()
		s.emit("(")
		return nil

	case ')':
		switch s.groupTop() {
		case 0:
			return fmt.Errorf("')' has no matching '('")
		case '{':
			return fmt.Errorf("')' does not match the open '{'")
		}
		s.groups = s.groups[:len(s.groups)-1]
		s.advance()
		s.emit(")")
		return nil

	case '{':
		if s.groupTop() == '{' {
			return fmt.Errorf("concatenations cannot be nested")
		}
		s.groups = append(s.groups, '{')
		s.advance()
		s.emit("{")
		return nil

	case '}':
		switch s.groupTop() {
		case 0:
			return fmt.Errorf("'}' has no matching '{'")
		case '(':
			return fmt.Errorf("'}' does not match the open '('")
		}
		s.groups = s.groups[:len(s.groups)-1]
		s.advance()
		s.emit("}")
		return nil

	case '~':
		// Runs of '~' cancel down to a single negation.
		for !s.atEnd() && s.peek() == '~' {
			s.advance()
		}
		s.emit("~")
		return nil

	case '*':
		for !s.atEnd() && s.peek() == '*' {
			s.advance()
		}
		s.emit("*")
		return nil

	case '<':
		return s.scanClock()

	case '=':
		s.advance()
		if s.peek() == '=' {
			s.advance()
			s.emit("==")
		} else {
			s.emit("=")
		}
		return nil

	case '"':
		return s.scanComment()

	default:
		if isLexemeChar(ch) {
			s.current.WriteByte(s.advance())
			return nil
		}
		return fmt.Errorf("invalid character '%c'", ch)
	}
}

// scanClock handles "<=" and its named form "<=@clockName". A bare '<' is
// emitted as its own lexeme and rejected downstream.
func (s *scanner) scanClock() error {
	s.advance() // <
	if s.peek() != '=' {
		s.emit("<")
		return nil
	}
	s.advance() // =
	if s.peek() != '@' {
		s.emit("<=")
		return nil
	}
	var clock strings.Builder
	clock.WriteString("<=@")
	s.advance() // @
	for !s.atEnd() && isNameChar(s.peek()) {
		clock.WriteByte(s.advance())
	}
	if clock.Len() == len("<=@") {
		return fmt.Errorf("'<=@' is missing a clock name")
	}
	s.emit(clock.String())
	return nil
}

// scanComment captures a quoted comment, including both quotes, as a
// single lexeme.
func (s *scanner) scanComment() error {
	var comment strings.Builder
	comment.WriteByte(s.advance()) // opening quote
	for !s.atEnd() && s.peek() != '"' && s.peek() != '\n' {
		comment.WriteByte(s.advance())
	}
	if s.atEnd() || s.peek() != '"' {
		return fmt.Errorf(`comment is missing a closing '"'`)
	}
	comment.WriteByte(s.advance()) // closing quote
	s.emit(comment.String())
	return nil
}

func (s *scanner) groupTop() byte {
	if len(s.groups) == 0 {
		return 0
	}
	return s.groups[len(s.groups)-1]
}
