package lexer

// TokenType identifies the kind of a classified lexeme.
type TokenType string

const (
	// Operands
	VARIABLE TokenType = "VARIABLE" // Scalar or vector reference (e.g. ready, data3, bus[3..0])
	CONSTANT TokenType = "CONSTANT" // Constant (e.g. 2'b10, 'hFF, 12)

	// Whole-statement introducers
	COMMENT TokenType = "COMMENT" // Quoted comment text
	LIBRARY TokenType = "LIBRARY" // #library directive or its path argument

	// Assignment operators
	ASSIGNMENT TokenType = "ASSIGNMENT" // =
	CLOCK      TokenType = "CLOCK"      // <= or <=@clockName

	// Prefix markers
	ASTERISK TokenType = "ASTERISK" // * (display marker)
	NEGATION TokenType = "NEGATION" // ~

	// Infix operators
	OR       TokenType = "OR"       // |
	XOR      TokenType = "XOR"      // ^
	EQUAL_TO TokenType = "EQUAL_TO" // ==
	MATH     TokenType = "MATH"     // + or -

	// Display formatting
	FORMATTER TokenType = "FORMATTER" // %u, %b, %h, %d

	// Module structure
	DECLARATION   TokenType = "DECLARATION"   // The design's own module header name
	INSTANTIATION TokenType = "INSTANTIATION" // Design.instance

	// Whitespace and separators
	SPACE     TokenType = "SPACE"
	NEWLINE   TokenType = "NEWLINE"
	SEMICOLON TokenType = "SEMICOLON"
	COLON     TokenType = "COLON"
	COMMA     TokenType = "COMMA"
	LPAREN    TokenType = "LPAREN"
	RPAREN    TokenType = "RPAREN"
	LCONCAT   TokenType = "LCONCAT" // {
	RCONCAT   TokenType = "RCONCAT" // }
)

// Token is a lexeme annotated with its recognized kind.
type Token struct {
	Type  TokenType `json:"type"`
	Value string    `json:"value"`
}

// NewToken creates a token of the given kind.
func NewToken(typ TokenType, value string) Token {
	return Token{Type: typ, Value: value}
}

// IsOperator returns true for infix boolean or math operators.
func (t Token) IsOperator() bool {
	switch t.Type {
	case OR, XOR, EQUAL_TO, MATH:
		return true
	}
	return false
}

// IsOperand returns true for tokens that carry a value in an expression.
func (t Token) IsOperand() bool {
	switch t.Type {
	case VARIABLE, CONSTANT:
		return true
	}
	return false
}

// IsWhitespace returns true for space and newline tokens.
func (t Token) IsWhitespace() bool {
	return t.Type == SPACE || t.Type == NEWLINE
}

// StatementType is the grammatical category assigned to one statement.
type StatementType string

const (
	EmptyStmt         StatementType = "EMPTY"
	CommentStmt       StatementType = "COMMENT"
	LibraryStmt       StatementType = "LIBRARY"
	DisplayStmt       StatementType = "DISPLAY"
	AssignmentStmt    StatementType = "ASSIGNMENT"
	ClockStmt         StatementType = "CLOCK_ASSIGNMENT"
	HeaderStmt        StatementType = "HEADER"
	InstantiationStmt StatementType = "INSTANTIATION"
)

// Statement is a fully scanned and validated source statement.
type Statement struct {
	Line   int           `json:"line"`
	Type   StatementType `json:"type"`
	Text   string        `json:"text"`
	Tokens []Token       `json:"tokens"`
}

// LibraryPath returns the path argument of a library statement, or "" when
// the statement is not a library directive.
func (s *Statement) LibraryPath() string {
	if s.Type != LibraryStmt {
		return ""
	}
	for _, t := range s.Tokens {
		if t.Type == LIBRARY && t.Value != LibraryDirective {
			return t.Value
		}
	}
	return ""
}
