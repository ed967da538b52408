package lexer

import "fmt"

// Diagnostic is one reported problem, keyed by the source line the
// statement starts on.
type Diagnostic struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// String renders the diagnostic in the design error-log format.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d: %s.", d.Line, d.Message)
}

// Lexer scans, classifies and validates statements for one design.
type Lexer struct {
	ctx *Context
}

// New creates a Lexer over the given design context.
func New(ctx *Context) *Lexer {
	return &Lexer{ctx: ctx}
}

// Context returns the design context the lexer scans against.
func (l *Lexer) Context() *Context {
	return l.ctx
}

// parser holds the line-scoped state discarded after every statement:
// the statement classification, the parentheses levels, and the
// separator bookkeeping.
type parser struct {
	ctx          *Context
	lexemes      []string
	consumed     []Token
	stype        StatementType
	levels       []*level
	family       string // "", "math" or "boolean"
	colonSeen    bool
	insideModule bool
	moduleDepth  int
	concat       *concat
}

// ScanStatement processes one statement's text. It returns the typed
// statement on success, or nil and the diagnostics found. The line number
// is supplied by the caller and used only for reporting.
func (l *Lexer) ScanStatement(text string, line int) (*Statement, []Diagnostic) {
	lexemes, err := Scan(text)
	if err != nil {
		return nil, []Diagnostic{{Line: line, Message: err.Error()}}
	}

	if isLibraryStatement(lexemes) {
		return scanLibrary(text, lexemes, line)
	}

	tokens, diags := l.classify(lexemes, line)
	if len(diags) > 0 {
		return nil, diags
	}

	p := &parser{ctx: l.ctx, lexemes: lexemes, stype: EmptyStmt}
	for i, t := range tokens {
		if err := p.checkConcatInterior(t); err != nil {
			return nil, []Diagnostic{{Line: line, Message: err.Error()}}
		}
		if err := p.transition(t); err != nil {
			return nil, []Diagnostic{{Line: line, Message: err.Error()}}
		}
		if err := p.validate(i, t); err != nil {
			return nil, []Diagnostic{{Line: line, Message: err.Error()}}
		}
		p.consumed = append(p.consumed, t)
	}

	return &Statement{Line: line, Type: p.stype, Text: text, Tokens: tokens}, nil
}

// classify runs the token classifier over every lexeme. Classification
// continues past failures so independent problems on one statement are
// all reported, but exact duplicate messages are suppressed.
func (l *Lexer) classify(lexemes []string, line int) ([]Token, []Diagnostic) {
	tokens := make([]Token, 0, len(lexemes))
	var diags []Diagnostic
	seen := make(map[string]bool)

	for i, lexeme := range lexemes {
		next := ""
		if i+1 < len(lexemes) {
			next = lexemes[i+1]
		}
		tok, err := Classify(l.ctx, lexeme, next)
		if err != nil {
			if !seen[err.Error()] {
				seen[err.Error()] = true
				diags = append(diags, Diagnostic{Line: line, Message: err.Error()})
			}
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens, diags
}

// isLibraryStatement reports whether the statement's first solid lexeme
// is the library directive.
func isLibraryStatement(lexemes []string) bool {
	for _, lx := range lexemes {
		if lx == " " || lx == "\n" {
			continue
		}
		return lx == LibraryDirective
	}
	return false
}

// scanLibrary handles "#library <path>;" statements. The path argument is
// taken verbatim rather than classified, since paths are not part of the
// token grammar.
func scanLibrary(text string, lexemes []string, line int) (*Statement, []Diagnostic) {
	tokens := make([]Token, 0, len(lexemes))
	path := ""
	for _, lx := range lexemes {
		switch lx {
		case " ":
			tokens = append(tokens, NewToken(SPACE, lx))
		case "\n":
			tokens = append(tokens, NewToken(NEWLINE, lx))
		case ";":
			tokens = append(tokens, NewToken(SEMICOLON, lx))
		case LibraryDirective:
			tokens = append(tokens, NewToken(LIBRARY, lx))
		default:
			if path != "" {
				return nil, []Diagnostic{{Line: line, Message: "a library statement can only name one path"}}
			}
			path = lx
			tokens = append(tokens, NewToken(LIBRARY, lx))
		}
	}
	if path == "" {
		return nil, []Diagnostic{{Line: line, Message: "a library statement is missing its path"}}
	}
	return &Statement{Line: line, Type: LibraryStmt, Text: text, Tokens: tokens}, nil
}

// prevSolid returns the last consumed token that is not whitespace.
func (p *parser) prevSolid() (Token, bool) {
	for i := len(p.consumed) - 1; i >= 0; i-- {
		if !p.consumed[i].IsWhitespace() {
			return p.consumed[i], true
		}
	}
	return Token{}, false
}

// nextSolidLexeme returns the first lexeme after position i that is not
// whitespace.
func (p *parser) nextSolidLexeme(i int) string {
	for j := i + 1; j < len(p.lexemes); j++ {
		if p.lexemes[j] != " " && p.lexemes[j] != "\n" {
			return p.lexemes[j]
		}
	}
	return ""
}
