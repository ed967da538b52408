package lexer

import "fmt"

// transition narrows the statement type for one consumed token. The
// classification starts at EmptyStmt and, once narrowed to anything other
// than DisplayStmt, may not change again; every combination not listed
// here is a syntax error.
func (p *parser) transition(t Token) error {
	switch p.stype {
	case EmptyStmt:
		return p.transitionFromEmpty(t)

	case DisplayStmt:
		return p.transitionFromDisplay(t)

	case AssignmentStmt, ClockStmt:
		switch t.Type {
		case ASSIGNMENT, CLOCK:
			return fmt.Errorf("statement cannot contain more than one assignment operator")
		case VARIABLE, CONSTANT, NEGATION, OR, XOR, EQUAL_TO, MATH,
			LPAREN, RPAREN, LCONCAT, RCONCAT, COMMA,
			SPACE, NEWLINE, SEMICOLON:
			return nil
		default:
			return fmt.Errorf("'%s' is not allowed in an assignment", t.Value)
		}

	case HeaderStmt:
		switch t.Type {
		case VARIABLE, COMMA, COLON, LPAREN, RPAREN, SPACE, NEWLINE, SEMICOLON:
			return nil
		default:
			return fmt.Errorf("'%s' is not allowed in a module header", t.Value)
		}

	case InstantiationStmt:
		switch t.Type {
		case VARIABLE, CONSTANT, LCONCAT, RCONCAT, COMMA, COLON,
			LPAREN, RPAREN, SPACE, NEWLINE, SEMICOLON:
			return nil
		default:
			return fmt.Errorf("'%s' is not allowed in an instantiation", t.Value)
		}

	case CommentStmt:
		switch t.Type {
		case SPACE, NEWLINE, SEMICOLON:
			return nil
		default:
			return fmt.Errorf("'%s' is not allowed after a comment", t.Value)
		}

	case LibraryStmt:
		switch t.Type {
		case LIBRARY, SPACE, NEWLINE, SEMICOLON:
			return nil
		default:
			return fmt.Errorf("'%s' is not allowed in a library statement", t.Value)
		}
	}
	return fmt.Errorf("'%s' is not allowed here", t.Value)
}

func (p *parser) transitionFromEmpty(t Token) error {
	switch t.Type {
	case SPACE, NEWLINE, SEMICOLON:
		return nil
	case COMMENT:
		p.stype = CommentStmt
	case LIBRARY:
		p.stype = LibraryStmt
	case VARIABLE, CONSTANT, ASTERISK, FORMATTER, LCONCAT, RCONCAT:
		p.stype = DisplayStmt
	case INSTANTIATION:
		p.stype = InstantiationStmt
		p.insideModule = true
	case DECLARATION:
		p.stype = HeaderStmt
		p.insideModule = true
	default:
		return fmt.Errorf("'%s' is not allowed at the start of a statement", t.Value)
	}
	return nil
}

func (p *parser) transitionFromDisplay(t Token) error {
	switch t.Type {
	case VARIABLE, CONSTANT, ASTERISK, FORMATTER, LCONCAT, RCONCAT, COMMA,
		SPACE, NEWLINE, SEMICOLON:
		return nil

	case ASSIGNMENT, CLOCK:
		if err := p.checkLeftSide(t); err != nil {
			return err
		}
		// The assignment operator opens the outermost exclusivity level.
		p.pushLevel(false)
		if t.Type == ASSIGNMENT {
			p.stype = AssignmentStmt
		} else {
			p.stype = ClockStmt
		}
		return nil

	case LPAREN, RPAREN:
		return fmt.Errorf("parentheses are not allowed in a variable display")

	default:
		return fmt.Errorf("'%s' is not allowed in a variable display", t.Value)
	}
}

// checkLeftSide re-scans the tokens consumed so far when an assignment or
// clock operator appears: the left-hand side must be a single bare
// variable or a single concatenation, never both and never several.
func (p *parser) checkLeftSide(op Token) error {
	vars, concats := 0, 0
	depth := 0
	for _, t := range p.consumed {
		switch t.Type {
		case LCONCAT:
			concats++
			depth++
		case RCONCAT:
			depth--
		case VARIABLE:
			if depth == 0 {
				vars++
			}
		case CONSTANT:
			return fmt.Errorf("constants are not allowed on the left side of an assignment")
		case ASTERISK:
			return fmt.Errorf("'*' is not allowed on the left side of an assignment")
		case FORMATTER:
			return fmt.Errorf("formatters are not allowed on the left side of an assignment")
		}
	}
	switch {
	case concats > 1:
		return fmt.Errorf("only one concatenation is allowed on the left side of an assignment")
	case concats == 1 && vars > 0:
		return fmt.Errorf("cannot combine a concatenation with bare variables on the left side of an assignment")
	case concats == 0 && vars > 1:
		return fmt.Errorf("must use a concatenation to assign multiple variables")
	case concats == 0 && vars == 0:
		return fmt.Errorf("'%s' is missing a left operand", op.Value)
	}
	return nil
}
