package lexer

import (
	"fmt"
	"strings"
)

// level is one parentheses frame of operator state. A frame is opened by
// the statement's assignment operator and by every '('. Once an exclusive
// operator kind ('^', '==', or a math operator) appears in a frame, no
// other operator kind may share it.
type level struct {
	explicit bool               // opened by '(' rather than the assignment operator
	ops      map[TokenType]bool // operator kinds seen at this depth
	lock     TokenType          // exclusive kind locked for this depth, if any
	lockOp   string             // lexeme that locked it, for diagnostics
	body     bool               // an operand has appeared at this depth
}

// concat tracks an open concatenation while validating its interior.
type concat struct {
	format   bool // opened by a formatter
	operands int
}

func (p *parser) pushLevel(explicit bool) {
	p.levels = append(p.levels, &level{explicit: explicit, ops: make(map[TokenType]bool)})
}

func (p *parser) topLevel() *level {
	if len(p.levels) == 0 {
		return nil
	}
	return p.levels[len(p.levels)-1]
}

// validate enforces the contextual rules for one token after the state
// machine has accepted it.
func (p *parser) validate(i int, t Token) error {
	switch t.Type {
	case LCONCAT:
		format := false
		if prev, ok := p.prevSolid(); ok && prev.Type == FORMATTER {
			format = true
		}
		p.concat = &concat{format: format}

	case RCONCAT:
		if p.concat != nil && p.concat.operands == 0 {
			return fmt.Errorf("concatenation cannot be empty")
		}
		p.concat = nil
		if lv := p.topLevel(); lv != nil {
			lv.body = true
		}

	case VARIABLE, CONSTANT:
		if p.concat != nil {
			p.concat.operands++
		}
		if lv := p.topLevel(); lv != nil {
			lv.body = true
		}

	case LPAREN:
		switch p.stype {
		case AssignmentStmt, ClockStmt:
			p.pushLevel(true)
		case HeaderStmt, InstantiationStmt:
			p.moduleDepth++
		}

	case RPAREN:
		switch p.stype {
		case AssignmentStmt, ClockStmt:
			lv := p.topLevel()
			if lv != nil && lv.explicit {
				if !lv.body {
					return fmt.Errorf("parentheses cannot be empty")
				}
				p.levels = p.levels[:len(p.levels)-1]
				if outer := p.topLevel(); outer != nil {
					outer.body = true
				}
			}
		case HeaderStmt, InstantiationStmt:
			p.moduleDepth--
		}

	case COMMA:
		if err := p.validateSeparator(t); err != nil {
			return err
		}

	case COLON:
		if err := p.validateSeparator(t); err != nil {
			return err
		}
		if p.colonSeen {
			return fmt.Errorf("only one ':' is allowed in a statement")
		}
		p.colonSeen = true

	case OR, XOR, EQUAL_TO, MATH:
		return p.validateOperator(i, t)

	case INSTANTIATION:
		return p.resolveInstantiation(t)
	}
	return nil
}

// validateSeparator checks comma and colon placement: they are separators
// after an operand, legal inside a module's parentheses and, for commas,
// inside a concatenation.
func (p *parser) validateSeparator(t Token) error {
	inModule := p.insideModule && p.moduleDepth > 0
	inConcat := p.concat != nil && t.Type == COMMA
	if !inModule && !inConcat {
		return fmt.Errorf("'%s' is only allowed inside a module's parentheses", t.Value)
	}
	prev, ok := p.prevSolid()
	if !ok {
		return fmt.Errorf("'%s' must follow a variable or constant", t.Value)
	}
	switch prev.Type {
	case VARIABLE, CONSTANT, RCONCAT:
		return nil
	}
	return fmt.Errorf("'%s' must follow a variable or constant", t.Value)
}

// validateOperator checks operand presence, the statement-wide operator
// family, and per-level exclusivity for one infix operator.
func (p *parser) validateOperator(i int, t Token) error {
	prev, ok := p.prevSolid()
	if !ok || !operandEnd(prev.Type) {
		return fmt.Errorf("'%s' is missing a left operand", t.Value)
	}
	if !operandStart(p.nextSolidLexeme(i)) {
		return fmt.Errorf("'%s' is missing a right operand", t.Value)
	}

	family := "boolean"
	if t.Type == MATH {
		family = "math"
	}
	if p.family == "" {
		p.family = family
	} else if p.family != family {
		return fmt.Errorf("statement cannot mix math and boolean operators")
	}

	lv := p.topLevel()
	if lv == nil {
		return fmt.Errorf("'%s' is not allowed outside an assignment", t.Value)
	}
	if lv.lock != "" && lv.lock != t.Type {
		return fmt.Errorf("'%s' cannot share a parenthesis level with '%s'", t.Value, lv.lockOp)
	}
	if exclusiveKind(t.Type) && lv.lock == "" && len(lv.ops) > 0 && !lv.ops[t.Type] {
		return fmt.Errorf("'%s' is missing ()", t.Value)
	}
	lv.ops[t.Type] = true
	if exclusiveKind(t.Type) {
		lv.lock = t.Type
		lv.lockOp = t.Value
	}
	return nil
}

// exclusiveKind reports whether an operator kind locks its parenthesis
// level against every other kind.
func exclusiveKind(typ TokenType) bool {
	switch typ {
	case XOR, EQUAL_TO, MATH:
		return true
	}
	return false
}

// operandEnd reports whether a token can close an operator's left
// operand.
func operandEnd(typ TokenType) bool {
	switch typ {
	case VARIABLE, CONSTANT, RCONCAT, RPAREN:
		return true
	}
	return false
}

// operandStart reports whether a lexeme can open an operator's right
// operand: a name, a constant, a parenthesis, a concatenation, or a
// negation.
func operandStart(next string) bool {
	if next == "" {
		return false
	}
	switch c := next[0]; {
	case isNameChar(c), c == '\'', c == '(', c == '{', c == '~':
		return true
	}
	return false
}

// resolveInstantiation checks an instantiation token against the design
// context and resolves the referenced subdesign once per unique name.
func (p *parser) resolveInstantiation(t Token) error {
	m := InstantiationRegexp.FindStringSubmatch(t.Value)
	if m == nil {
		return fmt.Errorf("unrecognized token '%s'", t.Value)
	}
	design, instance := m[1], m[2]

	if design == p.ctx.DesignName {
		return fmt.Errorf("a module cannot instantiate itself")
	}
	if _, exists := p.ctx.Instances[instance]; exists {
		return fmt.Errorf("an instantiation named '%s' already exists", instance)
	}
	if _, resolved := p.ctx.Subdesigns[design]; !resolved {
		if p.ctx.Resolver == nil {
			return fmt.Errorf("unable to find a module named '%s'", design)
		}
		path, err := p.ctx.Resolver.Resolve(design)
		if err != nil {
			return fmt.Errorf("unable to find a module named '%s'", design)
		}
		p.ctx.Subdesigns[design] = path
	}
	p.ctx.Instances[instance] = design
	return nil
}

// checkConcatInterior restricts the tokens allowed inside an open
// concatenation. The diagnostic names whether the enclosing context is a
// formatted field or a plain concatenation.
func (p *parser) checkConcatInterior(t Token) error {
	if p.concat == nil {
		return nil
	}
	switch t.Type {
	case SPACE, NEWLINE, VARIABLE, CONSTANT, COMMA, RCONCAT:
		return nil
	}
	context := "a concatenation"
	if p.concat.format {
		context = "a format field"
	}
	return fmt.Errorf("'%s' is not allowed in %s", strings.TrimSpace(t.Value), context)
}
