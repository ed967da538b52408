package lexer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Classify maps a lexeme, with one lexeme of lookahead, to a token.
// Scalar and vector classification registers the referenced bits in the
// context's namespace registry as a side effect.
func Classify(ctx *Context, lexeme, next string) (Token, error) {
	switch lexeme {
	case " ":
		return NewToken(SPACE, lexeme), nil
	case "\n":
		return NewToken(NEWLINE, lexeme), nil
	case ";":
		return NewToken(SEMICOLON, lexeme), nil
	case ":":
		return NewToken(COLON, lexeme), nil
	case ",":
		return NewToken(COMMA, lexeme), nil
	case "(":
		return NewToken(LPAREN, lexeme), nil
	case ")":
		return NewToken(RPAREN, lexeme), nil
	case "{":
		return NewToken(LCONCAT, lexeme), nil
	case "}":
		return NewToken(RCONCAT, lexeme), nil
	}

	if OperatorRegexp.MatchString(lexeme) {
		return classifyOperator(lexeme, next)
	}

	if FormatterRegexp.MatchString(lexeme) {
		if next != "{" {
			return Token{}, fmt.Errorf("'%s' must be followed by a concatenation", lexeme)
		}
		return NewToken(FORMATTER, lexeme), nil
	}

	if strings.HasPrefix(lexeme, `"`) {
		return NewToken(COMMENT, lexeme), nil
	}

	if lexeme == LibraryDirective {
		return NewToken(LIBRARY, lexeme), nil
	}

	if ConstantRegexp.MatchString(lexeme) {
		return classifyConstant(lexeme)
	}

	// The design's own name opens the module header; any other
	// name-dot-name form followed by '(' is a submodule instantiation.
	if next == "(" {
		if lexeme == ctx.DesignName {
			return NewToken(DECLARATION, lexeme), nil
		}
		if InstantiationRegexp.MatchString(lexeme) {
			return NewToken(INSTANTIATION, lexeme), nil
		}
	}

	if m := ScalarRegexp.FindStringSubmatch(lexeme); m != nil {
		return classifyScalar(ctx, lexeme, m[1], m[2])
	}

	if m := VectorRegexp.FindStringSubmatch(lexeme); m != nil {
		return classifyVector(ctx, lexeme, m)
	}

	return Token{}, fmt.Errorf("unrecognized token '%s'", lexeme)
}

// classifyOperator disambiguates an operator lexeme by its first
// character and checks the attachment rules for prefix markers.
func classifyOperator(lexeme, next string) (Token, error) {
	switch lexeme[0] {
	case '~':
		if !startsOperandGroup(next) {
			return Token{}, fmt.Errorf("'~' must be attached to a variable, parenthesis, or concatenation")
		}
		return NewToken(NEGATION, "~"), nil
	case '*':
		if !startsNameOrConcat(next) {
			return Token{}, fmt.Errorf("'*' must be attached to a variable or concatenation")
		}
		return NewToken(ASTERISK, "*"), nil
	case '<':
		if lexeme == "<" {
			return Token{}, fmt.Errorf("unrecognized token '<'")
		}
		return NewToken(CLOCK, lexeme), nil
	case '=':
		if lexeme == "==" {
			return NewToken(EQUAL_TO, lexeme), nil
		}
		return NewToken(ASSIGNMENT, lexeme), nil
	case '^':
		return NewToken(XOR, lexeme), nil
	case '|':
		return NewToken(OR, lexeme), nil
	case '+', '-':
		return NewToken(MATH, lexeme), nil
	}
	return Token{}, fmt.Errorf("unrecognized token '%s'", lexeme)
}

// startsOperandGroup reports whether the lookahead lexeme can begin a
// negated operand: a variable, parenthesis, or concatenation.
func startsOperandGroup(next string) bool {
	if next == "" {
		return false
	}
	c := next[0]
	return isNameChar(c) && !(c >= '0' && c <= '9') || c == '(' || c == '{'
}

// startsNameOrConcat reports whether the lookahead lexeme can begin a
// displayed operand: a variable or concatenation.
func startsNameOrConcat(next string) bool {
	if next == "" {
		return false
	}
	c := next[0]
	return isNameChar(c) && !(c >= '0' && c <= '9') || c == '{'
}

// classifyScalar validates a scalar reference and registers its
// namespace component.
func classifyScalar(ctx *Context, lexeme, name, bit string) (Token, error) {
	if bit == "" {
		if err := ctx.Registry.RegisterScalar(name); err != nil {
			return Token{}, err
		}
		return NewToken(VARIABLE, lexeme), nil
	}
	b, err := strconv.Atoi(bit)
	if err != nil || b > 31 {
		return Token{}, fmt.Errorf("'%s' uses a bit index greater than 31", lexeme)
	}
	if err := ctx.Registry.RegisterBit(name, b); err != nil {
		return Token{}, err
	}
	return NewToken(VARIABLE, lexeme), nil
}

// classifyVector validates a vector reference, normalizes its bounds and
// registers every referenced bit. The submatch groups are the full
// lexeme's name, left bound, step and right bound.
func classifyVector(ctx *Context, lexeme string, m []string) (Token, error) {
	name, left, step, right := m[1], m[2], m[3], m[4]

	if left == "" && right == "" {
		// name[] refers to every declared bit of an existing namespace.
		if ctx.Registry.IsScalar(name) {
			return Token{}, fmt.Errorf("'%s[]' cannot be used because '%s' is declared as a scalar", name, name)
		}
		if !ctx.Registry.Has(name) {
			return Token{}, fmt.Errorf("'%s[]' cannot be used before '%s' is declared", name, name)
		}
		return NewToken(VARIABLE, lexeme), nil
	}

	l, err := strconv.Atoi(left)
	if err != nil || l > 31 {
		return Token{}, fmt.Errorf("'%s' uses a bit index greater than 31", lexeme)
	}
	r, err := strconv.Atoi(right)
	if err != nil || r > 31 {
		return Token{}, fmt.Errorf("'%s' uses a bit index greater than 31", lexeme)
	}
	s := 1
	if step != "" {
		s, err = strconv.Atoi(step)
		if err != nil || s < 1 || s > 31 {
			return Token{}, fmt.Errorf("'%s' uses an illegal step", lexeme)
		}
	}

	// The left bound is the most significant bit.
	if l < r {
		l, r = r, l
	}
	for b := l; b >= r; b -= s {
		if err := ctx.Registry.RegisterBit(name, b); err != nil {
			return Token{}, err
		}
	}
	return NewToken(VARIABLE, lexeme), nil
}

// classifyConstant validates a constant's bit count, format and value
// against the 32-bit limits.
func classifyConstant(lexeme string) (Token, error) {
	m := ConstantRegexp.FindStringSubmatch(lexeme)
	if m == nil {
		return Token{}, fmt.Errorf("unrecognized token '%s'", lexeme)
	}
	count, binary, hex, formattedDecimal, bareDecimal := m[1], m[2], m[3], m[4], m[5]

	if count != "" {
		n, err := strconv.Atoi(count)
		if err != nil || n > 32 {
			return Token{}, fmt.Errorf("'%s' uses a bit count greater than 32", lexeme)
		}
	}

	switch {
	case binary != "":
		if len(binary) > 32 {
			return Token{}, fmt.Errorf("'%s' has more than 32 binary digits", lexeme)
		}
	case hex != "":
		if len(hex) > 8 {
			return Token{}, fmt.Errorf("'%s' has more than 8 hex digits", lexeme)
		}
	default:
		value := formattedDecimal
		if value == "" {
			value = bareDecimal
		}
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil || v > math.MaxUint32 {
			return Token{}, fmt.Errorf("'%s' exceeds the decimal limit of 4294967295", lexeme)
		}
	}
	return NewToken(CONSTANT, lexeme), nil
}
