// Package codegen generates Go evaluators from scanned designs. The
// expanded scalar assignments become one computed map entry each, so the
// downstream simulator can evaluate a design without re-parsing it.
package codegen

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/visiboole/Visiboole-sub000/pkg/design"
	"github.com/visiboole/Visiboole-sub000/pkg/lexer"
)

// Result contains the generated code and any warnings.
type Result struct {
	Code     string
	Warnings []string
	Skipped  []SkippedStatement
}

// SkippedStatement records a statement that couldn't be compiled.
type SkippedStatement struct {
	Line   int
	Reason string
}

// Generate produces Go source for the scanned design. Boolean
// assignments compile to expressions; clocked assignments and math
// expressions are skipped with a warning, since they need stateful or
// arithmetic evaluation the generated evaluator doesn't model.
func Generate(pkgName string, res *design.Result) (*Result, error) {
	g := &generator{}

	f := jen.NewFile(pkgName)
	f.HeaderComment("Code generated by vbscan gen. DO NOT EDIT.")

	var inputs, outputs, displays []string
	var assignments []assignment

	for _, stmt := range res.Scalar {
		switch stmt.Type {
		case lexer.AssignmentStmt:
			a, err := g.compileAssignment(stmt)
			if err != nil {
				g.skip(stmt, err.Error())
				continue
			}
			assignments = append(assignments, a)

		case lexer.ClockStmt:
			g.skip(stmt, "clocked assignments require stateful evaluation")

		case lexer.HeaderStmt:
			in, out := headerPorts(stmt)
			inputs = append(inputs, in...)
			outputs = append(outputs, out...)

		case lexer.DisplayStmt:
			displays = append(displays, strings.TrimSpace(stmt.Text))
		}
	}

	f.Comment("Inputs and Outputs mirror the design's module header.")
	f.Var().Id("Inputs").Op("=").Add(stringSlice(inputs))
	f.Var().Id("Outputs").Op("=").Add(stringSlice(outputs))
	f.Line()
	f.Comment("Displays lists the design's variable-display statements.")
	f.Var().Id("Displays").Op("=").Add(stringSlice(displays))
	f.Line()

	f.Comment("Eval computes every combinational assignment of the design.")
	f.Comment("Earlier assignments are visible to later ones.")
	f.Func().Id("Eval").Params(jen.Id("in").Map(jen.String()).Bool()).Map(jen.String()).Bool().BlockFunc(func(body *jen.Group) {
		body.Id("out").Op(":=").Make(jen.Map(jen.String()).Bool())
		if len(assignments) > 0 {
			body.Id("v").Op(":=").Func().Params(jen.Id("name").String()).Bool().Block(
				jen.If(
					jen.List(jen.Id("b"), jen.Id("ok")).Op(":=").Id("out").Index(jen.Id("name")),
					jen.Id("ok"),
				).Block(jen.Return(jen.Id("b"))),
				jen.Return(jen.Id("in").Index(jen.Id("name"))),
			)
		}
		for _, a := range assignments {
			body.Id("out").Index(jen.Lit(a.target)).Op("=").Add(a.expr)
		}
		body.Return(jen.Id("out"))
	})

	code := fmt.Sprintf("%#v", f)
	return &Result{Code: code, Warnings: g.warnings, Skipped: g.skipped}, nil
}

type generator struct {
	warnings []string
	skipped  []SkippedStatement
}

func (g *generator) skip(stmt *lexer.Statement, reason string) {
	g.skipped = append(g.skipped, SkippedStatement{Line: stmt.Line, Reason: reason})
	g.warnings = append(g.warnings, fmt.Sprintf("line %d: %s", stmt.Line, reason))
}

type assignment struct {
	target string
	expr   jen.Code
}

// compileAssignment turns one scalar assignment statement into a target
// name and a Go boolean expression.
func (g *generator) compileAssignment(stmt *lexer.Statement) (assignment, error) {
	opIdx := -1
	target := ""
	for i, t := range stmt.Tokens {
		if t.Type == lexer.ASSIGNMENT {
			opIdx = i
			break
		}
		if t.Type == lexer.VARIABLE {
			target = t.Value
		}
	}
	if opIdx < 0 || target == "" {
		return assignment{}, fmt.Errorf("assignment has no compilable target")
	}

	var rhs []lexer.Token
	for _, t := range stmt.Tokens[opIdx+1:] {
		if t.IsWhitespace() || t.Type == lexer.SEMICOLON {
			continue
		}
		rhs = append(rhs, t)
	}

	p := &exprParser{tokens: rhs}
	expr, err := p.parseExpr()
	if err != nil {
		return assignment{}, err
	}
	if !p.atEnd() {
		return assignment{}, fmt.Errorf("unexpected token '%s'", p.peek().Value)
	}
	return assignment{target: target, expr: expr}, nil
}

// exprParser converts a token stream into a jen boolean expression.
// Grouping follows the source parentheses; operator chains at one level
// are left-associated, which is sound because the validator guarantees a
// level never mixes operator kinds.
type exprParser struct {
	tokens []lexer.Token
	pos    int
}

func (p *exprParser) parseExpr() (jen.Code, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	for !p.atEnd() {
		var sym string
		switch {
		case p.peek().IsOperator():
			op, err := goOperator(p.advance())
			if err != nil {
				return nil, err
			}
			sym = op
		case startsOperand(p.peek()):
			// Adjacent operands are a conjunction.
			sym = "&&"
		default:
			return left, nil
		}
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		left = jen.Parens(jen.Add(left).Op(sym).Add(right))
	}
	return left, nil
}

// startsOperand reports whether a token can begin an operand.
func startsOperand(t lexer.Token) bool {
	switch t.Type {
	case lexer.VARIABLE, lexer.CONSTANT, lexer.NEGATION, lexer.LPAREN:
		return true
	}
	return false
}

func (p *exprParser) parseOperand() (jen.Code, error) {
	if p.atEnd() {
		return nil, fmt.Errorf("expression ends without an operand")
	}
	t := p.advance()
	switch t.Type {
	case lexer.VARIABLE:
		return jen.Id("v").Call(jen.Lit(t.Value)), nil

	case lexer.CONSTANT:
		bit, err := constantBit(t.Value)
		if err != nil {
			return nil, err
		}
		return jen.Lit(bit), nil

	case lexer.NEGATION:
		inner, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return jen.Op("!").Add(jen.Parens(jen.Add(inner))), nil

	case lexer.LPAREN:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.atEnd() || p.peek().Type != lexer.RPAREN {
			return nil, fmt.Errorf("expression is missing ')'")
		}
		p.advance()
		return jen.Parens(jen.Add(inner)), nil
	}
	return nil, fmt.Errorf("cannot compile operand '%s'", t.Value)
}

func (p *exprParser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *exprParser) peek() lexer.Token {
	return p.tokens[p.pos]
}

func (p *exprParser) advance() lexer.Token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

// goOperator maps a boolean operator token to its Go equivalent. Math
// operators have no single-bit Go form and mark the statement skipped.
func goOperator(t lexer.Token) (string, error) {
	switch t.Type {
	case lexer.OR:
		return "||", nil
	case lexer.XOR:
		return "!=", nil
	case lexer.EQUAL_TO:
		return "==", nil
	case lexer.MATH:
		return "", fmt.Errorf("math operators require arithmetic evaluation")
	}
	return "", fmt.Errorf("cannot compile operator '%s'", t.Value)
}

// constantBit interprets a scalar-expanded constant as a bit value.
func constantBit(value string) (bool, error) {
	switch value {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	return false, fmt.Errorf("constant '%s' is wider than one bit", value)
}

// headerPorts splits a module header's variables into inputs (before the
// colon) and outputs (after it).
func headerPorts(stmt *lexer.Statement) (inputs, outputs []string) {
	afterColon := false
	for _, t := range stmt.Tokens {
		switch t.Type {
		case lexer.COLON:
			afterColon = true
		case lexer.VARIABLE:
			if afterColon {
				outputs = append(outputs, t.Value)
			} else {
				inputs = append(inputs, t.Value)
			}
		}
	}
	return inputs, outputs
}

func stringSlice(values []string) jen.Code {
	return jen.Index().String().ValuesFunc(func(g *jen.Group) {
		for _, v := range values {
			g.Lit(v)
		}
	})
}
