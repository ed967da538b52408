// Package design drives the scan of one design file: statements are
// processed strictly in source order through the lexer, valid
// assignment statements are expanded to scalar-equivalent form, and
// diagnostics are aggregated in a per-line error log.
package design

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/visiboole/Visiboole-sub000/pkg/expand"
	"github.com/visiboole/Visiboole-sub000/pkg/lexer"
	"github.com/visiboole/Visiboole-sub000/pkg/namespace"
	"github.com/visiboole/Visiboole-sub000/pkg/subdesign"
)

// Design holds the state that persists across every statement of one
// design scan: the namespace registry, the expansion memo, the submodule
// resolver and the instantiation bookkeeping.
type Design struct {
	Name string
	Path string
	Dir  string

	Registry *namespace.Registry
	Memo     *expand.Memo

	resolver *subdesign.FileResolver
	lexer    *lexer.Lexer
}

// Result is the outcome of scanning one design source.
type Result struct {
	// Statements are the successfully scanned statements in source
	// order. Statements with diagnostics are excluded.
	Statements []*lexer.Statement

	// Scalar are the statements after vertical expansion, re-scanned so
	// every assignment is single-bit. Statements that need no expansion
	// appear unchanged.
	Scalar []*lexer.Statement

	// Expanded are the scalar-equivalent statement texts.
	Expanded []string

	// Log aggregates every diagnostic, keyed by line number.
	Log *ErrorLog
}

// New creates a design model for the file at path. The design's name is
// the file's base name; library directories may be preconfigured and can
// be extended by #library statements.
func New(path string, libraries ...string) *Design {
	dir := filepath.Dir(path)
	name := strings.TrimSuffix(filepath.Base(path), subdesign.DesignExt)
	d := &Design{
		Name:     name,
		Path:     path,
		Dir:      dir,
		Registry: namespace.NewRegistry(),
		Memo:     expand.NewMemo(),
		resolver: subdesign.NewFileResolver(dir, libraries...),
	}
	d.lexer = lexer.New(lexer.NewContext(name, d.Registry, d.resolver))
	return d
}

// Subdesigns returns the resolved instantiation mapping.
func (d *Design) Subdesigns() map[string]string {
	return d.lexer.Context().Subdesigns
}

// ParseFile reads the design's file and parses its contents.
func (d *Design) ParseFile() (*Result, error) {
	src, err := os.ReadFile(d.Path)
	if err != nil {
		return nil, fmt.Errorf("reading design %s: %w", d.Path, err)
	}
	return d.Parse(string(src)), nil
}

// Parse scans a design source body statement by statement. Each
// statement is scanned, classified and validated before the next one is
// looked at, so later statements see every earlier namespace
// declaration.
func (d *Design) Parse(src string) *Result {
	res := &Result{Log: NewErrorLog()}

	for _, piece := range splitStatements(src) {
		stmt, diags := d.lexer.ScanStatement(piece.text, piece.line)
		if len(diags) > 0 {
			res.Log.AddAll(diags)
			continue
		}
		if stmt.Type == lexer.LibraryStmt {
			d.resolver.AddLibrary(stmt.LibraryPath())
		}
		res.Statements = append(res.Statements, stmt)
		d.expandStatement(stmt, res)
	}
	return res
}

// expandStatement produces the scalar-equivalent form of one valid
// statement and re-scans the expanded lines so downstream consumers get
// typed token streams.
func (d *Design) expandStatement(stmt *lexer.Statement, res *Result) {
	switch stmt.Type {
	case lexer.AssignmentStmt, lexer.ClockStmt:
		lines, err := expand.Vertical(stmt, d.Memo, d.Registry)
		if err != nil {
			res.Log.Add(lexer.Diagnostic{Line: stmt.Line, Message: err.Error()})
			return
		}
		if lines == nil {
			res.Expanded = append(res.Expanded, strings.TrimSpace(stmt.Text))
			res.Scalar = append(res.Scalar, stmt)
			return
		}
		for _, line := range lines {
			res.Expanded = append(res.Expanded, line)
			rescanned, diags := d.lexer.ScanStatement(line, stmt.Line)
			if len(diags) > 0 {
				res.Log.AddAll(diags)
				continue
			}
			res.Scalar = append(res.Scalar, rescanned)
		}

	case lexer.DisplayStmt, lexer.HeaderStmt:
		text, err := expand.Horizontal(stmt.Text, stmt.Type, d.Memo, d.Registry)
		if err != nil {
			res.Log.Add(lexer.Diagnostic{Line: stmt.Line, Message: err.Error()})
			return
		}
		res.Expanded = append(res.Expanded, strings.TrimSpace(text))
		res.Scalar = append(res.Scalar, stmt)

	default:
		res.Expanded = append(res.Expanded, strings.TrimSpace(stmt.Text))
		res.Scalar = append(res.Scalar, stmt)
	}
}

// piece is one statement's text with the line it starts on.
type piece struct {
	text string
	line int
}

// splitStatements cuts a source body into statements. A statement runs
// through its terminating semicolon and may span lines; comment lines
// stand alone; blank stretches are skipped.
func splitStatements(src string) []piece {
	var pieces []piece
	line := 1
	startLine := 1
	inQuote := false
	var current strings.Builder

	flush := func() {
		text := current.String()
		current.Reset()
		if strings.TrimSpace(text) != "" {
			pieces = append(pieces, piece{text: text, line: startLine})
		}
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		// Track where the statement's first solid text begins.
		if c != '\n' && c != ' ' && c != '\t' && c != '\r' &&
			strings.TrimSpace(current.String()) == "" {
			startLine = line
		}
		switch c {
		case '"':
			inQuote = !inQuote
			current.WriteByte(c)
		case ';':
			current.WriteByte(c)
			// A semicolon inside quoted text is comment content,
			// not a statement terminator.
			if !inQuote {
				flush()
			}
		case '\n':
			// A comment line is a statement of its own. An
			// unterminated quote ends with its line and is left
			// for the scanner to report.
			if strings.HasPrefix(strings.TrimSpace(current.String()), `"`) {
				flush()
				inQuote = false
			}
			current.WriteByte(c)
			line++
		default:
			current.WriteByte(c)
		}
	}
	flush()
	return pieces
}
