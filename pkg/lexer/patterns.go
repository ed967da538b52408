// Package lexer provides scanning and syntax classification for VisiBoole
// designs.
//
// A design is processed one statement at a time. Each statement's text is
// scanned into lexemes, every lexeme is classified into a token, the token
// stream is run through the statement-type state machine, and contextual
// rules (operator exclusivity, grouping, module separators) are checked.
// The result is either a typed Statement or one or more diagnostics keyed
// by line number.
package lexer

import "regexp"

// Grammar fragments. Whole-lexeme matchers below are anchored compositions
// of these pieces.
const (
	// namePart matches a variable name. Names start with a letter or
	// underscore and cannot end with a digit: a trailing digit run is a
	// bit index, not part of the name.
	namePart = `[a-zA-Z_](?:[a-zA-Z_0-9]*[a-zA-Z_])?`
)

var (
	// ScalarRegexp matches a variable name with an optional bit index,
	// e.g. "ready" or "data3". Group 1 is the name, group 2 the index.
	// The index value is range-checked during classification so that
	// leading-zero forms like "a05" parse as bit 5.
	ScalarRegexp = regexp.MustCompile(`^(` + namePart + `)([0-9]+)?$`)

	// VectorRegexp matches a vector reference: "name[3..0]",
	// "name[6..2..0]" or the whole-namespace form "name[]". Groups are
	// name, left bound, step, right bound.
	VectorRegexp = regexp.MustCompile(`^(` + namePart + `)\[(?:([0-9]+)\.\.(?:([0-9]+)\.\.)?([0-9]+))?\]$`)

	// ConstantRegexp matches a constant: an optional bit count, a tick,
	// a format marker and the value, or a bare decimal. Groups are bit
	// count, binary value, hex value, formatted decimal value, and bare
	// decimal value.
	ConstantRegexp = regexp.MustCompile(`^(?:([0-9]+)?'(?:[bB]([01]+)|[hH]([0-9a-fA-F]+)|[dD]([0-9]+))|([0-9]+))$`)

	// OperatorRegexp matches every operator lexeme the scanner can emit.
	OperatorRegexp = regexp.MustCompile(`^(?:~+|\*+|<=(?:@[a-zA-Z_][a-zA-Z_0-9]*)?|==?|\^|\||\+|-)$`)

	// FormatterRegexp matches a display formatter: %u, %b, %h or %d in
	// either case.
	FormatterRegexp = regexp.MustCompile(`^%[uUbBhHdD]$`)

	// InstantiationRegexp matches "Design.instance". Group 1 is the
	// design name, group 2 the instantiation name.
	InstantiationRegexp = regexp.MustCompile(`^(` + namePart + `)\.(` + namePart + `)$`)

	// VectorSearchRegexp finds vector references inside statement text
	// during horizontal expansion.
	VectorSearchRegexp = regexp.MustCompile(namePart + `\[(?:[0-9]+\.\.(?:[0-9]+\.\.)?[0-9]+)?\]`)

	// ConstantSearchRegexp finds constants inside statement text during
	// horizontal expansion.
	ConstantSearchRegexp = regexp.MustCompile(`(?:[0-9]+)?'(?:[bB][01]+|[hH][0-9a-fA-F]+|[dD][0-9]+)|\b[0-9]+\b`)
)

// LibraryDirective is the lexeme opening a library statement.
const LibraryDirective = "#library"

// ModuleDeclarationRegexp builds the matcher for a module-declaration line
// of the named design, e.g. "Adder(a, b : s);" for design Adder. The
// submodule resolver uses it to verify candidate files.
func ModuleDeclarationRegexp(name string) *regexp.Regexp {
	return regexp.MustCompile(`^\s*` + regexp.QuoteMeta(name) + `\([^;]*\);\s*$`)
}
