package design

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/visiboole/Visiboole-sub000/pkg/lexer"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// TestDesign_ParseFile tests a complete design scan end to end.
func TestDesign_ParseFile(t *testing.T) {
	dir := t.TempDir()
	src := "\"two-bit register\"\n" +
		"reg(d[1..0] : q[1..0]);\n" +
		"q[1..0] <= d[1..0];\n" +
		"q[];\n"
	path := writeFile(t, dir, "reg.vbi", src)

	d := New(path)
	if d.Name != "reg" {
		t.Fatalf("Name = %q, want reg", d.Name)
	}

	res, err := d.ParseFile()
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if res.Log.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", res.Log)
	}

	wantTypes := []lexer.StatementType{
		lexer.CommentStmt, lexer.HeaderStmt, lexer.ClockStmt, lexer.DisplayStmt,
	}
	if len(res.Statements) != len(wantTypes) {
		t.Fatalf("statement count = %d, want %d", len(res.Statements), len(wantTypes))
	}
	for i, want := range wantTypes {
		if res.Statements[i].Type != want {
			t.Errorf("statement %d type = %s, want %s", i, res.Statements[i].Type, want)
		}
	}

	wantExpanded := []string{
		`"two-bit register"`,
		"reg({d1 d0} : {q1 q0});",
		"q1 <= d1;",
		"q0 <= d0;",
		"q1 q0;",
	}
	if !reflect.DeepEqual(res.Expanded, wantExpanded) {
		t.Errorf("Expanded = %q, want %q", res.Expanded, wantExpanded)
	}

	// The rescanned scalar statements carry the per-bit assignments.
	var clockLines []string
	for _, stmt := range res.Scalar {
		if stmt.Type == lexer.ClockStmt {
			clockLines = append(clockLines, stmt.Text)
		}
	}
	if !reflect.DeepEqual(clockLines, []string{"q1 <= d1;", "q0 <= d0;"}) {
		t.Errorf("scalar clock statements = %q", clockLines)
	}

	if got := d.Registry.Components("q"); !reflect.DeepEqual(got, []string{"q1", "q0"}) {
		t.Errorf("Components(q) = %v", got)
	}
}

// TestDesign_ErrorLog tests diagnostic aggregation and formatting across
// statements.
func TestDesign_ErrorLog(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "design.vbi"))
	res := d.Parse("a = b | ;\nc = d;\ne ^ f;\n")

	want := []string{
		"1: '|' is missing a right operand.",
		"3: '^' is not allowed in a variable display.",
	}
	if got := res.Log.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
	if len(res.Statements) != 1 || res.Statements[0].Type != lexer.AssignmentStmt {
		t.Errorf("Statements = %+v, want only the valid assignment", res.Statements)
	}
}

// TestDesign_ExpansionError tests that expansion failures land in the log
// with the statement's line.
func TestDesign_ExpansionError(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "design.vbi"))
	res := d.Parse("x;\nd[1..0] = 3'b101;\n")

	want := []string{"2: expression element counts must be consistent."}
	if got := res.Log.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
}

// TestDesign_LibraryAndInstantiation tests #library directives feeding
// submodule resolution.
func TestDesign_LibraryAndInstantiation(t *testing.T) {
	root := t.TempDir()
	designDir := filepath.Join(root, "designs")
	libDir := filepath.Join(root, "shared")
	for _, dir := range []string{designDir, libDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	adderPath := writeFile(t, libDir, "Adder.vbi", "Adder(a, b : s);\ns = a ^ b;\n")
	topPath := writeFile(t, designDir, "top.vbi",
		"#library ../shared;\nAdder.add1(a, b : s);\n")

	d := New(topPath)
	res, err := d.ParseFile()
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if res.Log.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", res.Log)
	}
	if got := d.Subdesigns()["Adder"]; got != adderPath {
		t.Errorf("Subdesigns[Adder] = %q, want %q", got, adderPath)
	}
}

// TestDesign_SelfInstantiation tests the self-reference diagnostic.
func TestDesign_SelfInstantiation(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "Top.vbi"))
	res := d.Parse("Top.t1(a : b);\n")

	want := []string{"1: a module cannot instantiate itself."}
	if got := res.Log.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lines() = %q, want %q", got, want)
	}
}

// TestSplitStatements tests statement boundaries and line attribution.
func TestSplitStatements(t *testing.T) {
	src := "a = b;\n\n\"note\"\nc =\n  d;\n"
	got := splitStatements(src)

	want := []piece{
		{text: "a = b;", line: 1},
		{text: "\n\n\"note\"", line: 3},
		{text: "\nc =\n  d;", line: 4},
	}
	if len(got) != len(want) {
		t.Fatalf("pieces = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i].line != want[i].line {
			t.Errorf("piece %d line = %d, want %d", i, got[i].line, want[i].line)
		}
		if got[i].text != want[i].text {
			t.Errorf("piece %d text = %q, want %q", i, got[i].text, want[i].text)
		}
	}
}

// TestErrorLog_Ordering tests dedup and line-sorted rendering.
func TestSplitStatements_QuotedSemicolon(t *testing.T) {
	src := "\"state; machine\"\na = b;\n"
	got := splitStatements(src)

	want := []piece{
		{text: `"state; machine"`, line: 1},
		{text: "\na = b;", line: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("pieces = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i].line != want[i].line {
			t.Errorf("piece %d line = %d, want %d", i, got[i].line, want[i].line)
		}
		if got[i].text != want[i].text {
			t.Errorf("piece %d text = %q, want %q", i, got[i].text, want[i].text)
		}
	}
}

func TestDesign_CommentWithSemicolon(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "design.vbi"))
	res := d.Parse("\"state; machine\"\na = b;\n")

	if got := res.Log.Lines(); len(got) != 0 {
		t.Fatalf("Lines() = %q, want none", got)
	}
	if len(res.Statements) != 2 {
		t.Fatalf("Statements = %+v, want 2", res.Statements)
	}
	if res.Statements[0].Type != lexer.CommentStmt {
		t.Errorf("Statements[0].Type = %s, want %s", res.Statements[0].Type, lexer.CommentStmt)
	}
	if res.Statements[1].Type != lexer.AssignmentStmt {
		t.Errorf("Statements[1].Type = %s, want %s", res.Statements[1].Type, lexer.AssignmentStmt)
	}
}

func TestErrorLog_Ordering(t *testing.T) {
	log := NewErrorLog()
	log.Add(lexer.Diagnostic{Line: 5, Message: "late problem"})
	log.Add(lexer.Diagnostic{Line: 2, Message: "early problem"})
	log.Add(lexer.Diagnostic{Line: 5, Message: "late problem"})

	if log.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", log.Len())
	}
	want := "2: early problem.\n5: late problem."
	if got := log.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	// Arrival order is preserved for entries.
	if log.Entries()[0].Line != 5 {
		t.Errorf("Entries()[0].Line = %d, want 5", log.Entries()[0].Line)
	}
}
