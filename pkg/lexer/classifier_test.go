package lexer

import (
	"testing"

	"github.com/visiboole/Visiboole-sub000/pkg/namespace"
)

func testContext() *Context {
	return NewContext("fullAdder", namespace.NewRegistry(), nil)
}

// TestClassify_Tokens tests the lexeme-to-token mapping for valid input.
func TestClassify_Tokens(t *testing.T) {
	tests := []struct {
		name   string
		lexeme string
		next   string
		want   Token
	}{
		{name: "space", lexeme: " ", want: Token{Type: SPACE, Value: " "}},
		{name: "newline", lexeme: "\n", want: Token{Type: NEWLINE, Value: "\n"}},
		{name: "semicolon", lexeme: ";", want: Token{Type: SEMICOLON, Value: ";"}},
		{name: "colon", lexeme: ":", want: Token{Type: COLON, Value: ":"}},
		{name: "comma", lexeme: ",", want: Token{Type: COMMA, Value: ","}},
		{name: "open paren", lexeme: "(", want: Token{Type: LPAREN, Value: "("}},
		{name: "close paren", lexeme: ")", want: Token{Type: RPAREN, Value: ")"}},
		{name: "open concat", lexeme: "{", want: Token{Type: LCONCAT, Value: "{"}},
		{name: "close concat", lexeme: "}", want: Token{Type: RCONCAT, Value: "}"}},
		{name: "scalar", lexeme: "carry", want: Token{Type: VARIABLE, Value: "carry"}},
		{name: "scalar with bit", lexeme: "d12", want: Token{Type: VARIABLE, Value: "d12"}},
		{name: "scalar bit 31", lexeme: "d31", want: Token{Type: VARIABLE, Value: "d31"}},
		{name: "scalar leading-zero bit", lexeme: "a05", want: Token{Type: VARIABLE, Value: "a05"}},
		{name: "scalar underscore", lexeme: "_ready", want: Token{Type: VARIABLE, Value: "_ready"}},
		{name: "explicit vector", lexeme: "d[3..0]", want: Token{Type: VARIABLE, Value: "d[3..0]"}},
		{name: "stepped vector", lexeme: "d[6..2..0]", want: Token{Type: VARIABLE, Value: "d[6..2..0]"}},
		{name: "sized binary constant", lexeme: "2'b10", want: Token{Type: CONSTANT, Value: "2'b10"}},
		{name: "unsized hex constant", lexeme: "'h3A", want: Token{Type: CONSTANT, Value: "'h3A"}},
		{name: "unsized decimal constant", lexeme: "'d12", want: Token{Type: CONSTANT, Value: "'d12"}},
		{name: "bare decimal constant", lexeme: "5", want: Token{Type: CONSTANT, Value: "5"}},
		{name: "decimal limit boundary", lexeme: "4294967295", want: Token{Type: CONSTANT, Value: "4294967295"}},
		{name: "assignment", lexeme: "=", next: " ", want: Token{Type: ASSIGNMENT, Value: "="}},
		{name: "clock", lexeme: "<=", next: " ", want: Token{Type: CLOCK, Value: "<="}},
		{name: "named clock", lexeme: "<=@clk", next: " ", want: Token{Type: CLOCK, Value: "<=@clk"}},
		{name: "equality", lexeme: "==", next: " ", want: Token{Type: EQUAL_TO, Value: "=="}},
		{name: "or", lexeme: "|", next: " ", want: Token{Type: OR, Value: "|"}},
		{name: "xor", lexeme: "^", next: " ", want: Token{Type: XOR, Value: "^"}},
		{name: "plus", lexeme: "+", next: " ", want: Token{Type: MATH, Value: "+"}},
		{name: "minus", lexeme: "-", next: " ", want: Token{Type: MATH, Value: "-"}},
		{name: "negation before variable", lexeme: "~", next: "b", want: Token{Type: NEGATION, Value: "~"}},
		{name: "negation before paren", lexeme: "~", next: "(", want: Token{Type: NEGATION, Value: "~"}},
		{name: "asterisk before variable", lexeme: "*", next: "a", want: Token{Type: ASTERISK, Value: "*"}},
		{name: "formatter before concat", lexeme: "%d", next: "{", want: Token{Type: FORMATTER, Value: "%d"}},
		{name: "comment", lexeme: `"adder inputs"`, want: Token{Type: COMMENT, Value: `"adder inputs"`}},
		{name: "library directive", lexeme: "#library", next: " ", want: Token{Type: LIBRARY, Value: "#library"}},
		{name: "module declaration", lexeme: "fullAdder", next: "(", want: Token{Type: DECLARATION, Value: "fullAdder"}},
		{name: "instantiation", lexeme: "Adder.add1", next: "(", want: Token{Type: INSTANTIATION, Value: "Adder.add1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(testContext(), tt.lexeme, tt.next)
			if err != nil {
				t.Fatalf("Classify(%q, %q) returned error: %v", tt.lexeme, tt.next, err)
			}
			if got != tt.want {
				t.Errorf("Classify(%q, %q) = %+v, want %+v", tt.lexeme, tt.next, got, tt.want)
			}
		})
	}
}

// TestClassify_Errors tests classification failures and their messages.
func TestClassify_Errors(t *testing.T) {
	tests := []struct {
		name    string
		lexeme  string
		next    string
		wantErr string
	}{
		{
			name:    "scalar bit over limit",
			lexeme:  "d32",
			wantErr: "'d32' uses a bit index greater than 31",
		},
		{
			name:    "vector bound over limit",
			lexeme:  "d[32..0]",
			wantErr: "'d[32..0]' uses a bit index greater than 31",
		},
		{
			name:    "vector zero step",
			lexeme:  "d[6..0..0]",
			wantErr: "'d[6..0..0]' uses an illegal step",
		},
		{
			name:    "bit count over limit",
			lexeme:  "33'b0",
			wantErr: "'33'b0' uses a bit count greater than 32",
		},
		{
			name:    "too many binary digits",
			lexeme:  "'b111111111111111111111111111111111",
			wantErr: "''b111111111111111111111111111111111' has more than 32 binary digits",
		},
		{
			name:    "too many hex digits",
			lexeme:  "'h123456789",
			wantErr: "''h123456789' has more than 8 hex digits",
		},
		{
			name:    "decimal over limit",
			lexeme:  "4294967296",
			wantErr: "'4294967296' exceeds the decimal limit of 4294967295",
		},
		{
			name:    "negation before constant",
			lexeme:  "~",
			next:    "1",
			wantErr: "'~' must be attached to a variable, parenthesis, or concatenation",
		},
		{
			name:    "negation at end",
			lexeme:  "~",
			next:    "",
			wantErr: "'~' must be attached to a variable, parenthesis, or concatenation",
		},
		{
			name:    "asterisk before paren",
			lexeme:  "*",
			next:    "(",
			wantErr: "'*' must be attached to a variable or concatenation",
		},
		{
			name:    "bare less-than",
			lexeme:  "<",
			next:    " ",
			wantErr: "unrecognized token '<'",
		},
		{
			name:    "formatter without concat",
			lexeme:  "%d",
			next:    "a",
			wantErr: "'%d' must be followed by a concatenation",
		},
		{
			name:    "unrecognized lexeme",
			lexeme:  "3a",
			wantErr: "unrecognized token '3a'",
		},
		{
			name:    "undeclared full vector",
			lexeme:  "d[]",
			wantErr: "'d[]' cannot be used before 'd' is declared",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(testContext(), tt.lexeme, tt.next)
			if err == nil {
				t.Fatalf("Classify(%q, %q) succeeded, want error %q", tt.lexeme, tt.next, tt.wantErr)
			}
			if err.Error() != tt.wantErr {
				t.Errorf("Classify(%q, %q) error = %q, want %q", tt.lexeme, tt.next, err.Error(), tt.wantErr)
			}
		})
	}
}

// TestClassify_NamespaceRegistration tests that scalar and vector
// classification records components in the registry.
func TestClassify_NamespaceRegistration(t *testing.T) {
	ctx := testContext()

	if _, err := Classify(ctx, "d[3..0]", ""); err != nil {
		t.Fatalf("classifying vector: %v", err)
	}
	wantBits := []int{3, 2, 1, 0}
	gotBits := ctx.Registry.Bits("d")
	if len(gotBits) != len(wantBits) {
		t.Fatalf("Bits(d) = %v, want %v", gotBits, wantBits)
	}
	for i := range wantBits {
		if gotBits[i] != wantBits[i] {
			t.Errorf("Bits(d)[%d] = %d, want %d", i, gotBits[i], wantBits[i])
		}
	}

	// A stepped vector registers only the stepped bits.
	if _, err := Classify(ctx, "e[6..2..0]", ""); err != nil {
		t.Fatalf("classifying stepped vector: %v", err)
	}
	gotBits = ctx.Registry.Bits("e")
	wantBits = []int{6, 4, 2, 0}
	if len(gotBits) != len(wantBits) {
		t.Fatalf("Bits(e) = %v, want %v", gotBits, wantBits)
	}

	// d[] is now legal since d has declared bits.
	if _, err := Classify(ctx, "d[]", ""); err != nil {
		t.Errorf("classifying d[] after declaration: %v", err)
	}

	// A leading-zero suffix is a bit index, parsed by value.
	if _, err := Classify(ctx, "g05", ""); err != nil {
		t.Fatalf("classifying leading-zero scalar: %v", err)
	}
	gotBits = ctx.Registry.Bits("g")
	if len(gotBits) != 1 || gotBits[0] != 5 {
		t.Errorf("Bits(g) = %v, want [5]", gotBits)
	}

	// Swapped bounds normalize with the left bound as MSB.
	if _, err := Classify(ctx, "f[0..2]", ""); err != nil {
		t.Fatalf("classifying swapped vector: %v", err)
	}
	gotBits = ctx.Registry.Bits("f")
	wantBits = []int{2, 1, 0}
	for i := range wantBits {
		if gotBits[i] != wantBits[i] {
			t.Errorf("Bits(f) = %v, want %v", gotBits, wantBits)
			break
		}
	}
}

// TestClassify_ScalarVectorConflict tests the namespace shape conflicts.
func TestClassify_ScalarVectorConflict(t *testing.T) {
	ctx := testContext()

	if _, err := Classify(ctx, "a", ""); err != nil {
		t.Fatalf("classifying scalar: %v", err)
	}
	if _, err := Classify(ctx, "a[1..0]", ""); err == nil {
		t.Error("vector reference to a scalar namespace succeeded, want error")
	}
	if _, err := Classify(ctx, "a[]", ""); err == nil {
		t.Error("a[] over a scalar namespace succeeded, want error")
	}

	if _, err := Classify(ctx, "b[1..0]", ""); err != nil {
		t.Fatalf("classifying vector: %v", err)
	}
	if _, err := Classify(ctx, "b", ""); err == nil {
		t.Error("scalar reference to a vector namespace succeeded, want error")
	}
}
