package lexer

import (
	"testing"

	"github.com/flowby/flowby/internal/token"
)

func TestNextTokenBasic(t *testing.T) {
	input := "let x = 5\nx = x + 10\n"

	tests := []struct {
		expectedKind    token.Kind
		expectedLiteral string
	}{
		{token.LET, "let"},
		{token.IDENTIFIER, "x"},
		{token.ASSIGN, "="},
		{token.INTEGER, "5"},
		{token.NEWLINE, "\n"},
		{token.IDENTIFIER, "x"},
		{token.ASSIGN, "="},
		{token.IDENTIFIER, "x"},
		{token.PLUS, "+"},
		{token.INTEGER, "10"},
		{token.NEWLINE, "\n"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Kind != tt.expectedKind {
			t.Fatalf("tests[%d] - kind wrong. expected=%v, got=%v (literal=%q)",
				i, tt.expectedKind, tok.Kind, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
	if errs := l.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}
}

func TestIndentDedent(t *testing.T) {
	input := "if x:\n    let y = 1\n    let z = 2\nlog.info(\"done\")\n"

	kinds := []token.Kind{
		token.IF, token.IDENTIFIER, token.COLON, token.NEWLINE,
		token.INDENT,
		token.LET, token.IDENTIFIER, token.ASSIGN, token.INTEGER, token.NEWLINE,
		token.LET, token.IDENTIFIER, token.ASSIGN, token.INTEGER, token.NEWLINE,
		token.DEDENT,
		token.LOG, token.DOT, token.LEVEL_INFO, token.LPAREN, token.STRING, token.RPAREN, token.NEWLINE,
		token.EOF,
	}

	l := New(input)
	for i, want := range kinds {
		tok := l.NextToken()
		if tok.Kind != want {
			t.Fatalf("tokens[%d] - expected=%v, got=%v (literal=%q, line=%d)",
				i, want, tok.Kind, tok.Literal, tok.Pos.Line)
		}
	}
}

func TestNestedIndentMultipleDedents(t *testing.T) {
	input := "while x:\n    if y:\n        let a = 1\nlet b = 2\n"

	l := New(input)
	var kinds []token.Kind
	for {
		tok := l.NextToken()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			break
		}
	}

	dedents := 0
	for _, k := range kinds {
		if k == token.DEDENT {
			dedents++
		}
	}
	if dedents != 2 {
		t.Fatalf("expected 2 DEDENT tokens emitted back to back, got %d: %v", dedents, kinds)
	}
}

func TestIndentMustBeMultipleOfFour(t *testing.T) {
	input := "if x:\n   let y = 1\n"
	l := New(input)
	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			break
		}
	}
	if len(l.Errors()) == 0 {
		t.Fatalf("expected an indentation error for a 3-column indent")
	}
}

func TestMixedTabsAndSpacesRejected(t *testing.T) {
	input := "if x:\n\t   let y = 1\n"
	l := New(input)
	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			break
		}
	}
	found := false
	for _, e := range l.Errors() {
		if e.Message == "cannot mix tabs and spaces in indentation" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a mixed tabs/spaces error, got %v", l.Errors())
	}
}

func TestInconsistentIndentStyleAcrossFile(t *testing.T) {
	input := "if a:\n    let x = 1\nif b:\n\tlet y = 2\n"
	l := New(input)
	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			break
		}
	}
	if len(l.Errors()) == 0 {
		t.Fatalf("expected an inconsistent-indent-style error when a file mixes tabs after committing to spaces")
	}
}

func TestTrueFalseNoneCaseSensitive(t *testing.T) {
	l := New("True False None\n")
	wantKinds := []token.Kind{token.TRUE, token.FALSE, token.NONE}
	for _, want := range wantKinds {
		tok := l.NextToken()
		if tok.Kind != want {
			t.Fatalf("expected %v, got %v", want, tok.Kind)
		}
	}
}

func TestLowercaseBooleanAliasesRejected(t *testing.T) {
	for _, src := range []string{"true\n", "false\n", "null\n"} {
		l := New(src)
		l.NextToken()
		if len(l.Errors()) == 0 {
			t.Fatalf("expected lowercase %q to be rejected", src)
		}
	}
}

func TestStringLiteral(t *testing.T) {
	l := New(`"hello\nworld"` + "\n")
	tok := l.NextToken()
	if tok.Kind != token.STRING {
		t.Fatalf("expected STRING, got %v", tok.Kind)
	}
	if tok.Literal != "hello\nworld" {
		t.Fatalf("expected decoded escape, got %q", tok.Literal)
	}
}

func TestFStringPreservesBraceContents(t *testing.T) {
	l := New(`f"hello {name}, you are {age + 1} years old"` + "\n")
	tok := l.NextToken()
	if tok.Kind != token.FSTRING {
		t.Fatalf("expected FSTRING, got %v", tok.Kind)
	}
	want := "hello {name}, you are {age + 1} years old"
	if tok.Literal != want {
		t.Fatalf("expected %q, got %q", want, tok.Literal)
	}
}

func TestFStringQuoteInsideBraceDoesNotTerminate(t *testing.T) {
	l := New(`f"result: {x == "a"}"` + "\n")
	tok := l.NextToken()
	if tok.Kind != token.FSTRING {
		t.Fatalf("expected FSTRING, got %v", tok.Kind)
	}
	want := `result: {x == "a"}`
	if tok.Literal != want {
		t.Fatalf("expected %q, got %q", want, tok.Literal)
	}
}

func TestNumberWithTimeSuffix(t *testing.T) {
	tests := []struct {
		lit      string
		expected float64
	}{
		{"500ms", 0.5},
		{"2s", 2},
		{"1.5seconds", 1.5},
		{"3second", 3},
	}
	for _, tt := range tests {
		l := New(tt.lit + "\n")
		tok := l.NextToken()
		if tok.Kind != token.NUMBER {
			t.Fatalf("%s: expected NUMBER, got %v", tt.lit, tok.Kind)
		}
		got, err := ParseNumberLiteral(tok.Literal)
		if err != nil {
			t.Fatalf("%s: %v", tt.lit, err)
		}
		if got != tt.expected {
			t.Fatalf("%s: expected %v seconds, got %v", tt.lit, tt.expected, got)
		}
	}
}

func TestPlainIntegerHasNoTimeSuffix(t *testing.T) {
	l := New("42\n")
	tok := l.NextToken()
	if tok.Kind != token.INTEGER || tok.Literal != "42" {
		t.Fatalf("expected bare INTEGER 42, got %v %q", tok.Kind, tok.Literal)
	}
}

func TestTwoCharOperators(t *testing.T) {
	l := New("== != <= >= => // **\n")
	want := []token.Kind{token.EQ, token.NEQ, token.LTE, token.GTE, token.ARROW, token.SLASHSLASH, token.STARSTAR}
	for _, w := range want {
		tok := l.NextToken()
		if tok.Kind != w {
			t.Fatalf("expected %v, got %v (%q)", w, tok.Kind, tok.Literal)
		}
	}
}

func TestParenSuppressesNewlineAndIndent(t *testing.T) {
	input := "foo(1,\n    2,\n    3)\n"
	l := New(input)
	var sawNewlineInsideParens bool
	depth := 0
	for {
		tok := l.NextToken()
		if tok.Kind == token.LPAREN {
			depth++
		}
		if tok.Kind == token.RPAREN {
			depth--
		}
		if tok.Kind == token.NEWLINE && depth > 0 {
			sawNewlineInsideParens = true
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	if sawNewlineInsideParens {
		t.Fatalf("NEWLINE should be suppressed while inside parentheses")
	}
}

func TestDiagnosisLevelContextSwitchesNoneKeyword(t *testing.T) {
	l := New("none\n")
	l.SetDiagnosisLevelContext(true)
	tok := l.NextToken()
	if tok.Kind != token.DIAG_NONE {
		t.Fatalf("expected DIAG_NONE under diagnosis-level context, got %v", tok.Kind)
	}
}

func TestBOMStripped(t *testing.T) {
	input := "\xEF\xBB\xBFlet x = 1\n"
	l := New(input)
	tok := l.NextToken()
	if tok.Kind != token.LET {
		t.Fatalf("expected LET as first token after BOM, got %v", tok.Kind)
	}
	if tok.Pos.Column != 0 {
		t.Fatalf("expected BOM to not shift column, got %d", tok.Pos.Column)
	}
}

func TestActionKeywords(t *testing.T) {
	l := New("navigate to \"https://example.com\"\n")
	tok := l.NextToken()
	if tok.Kind != token.NAVIGATE {
		t.Fatalf("expected NAVIGATE, got %v", tok.Kind)
	}
}
