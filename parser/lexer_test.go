package parser

import "testing"

func TestTokenizeKinds(t *testing.T) {
	toks, err := tokenize(`let var x_1 := 42 in x_1 <> "s" end /* c /* nested */ */`)
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	want := []struct {
		kind tokenKind
		lit  string
	}{
		{tokKeyword, "let"},
		{tokKeyword, "var"},
		{tokIdent, "x_1"},
		{tokSymbol, ":="},
		{tokInt, "42"},
		{tokKeyword, "in"},
		{tokIdent, "x_1"},
		{tokSymbol, "<>"},
		{tokString, "s"},
		{tokKeyword, "end"},
		{tokEOF, "end of input"},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].kind != w.kind || toks[i].lit != w.lit {
			t.Fatalf("token %d: got (%d, %q), want (%d, %q)", i, toks[i].kind, toks[i].lit, w.kind, w.lit)
		}
	}
	if toks[4].val != 42 {
		t.Fatalf("integer value: got %d", toks[4].val)
	}
}

func TestTokenizePositions(t *testing.T) {
	toks, err := tokenize("a\n  b")
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	if toks[1].pos.line != 2 || toks[1].pos.col != 3 || toks[1].pos.offset != 4 {
		t.Fatalf("unexpected position %+v", toks[1].pos)
	}
}

func TestStringEscapes(t *testing.T) {
	toks, err := tokenize(`"a\tb\\c\065\"d\   
	\e"`)
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	if got := toks[0].lit; got != "a\tb\\cA\"de" {
		t.Fatalf("got %q", got)
	}
}

func TestDecimalEscapeIsOneByte(t *testing.T) {
	toks, err := tokenize(`"\200\255"`)
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	if got := toks[0].lit; got != "\xc8\xff" {
		t.Fatalf("got %q", got)
	}
}

func TestTokenizeErrors(t *testing.T) {
	cases := map[string]string{
		`"abc`:                 "unterminated string",
		`/* open`:              "unterminated comment",
		`"\q"`:                 `unknown escape \q`,
		`"\999"`:               `escape \999 out of range`,
		`#`:                    `unexpected character '#'`,
		`99999999999999999999`: "integer literal 99999999999999999999 out of range",
	}
	for src, msg := range cases {
		_, err := tokenize(src)
		se, ok := err.(*SyntaxError)
		if !ok {
			t.Fatalf("%s: expected *SyntaxError, got %v", src, err)
		}
		if se.Msg != msg {
			t.Fatalf("%s: got message %q, want %q", src, se.Msg, msg)
		}
	}
}

func TestKeywordsAreNotIdentifiers(t *testing.T) {
	for _, kw := range []string{"let", "nil", "of", "then", "to", "type", "var", "while"} {
		if !IsKeyword(kw) {
			t.Fatalf("%s should be reserved", kw)
		}
	}
	if IsKeyword("letter") {
		t.Fatalf("letter is an identifier")
	}
	toks, err := tokenize("letter")
	if err != nil || toks[0].kind != tokIdent {
		t.Fatalf("letter should lex as an identifier: %v", err)
	}
}
