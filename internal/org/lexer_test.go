package org

import "testing"

func TestLexer_Tokenize(t *testing.T) {
	tests := []struct {
		line    string
		kind    TokenKind
		content string
		indent  int
	}{
		{"* Header", TokenHeader, "Header", 0},
		{"*** Deep", TokenHeader, "Deep", 0},
		{"  : code", TokenPreformatted, "code", 2},
		{":", TokenPreformatted, "", 0},
		{"- item", TokenUnorderedListElement, "item", 0},
		{"+ item", TokenUnorderedListElement, "item", 0},
		{"  1. first", TokenOrderedListElement, "first", 2},
		{"2) second", TokenOrderedListElement, "second", 0},
		{"|---+---|", TokenTableSeparator, "---+---|", 0},
		{"|---|---|", TokenTableSeparator, "---|---|", 0},
		{"| a | b |", TokenTableRow, " a | b ", 0},
		{"  |-", TokenTableSeparator, "-", 2},
		{"||", TokenTableRow, "", 0},
		{"|+|", TokenTableRow, "+", 0},
		{"", TokenBlank, "", 0},
		{"   \t", TokenBlank, "", 0},
		{"-----", TokenHorizontalRule, "", 0},
		{"#+TITLE: x", TokenDirective, "TITLE: x", 0},
		{"# a comment", TokenComment, " a comment", 0},
		{"  plain text", TokenLine, "plain text", 2},
		{"*bold* start", TokenLine, "*bold* start", 0},
	}

	l := NewLexer(NewStream(""))
	for _, tt := range tests {
		tok, err := l.Tokenize(tt.line, 1)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.line, err)
		}
		if tok.Kind != tt.kind {
			t.Errorf("%q: expected kind %s, got %s", tt.line, tt.kind, tok.Kind)
			continue
		}
		if tok.Content != tt.content {
			t.Errorf("%q: expected content %q, got %q", tt.line, tt.content, tok.Content)
		}
		if tok.Indentation != tt.indent {
			t.Errorf("%q: expected indentation %d, got %d", tt.line, tt.indent, tok.Indentation)
		}
		if tok.Raw != tt.line {
			t.Errorf("%q: raw line not kept, got %q", tt.line, tok.Raw)
		}
	}
}

func TestLexer_DirectiveKinds(t *testing.T) {
	l := NewLexer(NewStream(""))
	tests := []struct {
		line string
		want DirectiveKind
	}{
		{"#+begin_src go", DirectiveBegin},
		{"#+BEGIN_QUOTE", DirectiveBegin},
		{"#+end_src", DirectiveEnd},
		{"#+author: me", DirectiveOneshot},
	}
	for _, tt := range tests {
		tok, err := l.Tokenize(tt.line, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Directive != tt.want {
			t.Errorf("%q: expected directive kind %d, got %d", tt.line, tt.want, tok.Directive)
		}
	}
}

func TestLexer_HeaderLevelAndNumber(t *testing.T) {
	l := NewLexer(NewStream(""))
	tok, _ := l.Tokenize("** Two", 1)
	if tok.Level != 2 {
		t.Errorf("expected level 2, got %d", tok.Level)
	}
	tok, _ = l.Tokenize("12. twelve", 1)
	if tok.Number != "12" {
		t.Errorf("expected number %q, got %q", "12", tok.Number)
	}
}

func TestLexer_PeekIsStable(t *testing.T) {
	l := NewLexer(NewStream("one\ntwo"))

	a, err := l.PeekNextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := l.PeekNextToken()
	if a != b {
		t.Fatal("expected repeated peeks to return the same token")
	}
	got, _ := l.GetNextToken()
	if got != a {
		t.Fatal("expected get to return the peeked token")
	}
	if got.Line != 1 {
		t.Errorf("expected line 1, got %d", got.Line)
	}

	next, _ := l.GetNextToken()
	if next.Content != "two" || next.Line != 2 {
		t.Errorf("unexpected second token %s", next)
	}
	if end, _ := l.PeekNextToken(); end != nil {
		t.Errorf("expected nil at end, got %s", end)
	}
}

func TestLexer_Pushback(t *testing.T) {
	l := NewLexer(NewStream("line"))
	l.PushBlank()

	tok, _ := l.GetNextToken()
	if tok.Kind != TokenBlank || !tok.synthetic {
		t.Fatalf("expected synthetic blank, got %s", tok)
	}
	tok, _ = l.GetNextToken()
	if tok.Kind != TokenLine {
		t.Fatalf("expected line after pushback, got %s", tok)
	}
	if l.HasNext() {
		t.Error("expected stream to be exhausted")
	}
}
