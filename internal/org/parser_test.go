package org

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, text string) *Document {
	t.Helper()
	doc, err := ParseString(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc
}

func TestParse_TitleFromFirstLine(t *testing.T) {
	doc := mustParse(t, "\nMy *Title*\n\nBody text.")

	if doc.Title != "My Title" {
		t.Errorf("expected title %q, got %q", "My Title", doc.Title)
	}
	if doc.TitleNode == nil || doc.TitleNode.Kind != KindInlineContainer {
		t.Fatalf("expected inline title node, got %v", doc.TitleNode)
	}
	if len(doc.Nodes) != 1 || doc.Nodes[0].Kind != KindParagraph {
		t.Fatalf("expected one paragraph, got %d nodes", len(doc.Nodes))
	}
	if got := doc.Nodes[0].TextContent(); got != "Body text." {
		t.Errorf("expected %q, got %q", "Body text.", got)
	}
}

func TestParse_TitleDirective(t *testing.T) {
	doc := mustParse(t, "#+title: Hello\n#+author: Ann\n#+email: ann@example.com\n#+date: today")

	if doc.Title != "Hello" {
		t.Errorf("expected title %q, got %q", "Hello", doc.Title)
	}
	if doc.TitleNode == nil || doc.TitleNode.TextContent() != "Hello" {
		t.Errorf("expected title node text %q", "Hello")
	}
	if doc.Author != "Ann" {
		t.Errorf("expected author %q, got %q", "Ann", doc.Author)
	}
	if doc.Email != "ann@example.com" {
		t.Errorf("expected email %q, got %q", "ann@example.com", doc.Email)
	}
	if got := doc.DirectiveValues["date:"]; got != "today" {
		t.Errorf("expected date directive %q, got %q", "today", got)
	}
	for _, n := range doc.Nodes {
		if n.Kind != KindDirective {
			t.Errorf("expected only directive nodes, got %s", n.Kind)
		}
	}
}

func TestParse_OptionsDirective(t *testing.T) {
	doc := mustParse(t, "#+options: toc:2 num:nil ^:{} custom:yes")

	if doc.Options.TOC != 2 {
		t.Errorf("expected toc 2, got %d", doc.Options.TOC)
	}
	if doc.Options.Num {
		t.Error("expected num disabled")
	}
	if doc.Options.Subscript != SubscriptBraces {
		t.Errorf("expected braces subscripts, got %s", doc.Options.Subscript)
	}
	if doc.Options.Extra["custom"] != "yes" {
		t.Errorf("expected extra option kept, got %v", doc.Options.Extra)
	}
}

func TestParse_OptionsDoNotLeak(t *testing.T) {
	opts := DefaultOptions()
	doc, err := Parse("#+options: num:nil", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Options.Num {
		t.Error("expected document num disabled")
	}
	if !opts.Num {
		t.Error("caller options were modified")
	}
}

func TestParse_HeadersAreFlat(t *testing.T) {
	doc := mustParse(t, "\n* One\ntext\n** Two\n* Three")

	var levels []int
	for _, n := range doc.Nodes {
		if n.Kind == KindHeader {
			levels = append(levels, n.Level)
		}
	}
	if len(levels) != 3 || levels[0] != 1 || levels[1] != 2 || levels[2] != 1 {
		t.Errorf("unexpected header levels %v", levels)
	}
	if doc.Nodes[0].Line != 2 {
		t.Errorf("expected first header on line 2, got %d", doc.Nodes[0].Line)
	}
	if got := len(doc.Headers()); got != 3 {
		t.Errorf("expected 3 headers, got %d", got)
	}
}

func TestParse_TopLevelSiblings(t *testing.T) {
	doc := mustParse(t, "\n* A\n* B")
	if doc.Nodes[1].PrevSibling() != doc.Nodes[0] {
		t.Error("expected top-level previous sibling link")
	}
	if doc.Nodes[0].PrevSibling() != nil {
		t.Error("expected no previous sibling for the first node")
	}
}

func TestParse_NestedList(t *testing.T) {
	doc := mustParse(t, "\n- a\n  - b\n- c")

	if len(doc.Nodes) != 1 {
		t.Fatalf("expected one list, got %d nodes", len(doc.Nodes))
	}
	list := doc.Nodes[0]
	if list.Kind != KindUnorderedList {
		t.Fatalf("expected unordered list, got %s", list.Kind)
	}
	if list.ChildCount() != 2 {
		t.Fatalf("expected 2 items, got %d", list.ChildCount())
	}
	first := list.Child(0)
	if first.ChildCount() != 2 || first.Child(1).Kind != KindUnorderedList {
		t.Fatalf("expected nested list in first item:\n%s", first)
	}
	if got := first.Child(1).Child(0).TextContent(); got != "b" {
		t.Errorf("expected nested item %q, got %q", "b", got)
	}
	if got := list.Child(1).TextContent(); got != "c" {
		t.Errorf("expected %q, got %q", "c", got)
	}
}

func TestParse_OrderedListAndContinuation(t *testing.T) {
	doc := mustParse(t, "\n1. first\n   still first\n2. second")

	list := doc.Nodes[0]
	if list.Kind != KindOrderedList {
		t.Fatalf("expected ordered list, got %s", list.Kind)
	}
	if got := list.Child(0).TextContent(); got != "first\nstill first" {
		t.Errorf("expected continuation joined, got %q", got)
	}
	if list.ChildCount() != 2 {
		t.Errorf("expected 2 items, got %d", list.ChildCount())
	}
}

func TestParse_ListItemParagraph(t *testing.T) {
	doc := mustParse(t, "\n- item\n\n  more\n- next")

	list := doc.Nodes[0]
	if list.ChildCount() != 2 {
		t.Fatalf("expected 2 items, got %d", list.ChildCount())
	}
	item := list.Child(0)
	if item.ChildCount() != 2 || item.Child(1).Kind != KindParagraph {
		t.Fatalf("expected continuation paragraph:\n%s", item)
	}
}

func TestParse_DefinitionList(t *testing.T) {
	doc := mustParse(t, "\n- a :: b\n- c")

	list := doc.Nodes[0]
	if list.Kind != KindDefinitionList {
		t.Fatalf("expected definition list, got %s", list.Kind)
	}
	tests := []struct{ term, def string }{
		{"a", "b"},
		{unknownDefinitionTerm, "c"},
	}
	for i, tt := range tests {
		item := list.Child(i)
		if !item.IsDefinitionList {
			t.Errorf("item %d: expected definition flag", i)
		}
		terms := item.TermNodes()
		if len(terms) != 1 || terms[0].TextContent() != tt.term {
			t.Errorf("item %d: expected term %q", i, tt.term)
		}
		if got := item.TextContent(); got != tt.def {
			t.Errorf("item %d: expected definition %q, got %q", i, tt.def, got)
		}
	}
}

func TestParse_Preformatted(t *testing.T) {
	doc := mustParse(t, "\n: a  b\n: *c*\nafter")

	pre := doc.Nodes[0]
	if pre.Kind != KindPreformatted {
		t.Fatalf("expected preformatted, got %s", pre.Kind)
	}
	if got := pre.TextContent(); got != "a  b\n*c*" {
		t.Errorf("expected literal text, got %q", got)
	}
	if doc.Nodes[1].Kind != KindParagraph {
		t.Errorf("expected paragraph after block, got %s", doc.Nodes[1].Kind)
	}
}

func TestParse_TableHeader(t *testing.T) {
	doc := mustParse(t, "| a | b |\n|---+---|\n| 1 | 2 |")

	table := doc.Nodes[0]
	if table.Kind != KindTable {
		t.Fatalf("expected table, got %s", table.Kind)
	}
	if table.ChildCount() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.ChildCount())
	}
	for i, cell := range table.Child(0).Children() {
		if !cell.IsHeader {
			t.Errorf("cell %d of first row should be a header", i)
		}
	}
	for _, cell := range table.Child(1).Children() {
		if cell.IsHeader {
			t.Error("body cell marked as header")
		}
	}
	if got := table.Child(1).Child(1).TextContent(); got != "2" {
		t.Errorf("expected cell %q, got %q", "2", got)
	}
	if table.Child(1).Line != 3 {
		t.Errorf("expected row line 3, got %d", table.Child(1).Line)
	}
}

func TestParse_TableWithoutSeparator(t *testing.T) {
	doc := mustParse(t, "| a |\n| b |")
	for _, row := range doc.Nodes[0].Children() {
		if row.Child(0).IsHeader {
			t.Error("no separator means no header row")
		}
	}
}

func TestParse_EmptyRowIsNotSeparator(t *testing.T) {
	doc := mustParse(t, "| a |\n||\n| b |")

	table := doc.Nodes[0]
	if table.ChildCount() != 3 {
		t.Fatalf("expected 3 rows, got %d", table.ChildCount())
	}
	for _, row := range table.Children() {
		if row.Child(0).IsHeader {
			t.Error("an empty row must not mark a header")
		}
	}
	if got := table.Child(1).Child(0).TextContent(); got != "" {
		t.Errorf("expected empty cell, got %q", got)
	}
}

func TestParse_MultilineCells(t *testing.T) {
	doc := mustParse(t, "#+options: multilineCell:t\n| h |\n|---|\n| a |\n| b |\n|---|\n| c |")

	table := doc.Nodes[1]
	if table.Kind != KindTable {
		t.Fatalf("expected table, got %s", table.Kind)
	}
	if table.ChildCount() != 3 {
		t.Fatalf("expected 3 rows, got %d", table.ChildCount())
	}
	if got := table.Child(1).Child(0).TextContent(); got != "a\nb" {
		t.Errorf("expected merged cell %q, got %q", "a\nb", got)
	}
	if got := table.Child(2).Child(0).TextContent(); got != "c" {
		t.Errorf("expected %q, got %q", "c", got)
	}
}

func TestParse_CellInline(t *testing.T) {
	doc := mustParse(t, "| *x* | [[http://a.b][y]] |")
	row := doc.Nodes[0].Child(0)
	if got := row.Child(0).Child(0).Kind; got != KindBold {
		t.Errorf("expected bold cell, got %s", got)
	}
	if got := row.Child(1).Child(0).Kind; got != KindLink {
		t.Errorf("expected link cell, got %s", got)
	}
}

func TestParse_QuoteBlock(t *testing.T) {
	doc := mustParse(t, "#+begin_quote\nhello\n#+end_quote\nafter")

	q := doc.Nodes[0]
	if q.DirectiveName() != "quote" {
		t.Fatalf("expected quote directive, got %q", q.DirectiveName())
	}
	if q.ChildCount() != 1 || q.Child(0).Kind != KindParagraph {
		t.Fatalf("unexpected quote body:\n%s", q)
	}
	if doc.Nodes[1].Kind != KindParagraph {
		t.Errorf("expected trailing paragraph, got %s", doc.Nodes[1].Kind)
	}
}

func TestParse_ListInsideBlock(t *testing.T) {
	doc := mustParse(t, "#+begin_quote\n- a\n- b\n#+end_quote")
	q := doc.Nodes[0]
	if q.ChildCount() != 1 || q.Child(0).Kind != KindUnorderedList {
		t.Fatalf("unexpected quote body:\n%s", q)
	}
}

func TestParse_SrcBlockVerbatim(t *testing.T) {
	doc := mustParse(t, "#+begin_src go -n\n  x := *y*\n\n| not a table |\n#+end_src")

	src := doc.Nodes[0]
	if src.DirectiveName() != "src" {
		t.Fatalf("expected src directive, got %q", src.DirectiveName())
	}
	if len(src.Directive.Arguments) != 1 || src.Directive.Arguments[0] != "go" {
		t.Errorf("expected argument go, got %v", src.Directive.Arguments)
	}
	if len(src.Directive.Options) != 1 || src.Directive.Options[0] != "-n" {
		t.Errorf("expected option -n, got %v", src.Directive.Options)
	}
	want := "  x := *y*\n\n| not a table |"
	if got := src.TextContent(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestParse_CommentsDropped(t *testing.T) {
	doc := mustParse(t, "\n# hidden\n-----\ntext")
	if len(doc.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(doc.Nodes))
	}
	if doc.Nodes[0].Kind != KindHorizontalRule {
		t.Errorf("expected horizontal rule, got %s", doc.Nodes[0].Kind)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
		line  int
	}{
		{"end without begin", "#+end_src", ErrUnmatchedDirectiveEnd, 1},
		{"mismatched end", "#+begin_quote\nx\n#+end_example", ErrUnmatchedDirectiveEnd, 3},
		{"unclosed src", "#+begin_src js\nvar x", ErrUnclosedDirective, 2},
		{"unclosed quote", "#+begin_quote\n\ntext", ErrUnclosedDirective, 3},
		{"empty name", "#+", ErrInvalidDirective, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseString(tt.input)
			if doc != nil {
				t.Error("expected no document on error")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Line != tt.line {
				t.Errorf("expected line %d, got %d", tt.line, pe.Line)
			}
		})
	}
}

func TestParse_LiteralTextPreserved(t *testing.T) {
	doc := mustParse(t, "Title\n\nplain words here")
	if got := doc.Nodes[0].TextContent(); got != "plain words here" {
		t.Errorf("expected %q, got %q", "plain words here", got)
	}
}
