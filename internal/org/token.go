package org

import "fmt"

// TokenKind classifies a source line.
type TokenKind int

const (
	TokenHeader TokenKind = iota
	TokenOrderedListElement
	TokenUnorderedListElement
	TokenTableRow
	TokenTableSeparator
	TokenPreformatted
	TokenLine
	TokenHorizontalRule
	TokenBlank
	TokenDirective
	TokenComment
)

var tokenKindNames = []string{
	TokenHeader:               "header",
	TokenOrderedListElement:   "orderedListElement",
	TokenUnorderedListElement: "unorderedListElement",
	TokenTableRow:             "tableRow",
	TokenTableSeparator:       "tableSeparator",
	TokenPreformatted:         "preformatted",
	TokenLine:                 "line",
	TokenHorizontalRule:       "horizontalRule",
	TokenBlank:                "blank",
	TokenDirective:            "directive",
	TokenComment:              "comment",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
	return tokenKindNames[k]
}

// DirectiveKind tells begin, end and oneshot directives apart.
type DirectiveKind int

const (
	DirectiveNone DirectiveKind = iota
	DirectiveOneshot
	DirectiveBegin
	DirectiveEnd
)

// Token is one classified source line.
type Token struct {
	Kind        TokenKind
	Indentation int
	Content     string
	Line        int    // 1-based origin line, 0 for synthetic tokens
	Raw         string // the untouched source line

	Level     int           // header level
	Number    string        // ordered list item number
	Directive DirectiveKind // directive shape

	synthetic bool
}

func (t *Token) IsListElement() bool {
	return t.Kind == TokenOrderedListElement || t.Kind == TokenUnorderedListElement
}

func (t *Token) IsTableElement() bool {
	return t.Kind == TokenTableRow || t.Kind == TokenTableSeparator
}

func (t *Token) IsDirectiveEnd() bool {
	return t.Kind == TokenDirective && t.Directive == DirectiveEnd
}

func (t *Token) String() string {
	return fmt.Sprintf("%s(line=%d indent=%d %q)", t.Kind, t.Line, t.Indentation, t.Content)
}
