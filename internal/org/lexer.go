package org

import (
	"regexp"
	"strings"
)

// lineRule is one entry of the ordered line-shape table.
type lineRule struct {
	kind    TokenKind
	pattern *regexp.Regexp
	build   func(t *Token, m []string)
}

// First match wins; "line" is the catch-all.
var lineRules = []lineRule{
	{TokenHeader, regexp.MustCompile(`^(\*+)\s+(.*)$`), func(t *Token, m []string) {
		t.Level = len(m[1])
		t.Content = m[2]
	}},
	{TokenPreformatted, regexp.MustCompile(`^(\s*):(?: (.*)$|$)`), func(t *Token, m []string) {
		t.Indentation = len(m[1])
		t.Content = m[2]
	}},
	{TokenUnorderedListElement, regexp.MustCompile(`^(\s*)(?:-|\+|\s+\*)\s+(.*)$`), func(t *Token, m []string) {
		t.Indentation = len(m[1])
		t.Content = m[2]
	}},
	{TokenOrderedListElement, regexp.MustCompile(`^(\s*)(\d+)(?:\.|\))\s+(.*)$`), func(t *Token, m []string) {
		t.Indentation = len(m[1])
		t.Number = m[2]
		t.Content = m[3]
	}},
	{TokenTableSeparator, regexp.MustCompile(`^(\s*)\|([-+|]*-[-+|]*)$`), func(t *Token, m []string) {
		t.Indentation = len(m[1])
		t.Content = m[2]
	}},
	{TokenTableRow, regexp.MustCompile(`^(\s*)\|(.*?)\|?$`), func(t *Token, m []string) {
		t.Indentation = len(m[1])
		t.Content = m[2]
	}},
	{TokenBlank, regexp.MustCompile(`^\s*$`), func(t *Token, m []string) {}},
	{TokenHorizontalRule, regexp.MustCompile(`^(\s*)-{5,}$`), func(t *Token, m []string) {
		t.Indentation = len(m[1])
	}},
	{TokenDirective, regexp.MustCompile(`(?i)^(\s*)#\+(?:(begin|end)_)?(.*)$`), func(t *Token, m []string) {
		t.Indentation = len(m[1])
		t.Content = m[3]
		switch strings.ToLower(m[2]) {
		case "begin":
			t.Directive = DirectiveBegin
		case "end":
			t.Directive = DirectiveEnd
		default:
			t.Directive = DirectiveOneshot
		}
	}},
	{TokenComment, regexp.MustCompile(`^(\s*)#(.*)$`), func(t *Token, m []string) {
		t.Indentation = len(m[1])
		t.Content = m[2]
	}},
	{TokenLine, regexp.MustCompile(`^(\s*)(.*)$`), func(t *Token, m []string) {
		t.Indentation = len(m[1])
		t.Content = m[2]
	}},
}

// Lexer turns stream lines into tokens on demand.
type Lexer struct {
	stream *Stream
	stack  []*Token // pushed-back tokens, consulted first
	peeked *Token   // tokenized but unconsumed stream line
}

func NewLexer(stream *Stream) *Lexer {
	return &Lexer{stream: stream}
}

// Tokenize classifies a single line.
func (l *Lexer) Tokenize(line string, lineNo int) (*Token, error) {
	for _, rule := range lineRules {
		m := rule.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		t := &Token{Kind: rule.kind, Line: lineNo, Raw: line}
		rule.build(t, m)
		return t, nil
	}
	return nil, newParseError(ErrLex, lineNo, "%q", line)
}

// PushToken puts a token back; it is returned by the next peek or get.
func (l *Lexer) PushToken(t *Token) {
	l.stack = append(l.stack, t)
}

// PushBlank pushes a synthetic blank token.
func (l *Lexer) PushBlank() {
	l.PushToken(&Token{Kind: TokenBlank, synthetic: true})
}

// PeekNextToken returns the next token without consuming it, or nil when
// nothing is left. Repeated peeks return the same *Token.
func (l *Lexer) PeekNextToken() (*Token, error) {
	if n := len(l.stack); n > 0 {
		return l.stack[n-1], nil
	}
	if l.peeked != nil {
		return l.peeked, nil
	}
	line, ok := l.stream.PeekNextLine()
	if !ok {
		return nil, nil
	}
	t, err := l.Tokenize(line, l.stream.LineNumber()+1)
	if err != nil {
		return nil, err
	}
	l.peeked = t
	return t, nil
}

// GetNextToken consumes the next token, or returns nil when nothing is left.
func (l *Lexer) GetNextToken() (*Token, error) {
	if n := len(l.stack); n > 0 {
		t := l.stack[n-1]
		l.stack = l.stack[:n-1]
		return t, nil
	}
	if l.peeked != nil {
		t := l.peeked
		l.peeked = nil
		l.stream.GetNextLine()
		return t, nil
	}
	line, ok := l.stream.GetNextLine()
	if !ok {
		return nil, nil
	}
	return l.Tokenize(line, l.stream.LineNumber())
}

// HasNext reflects the underlying stream only, not the pushback stack.
func (l *Lexer) HasNext() bool {
	return l.stream.HasNext()
}

func (l *Lexer) LineNumber() int {
	return l.stream.LineNumber()
}
