package org

import (
	"regexp"
	"strings"
)

// parseMode is threaded through the recursive descent.
type parseMode int

const (
	modeNormal parseMode = iota
	// modeBlockBody stops element parsing at any end directive so the
	// enclosing begin/end block can close or report a mismatch.
	modeBlockBody
)

// unknownDefinitionTerm stands in for a missing term in a definition list.
const unknownDefinitionTerm = "???"

var (
	definitionPattern = regexp.MustCompile(`(?s)^(.*?) :: *(.*)$`)
	directivePattern  = regexp.MustCompile(`^[ ]*([^ ]*)[ ]*(.*?)[ ]*$`)
)

// verbatimDirectives capture their body as raw source lines.
var verbatimDirectives = map[string]bool{
	"src":     true,
	"example": true,
	"html":    true,
}

// Parser builds a Document from tokens.
type Parser struct {
	arena  *Arena
	lexer  *Lexer
	inline *InlineParser
	doc    *Document

	// fragment parsers handle table cell text: plain lines become bare
	// inline text instead of paragraphs and no title is read.
	fragment bool
}

// Parse parses text with the given options. Options may be overridden by
// #+options: lines in the text. On error no document is returned.
func Parse(text string, opts Options) (*Document, error) {
	p := newParser(NewArena(), NewStream(text), opts)
	if err := p.parseDocument(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

// ParseString parses text with DefaultOptions.
func ParseString(text string) (*Document, error) {
	return Parse(text, DefaultOptions())
}

func newParser(arena *Arena, stream *Stream, opts Options) *Parser {
	return &Parser{
		arena:  arena,
		lexer:  NewLexer(stream),
		inline: NewInlineParser(arena),
		doc: &Document{
			Options:         opts.Clone(),
			DirectiveValues: make(map[string]string),
			arena:           arena,
		},
	}
}

// take consumes a token that was already peeked.
func (p *Parser) take() *Token {
	t, _ := p.lexer.GetNextToken()
	return t
}

func (p *Parser) peek() (*Token, error) {
	return p.lexer.PeekNextToken()
}

func (p *Parser) skipBlank() (*Token, error) {
	var blank *Token
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok == nil || tok.Kind != TokenBlank {
			return blank, nil
		}
		blank = p.take()
	}
}

func (p *Parser) appendNode(n *Node) {
	if len(p.doc.Nodes) > 0 {
		n.prev = p.doc.Nodes[len(p.doc.Nodes)-1].id
	}
	p.doc.Nodes = append(p.doc.Nodes, n)
}

// <Document> ::= <Title>? <Element>*
func (p *Parser) parseDocument() error {
	if err := p.parseTitle(); err != nil {
		return err
	}
	return p.parseNodes()
}

func (p *Parser) parseNodes() error {
	for p.lexer.HasNext() {
		el, err := p.parseElement(modeNormal)
		if err != nil {
			return err
		}
		if el != nil {
			p.appendNode(el)
		}
	}
	return nil
}

func (p *Parser) parseTitle() error {
	if _, err := p.skipBlank(); err != nil {
		return err
	}
	tok, err := p.peek()
	if err != nil {
		return err
	}
	if tok != nil && tok.Kind == TokenLine {
		p.take()
		p.doc.TitleNode = p.inline.Parse(tok.Content)
		p.doc.Title = p.doc.TitleNode.TextContent()
	}
	// The first element after the title starts a paragraph.
	p.lexer.PushBlank()
	return nil
}

// <Element> ::= <Header> | <List> | <Preformatted> | <Paragraph>
//             | <Table> | <Directive> | <HorizontalRule>
func (p *Parser) parseElement(mode parseMode) (*Node, error) {
	tok, err := p.peek()
	if err != nil || tok == nil {
		return nil, err
	}
	if mode == modeBlockBody && tok.IsDirectiveEnd() {
		return nil, nil
	}

	switch tok.Kind {
	case TokenHeader:
		return p.parseHeader()
	case TokenPreformatted:
		return p.parsePreformatted()
	case TokenOrderedListElement, TokenUnorderedListElement:
		return p.parseList(mode)
	case TokenLine:
		if p.fragment {
			return p.parseText()
		}
		return p.parseParagraph()
	case TokenTableRow, TokenTableSeparator:
		return p.parseTable()
	case TokenBlank:
		if _, err := p.skipBlank(); err != nil {
			return nil, err
		}
		if !p.lexer.HasNext() {
			return nil, nil
		}
		next, err := p.peek()
		if err != nil {
			return nil, err
		}
		if next != nil && next.Kind == TokenLine {
			return p.parseParagraph()
		}
		return p.parseElement(mode)
	case TokenHorizontalRule:
		p.take()
		hr := p.arena.New(KindHorizontalRule)
		hr.Line = tok.Line
		return hr, nil
	case TokenDirective:
		return p.parseDirective()
	case TokenComment:
		p.take()
		return nil, nil
	}
	return nil, newParseError(ErrLex, tok.Line, "unhandled token %s", tok.Kind)
}

func (p *Parser) parseHeader() (*Node, error) {
	tok := p.take()
	header := p.arena.New(KindHeader)
	header.Level = tok.Level
	header.Line = tok.Line
	header.AppendChild(p.inline.Parse(tok.Content))
	return header, nil
}

func (p *Parser) parsePreformatted() (*Node, error) {
	first, _ := p.peek()
	pre := p.arena.New(KindPreformatted)
	pre.Line = first.Line

	var lines []string
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok == nil || tok.Kind != TokenPreformatted || tok.Indentation < first.Indentation {
			break
		}
		p.take()
		lines = append(lines, tok.Content)
	}

	pre.AppendChild(p.arena.NewText(strings.Join(lines, "\n")))
	return pre, nil
}

// <List> groups items at the root item's indentation. Whether the list is
// a definition list is decided once, from the root item.
func (p *Parser) parseList(mode parseMode) (*Node, error) {
	root, _ := p.peek()

	var list *Node
	isDefinitionList := definitionPattern.MatchString(root.Content)
	switch {
	case isDefinitionList:
		list = p.arena.New(KindDefinitionList)
	case root.Kind == TokenUnorderedListElement:
		list = p.arena.New(KindUnorderedList)
	default:
		list = p.arena.New(KindOrderedList)
	}
	list.Line = root.Line

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok == nil || !tok.IsListElement() || tok.Indentation != root.Indentation {
			break
		}
		el, err := p.parseListElement(root.Indentation, isDefinitionList, mode)
		if err != nil {
			return nil, err
		}
		list.AppendChild(el)
	}
	return list, nil
}

func (p *Parser) parseListElement(rootIndentation int, isDefinitionList bool, mode parseMode) (*Node, error) {
	tok := p.take()
	el := p.arena.New(KindListElement)
	el.Line = tok.Line
	el.IsDefinitionList = isDefinitionList

	// Lines directly below the item and indented past its marker continue
	// the item text.
	content := tok.Content
	for {
		next, err := p.peek()
		if err != nil {
			return nil, err
		}
		if next == nil || next.Kind != TokenLine || next.Indentation <= rootIndentation {
			break
		}
		p.take()
		content += "\n" + next.Content
	}

	if isDefinitionList {
		term, definition := unknownDefinitionTerm, content
		if m := definitionPattern.FindStringSubmatch(content); m != nil {
			if m[1] != "" {
				term = m[1]
			}
			definition = m[2]
		}
		termNode := p.inline.Parse(term)
		termNode.parent = el.id
		el.Term = []NodeID{termNode.id}
		el.AppendChild(p.inline.Parse(definition))
	} else {
		el.AppendChild(p.inline.Parse(content))
	}

	for p.lexer.HasNext() {
		blank, err := p.skipBlank()
		if err != nil {
			return nil, err
		}
		if !p.lexer.HasNext() {
			break
		}
		next, err := p.peek()
		if err != nil {
			return nil, err
		}
		// A blank line only survives when it does not separate list items,
		// so it can open a continuation paragraph.
		if blank != nil && !next.IsListElement() {
			p.lexer.PushToken(blank)
		}
		if next.Indentation <= rootIndentation {
			break
		}
		if mode == modeBlockBody && next.IsDirectiveEnd() {
			break
		}
		child, err := p.parseElement(mode)
		if err != nil {
			return nil, err
		}
		if child != nil {
			el.AppendChild(child)
		}
	}
	return el, nil
}

// <Table> ::= (<TableRow> | <TableSeparator>)+
func (p *Parser) parseTable() (*Node, error) {
	first, _ := p.peek()
	table := p.arena.New(KindTable)
	table.Line = first.Line
	sawSeparator := false

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok == nil || !tok.IsTableElement() {
			break
		}
		if tok.Kind == TokenTableSeparator {
			sawSeparator = true
			p.take()
			continue
		}
		row, err := p.parseTableRow(sawSeparator && p.doc.Options.MultilineCell)
		if err != nil {
			return nil, err
		}
		table.AppendChild(row)
	}

	if sawSeparator && table.ChildCount() > 0 {
		for _, cell := range table.Child(0).Children() {
			cell.IsHeader = true
		}
	}
	return table, nil
}

// parseTableRow reads one row, or with multiline cells every row up to the
// next separator, merging same-index cells with newlines.
func (p *Parser) parseTableRow(multiline bool) (*Node, error) {
	var rows []*Token
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok == nil || tok.Kind != TokenTableRow {
			break
		}
		rows = append(rows, p.take())
		if !multiline {
			break
		}
	}
	if len(rows) == 0 {
		return nil, newParseError(ErrLex, p.lexer.LineNumber(), "expected table row")
	}

	first := rows[0]
	cellTexts := strings.Split(first.Content, "|")
	for _, tok := range rows[1:] {
		for i, text := range strings.Split(tok.Content, "|") {
			if i < len(cellTexts) {
				cellTexts[i] += "\n" + text
			} else {
				cellTexts = append(cellTexts, "\n"+text)
			}
		}
	}

	row := p.arena.New(KindTableRow)
	row.Line = first.Line
	for _, text := range cellTexts {
		nodes, err := p.parseFragment(trimLines(text), first.Line-1)
		if err != nil {
			return nil, err
		}
		cell := p.arena.New(KindTableCell)
		cell.Line = first.Line
		for _, n := range nodes {
			cell.AppendChild(n)
		}
		row.AppendChild(cell)
	}
	return row, nil
}

func trimLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "\n")
}

// parseFragment parses cell text as an independent document. Only the
// node arena is shared with the caller.
func (p *Parser) parseFragment(text string, lineOffset int) ([]*Node, error) {
	sub := newParser(p.arena, newStreamAt(text, lineOffset), p.doc.Options)
	sub.fragment = true
	if err := sub.parseNodes(); err != nil {
		return nil, err
	}
	return sub.doc.Nodes, nil
}

// parseText reads consecutive lines into bare inline text.
func (p *Parser) parseText() (*Node, error) {
	first := p.take()
	lines := []string{first.Content}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok == nil || tok.Kind != TokenLine || tok.Indentation < first.Indentation {
			break
		}
		p.take()
		lines = append(lines, tok.Content)
	}
	return p.inline.Parse(strings.Join(lines, "\n")), nil
}

// <Paragraph> ::= <Line>+
func (p *Parser) parseParagraph() (*Node, error) {
	first, _ := p.peek()
	para := p.arena.New(KindParagraph)
	para.Line = first.Line

	var lines []string
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok == nil || tok.Kind != TokenLine || tok.Indentation < first.Indentation {
			break
		}
		p.take()
		lines = append(lines, tok.Content)
	}

	para.AppendChild(p.inline.Parse(strings.Join(lines, "\n")))
	return para, nil
}

// <Directive> ::= "#+" name args | "#+begin_" name args ... "#+end_" name
func (p *Parser) parseDirective() (*Node, error) {
	tok := p.take()
	node := p.newDirectiveNode(tok)
	name := node.Directive.Name
	if name == "" {
		return nil, newParseError(ErrInvalidDirective, tok.Line, "%q", tok.Raw)
	}

	switch tok.Directive {
	case DirectiveEnd:
		return nil, newParseError(ErrUnmatchedDirectiveEnd, tok.Line, "for %s", name)
	case DirectiveOneshot:
		p.interpretDirective(node)
		return node, nil
	case DirectiveBegin:
		if verbatimDirectives[name] {
			return p.parseDirectiveBlockVerbatim(node)
		}
		return p.parseDirectiveBlock(node)
	}
	return nil, newParseError(ErrInvalidDirective, tok.Line, "%s", name)
}

func (p *Parser) newDirectiveNode(tok *Token) *Node {
	name, raw := splitDirective(tok.Content)
	node := p.arena.New(KindDirective)
	node.Line = tok.Line

	info := &DirectiveInfo{Name: name, RawValue: raw}
	for _, f := range strings.Fields(raw) {
		if strings.HasPrefix(f, "-") {
			info.Options = append(info.Options, f)
		} else {
			info.Arguments = append(info.Arguments, f)
		}
	}
	node.Directive = info
	return node
}

// splitDirective returns the lower-cased name and the raw argument string.
func splitDirective(content string) (string, string) {
	m := directivePattern.FindStringSubmatch(content)
	if m == nil {
		return "", ""
	}
	return strings.ToLower(m[1]), m[2]
}

func (p *Parser) isClosing(tok *Token, name string) bool {
	if !tok.IsDirectiveEnd() {
		return false
	}
	closing, _ := splitDirective(tok.Content)
	return closing == name
}

func (p *Parser) parseDirectiveBlock(node *Node) (*Node, error) {
	name := node.Directive.Name
	p.lexer.PushBlank()

	for p.lexer.HasNext() {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.IsDirectiveEnd() {
			if p.isClosing(tok, name) {
				p.take()
				return node, nil
			}
			closing, _ := splitDirective(tok.Content)
			return nil, newParseError(ErrUnmatchedDirectiveEnd, tok.Line, "for %s inside %s", closing, name)
		}
		child, err := p.parseElement(modeBlockBody)
		if err != nil {
			return nil, err
		}
		if child != nil {
			node.AppendChild(child)
		}
	}
	return nil, newParseError(ErrUnclosedDirective, p.lexer.LineNumber(), "%s", name)
}

func (p *Parser) parseDirectiveBlockVerbatim(node *Node) (*Node, error) {
	name := node.Directive.Name
	var lines []string

	for p.lexer.HasNext() {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		p.take()
		if p.isClosing(tok, name) {
			node.AppendChild(p.arena.NewText(strings.Join(lines, "\n")))
			return node, nil
		}
		if !tok.synthetic {
			lines = append(lines, tok.Raw)
		}
	}
	return nil, newParseError(ErrUnclosedDirective, p.lexer.LineNumber(), "%s", name)
}

func (p *Parser) interpretDirective(node *Node) {
	info := node.Directive
	switch info.Name {
	case "options:":
		for _, pair := range info.Arguments {
			key, value, _ := strings.Cut(pair, ":")
			if key != "" {
				p.doc.Options.Set(key, LispyValue(value))
			}
		}
	case "title:":
		p.doc.Title = info.RawValue
		p.doc.TitleNode = p.arena.NewText(info.RawValue)
	case "author:":
		p.doc.Author = info.RawValue
	case "email:":
		p.doc.Email = info.RawValue
	default:
		p.doc.DirectiveValues[info.Name] = info.RawValue
	}
}
