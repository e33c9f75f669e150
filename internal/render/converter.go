package render

import (
	"fmt"
	"strings"

	"github.com/dgallion1/orgview/internal/org"
)

// walk is the per-subtree state of a conversion.
type walk struct {
	record bool // number headers and remember them for the toc
	code   bool
	link   bool
}

// Converter walks a document and renders it through a NodeRenderer.
// A Converter is single use; section counters and the header list
// accumulate across calls.
type Converter struct {
	doc  *org.Document
	r    NodeRenderer
	opts ExportOptions

	sectionNumbers []int
	headers        []*org.Node
	seq            int
}

func NewConverter(doc *org.Document, r NodeRenderer, opts ExportOptions) *Converter {
	return &Converter{
		doc:            doc,
		r:              r,
		opts:           opts,
		sectionNumbers: []int{0},
	}
}

// Convert renders the title, body and table of contents.
func (c *Converter) Convert() (*Result, error) {
	title := Untitled
	titleMarkup := c.r.Text(Untitled, TextContext{})
	if c.doc.TitleNode != nil {
		title = c.doc.Title
		var err error
		titleMarkup, err = c.convertNode(c.doc.TitleNode, walk{})
		if err != nil {
			return nil, fmt.Errorf("convert title: %w", err)
		}
	}

	var body string
	var err error
	if c.opts.Sections {
		root, _ := splitBlocks(c.doc.Nodes, 0, nil)
		body, err = c.convertBlock(root, 0, walk{record: true})
	} else {
		body, err = c.ConvertNodes(c.doc.Nodes, true)
	}
	if err != nil {
		return nil, fmt.Errorf("convert body: %w", err)
	}

	res := &Result{
		Title:       title,
		TitleMarkup: c.r.Title(titleMarkup),
		Body:        body,
	}
	if c.doc.Options.TOC > 0 {
		res.TOC = buildTOC(c.headers, c.doc.Options.TOC)
		res.TOCMarkup = c.r.TOC(res.TOC, c.doc.Options.Num)
	}
	return res, nil
}

// ConvertNodes renders nodes in order. With record set, headers get
// section numbers and are added to the table of contents.
func (c *Converter) ConvertNodes(nodes []*org.Node, record bool) (string, error) {
	return c.convertNodes(nodes, walk{record: record})
}

func (c *Converter) convertNodes(nodes []*org.Node, w walk) (string, error) {
	var sb strings.Builder
	for _, n := range nodes {
		s, err := c.convertNode(n, w)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func (c *Converter) convertNode(n *org.Node, w walk) (string, error) {
	switch n.Kind {
	case org.KindPreformatted, org.KindCode:
		w.code = true
	case org.KindDirective:
		if name := n.DirectiveName(); name == "example" || name == "src" {
			w.code = true
		}
	}

	cw := w
	if n.Kind == org.KindLink {
		cw.link = true
	}
	children, err := c.convertNodes(n.Children(), cw)
	if err != nil {
		return "", err
	}
	aux := auxData(n)

	var text string
	switch n.Kind {
	case org.KindText:
		text = c.r.Text(n.Value, TextContext{InsideCode: w.code, InsideLink: w.link, Subscript: c.doc.Options.Subscript})
	case org.KindHeader:
		text = c.convertHeader(n, children, aux, w.record)
	case org.KindOrderedList:
		text = c.r.OrderedList(n, children, aux)
	case org.KindUnorderedList:
		text = c.r.UnorderedList(n, children, aux)
	case org.KindDefinitionList:
		text = c.r.DefinitionList(n, children, aux)
	case org.KindListElement:
		if n.IsDefinitionList {
			term, err := c.convertNodes(n.TermNodes(), w)
			if err != nil {
				return "", err
			}
			text = c.r.DefinitionItem(n, term, children, aux)
		} else {
			text = c.r.ListItem(n, children, aux)
		}
	case org.KindParagraph:
		text = c.r.Paragraph(n, children, aux)
	case org.KindPreformatted:
		text = c.r.Preformatted(n, children, aux)
	case org.KindTable:
		text = c.r.Table(n, children, aux)
	case org.KindTableRow:
		text = c.r.TableRow(n, children)
	case org.KindTableCell:
		text = c.r.TableCell(n, children)
	case org.KindHorizontalRule:
		text = c.r.HorizontalRule(n, aux)
	case org.KindInlineContainer:
		text = c.r.InlineContainer(n, children)
	case org.KindBold:
		text = c.r.Bold(n, children)
	case org.KindItalic:
		text = c.r.Italic(n, children)
	case org.KindUnderline:
		text = c.r.Underline(n, children)
	case org.KindCode:
		text = c.r.Code(n, children)
	case org.KindDashed:
		text = c.r.Dashed(n, children)
	case org.KindLink:
		text = c.r.Link(n, children, aux)
	case org.KindDirective:
		text = c.convertDirective(n, children, aux)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownNode, n.Kind)
	}

	return c.r.PostProcess(n, text, w.code), nil
}

func (c *Converter) convertHeader(n *org.Node, children, aux string, record bool) string {
	info := HeaderInfo{ShowNumber: c.doc.Options.Num}
	switch {
	case strings.HasPrefix(children, "TODO "):
		info.TaskStatus = "todo"
	case strings.HasPrefix(children, "DONE "):
		info.TaskStatus = "done"
	}

	if record {
		info.SectionNumber = c.nextSectionNumber(n.Level)
		info.Anchor = "header-" + strings.ReplaceAll(info.SectionNumber, ".", "-")
		n.SectionNumber = info.SectionNumber
		n.Anchor = info.Anchor
	} else {
		c.seq++
		info.Anchor = fmt.Sprintf("header-%d", c.seq)
	}

	text := c.r.Header(n, children, aux, info)
	if record {
		c.headers = append(c.headers, n)
	}
	return text
}

// nextSectionNumber advances the per-level counters. Skipped ancestor
// levels count as 1 so numbers never contain a 0.
func (c *Converter) nextSectionNumber(level int) string {
	if level < 1 {
		level = 1
	}
	for len(c.sectionNumbers) < level {
		c.sectionNumbers = append(c.sectionNumbers, 0)
	}
	c.sectionNumbers = c.sectionNumbers[:level]
	for i := 0; i < level-1; i++ {
		if c.sectionNumbers[i] == 0 {
			c.sectionNumbers[i] = 1
		}
	}
	c.sectionNumbers[level-1]++

	parts := make([]string, level)
	for i, v := range c.sectionNumbers {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ".")
}

func (c *Converter) convertDirective(n *org.Node, children, aux string) string {
	switch name := n.DirectiveName(); name {
	case "quote":
		return c.r.Quote(n, children, aux)
	case "example":
		return c.r.Example(n, children, aux)
	case "src":
		return c.r.Src(n, children, aux)
	case "html", "html:":
		return c.r.RawHTML(n, children)
	default:
		if h, ok := c.opts.CustomDirectiveHandlers[name]; ok {
			return h(n, children, aux)
		}
		return children
	}
}

// auxData collects the raw values of attr_html: directives directly
// preceding the block that holds n.
func auxData(n *org.Node) string {
	for p := n.Parent(); p != nil && p.Kind == org.KindInlineContainer; p = n.Parent() {
		n = p
	}
	var parts []string
	for a := n.PrevSibling(); a != nil && a.DirectiveName() == "attr_html:"; a = a.PrevSibling() {
		parts = append(parts, a.Directive.RawValue)
	}
	return strings.Join(parts, " ")
}

// headerBlock is a header with the nodes and sub-sections below it.
type headerBlock struct {
	header   *org.Node
	nodes    []*org.Node
	children []*headerBlock
}

func splitBlocks(nodes []*org.Node, start int, header *org.Node) (*headerBlock, int) {
	b := &headerBlock{header: header}
	i := start
	for i < len(nodes) {
		n := nodes[i]
		if n.Kind != org.KindHeader {
			b.nodes = append(b.nodes, n)
			i++
			continue
		}
		if header != nil && n.Level <= header.Level {
			break
		}
		var child *headerBlock
		child, i = splitBlocks(nodes, i+1, n)
		b.children = append(b.children, child)
	}
	return b, i
}

func (c *Converter) convertBlock(b *headerBlock, level int, w walk) (string, error) {
	var parts []string
	if b.header != nil {
		s, err := c.convertNode(b.header, w)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}

	body, err := c.convertNodes(b.nodes, w)
	if err != nil {
		return "", err
	}
	parts = append(parts, body)

	var sub []string
	for _, child := range b.children {
		s, err := c.convertBlock(child, level+1, w)
		if err != nil {
			return "", err
		}
		sub = append(sub, s)
	}
	parts = append(parts, strings.Join(sub, "\n"))

	content := strings.Join(parts, "\n")
	if b.header == nil {
		return content, nil
	}
	return c.r.Section(level, "\n"+content), nil
}
