package importer

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// MarkdownImporter handles Markdown files using goldmark with the GFM
// extensions (tables, strikethrough, task lists, linkify).
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(src))

	c := &mdConverter{src: src}
	var w orgWriter
	w.keyword("title", titleFromFilename(filename))
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			w.heading(h.Level, c.inline(h))
			continue
		}
		w.block(c.block(n))
	}
	return w.String(), nil
}

type mdConverter struct {
	src []byte
}

// block converts a block node to unindented org text without a trailing
// newline.
func (c *mdConverter) block(n ast.Node) string {
	switch node := n.(type) {
	case *ast.Heading:
		// Only reachable inside containers, where org has no headers.
		return "*" + oneLine(c.inline(node)) + "*"
	case *ast.Paragraph, *ast.TextBlock:
		return escapeLines(strings.TrimSpace(c.inline(node)))
	case *ast.ThematicBreak:
		return "-----"
	case *ast.FencedCodeBlock:
		lang := string(node.Language(c.src))
		if lang == "" {
			return "#+begin_example\n" + c.lines(node) + "#+end_example"
		}
		return "#+begin_src " + lang + "\n" + c.lines(node) + "#+end_src"
	case *ast.CodeBlock:
		return "#+begin_example\n" + c.lines(node) + "#+end_example"
	case *ast.HTMLBlock:
		body := c.lines(node)
		if node.HasClosure() {
			body += string(node.ClosureLine.Value(c.src))
		}
		if !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		return "#+begin_html\n" + body + "#+end_html"
	case *ast.Blockquote:
		return "#+begin_quote\n" + c.children(node, "\n\n") + "\n#+end_quote"
	case *ast.List:
		return c.list(node)
	case *east.Table:
		return strings.TrimRight(c.table(node), "\n")
	default:
		return c.children(n, "\n\n")
	}
}

func (c *mdConverter) children(n ast.Node, sep string) string {
	var parts []string
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		if s := c.block(ch); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

func (c *mdConverter) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(c.src))
	}
	return buf.String()
}

func (c *mdConverter) list(l *ast.List) string {
	var items []string
	num := l.Start
	if num == 0 {
		num = 1
	}
	for it := l.FirstChild(); it != nil; it = it.NextSibling() {
		marker := "- "
		if l.IsOrdered() {
			marker = strconv.Itoa(num) + ". "
			num++
		}

		var body strings.Builder
		var prev ast.Node
		for ch := it.FirstChild(); ch != nil; ch = ch.NextSibling() {
			s := c.block(ch)
			if s == "" {
				continue
			}
			if prev != nil {
				// Nested lists follow their item text directly; further
				// paragraphs need a blank line.
				if _, ok := ch.(*ast.List); ok {
					body.WriteString("\n")
				} else {
					body.WriteString("\n\n")
				}
			}
			body.WriteString(s)
			prev = ch
		}
		items = append(items, formatItem(marker, body.String()))
	}
	return strings.Join(items, "\n")
}

func (c *mdConverter) table(t *east.Table) string {
	var rows [][]string
	header := false
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		if _, ok := r.(*east.TableHeader); ok {
			header = true
		}
		var row []string
		for cell := r.FirstChild(); cell != nil; cell = cell.NextSibling() {
			row = append(row, strings.TrimSpace(c.inline(cell)))
		}
		rows = append(rows, row)
	}
	return formatTable(rows, header)
}

// inline converts the inline children of n to org markup.
func (c *mdConverter) inline(n ast.Node) string {
	var sb strings.Builder
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		switch node := ch.(type) {
		case *ast.Text:
			sb.Write(util.UnescapePunctuations(node.Segment.Value(c.src)))
			if node.HardLineBreak() || node.SoftLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(node.Value)
		case *ast.CodeSpan:
			sb.WriteString("=" + extractText(node, c.src) + "=")
		case *ast.Emphasis:
			marker := "/"
			if node.Level >= 2 {
				marker = "*"
			}
			sb.WriteString(marker + c.inline(node) + marker)
		case *east.Strikethrough:
			sb.WriteString("+" + c.inline(node) + "+")
		case *ast.Link:
			sb.WriteString(orgLink(string(node.Destination), oneLine(c.inline(node))))
		case *ast.Image:
			sb.WriteString(orgLink(string(node.Destination), oneLine(extractText(node, c.src))))
		case *ast.AutoLink:
			url := string(node.URL(c.src))
			if node.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(url, "mailto:") {
				url = "mailto:" + url
			}
			sb.WriteString(orgLink(url, string(node.Label(c.src))))
		case *east.TaskCheckBox:
			if node.IsChecked {
				sb.WriteString("[X] ")
			} else {
				sb.WriteString("[ ] ")
			}
		case *ast.RawHTML:
			// Inline tags have no org counterpart.
		default:
			sb.WriteString(c.inline(ch))
		}
	}
	return sb.String()
}

func orgLink(dest, label string) string {
	if label == "" || label == dest {
		return "[[" + dest + "]]"
	}
	return "[[" + dest + "][" + label + "]]"
}

// extractText gets the plain text content of a goldmark node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(extractText(c, src))
		}
	}
	return buf.String()
}
