package render

import (
	"strconv"
	"strings"

	"github.com/dgallion1/orgview/internal/org"
)

// TextRenderer produces readable plain text: markup is dropped, blocks
// are separated by blank lines and lists keep their markers.
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (r *TextRenderer) Title(content string) string {
	return content + "\n"
}

func (r *TextRenderer) TOC(items []*TOCItem, num bool) string {
	var sb strings.Builder
	var write func(items []*TOCItem, depth int)
	write = func(items []*TOCItem, depth int) {
		for _, item := range items {
			if !item.IsPlaceholder() {
				sb.WriteString(strings.Repeat("  ", depth))
				if num && item.Section != "" {
					sb.WriteString(item.Section + " ")
				}
				sb.WriteString(item.Title + "\n")
			}
			write(item.Children, depth+1)
		}
	}
	write(items, 0)
	return sb.String()
}

func (r *TextRenderer) Section(level int, content string) string {
	return content
}

func (r *TextRenderer) Text(value string, tc TextContext) string {
	return value
}

func (r *TextRenderer) Header(n *org.Node, children, aux string, h HeaderInfo) string {
	if h.ShowNumber && h.SectionNumber != "" {
		children = h.SectionNumber + " " + children
	}
	return children + "\n\n"
}

func (r *TextRenderer) OrderedList(n *org.Node, children, aux string) string {
	return r.list(n, children)
}

func (r *TextRenderer) UnorderedList(n *org.Node, children, aux string) string {
	return r.list(n, children)
}

func (r *TextRenderer) DefinitionList(n *org.Node, children, aux string) string {
	return r.list(n, children)
}

// list separates top-level lists from the following block and starts
// nested lists on a new line.
func (r *TextRenderer) list(n *org.Node, children string) string {
	if inListItem(n) {
		return "\n" + children
	}
	return children + "\n"
}

func inListItem(n *org.Node) bool {
	p := n.Parent()
	return p != nil && p.Kind == org.KindListElement
}

func (r *TextRenderer) DefinitionItem(n *org.Node, term, definition, aux string) string {
	return indentItem("- "+term+" :: ", definition)
}

func (r *TextRenderer) ListItem(n *org.Node, children, aux string) string {
	marker := "- "
	if p := n.Parent(); p != nil && p.Kind == org.KindOrderedList {
		marker = strconv.Itoa(itemIndex(n)+1) + ". "
	}
	return indentItem(marker, children)
}

func itemIndex(n *org.Node) int {
	i := 0
	for p := n.PrevSibling(); p != nil; p = p.PrevSibling() {
		i++
	}
	return i
}

// indentItem prefixes the first line with marker and aligns the rest
// under it.
func indentItem(marker, body string) string {
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	pad := strings.Repeat(" ", len(marker))
	var sb strings.Builder
	for i, l := range lines {
		switch {
		case i == 0:
			sb.WriteString(marker + l)
		case l == "":
		default:
			sb.WriteString(pad + l)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *TextRenderer) Paragraph(n *org.Node, children, aux string) string {
	if inListItem(n) {
		return "\n\n" + children + "\n"
	}
	return children + "\n\n"
}

func (r *TextRenderer) Preformatted(n *org.Node, children, aux string) string {
	return children + "\n\n"
}

func (r *TextRenderer) Table(n *org.Node, children, aux string) string {
	return children + "\n"
}

func (r *TextRenderer) TableRow(n *org.Node, children string) string {
	return strings.TrimSuffix(children, " | ") + "\n"
}

func (r *TextRenderer) TableCell(n *org.Node, children string) string {
	return strings.ReplaceAll(children, "\n", " ") + " | "
}

func (r *TextRenderer) HorizontalRule(n *org.Node, aux string) string {
	return "-----\n\n"
}

func (r *TextRenderer) InlineContainer(n *org.Node, children string) string {
	return children
}

func (r *TextRenderer) Bold(n *org.Node, children string) string      { return children }
func (r *TextRenderer) Italic(n *org.Node, children string) string    { return children }
func (r *TextRenderer) Underline(n *org.Node, children string) string { return children }
func (r *TextRenderer) Code(n *org.Node, children string) string      { return children }
func (r *TextRenderer) Dashed(n *org.Node, children string) string    { return children }

func (r *TextRenderer) Link(n *org.Node, children, aux string) string {
	return children
}

func (r *TextRenderer) Quote(n *org.Node, children, aux string) string {
	lines := strings.Split(strings.TrimRight(children, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight("> "+l, " ")
	}
	return strings.Join(lines, "\n") + "\n\n"
}

func (r *TextRenderer) Example(n *org.Node, children, aux string) string {
	return children + "\n\n"
}

func (r *TextRenderer) Src(n *org.Node, children, aux string) string {
	return children + "\n\n"
}

func (r *TextRenderer) RawHTML(n *org.Node, children string) string {
	raw := n.TextContent()
	if n.DirectiveName() == "html:" {
		raw = n.Directive.RawValue
	}
	if t := strings.TrimSpace(htmlText(raw)); t != "" {
		return t + "\n\n"
	}
	return ""
}

func (r *TextRenderer) PostProcess(n *org.Node, text string, insideCode bool) string {
	return text
}
