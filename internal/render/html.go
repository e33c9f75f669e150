package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgallion1/orgview/internal/org"
)

// HTMLRenderer emits HTML fragments.
type HTMLRenderer struct {
	opts ExportOptions
}

func NewHTMLRenderer(opts ExportOptions) *HTMLRenderer {
	return &HTMLRenderer{opts: opts}
}

func (r *HTMLRenderer) Title(content string) string {
	return r.tag("h"+strconv.Itoa(max(r.opts.HeaderOffset, 1)), content, nil, "")
}

func (r *HTMLRenderer) TOC(items []*TOCItem, num bool) string {
	if len(items) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, item := range items {
		var entry string
		if !item.IsPlaceholder() {
			label := escapeText(item.Title, false)
			if num && item.Section != "" {
				label = r.inlineTag("span", item.Section, []attr{{"class", "section-number"}}, "") + label
			}
			entry = r.inlineTag("a", label, []attr{{"href", "#" + r.opts.HTMLIDPrefix + item.Anchor}}, "")
		}
		sb.WriteString(r.tag("li", entry+r.TOC(item.Children, num), nil, ""))
	}
	return r.tag("ul", sb.String(), nil, "")
}

func (r *HTMLRenderer) Section(level int, content string) string {
	return r.tag("section", content, []attr{{"class", fmt.Sprintf("block block-level-%d", level)}}, "")
}

func (r *HTMLRenderer) Text(value string, tc TextContext) string {
	if tc.InsideCode || tc.InsideLink || r.opts.SuppressAutoLink {
		return r.plainText(value, tc)
	}
	var sb strings.Builder
	last := 0
	for _, loc := range urlPattern.FindAllStringIndex(value, -1) {
		sb.WriteString(r.plainText(value[last:loc[0]], tc))
		sb.WriteString(r.makeLink(value[loc[0]:loc[1]]))
		last = loc[1]
	}
	sb.WriteString(r.plainText(value[last:], tc))
	return sb.String()
}

func (r *HTMLRenderer) plainText(s string, tc TextContext) string {
	out := escapeText(s, r.opts.TranslateSymbolArrow && !tc.InsideCode)
	if tc.InsideCode || r.opts.SuppressSubscripts {
		return out
	}
	return r.makeSubscripts(out, tc.Subscript)
}

func (r *HTMLRenderer) makeLink(u string) string {
	href := u
	if !strings.Contains(href, "://") {
		href = "http://" + href
	}
	return r.inlineTag("a", escapeText(unescapeURL(href), false), []attr{{"href", href}}, "")
}

func (r *HTMLRenderer) makeSubscripts(s string, mode org.SubscriptMode) string {
	re := braceSubscript
	switch mode {
	case org.SubscriptBraces:
	case org.SubscriptBare:
		re = bareSubscript
	default:
		return s
	}
	return re.ReplaceAllStringFunc(s, func(m string) string {
		sub := re.FindStringSubmatch(m)
		return r.inlineTag("span", sub[1], []attr{{"class", "org-subscript-parent"}}, "") +
			r.inlineTag("span", sub[2], []attr{{"class", "org-subscript-child"}}, "")
	})
}

func (r *HTMLRenderer) Header(n *org.Node, children, aux string, h HeaderInfo) string {
	var list []attr
	if h.TaskStatus != "" {
		children = r.inlineTag("span", children[:4], []attr{{"class", "task-status " + h.TaskStatus}}, "") + children[4:]
	}
	if h.ShowNumber && h.SectionNumber != "" {
		children = r.inlineTag("span", h.SectionNumber, []attr{{"class", "section-number"}}, "") + children
	}
	if h.Anchor != "" {
		list = append(list, attr{"id", h.Anchor})
	}
	if h.TaskStatus != "" {
		list = append(list, attr{"class", "task-status " + h.TaskStatus})
	}
	return r.tag("h"+strconv.Itoa(r.opts.HeaderOffset+n.Level), children, list, aux)
}

func (r *HTMLRenderer) OrderedList(n *org.Node, children, aux string) string {
	return r.tag("ol", children, nil, aux)
}

func (r *HTMLRenderer) UnorderedList(n *org.Node, children, aux string) string {
	return r.tag("ul", children, nil, aux)
}

func (r *HTMLRenderer) DefinitionList(n *org.Node, children, aux string) string {
	return r.tag("dl", children, nil, aux)
}

func (r *HTMLRenderer) DefinitionItem(n *org.Node, term, definition, aux string) string {
	return r.tag("dt", term, nil, "") + r.tag("dd", definition, nil, "")
}

func (r *HTMLRenderer) ListItem(n *org.Node, children, aux string) string {
	if r.opts.SuppressCheckboxes {
		return r.tag("li", children, nil, aux)
	}
	m := checkbox.FindStringSubmatch(children)
	if m == nil {
		return r.tag("li", children, nil, aux)
	}

	box := []attr{{"type", "checkbox"}}
	var status string
	switch m[1] {
	case "X":
		box = append(box, attr{"checked", "true"})
		status = "done"
	case "-":
		status = "intermediate"
	default:
		status = "undone"
	}
	return r.tag("li", r.voidTag("input", box, "")+m[2], []attr{{"data-checkbox-status", status}}, aux)
}

func (r *HTMLRenderer) Paragraph(n *org.Node, children, aux string) string {
	return r.tag("p", children, nil, aux)
}

func (r *HTMLRenderer) Preformatted(n *org.Node, children, aux string) string {
	return r.tag("pre", children, nil, aux)
}

func (r *HTMLRenderer) Table(n *org.Node, children, aux string) string {
	return r.tag("table", r.tag("tbody", children, nil, ""), nil, aux)
}

func (r *HTMLRenderer) TableRow(n *org.Node, children string) string {
	return r.tag("tr", children, nil, "")
}

func (r *HTMLRenderer) TableCell(n *org.Node, children string) string {
	if n.IsHeader {
		return r.tag("th", children, nil, "")
	}
	return r.tag("td", children, nil, "")
}

func (r *HTMLRenderer) HorizontalRule(n *org.Node, aux string) string {
	return r.voidTag("hr", nil, aux) + "\n"
}

func (r *HTMLRenderer) InlineContainer(n *org.Node, children string) string {
	return children
}

func (r *HTMLRenderer) Bold(n *org.Node, children string) string {
	return r.inlineTag("b", children, nil, "")
}

func (r *HTMLRenderer) Italic(n *org.Node, children string) string {
	return r.inlineTag("i", children, nil, "")
}

func (r *HTMLRenderer) Underline(n *org.Node, children string) string {
	return r.inlineTag("span", children, []attr{{"style", "text-decoration:underline;"}}, "")
}

func (r *HTMLRenderer) Code(n *org.Node, children string) string {
	return r.inlineTag("code", children, nil, "")
}

func (r *HTMLRenderer) Dashed(n *org.Node, children string) string {
	return r.inlineTag("del", children, nil, "")
}

func (r *HTMLRenderer) Link(n *org.Node, children, aux string) string {
	if r.opts.SanitizeRawHTML && !safeURL(n.Src) {
		return children
	}
	if isImageURL(n.Src) {
		alt := n.TextContent()
		return r.voidTag("img", []attr{{"src", n.Src}, {"alt", alt}, {"title", alt}}, aux)
	}
	return r.inlineTag("a", children, []attr{{"href", n.Src}}, "")
}

func (r *HTMLRenderer) Quote(n *org.Node, children, aux string) string {
	return r.tag("blockquote", children, nil, aux)
}

func (r *HTMLRenderer) Example(n *org.Node, children, aux string) string {
	return r.tag("pre", children, nil, aux)
}

func (r *HTMLRenderer) Src(n *org.Node, children, aux string) string {
	lang := "unknown"
	if args := n.Directive.Arguments; len(args) > 0 {
		lang = args[0]
	}
	code := r.tag("code", children, []attr{{"class", "language-" + lang}}, aux)
	return r.tag("pre", code, []attr{{"class", "prettyprint"}}, "")
}

func (r *HTMLRenderer) RawHTML(n *org.Node, children string) string {
	var raw string
	if n.DirectiveName() == "html:" {
		raw = n.Directive.RawValue
	} else {
		raw = n.TextContent()
	}
	if r.opts.SanitizeRawHTML {
		return sanitizeHTML(raw)
	}
	return raw
}

func (r *HTMLRenderer) PostProcess(n *org.Node, text string, insideCode bool) string {
	if !r.opts.ExportFromLineNumber || n.Line == 0 {
		return text
	}
	switch n.Kind {
	case org.KindListElement, org.KindTableRow, org.KindTableCell:
		return text
	}
	return r.inlineTag("div", text, []attr{{"data-line-number", strconv.Itoa(n.Line)}}, "")
}
