package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// HTMLImporter handles HTML files.
type HTMLImporter struct{}

func (p *HTMLImporter) Import(r io.Reader, filename string) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	title := titleFromFilename(filename)
	// Extract title from <title> tag if present.
	if t := findTitle(doc); t != "" {
		title = t
	}

	var w orgWriter
	w.keyword("title", title)

	c := &htmlConverter{w: &w}
	// Find <body> or use whole document.
	if body := findBody(doc); body != nil {
		c.walk(body)
	} else {
		c.walk(doc)
	}
	c.flushText()
	return w.String(), nil
}

// htmlConverter writes block elements as they are found and collects
// loose inline content into paragraphs.
type htmlConverter struct {
	w       *orgWriter
	pending strings.Builder
}

func (c *htmlConverter) flushText() {
	c.w.paragraph(oneLine(c.pending.String()))
	c.pending.Reset()
}

func (c *htmlConverter) walk(n *html.Node) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.TextNode {
			c.pending.WriteString(ch.Data)
			continue
		}
		if ch.Type != html.ElementNode {
			continue
		}
		if level := headingLevel(ch.Data); level > 0 {
			c.flushText()
			c.w.heading(level, textContent(ch))
			continue
		}
		if isInline(ch.Data) {
			c.pending.WriteString(inlineNode(ch))
			continue
		}
		switch ch.Data {
		// Skip non-content elements.
		case "script", "style", "nav", "footer", "header", "noscript", "template":
			continue
		case "br":
			c.pending.WriteString(" ")
			continue
		}
		c.flushText()
		if s := blockOrg(ch); s != "" {
			c.w.block(s)
		} else {
			c.walk(ch)
			c.flushText()
		}
	}
}

// blockOrg converts list, table, code, quote and paragraph elements.
// Containers such as div return "" and are walked instead.
func blockOrg(n *html.Node) string {
	switch n.Data {
	case "p":
		return escapeLines(strings.TrimSpace(joinLines(inlineOrg(n))))
	case "hr":
		return "-----"
	case "pre":
		lang := codeLanguage(n)
		body := strings.TrimRight(rawText(n), "\n") + "\n"
		if lang != "" {
			return "#+begin_src " + lang + "\n" + body + "#+end_src"
		}
		return "#+begin_example\n" + body + "#+end_example"
	case "blockquote":
		return "#+begin_quote\n" + strings.Join(quoteParts(n), "\n\n") + "\n#+end_quote"
	case "ul", "ol":
		return listOrg(n)
	case "dl":
		return definitionListOrg(n)
	case "table":
		return tableOrg(n)
	}
	return ""
}

// quoteParts renders the children of a quote as paragraphs and blocks,
// descending into containers.
func quoteParts(n *html.Node) []string {
	var parts []string
	var loose strings.Builder
	flush := func() {
		if t := escapeLines(oneLine(loose.String())); t != "" {
			parts = append(parts, t)
		}
		loose.Reset()
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type != html.ElementNode || isInline(ch.Data) || ch.Data == "br" {
			loose.WriteString(inlineNode(ch))
			continue
		}
		flush()
		switch ch.Data {
		case "script", "style", "noscript", "template":
			continue
		}
		if s := blockOrg(ch); s != "" {
			parts = append(parts, s)
		} else {
			parts = append(parts, quoteParts(ch)...)
		}
	}
	flush()
	return parts
}

func listOrg(list *html.Node) string {
	ordered := list.Data == "ol"
	num := 1
	if s := attrValue(list, "start"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			num = v
		}
	}

	var items []string
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		marker := "- "
		if ordered {
			marker = strconv.Itoa(num) + ". "
			num++
		}

		var text strings.Builder
		var nested []string
		for ch := li.FirstChild; ch != nil; ch = ch.NextSibling {
			if ch.Type == html.ElementNode && (ch.Data == "ul" || ch.Data == "ol") {
				nested = append(nested, listOrg(ch))
				continue
			}
			text.WriteString(inlineNode(ch))
		}
		body := escapeLine(oneLine(text.String()))
		for _, sub := range nested {
			body += "\n" + sub
		}
		items = append(items, formatItem(marker, body))
	}
	return strings.Join(items, "\n")
}

func definitionListOrg(list *html.Node) string {
	var items []string
	term := ""
	for ch := list.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type != html.ElementNode {
			continue
		}
		switch ch.Data {
		case "dt":
			term = oneLine(inlineOrg(ch))
		case "dd":
			items = append(items, "- "+term+" :: "+oneLine(inlineOrg(ch)))
			term = ""
		}
	}
	return strings.Join(items, "\n")
}

func tableOrg(table *html.Node) string {
	var rows [][]string
	header := false
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			if ch.Type != html.ElementNode {
				continue
			}
			if ch.Data != "tr" {
				collect(ch)
				continue
			}
			var row []string
			allHeader := true
			for cell := ch.FirstChild; cell != nil; cell = cell.NextSibling {
				if cell.Type != html.ElementNode || (cell.Data != "td" && cell.Data != "th") {
					continue
				}
				if cell.Data == "td" {
					allHeader = false
				}
				row = append(row, oneLine(inlineOrg(cell)))
			}
			if len(rows) == 0 && allHeader && len(row) > 0 {
				header = true
			}
			rows = append(rows, row)
		}
	}
	collect(table)
	return strings.TrimRight(formatTable(rows, header), "\n")
}

func isInline(tag string) bool {
	switch tag {
	case "a", "b", "strong", "i", "em", "u", "ins", "code", "kbd", "samp", "tt",
		"del", "s", "strike", "span", "img", "small", "sub", "sup", "abbr", "mark", "cite", "q", "label":
		return true
	}
	return false
}

func inlineOrg(n *html.Node) string {
	var sb strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		sb.WriteString(inlineNode(ch))
	}
	return sb.String()
}

// inlineNode converts one node to org inline markup.
func inlineNode(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	if n.Type != html.ElementNode {
		return ""
	}
	switch n.Data {
	case "b", "strong":
		return wrapMarker("*", inlineOrg(n))
	case "i", "em", "cite":
		return wrapMarker("/", inlineOrg(n))
	case "u", "ins":
		return wrapMarker("_", inlineOrg(n))
	case "code", "kbd", "samp", "tt":
		return wrapMarker("=", textContent(n))
	case "del", "s", "strike":
		return wrapMarker("+", inlineOrg(n))
	case "a":
		href := attrValue(n, "href")
		label := oneLine(inlineOrg(n))
		if href == "" {
			return label
		}
		return orgLink(href, label)
	case "img":
		src := attrValue(n, "src")
		if src == "" {
			return ""
		}
		return orgLink(src, attrValue(n, "alt"))
	case "br":
		return "\n"
	case "script", "style":
		return ""
	}
	return inlineOrg(n)
}

// wrapMarker surrounds trimmed text with an emphasis marker, keeping
// the surrounding whitespace outside the markers.
func wrapMarker(marker, s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return s
	}
	lead := s[:strings.Index(s, t)]
	trail := s[len(lead)+len(t):]
	return lead + marker + t + marker + trail
}

// joinLines collapses whitespace inside each explicit line break.
func joinLines(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	for _, l := range lines {
		if l = oneLine(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func codeLanguage(pre *html.Node) string {
	for ch := pre.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type != html.ElementNode || ch.Data != "code" {
			continue
		}
		for _, class := range strings.Fields(attrValue(ch, "class")) {
			if lang, ok := strings.CutPrefix(class, "language-"); ok {
				return lang
			}
		}
	}
	return ""
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

// rawText concatenates text nodes without trimming.
func rawText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func textContent(n *html.Node) string {
	return strings.TrimSpace(rawText(n))
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
