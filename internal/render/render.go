// Package render converts parsed org documents to HTML or plain text.
package render

import (
	"errors"

	"github.com/dgallion1/orgview/internal/org"
)

// Untitled is the title used when a document has none.
const Untitled = "Untitled"

var ErrUnknownNode = errors.New("unknown node kind")

// DirectiveHandler renders a directive the converter has no template for.
type DirectiveHandler func(n *org.Node, children, aux string) string

// ExportOptions tune the output. Start from DefaultExportOptions; a zero
// HeaderOffset is used as is.
type ExportOptions struct {
	HeaderOffset         int    `json:"header_offset" yaml:"header_offset"`
	ExportFromLineNumber bool   `json:"export_line_numbers" yaml:"export_line_numbers"`
	SuppressSubscripts   bool   `json:"suppress_subscripts" yaml:"suppress_subscripts"`
	SuppressAutoLink     bool   `json:"suppress_autolink" yaml:"suppress_autolink"`
	TranslateSymbolArrow bool   `json:"translate_arrows" yaml:"translate_arrows"`
	SuppressCheckboxes   bool   `json:"suppress_checkboxes" yaml:"suppress_checkboxes"`
	HTMLClassPrefix      string `json:"class_prefix" yaml:"class_prefix"`
	HTMLIDPrefix         string `json:"id_prefix" yaml:"id_prefix"`
	Sections             bool   `json:"sections" yaml:"sections"`

	// SanitizeRawHTML filters raw HTML blocks through an allowlist, drops
	// attr_html: attributes outside it and renders links with unsafe URL
	// schemes as plain text.
	SanitizeRawHTML bool `json:"sanitize_raw_html" yaml:"sanitize_raw_html"`

	// Keyed by directive name as written, e.g. "note" or "note:".
	CustomDirectiveHandlers map[string]DirectiveHandler `json:"-" yaml:"-"`
}

func DefaultExportOptions() ExportOptions {
	return ExportOptions{HeaderOffset: 1}
}

// Result is the output of one conversion.
type Result struct {
	Title       string     `json:"title"`
	TitleMarkup string     `json:"title_markup"`
	TOCMarkup   string     `json:"toc_markup"`
	Body        string     `json:"body"`
	TOC         []*TOCItem `json:"toc"`
}

func (r *Result) String() string {
	return r.TitleMarkup + r.TOCMarkup + "\n" + r.Body
}

// HeaderInfo is what the converter computed for one header.
type HeaderInfo struct {
	TaskStatus    string // "todo", "done" or ""
	SectionNumber string // "" when the header was not recorded
	Anchor        string
	ShowNumber    bool
}

// TextContext describes where a text leaf sits.
type TextContext struct {
	InsideCode bool
	InsideLink bool
	Subscript  org.SubscriptMode
}

// NodeRenderer supplies the output template for every node kind. The
// converter walks the tree and hands each method the already converted
// children.
type NodeRenderer interface {
	Title(content string) string
	TOC(items []*TOCItem, num bool) string
	Section(level int, content string) string

	Text(value string, tc TextContext) string
	Header(n *org.Node, children, aux string, h HeaderInfo) string
	OrderedList(n *org.Node, children, aux string) string
	UnorderedList(n *org.Node, children, aux string) string
	DefinitionList(n *org.Node, children, aux string) string
	DefinitionItem(n *org.Node, term, definition, aux string) string
	ListItem(n *org.Node, children, aux string) string
	Paragraph(n *org.Node, children, aux string) string
	Preformatted(n *org.Node, children, aux string) string
	Table(n *org.Node, children, aux string) string
	TableRow(n *org.Node, children string) string
	TableCell(n *org.Node, children string) string
	HorizontalRule(n *org.Node, aux string) string

	InlineContainer(n *org.Node, children string) string
	Bold(n *org.Node, children string) string
	Italic(n *org.Node, children string) string
	Underline(n *org.Node, children string) string
	Code(n *org.Node, children string) string
	Dashed(n *org.Node, children string) string
	Link(n *org.Node, children, aux string) string

	Quote(n *org.Node, children, aux string) string
	Example(n *org.Node, children, aux string) string
	Src(n *org.Node, children, aux string) string
	RawHTML(n *org.Node, children string) string

	PostProcess(n *org.Node, text string, insideCode bool) string
}

// HTML renders doc as HTML.
func HTML(doc *org.Document, opts ExportOptions) (*Result, error) {
	return NewConverter(doc, NewHTMLRenderer(opts), opts).Convert()
}

// Text renders doc as plain text.
func Text(doc *org.Document, opts ExportOptions) (*Result, error) {
	return NewConverter(doc, NewTextRenderer(), opts).Convert()
}
