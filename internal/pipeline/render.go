package pipeline

import (
	"fmt"
	"strings"

	"github.com/dgallion1/orgview/internal/doctree"
	"github.com/dgallion1/orgview/internal/org"
	"github.com/dgallion1/orgview/internal/render"
)

// Format selects the output renderer.
type Format string

const (
	FormatHTML Format = "html"
	FormatText Format = "text"
)

// ParseFormat accepts "html", "text" or "" (html).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatHTML:
		return FormatHTML, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// Output is a rendered document together with its outline.
type Output struct {
	Result  *render.Result   `json:"result"`
	Outline *doctree.Outline `json:"outline"`
}

// RenderSource parses org source and renders it. Parse failures are
// returned as *org.ParseError.
func RenderSource(source string, format Format, opts org.Options, export render.ExportOptions) (*Output, error) {
	doc, err := org.Parse(source, opts)
	if err != nil {
		return nil, err
	}
	return RenderDocument(doc, format, export)
}

// RenderDocument renders a parsed document and builds its outline.
func RenderDocument(doc *org.Document, format Format, export render.ExportOptions) (*Output, error) {
	var res *render.Result
	var err error
	switch format {
	case FormatText:
		res, err = render.Text(doc, export)
	default:
		res, err = render.HTML(doc, export)
	}
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	outline, err := doctree.Build(doc)
	if err != nil {
		return nil, fmt.Errorf("outline: %w", err)
	}
	return &Output{Result: res, Outline: outline}, nil
}
