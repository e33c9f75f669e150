// Package doctree builds the heading outline of a parsed org document.
package doctree

import (
	"fmt"
	"strings"

	"github.com/dgallion1/orgview/internal/org"
	"github.com/dgallion1/orgview/internal/render"
)

// Outline is the root of a document outline.
type Outline struct {
	Title    string     `json:"title"`            // document title, render.Untitled when absent
	Author   string     `json:"author,omitempty"` // from #+author:
	Text     string     `json:"text,omitempty"`   // content before the first header
	Sections []*Section `json:"sections"`
}

// Section is a header and everything below it up to the next header of the
// same or a shallower level.
type Section struct {
	Title    string     `json:"title"`
	Number   string     `json:"number"` // dotted section number, e.g. "1.2"
	Anchor   string     `json:"anchor"`
	Level    int        `json:"level"`
	Line     int        `json:"line"`           // source line of the header
	Text     string     `json:"text,omitempty"` // plain text of the section body
	Children []*Section `json:"children,omitempty"`
}

// Build walks the top-level nodes of doc and nests sections by header level.
// Section numbers match what the renderers produce for the same document.
func Build(doc *org.Document) (*Outline, error) {
	out := &Outline{Title: render.Untitled, Author: doc.Author}
	if doc.Title != "" {
		out.Title = doc.Title
	}

	conv := render.NewConverter(doc, render.NewTextRenderer(), render.DefaultExportOptions())

	type stackEntry struct {
		section *Section
		level   int
	}
	root := &Section{}
	stack := []stackEntry{{section: root, level: 0}}
	var pending []*org.Node

	flushText := func() error {
		if len(pending) == 0 {
			return nil
		}
		text, err := conv.ConvertNodes(pending, false)
		if err != nil {
			return err
		}
		pending = pending[:0]
		t := strings.TrimSpace(text)
		if t == "" {
			return nil
		}
		top := stack[len(stack)-1].section
		if top.Text != "" {
			top.Text += "\n\n" + t
		} else {
			top.Text = t
		}
		return nil
	}

	for _, n := range doc.Nodes {
		if n.Kind != org.KindHeader {
			pending = append(pending, n)
			continue
		}
		if err := flushText(); err != nil {
			return nil, fmt.Errorf("outline text: %w", err)
		}
		// Recording assigns the section number and anchor.
		if _, err := conv.ConvertNodes([]*org.Node{n}, true); err != nil {
			return nil, fmt.Errorf("outline header line %d: %w", n.Line, err)
		}

		sec := &Section{
			Title:  n.TextContent(),
			Number: n.SectionNumber,
			Anchor: n.Anchor,
			Level:  n.Level,
			Line:   n.Line,
		}
		for len(stack) > 1 && stack[len(stack)-1].level >= n.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].section
		parent.Children = append(parent.Children, sec)
		stack = append(stack, stackEntry{section: sec, level: n.Level})
	}
	if err := flushText(); err != nil {
		return nil, fmt.Errorf("outline text: %w", err)
	}

	out.Text = root.Text
	out.Sections = root.Children
	return out, nil
}

// Walk calls fn for every section in depth-first order.
func (o *Outline) Walk(fn func(s *Section)) {
	var walk func([]*Section)
	walk = func(secs []*Section) {
		for _, s := range secs {
			fn(s)
			walk(s.Children)
		}
	}
	walk(o.Sections)
}

// Count returns the number of sections at any depth.
func (o *Outline) Count() int {
	n := 0
	o.Walk(func(*Section) { n++ })
	return n
}
