package org

// Document is the result of one parse.
type Document struct {
	Title     string // plain title text, "" when absent
	TitleNode *Node  // inline tree of the title, nil when absent
	Author    string
	Email     string

	Nodes []*Node // top-level blocks in source order

	Options Options
	// DirectiveValues maps unrecognized oneshot directive names
	// (including the trailing colon) to their raw values.
	DirectiveValues map[string]string

	arena *Arena
}

// Arena exposes the node storage of the document.
func (d *Document) Arena() *Arena {
	return d.arena
}

// Headers returns every header node in document order, at any depth.
func (d *Document) Headers() []*Node {
	var out []*Node
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			if n.Kind == KindHeader {
				out = append(out, n)
			}
			walk(n.Children())
		}
	}
	walk(d.Nodes)
	return out
}
