package org

import (
	"fmt"
	"strings"
)

// Kind is the closed set of tree node variants.
type Kind int

const (
	KindText Kind = iota
	KindHeader
	KindOrderedList
	KindUnorderedList
	KindDefinitionList
	KindListElement
	KindParagraph
	KindPreformatted
	KindTable
	KindTableRow
	KindTableCell
	KindHorizontalRule
	KindDirective
	KindInlineContainer
	KindBold
	KindItalic
	KindUnderline
	KindCode
	KindDashed
	KindLink

	kindCount
)

var kindNames = []string{
	KindText:            "text",
	KindHeader:          "header",
	KindOrderedList:     "orderedList",
	KindUnorderedList:   "unorderedList",
	KindDefinitionList:  "definitionList",
	KindListElement:     "listElement",
	KindParagraph:       "paragraph",
	KindPreformatted:    "preformatted",
	KindTable:           "table",
	KindTableRow:        "tableRow",
	KindTableCell:       "tableCell",
	KindHorizontalRule:  "horizontalRule",
	KindDirective:       "directive",
	KindInlineContainer: "inlineContainer",
	KindBold:            "bold",
	KindItalic:          "italic",
	KindUnderline:       "underline",
	KindCode:            "code",
	KindDashed:          "dashed",
	KindLink:            "link",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsInline reports whether nodes of this kind come from the inline parser.
func (k Kind) IsInline() bool {
	switch k {
	case KindText, KindInlineContainer, KindBold, KindItalic, KindUnderline, KindCode, KindDashed, KindLink:
		return true
	}
	return false
}

// NodeID indexes a node inside its Arena.
type NodeID int32

const NoNode NodeID = -1

// Arena owns every node of one parse. Nodes refer to each other by NodeID,
// so parent and sibling links never own anything.
type Arena struct {
	nodes []*Node
}

func NewArena() *Arena {
	return &Arena{}
}

// New allocates a detached node of the given kind.
func (a *Arena) New(kind Kind) *Node {
	n := &Node{
		Kind:   kind,
		id:     NodeID(len(a.nodes)),
		parent: NoNode,
		prev:   NoNode,
		arena:  a,
	}
	a.nodes = append(a.nodes, n)
	return n
}

// NewText allocates a text leaf.
func (a *Arena) NewText(value string) *Node {
	n := a.New(KindText)
	n.Value = value
	return n
}

// Get resolves an id; it returns nil for NoNode or a foreign id.
func (a *Arena) Get(id NodeID) *Node {
	if id < 0 || int(id) >= len(a.nodes) {
		return nil
	}
	return a.nodes[id]
}

func (a *Arena) Len() int {
	return len(a.nodes)
}

// DirectiveInfo holds the parsed pieces of a directive line.
type DirectiveInfo struct {
	Name      string   // lower-cased, e.g. "src", "title:"
	Arguments []string // positional arguments
	Options   []string // flags with a leading '-'
	RawValue  string   // everything after the name
}

// Node is one element of the document tree.
type Node struct {
	Kind Kind

	Level     int    // header depth, 1-based
	Value     string // literal text of text leaves
	Src       string // link target
	Directive *DirectiveInfo

	IsHeader         bool     // table cell in the header row
	IsDefinitionList bool     // list element of a definition list
	Term             []NodeID // definition term nodes
	Line             int      // origin line, 0 when unknown

	// Written by the renderer.
	SectionNumber string
	Anchor        string

	id       NodeID
	parent   NodeID
	prev     NodeID
	children []NodeID
	arena    *Arena
}

func (n *Node) ID() NodeID {
	return n.id
}

// AppendChild attaches child as the last child of n.
func (n *Node) AppendChild(child *Node) {
	if child.arena != n.arena {
		panic("org: AppendChild across arenas")
	}
	if child.parent != NoNode {
		panic(fmt.Sprintf("org: node %d already has a parent", child.id))
	}
	child.prev = NoNode
	if len(n.children) > 0 {
		child.prev = n.children[len(n.children)-1]
	}
	child.parent = n.id
	n.children = append(n.children, child.id)
}

// Children returns the child nodes in order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	for i, id := range n.children {
		out[i] = n.arena.nodes[id]
	}
	return out
}

func (n *Node) ChildCount() int {
	return len(n.children)
}

func (n *Node) Child(i int) *Node {
	return n.arena.nodes[n.children[i]]
}

func (n *Node) Parent() *Node {
	return n.arena.Get(n.parent)
}

func (n *Node) PrevSibling() *Node {
	return n.arena.Get(n.prev)
}

// TermNodes resolves the definition term of a definition list element.
func (n *Node) TermNodes() []*Node {
	out := make([]*Node, 0, len(n.Term))
	for _, id := range n.Term {
		out = append(out, n.arena.nodes[id])
	}
	return out
}

// DirectiveName returns the directive name or "" for other kinds.
func (n *Node) DirectiveName() string {
	if n.Directive == nil {
		return ""
	}
	return n.Directive.Name
}

// TextContent concatenates the literal values of all text leaves below n.
func (n *Node) TextContent() string {
	if n.Kind == KindText {
		return n.Value
	}
	var sb strings.Builder
	for _, c := range n.Children() {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// String dumps the subtree, one node per line.
func (n *Node) String() string {
	var sb strings.Builder
	n.dump(&sb, 0)
	return strings.TrimSuffix(sb.String(), "\n")
}

func (n *Node) dump(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString("<" + n.Kind.String() + ">")
	switch {
	case n.Kind == KindText:
		fmt.Fprintf(sb, " %q", n.Value)
	case n.Kind == KindLink:
		fmt.Fprintf(sb, " %q", n.Src)
	case n.Kind == KindHeader:
		fmt.Fprintf(sb, " level=%d", n.Level)
	case n.Directive != nil:
		fmt.Fprintf(sb, " %s", n.Directive.Name)
	}
	sb.WriteString("\n")
	for _, c := range n.Children() {
		c.dump(sb, depth+1)
	}
}
