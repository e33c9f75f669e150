package render

import "github.com/dgallion1/orgview/internal/org"

// TOCItem is one entry of the table of contents. Placeholder items fill
// skipped header levels and have no Header.
type TOCItem struct {
	Header   *org.Node  `json:"-"`
	Title    string     `json:"title"`
	Section  string     `json:"section"`
	Anchor   string     `json:"anchor"`
	Level    int        `json:"level"`
	Children []*TOCItem `json:"children,omitempty"`

	parent *TOCItem
}

// IsPlaceholder reports whether the item stands in for a skipped level.
func (t *TOCItem) IsPlaceholder() bool {
	return t.Header == nil
}

// Parent returns the enclosing item, nil at the top level.
func (t *TOCItem) Parent() *TOCItem {
	return t.parent
}

func newTOCItem(h *org.Node, parent *TOCItem) *TOCItem {
	return &TOCItem{
		Header:  h,
		Title:   h.TextContent(),
		Section: h.SectionNumber,
		Anchor:  h.Anchor,
		Level:   h.Level,
		parent:  parent,
	}
}

// buildTOC nests headers by level, in document order, skipping headers
// deeper than maxLevel.
func buildTOC(headers []*org.Node, maxLevel int) []*TOCItem {
	root := &TOCItem{}
	current := root
	prevLevel := 1

	for _, h := range headers {
		if h.Level > maxLevel {
			continue
		}
		diff := h.Level - prevLevel
		for j := 0; j < diff; j++ {
			if len(current.Children) == 0 {
				current.Children = append(current.Children, &TOCItem{Level: prevLevel + j, parent: current})
			}
			current = current.Children[len(current.Children)-1]
		}
		for j := 0; j > diff && current.parent != nil; j-- {
			current = current.parent
		}
		current.Children = append(current.Children, newTOCItem(h, current))
		prevLevel = h.Level
	}

	for _, item := range root.Children {
		item.parent = nil
	}
	return root.Children
}
