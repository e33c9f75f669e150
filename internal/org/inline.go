package org

import (
	"regexp"
	"time"

	"github.com/dlclark/regexp2"
)

// emphasisPattern needs the \2 backreference to close on the opening
// marker, which RE2 cannot express. A body spans at most two lines of
// up to 512 runes each, which keeps a failed scan from each opener short.
var emphasisPattern = func() *regexp2.Regexp {
	re := regexp2.MustCompile(
		`([ \t('"]|^|\r?\n)`+ // pre
			`([*/_=~+])`+ // marker
			`([^ \t\r\n,"']|[^ \t\r\n,"'][^\n]{0,512}?(?:\n[^\n]{0,512}?)?[^ \t\r\n,"'])`+ // body
			`\2`+
			`([- \t.,:!?;'")]|$|\r?\n)`, // post
		regexp2.None)
	re.MatchTimeout = emphasisMatchTimeout
	return re
}()

const (
	// emphasisMatchTimeout bounds one scan for the next emphasis.
	emphasisMatchTimeout = 500 * time.Millisecond
	// emphasisBudget bounds all emphasis scans of one InlineParser. Text
	// left when it runs out stays literal.
	emphasisBudget = 2 * time.Second
)

var linkPattern = regexp.MustCompile(`\[\[([^\]]*)\](?:\[([^\]]*)\])?\]`)

var markerKinds = map[string]Kind{
	"*": KindBold,
	"/": KindItalic,
	"_": KindUnderline,
	"=": KindCode,
	"~": KindCode,
	"+": KindDashed,
}

// InlineParser splits text into emphasis, links and plain text.
type InlineParser struct {
	arena *Arena
	spent time.Duration // time used by emphasis scans
}

func NewInlineParser(arena *Arena) *InlineParser {
	return &InlineParser{arena: arena}
}

// Parse returns a detached inline tree for text. A single piece is
// returned as is; several pieces are wrapped in an inline container.
func (ip *InlineParser) Parse(text string) *Node {
	pieces := ip.parseEmphasis([]rune(text))
	switch len(pieces) {
	case 0:
		return ip.arena.NewText("")
	case 1:
		return pieces[0]
	}
	container := ip.arena.New(KindInlineContainer)
	for _, n := range pieces {
		container.AppendChild(n)
	}
	return container
}

func (ip *InlineParser) parseEmphasis(runes []rune) []*Node {
	var out []*Node
	last, pos := 0, 0
	for pos <= len(runes) && ip.spent < emphasisBudget {
		start := time.Now()
		m, err := emphasisPattern.FindRunesMatchStartingAt(runes, pos)
		ip.spent += time.Since(start)
		if err != nil || m == nil {
			// A timeout leaves the rest as literal text.
			break
		}
		pre := m.GroupByNumber(1)
		marker := m.GroupByNumber(2).String()
		body := m.GroupByNumber(3).String()
		post := m.GroupByNumber(4)

		markerStart := m.Index + pre.Length
		out = append(out, ip.parseLinks(string(runes[last:markerStart]))...)
		out = append(out, ip.emphasis(marker, body))

		// The post character may open the next emphasis.
		last = m.Index + m.Length - post.Length
		pos = last
	}
	return append(out, ip.parseLinks(string(runes[last:]))...)
}

func (ip *InlineParser) emphasis(marker, body string) *Node {
	n := ip.arena.New(markerKinds[marker])
	if n.Kind == KindCode {
		n.AppendChild(ip.arena.NewText(body))
		return n
	}
	for _, c := range ip.parseEmphasis([]rune(body)) {
		n.AppendChild(c)
	}
	return n
}

func (ip *InlineParser) parseLinks(text string) []*Node {
	if text == "" {
		return nil
	}
	var out []*Node
	last := 0
	for _, loc := range linkPattern.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > last {
			out = append(out, ip.arena.NewText(text[last:loc[0]]))
		}
		link := ip.arena.New(KindLink)
		link.Src = text[loc[2]:loc[3]]
		display := link.Src
		if loc[4] >= 0 {
			display = text[loc[4]:loc[5]]
		}
		link.AppendChild(ip.Parse(display))
		out = append(out, link)
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, ip.arena.NewText(text[last:]))
	}
	return out
}
