package render

import (
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// rawHTMLPolicy is the allowlist applied to raw HTML blocks: user
// generated content elements, plus class attributes for styling.
var rawHTMLPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	return p
}()

// sanitizeHTML keeps only allowlisted elements, attributes and URL schemes
// of raw HTML.
func sanitizeHTML(raw string) string {
	return rawHTMLPolicy.Sanitize(raw)
}

// Attributes an attr_html: line may set on generated elements while
// sanitizing. data-* attributes are allowed too.
var auxAttrAllowed = map[string]bool{
	"class": true, "id": true, "title": true, "lang": true, "dir": true,
	"alt": true, "width": true, "height": true, "align": true, "valign": true,
	"colspan": true, "rowspan": true, "border": true, "cellpadding": true,
	"cellspacing": true, "summary": true, "scope": true, "start": true,
}

// URL valued attributes kept only with a safe scheme.
var auxURLAttrs = map[string]bool{"href": true, "src": true, "cite": true}

// sanitizeAux filters the attribute text of attr_html: lines down to
// allowlisted attributes and re-serializes them with escaped values.
func sanitizeAux(aux string) string {
	z := html.NewTokenizer(strings.NewReader("<span " + aux + ">"))
	if z.Next() != html.StartTagToken {
		return ""
	}
	var parts []string
	for _, a := range z.Token().Attr {
		key := strings.ToLower(a.Key)
		switch {
		case auxAttrAllowed[key], strings.HasPrefix(key, "data-"):
		case auxURLAttrs[key] && safeURL(a.Val):
		default:
			continue
		}
		parts = append(parts, key+`="`+textEscaper.Replace(a.Val)+`"`)
	}
	return strings.Join(parts, " ")
}

// safeURL reports whether u is relative or uses http, https, mailto or
// ftp. Browsers ignore ASCII tabs and newlines inside a scheme, so those
// are removed before the check.
func safeURL(u string) bool {
	u = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, strings.TrimSpace(u))
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "", "http", "https", "mailto", "ftp":
		return true
	}
	return false
}

// Elements whose text never reaches plain text output.
var hiddenElements = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Iframe: true,
	atom.Object: true,
	atom.Embed:  true,
}

// htmlText extracts the visible text of raw HTML.
func htmlText(raw string) string {
	z := html.NewTokenizer(strings.NewReader(raw))
	var sb strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			if hiddenElements[atom.Lookup(name)] {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if hiddenElements[atom.Lookup(name)] && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		}
	}
}
