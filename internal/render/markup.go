package render

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	textEscaper = strings.NewReplacer(
		"&", "&#38;",
		"<", "&#60;",
		">", "&#62;",
		`"`, "&#34;",
		"'", "&#39;",
	)
	arrowEscaper = strings.NewReplacer(
		"->", "&#10132;",
		"&", "&#38;",
		"<", "&#60;",
		">", "&#62;",
		`"`, "&#34;",
		"'", "&#39;",
	)
)

// escapeText replaces & < > " ' with numeric entities, and "->" with an
// arrow when arrows is set.
func escapeText(s string, arrows bool) string {
	if arrows {
		return arrowEscaper.Replace(s)
	}
	return textEscaper.Replace(s)
}

// http://daringfireball.net/2010/07/improved_regex_for_matching_urls
var urlPattern = regexp.MustCompile(`(?i)\b(?:https?://|www\d{0,3}[.]|[a-z0-9.\-]+[.][a-z]{2,4}/)(?:[^\s()<>]+|\(([^\s()<>]+|(\([^\s()<>]+\)))*\))+(?:\(([^\s()<>]+|(\([^\s()<>]+\)))*\)|[^\s` + "`" + `!()\[\]{};:'".,<>?«»“”‘’])`)

var (
	braceSubscript = regexp.MustCompile(`\b([^_ \t]*)_\{([^}]*)\}`)
	bareSubscript  = regexp.MustCompile(`\b([^_ \t]*)_([^_]*)\b`)
)

var (
	queryString    = regexp.MustCompile(`\?.*$`)
	imageExtension = regexp.MustCompile(`(?i)\.(bmp|png|jpeg|jpg|gif|tiff|tif|xbm|xpm|pbm|pgm|ppm|svg)$`)
	checkbox       = regexp.MustCompile(`(?s)^\s*\[(X| |-)\](.*)`)
)

func isImageURL(src string) bool {
	return imageExtension.MatchString(queryString.ReplaceAllString(src, ""))
}

// unescapeURL decodes percent escapes for display, keeping the input
// when it is malformed.
func unescapeURL(u string) string {
	if s, err := url.PathUnescape(u); err == nil {
		return s
	}
	return u
}

type attr struct {
	key, val string
}

// attrs renders attributes in order. Values are escaped; class and id
// values get the configured prefixes.
func (r *HTMLRenderer) attrs(list []attr) string {
	var sb strings.Builder
	for _, a := range list {
		v := a.val
		switch a.key {
		case "class":
			v = r.opts.HTMLClassPrefix + v
		case "id":
			v = r.opts.HTMLIDPrefix + v
		}
		sb.WriteString(" " + a.key + `="` + textEscaper.Replace(v) + `"`)
	}
	return sb.String()
}

func (r *HTMLRenderer) open(name string, list []attr, aux string) string {
	s := "<" + name
	if aux != "" && r.opts.SanitizeRawHTML {
		aux = sanitizeAux(aux)
	}
	if aux != "" {
		s += " " + aux
	}
	return s + r.attrs(list)
}

func (r *HTMLRenderer) inlineTag(name, inner string, list []attr, aux string) string {
	return r.open(name, list, aux) + ">" + inner + "</" + name + ">"
}

func (r *HTMLRenderer) voidTag(name string, list []attr, aux string) string {
	return r.open(name, list, aux) + "/>"
}

// tag is inlineTag followed by a newline.
func (r *HTMLRenderer) tag(name, inner string, list []attr, aux string) string {
	return r.inlineTag(name, inner, list, aux) + "\n"
}
