package render

import (
	"strings"
	"testing"
)

func TestHTML_Templates(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"paragraph", "T\n\nhello world", "<p>hello world</p>\n"},
		{"escaping", "T\n\na < b & \"c\" 'd'", "<p>a &#60; b &#38; &#34;c&#34; &#39;d&#39;</p>\n"},
		{"emphasis", "T\n\n*b* /i/ _u_ =c= +d+", `<p><b>b</b> <i>i</i> <span style="text-decoration:underline;">u</span> <code>c</code> <del>d</del></p>` + "\n"},
		{"definition list", "\n- a :: b\n- c", "<dl><dt>a</dt>\n<dd>b</dd>\n<dt>???</dt>\n<dd>c</dd>\n</dl>\n"},
		{"image", "T\n\n[[./img/cat.png?x=1][A cat]]", `<p><img src="./img/cat.png?x=1" alt="A cat" title="A cat"/></p>` + "\n"},
		{"link", "T\n\n[[http://a.com/x][site]]", `<p><a href="http://a.com/x">site</a></p>` + "\n"},
		{"src", "#+begin_src go\nx := 1 < 2\n#+end_src", `<pre class="prettyprint"><code class="language-go">x := 1 &#60; 2</code>` + "\n</pre>\n"},
		{"src without language", "#+begin_src\nx\n#+end_src", `<pre class="prettyprint"><code class="language-unknown">x</code>` + "\n</pre>\n"},
		{"example", "#+begin_example\n*x*\n#+end_example", "<pre>*x*</pre>\n"},
		{"quote", "#+begin_quote\nhello\n#+end_quote", "<blockquote><p>hello</p>\n</blockquote>\n"},
		{"preformatted", "\n: a < b", "<pre>a &#60; b</pre>\n"},
		{"rule", "\n-----", "<hr/>\n"},
		{"html oneshot", "#+html: <b>x</b>", "<b>x</b>"},
		{"subscript", "T\n\nH_{2}O", `<p><span class="org-subscript-parent">H</span><span class="org-subscript-child">2</span>O</p>` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := renderHTML(t, tt.input, DefaultExportOptions())
			if res.Body != tt.want {
				t.Errorf("expected:\n%q\ngot:\n%q", tt.want, res.Body)
			}
		})
	}
}

func TestHTML_TableHeader(t *testing.T) {
	res := renderHTML(t, "| a | b |\n|---+---|\n| 1 | 2 |", DefaultExportOptions())
	want := "<table><tbody><tr><th>a</th>\n<th>b</th>\n</tr>\n<tr><td>1</td>\n<td>2</td>\n</tr>\n</tbody>\n</table>\n"
	if res.Body != want {
		t.Errorf("expected:\n%q\ngot:\n%q", want, res.Body)
	}
}

func TestHTML_Checkboxes(t *testing.T) {
	res := renderHTML(t, "\n- [X] done\n- [ ] todo\n- [-] half\n- plain", DefaultExportOptions())

	for _, want := range []string{
		`<li data-checkbox-status="done"><input type="checkbox" checked="true"/> done</li>`,
		`<li data-checkbox-status="undone"><input type="checkbox"/> todo</li>`,
		`<li data-checkbox-status="intermediate"><input type="checkbox"/> half</li>`,
		`<li>plain</li>`,
	} {
		if !strings.Contains(res.Body, want) {
			t.Errorf("expected %q in:\n%s", want, res.Body)
		}
	}

	opts := DefaultExportOptions()
	opts.SuppressCheckboxes = true
	res = renderHTML(t, "\n- [X] done", opts)
	if !strings.Contains(res.Body, "<li>[X] done</li>") {
		t.Errorf("expected literal checkbox, got %s", res.Body)
	}
}

func TestHTML_Header(t *testing.T) {
	res := renderHTML(t, "\n* TODO Write *docs*", DefaultExportOptions())
	want := `<h2 id="header-1" class="task-status todo"><span class="section-number">1</span><span class="task-status todo">TODO</span> Write <b>docs</b></h2>` + "\n"
	if res.Body != want {
		t.Errorf("expected:\n%q\ngot:\n%q", want, res.Body)
	}
}

func TestHTML_HeaderOffset(t *testing.T) {
	res := renderHTML(t, "T\n\n* A", ExportOptions{HeaderOffset: 0})
	if !strings.HasPrefix(res.Body, "<h1 ") || res.TitleMarkup != "<h1>T</h1>\n" {
		t.Errorf("unexpected levels: %q %q", res.TitleMarkup, res.Body)
	}

	res = renderHTML(t, "T\n\n* A", ExportOptions{HeaderOffset: 2})
	if !strings.HasPrefix(res.Body, "<h3 ") || res.TitleMarkup != "<h2>T</h2>\n" {
		t.Errorf("unexpected levels: %q %q", res.TitleMarkup, res.Body)
	}
}

func TestHTML_Prefixes(t *testing.T) {
	opts := DefaultExportOptions()
	opts.HTMLClassPrefix = "org-"
	opts.HTMLIDPrefix = "doc-"
	res := renderHTML(t, "\n* A", opts)

	if !strings.Contains(res.Body, `id="doc-header-1"`) {
		t.Errorf("expected prefixed id, got %s", res.Body)
	}
	if !strings.Contains(res.Body, `class="org-section-number"`) {
		t.Errorf("expected prefixed class, got %s", res.Body)
	}
	if !strings.Contains(res.TOCMarkup, `href="#doc-header-1"`) {
		t.Errorf("expected toc link to the prefixed id, got %s", res.TOCMarkup)
	}
}

func TestHTML_Arrows(t *testing.T) {
	res := renderHTML(t, "T\n\na -> b =c->d=", DefaultExportOptions())
	if !strings.Contains(res.Body, "a -&#62; b") {
		t.Errorf("expected escaped arrow, got %s", res.Body)
	}

	opts := DefaultExportOptions()
	opts.TranslateSymbolArrow = true
	res = renderHTML(t, "T\n\na -> b =c->d=", opts)
	if !strings.Contains(res.Body, "a &#10132; b") {
		t.Errorf("expected translated arrow, got %s", res.Body)
	}
	if !strings.Contains(res.Body, "<code>c-&#62;d</code>") {
		t.Errorf("expected literal arrow in code, got %s", res.Body)
	}
}

func TestHTML_AutoLink(t *testing.T) {
	res := renderHTML(t, "T\n\nsee https://example.com/a%20b now", DefaultExportOptions())
	want := `<a href="https://example.com/a%20b">https://example.com/a b</a>`
	if !strings.Contains(res.Body, want) {
		t.Errorf("expected %q in %s", want, res.Body)
	}

	res = renderHTML(t, "T\n\n[[https://x.com][https://x.com]]", DefaultExportOptions())
	if strings.Count(res.Body, "<a ") != 1 {
		t.Errorf("expected no nested links, got %s", res.Body)
	}

	res = renderHTML(t, "T\n\n=https://x.com=", DefaultExportOptions())
	if strings.Contains(res.Body, "<a ") {
		t.Errorf("expected no link inside code, got %s", res.Body)
	}

	opts := DefaultExportOptions()
	opts.SuppressAutoLink = true
	res = renderHTML(t, "T\n\nsee https://example.com", opts)
	if strings.Contains(res.Body, "<a ") {
		t.Errorf("expected auto links suppressed, got %s", res.Body)
	}
}

func TestHTML_SubscriptModes(t *testing.T) {
	res := renderHTML(t, "#+options: ^:nil\n\nH_{2}O", DefaultExportOptions())
	if strings.Contains(res.Body, "org-subscript") {
		t.Errorf("expected subscripts off, got %s", res.Body)
	}

	opts := DefaultExportOptions()
	opts.SuppressSubscripts = true
	res = renderHTML(t, "T\n\nH_{2}O", opts)
	if strings.Contains(res.Body, "org-subscript") {
		t.Errorf("expected subscripts suppressed, got %s", res.Body)
	}
}

func TestHTML_AttrHTML(t *testing.T) {
	res := renderHTML(t, "#+attr_html: class=\"wide\"\n| a |", DefaultExportOptions())
	if !strings.HasPrefix(res.Body, `<table class="wide"><tbody>`) {
		t.Errorf("expected attributes on table, got %q", res.Body)
	}
}

func TestHTML_LineNumbers(t *testing.T) {
	opts := DefaultExportOptions()
	opts.ExportFromLineNumber = true
	res := renderHTML(t, "\n* H\ntext", opts)

	if !strings.Contains(res.Body, `<div data-line-number="2"><h2`) {
		t.Errorf("expected header wrapped, got %s", res.Body)
	}
	if !strings.Contains(res.Body, `<div data-line-number="3"><p>text</p>`) {
		t.Errorf("expected paragraph wrapped, got %s", res.Body)
	}
}

func TestHTML_RawHTMLBlock(t *testing.T) {
	input := "#+begin_html\n<p onclick=\"x()\">hi</p><script>bad()</script>\n#+end_html"

	res := renderHTML(t, input, DefaultExportOptions())
	if !strings.Contains(res.Body, "<script>") {
		t.Errorf("expected raw output without sanitizing, got %s", res.Body)
	}

	opts := DefaultExportOptions()
	opts.SanitizeRawHTML = true
	res = renderHTML(t, input, opts)
	if strings.Contains(res.Body, "script") || strings.Contains(res.Body, "onclick") {
		t.Errorf("expected active content removed, got %s", res.Body)
	}
	if !strings.Contains(res.Body, "<p>hi</p>") {
		t.Errorf("expected paragraph kept, got %s", res.Body)
	}
}

func TestSanitizeHTML_ScriptURLs(t *testing.T) {
	got := sanitizeHTML(`<a href="javascript:alert(1)">x</a><img src="a.png">`)
	if strings.Contains(got, "javascript") {
		t.Errorf("expected script url removed, got %s", got)
	}
	if !strings.Contains(got, `<img src="a.png">`) {
		t.Errorf("expected safe image kept, got %s", got)
	}
}

func TestSanitizeHTML_ActiveContent(t *testing.T) {
	tests := []struct {
		name, raw, banned string
	}{
		{"formaction", `<button formaction="javascript:alert(1)">x</button>`, "javascript"},
		{"form action", `<form action="javascript:alert(1)"><input name="q"></form>`, "javascript"},
		{"tab in scheme", "<a href=\"java\tscript:alert(1)\">x</a>", "script:"},
		{"data url", `<a href="data:text/html;base64,PHNjcmlwdD4=">x</a>`, "data:"},
		{"event handler", `<img src="a.png" onerror="alert(1)">`, "onerror"},
		{"svg script", `<svg><script>alert(1)</script></svg>`, "alert"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeHTML(tt.raw); strings.Contains(got, tt.banned) {
				t.Errorf("expected %q removed, got %s", tt.banned, got)
			}
		})
	}
}

func TestHTML_SanitizeAttrHTML(t *testing.T) {
	opts := DefaultExportOptions()
	opts.SanitizeRawHTML = true
	input := "T\n\n#+attr_html: onmouseover=\"alert(1)\" class=\"wide\" href=\"javascript:x\"\nhello"

	res := renderHTML(t, input, opts)
	if strings.Contains(res.Body, "onmouseover") || strings.Contains(res.Body, "javascript") {
		t.Errorf("expected unsafe attributes dropped, got %s", res.Body)
	}
	if !strings.Contains(res.Body, `<p class="wide">hello</p>`) {
		t.Errorf("expected allowed attribute kept, got %s", res.Body)
	}

	res = renderHTML(t, input, DefaultExportOptions())
	if !strings.Contains(res.Body, "onmouseover") {
		t.Errorf("expected attributes passed through without sanitizing, got %s", res.Body)
	}
}

func TestHTML_SanitizeLinks(t *testing.T) {
	opts := DefaultExportOptions()
	opts.SanitizeRawHTML = true
	res := renderHTML(t, "T\n\n[[javascript:alert(1)][click]] and [[https://x.com][ok]]", opts)

	if strings.Contains(res.Body, "javascript") {
		t.Errorf("expected script link dropped, got %s", res.Body)
	}
	if !strings.Contains(res.Body, "click") || !strings.Contains(res.Body, `<a href="https://x.com">ok</a>`) {
		t.Errorf("expected label and safe link kept, got %s", res.Body)
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/a.png", true},
		{"mailto:a@b.c", true},
		{"images/a.png", true},
		{"#header-1", true},
		{"javascript:alert(1)", false},
		{" JavaScript:alert(1)", false},
		{"java\tscript:alert(1)", false},
		{"java\nscript:alert(1)", false},
		{"data:text/html,hi", false},
		{"vbscript:x", false},
	}
	for _, tt := range tests {
		if got := safeURL(tt.url); got != tt.want {
			t.Errorf("safeURL(%q): expected %v, got %v", tt.url, tt.want, got)
		}
	}
}
