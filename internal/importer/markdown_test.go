package importer

import (
	"strings"
	"testing"
)

func TestMarkdownImporter_Structure(t *testing.T) {
	input := "# Title\n\n" +
		"Intro *text* and **bold** with `code`.\n\n" +
		"## Section A\n\n" +
		"- one\n" +
		"- two\n" +
		"  - nested\n\n" +
		"Steps:\n\n" +
		"1. first\n" +
		"2. second\n\n" +
		"```go\n" +
		"fmt.Println(\"hi\")\n" +
		"```\n\n" +
		"| a | b |\n" +
		"|---|---|\n" +
		"| 1 | 2 |\n"
	out, err := (&MarkdownImporter{}).Import(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"#+title: doc\n",
		"\n* Title\n",
		"\nIntro /text/ and *bold* with =code=.\n",
		"\n** Section A\n",
		"\n- one\n- two\n  - nested\n",
		"\nSteps:\n\n1. first\n2. second\n",
		"\n#+begin_src go\nfmt.Println(\"hi\")\n#+end_src\n",
		"\n| a | b |\n|---+---|\n| 1 | 2 |\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}

	doc, body := renderOrg(t, out)
	if doc.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", doc.Title)
	}
	headers := doc.Headers()
	if len(headers) != 2 || headers[0].Level != 1 || headers[1].Level != 2 {
		t.Fatalf("expected headers at levels 1 and 2, got %d headers", len(headers))
	}
	for _, want := range []string{"<i>text</i>", "<b>bold</b>", "<code>code</code>", "<ol>", `class="language-go"`, "<th>a</th>"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected rendered body to contain %q, got:\n%s", want, body)
		}
	}
}

func TestMarkdownImporter_LinksAndGFM(t *testing.T) {
	input := "See [the docs](https://example.com/docs) and ![logo](logo.png).\n\n" +
		"~~gone~~ text\n\n" +
		"- [x] done\n" +
		"- [ ] todo\n\n" +
		"> quoted\n\n" +
		"---\n\n" +
		"    indented code\n"
	out, err := (&MarkdownImporter{}).Import(strings.NewReader(input), "links.markdown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"[[https://example.com/docs][the docs]]",
		"[[logo.png][logo]]",
		"+gone+ text",
		"- [X] done\n- [ ] todo",
		"#+begin_quote\nquoted\n#+end_quote",
		"\n-----\n",
		"#+begin_example\nindented code\n#+end_example",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}

	_, body := renderOrg(t, out)
	for _, want := range []string{
		`<a href="https://example.com/docs">the docs</a>`,
		`<img src="logo.png"`,
		"<del>gone</del>",
		`data-checkbox-status="done"`,
		"<blockquote>",
		"<hr/>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected rendered body to contain %q, got:\n%s", want, body)
		}
	}
}

func TestMarkdownImporter_EscapesStructuralText(t *testing.T) {
	out, err := (&MarkdownImporter{}).Import(strings.NewReader("Text with\n\\* literal star line\n"), "x.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Text with\n"+zeroWidthSpace+"* literal star line") {
		t.Errorf("expected escaped star line, got %q", out)
	}
	doc, _ := renderOrg(t, out)
	if len(doc.Headers()) != 0 {
		t.Errorf("expected no headers, got %d", len(doc.Headers()))
	}
}
