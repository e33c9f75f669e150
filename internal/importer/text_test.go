package importer

import (
	"strings"
	"testing"
)

func TestTextImporter_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\n\nSecond paragraph.\n\n* not a header"
	out, err := (&TextImporter{}).Import(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "#+title: notes\n\n" +
		"First paragraph line one.\nFirst paragraph line two.\n\n" +
		"Second paragraph.\n\n" +
		zeroWidthSpace + "* not a header\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}

	doc, body := renderOrg(t, out)
	if doc.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", doc.Title)
	}
	if len(doc.Headers()) != 0 {
		t.Errorf("expected no headers, got %d", len(doc.Headers()))
	}
	if strings.Count(body, "<p>") != 3 {
		t.Errorf("expected 3 paragraphs, got %s", body)
	}
}

func TestTextImporter_EmptyInput(t *testing.T) {
	out, err := (&TextImporter{}).Import(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "#+title: empty\n" {
		t.Errorf("expected only a title, got %q", out)
	}
}

func TestCSVImporter(t *testing.T) {
	input := "name,qty\napple,3\npear, 10\n"
	out, err := (&CSVImporter{}).Import(strings.NewReader(input), "data/fruit.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "#+title: fruit\n\n" +
		"| name  | qty |\n" +
		"|-------+-----|\n" +
		"| apple | 3   |\n" +
		"| pear  | 10  |\n"
	if out != want {
		t.Errorf("expected\n%s\ngot\n%s", want, out)
	}

	_, body := renderOrg(t, out)
	if !strings.Contains(body, "<th>name</th>") || !strings.Contains(body, "<td>pear</td>") {
		t.Errorf("expected header and data cells, got %s", body)
	}
}

func TestPagesToOrg(t *testing.T) {
	out, err := pagesToOrg("report", []string{"First page text\n\nmore", "  \n", "Third"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "#+title: report\n\n" +
		"* Page 1\n\nFirst page text\n\nmore\n\n" +
		"* Page 3\n\nThird\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}

	doc, _ := renderOrg(t, out)
	if len(doc.Headers()) != 2 {
		t.Errorf("expected 2 page headers, got %d", len(doc.Headers()))
	}
}
