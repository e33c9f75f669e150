// Package importer converts foreign document formats into org source.
package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Importer converts raw document bytes into org source text.
type Importer interface {
	Import(r io.Reader, filename string) (string, error)
}

// SupportedExtensions lists file extensions that can be imported.
var SupportedExtensions = map[string]bool{
	".org":      true,
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// Config tunes importers that depend on the host environment.
type Config struct {
	// PDFFallback runs pdftotext when the pure Go extractor fails.
	PDFFallback bool
}

// ForFile returns the importer for a filename using the zero Config.
func ForFile(filename string) (Importer, error) {
	return Config{}.ForFile(filename)
}

// ForFile returns the importer for a filename.
func (c Config) ForFile(filename string) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".org":
		return &OrgImporter{}, nil
	case ".txt":
		return &TextImporter{}, nil
	case ".md", ".markdown":
		return &MarkdownImporter{}, nil
	case ".csv":
		return &CSVImporter{}, nil
	case ".html", ".htm":
		return &HTMLImporter{}, nil
	case ".pdf":
		return &PDFImporter{FallbackPdftotext: c.PDFFallback}, nil
	case ".docx":
		return &DOCXImporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// titleFromFilename strips directories and the extension.
func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// zeroWidthSpace keeps a line from being read as org structure.
const zeroWidthSpace = "\u200b"

// Line starts that org would read as headers, lists, tables, directives,
// comments, fixed-width lines or rules.
var structuralLine = regexp.MustCompile(`^(\*+\s|[-+]\s|\d+[.)]\s|\||#|:(\s|$)|-{5,}$)`)

// escapeLine left-trims a line of prose and protects it from being
// parsed as anything but paragraph text.
func escapeLine(line string) string {
	line = strings.TrimLeft(line, " \t")
	if structuralLine.MatchString(line) {
		return zeroWidthSpace + line
	}
	return line
}

func escapeLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = escapeLine(l)
	}
	return strings.Join(lines, "\n")
}

// oneLine collapses runs of whitespace, including newlines.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// orgWriter accumulates org blocks separated by blank lines.
type orgWriter struct {
	sb strings.Builder
}

func (w *orgWriter) keyword(key, value string) {
	if value = oneLine(value); value == "" {
		return
	}
	fmt.Fprintf(&w.sb, "#+%s: %s\n", key, value)
}

func (w *orgWriter) heading(level int, title string) {
	level = max(level, 1)
	w.block(strings.Repeat("*", level) + " " + oneLine(title))
}

func (w *orgWriter) paragraph(text string) {
	if text = strings.TrimSpace(text); text == "" {
		return
	}
	w.block(escapeLines(text))
}

func (w *orgWriter) block(s string) {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return
	}
	if w.sb.Len() > 0 {
		w.sb.WriteString("\n")
	}
	w.sb.WriteString(s)
	w.sb.WriteString("\n")
}

func (w *orgWriter) String() string {
	return w.sb.String()
}

// formatItem puts marker in front of the first line of body and aligns
// the remaining lines under the item text.
func formatItem(marker, body string) string {
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	pad := strings.Repeat(" ", len(marker))
	for i, l := range lines {
		switch {
		case i == 0:
			lines[i] = marker + l
		case l != "":
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

// formatTable renders rows as an aligned org table. When header is set
// a separator line follows the first row.
func formatTable(rows [][]string, header bool) string {
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return ""
	}

	widths := make([]int, cols)
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, cols)
		for j := 0; j < cols; j++ {
			var v string
			if j < len(row) {
				// Cells cannot contain the column separator.
				v = strings.ReplaceAll(oneLine(row[j]), "|", "¦")
			}
			cells[i][j] = v
			widths[j] = max(widths[j], utf8.RuneCountInString(v))
		}
	}

	var sb strings.Builder
	for i, row := range cells {
		sb.WriteString("|")
		for j, v := range row {
			sb.WriteString(" " + v + strings.Repeat(" ", widths[j]-utf8.RuneCountInString(v)) + " |")
		}
		sb.WriteString("\n")
		if i == 0 && header && len(cells) > 1 {
			sb.WriteString("|")
			for j, wd := range widths {
				sb.WriteString(strings.Repeat("-", wd+2))
				if j < len(widths)-1 {
					sb.WriteString("+")
				}
			}
			sb.WriteString("|\n")
		}
	}
	return sb.String()
}
