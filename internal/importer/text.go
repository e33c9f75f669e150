package importer

import (
	"bufio"
	"io"
	"strings"
)

// TextImporter handles plain text files. Blank lines separate paragraphs.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (string, error) {
	paragraphs, err := splitParagraphs(r)
	if err != nil {
		return "", err
	}

	var w orgWriter
	w.keyword("title", titleFromFilename(filename))
	for _, para := range paragraphs {
		w.paragraph(para)
	}
	return w.String(), nil
}

func splitParagraphs(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return paragraphs, nil
}
