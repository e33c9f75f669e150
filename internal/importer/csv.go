package importer

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVImporter turns CSV files into an org table. The first record is
// treated as the header row.
type CSVImporter struct{}

func (p *CSVImporter) Import(r io.Reader, filename string) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}

	var w orgWriter
	w.keyword("title", titleFromFilename(filename))
	w.block(formatTable(records, true))
	return w.String(), nil
}
