package importer

import (
	"fmt"
	"io"
)

// OrgImporter passes org files through unchanged.
type OrgImporter struct{}

func (p *OrgImporter) Import(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read org: %w", err)
	}
	return string(src), nil
}
