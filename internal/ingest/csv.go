package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ledgersift/ledgersift/internal/common"
)

// readCSV loads a CSV export into headers and data rows. Bank exports are
// messy: ragged rows and stray quotes are tolerated, comment rows
// prefixed with '#' become metadata.
func readCSV(r io.Reader, doc *Document) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: %s", common.ErrEmptyDocument, doc.Filename)
	}

	for _, record := range records {
		if isMetadataRow(record) {
			if doc.Metadata == nil {
				doc.Metadata = make(map[string]string)
			}
			key := strings.TrimSpace(strings.TrimPrefix(record[0], "#"))
			doc.Metadata[strings.ToLower(strings.ReplaceAll(key, " ", "_"))] = strings.TrimSpace(record[1])
			continue
		}
		if isEmptyRow(record) {
			continue
		}
		if doc.Headers == nil {
			doc.Headers = record
			continue
		}
		doc.Rows = append(doc.Rows, record)
	}

	if doc.Headers == nil {
		return fmt.Errorf("%w: %s", common.ErrEmptyDocument, doc.Filename)
	}
	return nil
}

// isMetadataRow recognizes "# Key,Value" comment rows some exporters
// prepend before the header.
func isMetadataRow(record []string) bool {
	return len(record) >= 2 && strings.HasPrefix(strings.TrimSpace(record[0]), "#")
}

func isEmptyRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
