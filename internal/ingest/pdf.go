package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ledgersift/ledgersift/internal/common"
)

// readPDF extracts statement text as lines, preserving row order. Row
// extraction keeps table layout best; whole-document plain text is the
// fallback for PDFs whose page structure the library can't walk.
func readPDF(path string, doc *Document) error {
	lines, err := extractPDFLines(path)
	if err != nil {
		return fmt.Errorf("failed to extract PDF text: %w", err)
	}
	if len(lines) == 0 {
		return fmt.Errorf("%w: %s may be image-based or scanned", common.ErrEmptyDocument, doc.Filename)
	}
	doc.Lines = lines
	return nil
}

// extractPDFLines recovers from library panics; malformed PDFs crash the
// parser on some font encodings.
func extractPDFLines(path string) (lines []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser crashed: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, rowErr := page.GetTextByRow()
		if rowErr != nil {
			continue
		}
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
	}

	if len(lines) > 0 {
		return lines, nil
	}

	// Fallback: whole-document plain text.
	plain, plainErr := reader.GetPlainText()
	if plainErr != nil {
		return nil, plainErr
	}
	data, readErr := io.ReadAll(plain)
	if readErr != nil {
		return nil, readErr
	}
	for _, line := range strings.Split(string(data), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines, nil
}
