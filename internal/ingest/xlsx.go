package ingest

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ledgersift/ledgersift/internal/common"
)

// readExcel loads the first sheet of a workbook into headers and data
// rows. Statement exports put the transaction table on the first sheet;
// additional sheets are summaries and charts we don't need.
func readExcel(path string, doc *Document) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("%w: workbook has no sheets", common.ErrEmptyDocument)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		if doc.Headers == nil {
			doc.Headers = row
			continue
		}
		doc.Rows = append(doc.Rows, row)
	}

	if doc.Headers == nil {
		return fmt.Errorf("%w: %s", common.ErrEmptyDocument, doc.Filename)
	}
	return nil
}
