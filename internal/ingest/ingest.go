// Package ingest turns statement files into the normalized inputs the
// pipeline consumes: text lines for PDFs, header/row tables for CSV and
// Excel exports, and fully structured transactions for OFX downloads.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledgersift/ledgersift/internal/common"
	"github.com/ledgersift/ledgersift/internal/model"
)

// Document is one statement file's normalized content. Exactly one of
// Lines, Rows, or Transactions is populated depending on the source
// format.
type Document struct {
	Filename     string
	Source       model.TransactionSource
	Lines        []string
	Headers      []string
	Rows         [][]string
	Metadata     map[string]string
	Transactions []model.ParsedTransaction
}

// DetectSource maps a filename extension to its transaction source.
func DetectSource(filename string) (model.TransactionSource, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return model.SourceCSV, nil
	case ".xlsx", ".xls":
		return model.SourceExcel, nil
	case ".pdf":
		return model.SourcePDF, nil
	case ".ofx", ".qfx":
		return model.SourceOFX, nil
	default:
		return "", fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, filename)
	}
}

// ReadFile parses a statement file into a Document.
func ReadFile(ctx context.Context, path string) (*Document, error) {
	source, err := DetectSource(path)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Filename: filepath.Base(path),
		Source:   source,
	}

	switch source {
	case model.SourceCSV:
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, openErr)
		}
		defer func() { _ = f.Close() }()
		err = readCSV(f, doc)
	case model.SourceExcel:
		err = readExcel(path, doc)
	case model.SourcePDF:
		err = readPDF(path, doc)
	case model.SourceOFX:
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, openErr)
		}
		defer func() { _ = f.Close() }()
		err = readOFX(ctx, f, doc)
	}
	if err != nil {
		return nil, err
	}

	common.LogDebug("ingested statement file", common.Fields{
		"filename":     doc.Filename,
		"source":       string(doc.Source),
		"lines":        len(doc.Lines),
		"rows":         len(doc.Rows),
		"transactions": len(doc.Transactions),
	})

	return doc, nil
}
