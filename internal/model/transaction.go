package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// TransactionSource identifies where a parsed transaction came from.
type TransactionSource string

const (
	// SourceCSV marks transactions parsed from CSV exports.
	SourceCSV TransactionSource = "csv"
	// SourceExcel marks transactions parsed from Excel workbooks.
	SourceExcel TransactionSource = "excel"
	// SourcePDF marks transactions parsed from extracted PDF text.
	SourcePDF TransactionSource = "pdf"
	// SourceOFX marks transactions parsed from OFX/QFX downloads.
	SourceOFX TransactionSource = "ofx"
	// SourcePlaid marks transactions converted from the Plaid API.
	SourcePlaid TransactionSource = "plaid"
)

// ParsedTransaction is a single transaction extracted from a statement,
// before deduplication and persistence. The pipeline fills in category and
// type fields as it runs; everything else is read-only source data.
type ParsedTransaction struct {
	Date                 time.Time
	TransactionID        string
	PlaidTransactionID   string
	AccountID            string
	Description          string
	MerchantName         string
	CategoryHint         string // primary category hint from the source, if any
	DetailedHint         string // detailed category hint from the source, if any
	PaymentChannel       string
	DebitCreditIndicator string // raw debit/credit marker from the source row
	Source               TransactionSource
	Hash                 string
	Amount               float64
	Confidence           float64
}

// GenerateHash creates a stable identity hash used as a fallback
// transaction ID and for exact-duplicate lookups.
func (t *ParsedTransaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Description,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// DuplicateMatch pairs an existing transaction with a similarity score
// against a newly parsed one.
type DuplicateMatch struct {
	ExistingTransactionID string
	Similarity            float64
}
