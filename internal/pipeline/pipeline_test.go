package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgersift/ledgersift/internal/accountdetect"
	"github.com/ledgersift/ledgersift/internal/category"
	"github.com/ledgersift/ledgersift/internal/dupdetect"
	"github.com/ledgersift/ledgersift/internal/ingest"
	"github.com/ledgersift/ledgersift/internal/lineclass"
	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/ledgersift/ledgersift/internal/service"
	"github.com/ledgersift/ledgersift/internal/txtype"
)

// fakeStorage records everything the pipeline persists.
type fakeStorage struct {
	existing        []model.ParsedTransaction
	saved           []model.ParsedTransaction
	savedAccounts   []model.DetectedAccount
	categoryResults map[string]model.CategoryResult
	typeResults     map[string]model.TypeResult
	committed       bool
	rolledBack      bool
	beginErr        error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		categoryResults: make(map[string]model.CategoryResult),
		typeResults:     make(map[string]model.TypeResult),
	}
}

func (s *fakeStorage) GetTransactionsInWindow(_ context.Context, _ string, start, end time.Time) ([]model.ParsedTransaction, error) {
	var out []model.ParsedTransaction
	for _, txn := range s.existing {
		if !txn.Date.Before(start) && !txn.Date.After(end) {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (s *fakeStorage) SaveTransactions(_ context.Context, _ string, txns []model.ParsedTransaction) error {
	s.saved = append(s.saved, txns...)
	return nil
}

func (s *fakeStorage) GetTransactionByID(_ context.Context, _ string) (*model.ParsedTransaction, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *fakeStorage) GetTransactions(_ context.Context, _ string, _ service.TransactionFilter) ([]model.ParsedTransaction, error) {
	return s.saved, nil
}

func (s *fakeStorage) GetTransactionCount(_ context.Context, _ string) (int, error) {
	return len(s.saved), nil
}

func (s *fakeStorage) SaveDetectedAccount(_ context.Context, _ string, account *model.DetectedAccount) (int64, error) {
	s.savedAccounts = append(s.savedAccounts, *account)
	return int64(len(s.savedAccounts)), nil
}

func (s *fakeStorage) GetDetectedAccounts(_ context.Context, _ string) ([]model.DetectedAccount, error) {
	return s.savedAccounts, nil
}

func (s *fakeStorage) SaveCategoryResult(_ context.Context, transactionID string, result *model.CategoryResult) error {
	s.categoryResults[transactionID] = *result
	return nil
}

func (s *fakeStorage) SaveTypeResult(_ context.Context, transactionID string, result *model.TypeResult) error {
	s.typeResults[transactionID] = *result
	return nil
}

func (s *fakeStorage) GetCategoryResult(_ context.Context, transactionID string) (*model.CategoryResult, error) {
	if result, ok := s.categoryResults[transactionID]; ok {
		return &result, nil
	}
	return nil, nil
}

func (s *fakeStorage) GetTypeResult(_ context.Context, transactionID string) (*model.TypeResult, error) {
	if result, ok := s.typeResults[transactionID]; ok {
		return &result, nil
	}
	return nil, nil
}

func (s *fakeStorage) GetCategorySummary(_ context.Context, _ string, _, _ time.Time) (map[string]float64, error) {
	return nil, nil
}

func (s *fakeStorage) Migrate(_ context.Context) error { return nil }

func (s *fakeStorage) BeginTx(_ context.Context) (service.Transaction, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return &fakeTx{storage: s}, nil
}

func (s *fakeStorage) Close() error { return nil }

type fakeTx struct {
	storage *fakeStorage
}

func (t *fakeTx) Commit() error {
	t.storage.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	if !t.storage.committed {
		t.storage.rolledBack = true
	}
	return nil
}

func (t *fakeTx) SaveTransactions(ctx context.Context, userID string, txns []model.ParsedTransaction) error {
	return t.storage.SaveTransactions(ctx, userID, txns)
}

func (t *fakeTx) SaveCategoryResult(ctx context.Context, transactionID string, result *model.CategoryResult) error {
	return t.storage.SaveCategoryResult(ctx, transactionID, result)
}

func (t *fakeTx) SaveTypeResult(ctx context.Context, transactionID string, result *model.TypeResult) error {
	return t.storage.SaveTypeResult(ctx, transactionID, result)
}

func newTestPipeline(t *testing.T, storage *fakeStorage) *Pipeline {
	t.Helper()

	detector, err := dupdetect.New(dupdetect.DefaultConfig(), storage)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.InferredYear = 2024

	p, err := New(
		cfg,
		lineclass.New(lineclass.DefaultConfig()),
		accountdetect.New(accountdetect.DefaultConfig()),
		category.New(category.DefaultConfig(), nil),
		txtype.New(txtype.DefaultConfig()),
		detector,
		storage,
	)
	require.NoError(t, err)
	return p
}

func TestNew_MissingCollaborator(t *testing.T) {
	storage := newFakeStorage()
	detector, err := dupdetect.New(dupdetect.DefaultConfig(), storage)
	require.NoError(t, err)

	_, err = New(DefaultConfig(), nil, accountdetect.New(accountdetect.DefaultConfig()),
		category.New(category.DefaultConfig(), nil), txtype.New(txtype.DefaultConfig()), detector, storage)
	assert.Error(t, err)

	_, err = New(DefaultConfig(), lineclass.New(lineclass.DefaultConfig()),
		accountdetect.New(accountdetect.DefaultConfig()), category.New(category.DefaultConfig(), nil),
		txtype.New(txtype.DefaultConfig()), detector, nil)
	assert.Error(t, err)
}

func TestProcess_PDFLines(t *testing.T) {
	storage := newFakeStorage()
	p := newTestPipeline(t, storage)

	doc := &ingest.Document{
		Filename: "chase_statement.pdf",
		Source:   model.SourcePDF,
		Lines: []string{
			"Chase Bank Statement",
			"Card Member: John Doe",
			"11/09 AUTOMATIC PAYMENT - THANK YOU $458.40",
			"11/12 STARBUCKS STORE #1234 SEATTLE WA $25.50",
			"Pay Over Time 12/30/2022 19.49% (v) $0.00 $0.00",
			"Total fees charged in 2024",
		},
	}

	stats, err := p.Process(context.Background(), "user-1", doc)
	require.NoError(t, err)

	assert.Equal(t, 6, stats.TotalLines)
	assert.Equal(t, 2, stats.ParsedCount)
	assert.Equal(t, 0, stats.DuplicateCount)
	assert.Equal(t, 2, stats.PersistedCount)
	assert.True(t, storage.committed)

	require.Len(t, storage.saved, 2)
	for _, txn := range storage.saved {
		assert.NotEmpty(t, txn.TransactionID)
		assert.NotEmpty(t, txn.Hash)
		assert.Equal(t, model.SourcePDF, txn.Source)
		assert.Equal(t, 2024, txn.Date.Year())
	}

	// Every persisted transaction gets a category result.
	assert.Len(t, storage.categoryResults, 2)
}

func TestProcess_TabularRows(t *testing.T) {
	storage := newFakeStorage()
	p := newTestPipeline(t, storage)

	doc := &ingest.Document{
		Filename: "checking_0042.csv",
		Source:   model.SourceCSV,
		Headers:  []string{"Date", "Description", "Amount"},
		Rows: [][]string{
			{"01/15/2024", "SAFEWAY STORE 123", "-82.17"},
			{"01/16/2024", "PAYROLL DIRECT DEPOSIT", "2500.00"},
			{"01/17/2024", "", "-5.00"},
		},
	}

	stats, err := p.Process(context.Background(), "user-1", doc)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalLines)
	assert.Equal(t, 2, stats.ParsedCount)
	assert.Equal(t, 1, stats.SkippedCount)
	require.Len(t, storage.saved, 2)

	assert.InDelta(t, -82.17, storage.saved[0].Amount, 0.001)
	assert.InDelta(t, 2500.00, storage.saved[1].Amount, 0.001)

	// Groceries keyword strategy should have fired for Safeway.
	result := storage.categoryResults[storage.saved[0].TransactionID]
	assert.Equal(t, "groceries", result.Primary)

	// The filename marks the account as checking, so the sign fallback
	// types both rows.
	assert.Equal(t, model.TypeExpense, storage.typeResults[storage.saved[0].TransactionID].Type)
	assert.Equal(t, model.TypeIncome, storage.typeResults[storage.saved[1].TransactionID].Type)
}

func TestProcess_DebitCreditColumns(t *testing.T) {
	storage := newFakeStorage()
	p := newTestPipeline(t, storage)

	doc := &ingest.Document{
		Filename: "export.csv",
		Source:   model.SourceCSV,
		Headers:  []string{"Date", "Description", "Debit", "Credit"},
		Rows: [][]string{
			{"02/01/2024", "GROCERY OUTLET", "54.20", ""},
			{"02/02/2024", "REFUND", "", "12.00"},
		},
	}

	stats, err := p.Process(context.Background(), "user-1", doc)
	require.NoError(t, err)
	require.Equal(t, 2, stats.PersistedCount)

	assert.InDelta(t, -54.20, storage.saved[0].Amount, 0.001)
	assert.Equal(t, "DEBIT", storage.saved[0].DebitCreditIndicator)
	assert.InDelta(t, 12.00, storage.saved[1].Amount, 0.001)
	assert.Equal(t, "CREDIT", storage.saved[1].DebitCreditIndicator)
}

func TestProcess_CreditCardSignReversal(t *testing.T) {
	storage := newFakeStorage()
	p := newTestPipeline(t, storage)

	// Filename carries the credit-card signal the detector needs.
	doc := &ingest.Document{
		Filename: "chase_credit_card_3100.csv",
		Source:   model.SourceCSV,
		Headers:  []string{"Date", "Description", "Amount"},
		Rows: [][]string{
			{"03/01/2024", "RESTAURANT CHARGE", "100.00"},
			{"03/05/2024", "PAYMENT RECEIVED", "-99.00"},
		},
	}

	stats, err := p.Process(context.Background(), "user-1", doc)
	require.NoError(t, err)
	require.Equal(t, 2, stats.PersistedCount)

	// Statement-positive purchase stores negative, payment positive.
	assert.InDelta(t, -100.00, storage.saved[0].Amount, 0.001)
	assert.InDelta(t, 99.00, storage.saved[1].Amount, 0.001)

	// Credit account resolves both rows to LOAN regardless of sign.
	for _, txn := range storage.saved {
		assert.Equal(t, model.TypeLoan, storage.typeResults[txn.TransactionID].Type)
	}

	require.Len(t, storage.savedAccounts, 1)
	assert.Equal(t, model.AccountTypeCredit, storage.savedAccounts[0].AccountType)
}

func TestProcess_DuplicateFiltering(t *testing.T) {
	storage := newFakeStorage()
	storage.existing = []model.ParsedTransaction{
		{
			TransactionID: "existing-1",
			Date:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Description:   "SAFEWAY STORE 123",
			Amount:        -82.17,
		},
	}
	p := newTestPipeline(t, storage)

	doc := &ingest.Document{
		Filename: "checking.csv",
		Source:   model.SourceCSV,
		Headers:  []string{"Date", "Description", "Amount"},
		Rows: [][]string{
			{"01/15/2024", "SAFEWAY STORE 123", "-82.17"}, // duplicate
			{"01/20/2024", "NEW MERCHANT", "-10.00"},
		},
	}

	stats, err := p.Process(context.Background(), "user-1", doc)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.ParsedCount)
	assert.Equal(t, 1, stats.DuplicateCount)
	assert.Equal(t, 1, stats.PersistedCount)
	require.Len(t, storage.saved, 1)
	assert.Equal(t, "NEW MERCHANT", storage.saved[0].Description)
}

func TestProcess_EmptyDocument(t *testing.T) {
	storage := newFakeStorage()
	p := newTestPipeline(t, storage)

	stats, err := p.Process(context.Background(), "user-1", &ingest.Document{
		Filename: "empty.csv",
		Source:   model.SourceCSV,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.ParsedCount)
	assert.Empty(t, storage.saved)
	assert.False(t, storage.committed)
}

func TestImportTransactions_Structured(t *testing.T) {
	storage := newFakeStorage()
	p := newTestPipeline(t, storage)

	account := &model.DetectedAccount{
		InstitutionName: "Chase",
		AccountType:     model.AccountTypeDepository,
		AccountSubtype:  "checking",
	}
	txns := []model.ParsedTransaction{
		{
			TransactionID: "plaid-1",
			Date:          time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			Description:   "PAYROLL ACME CORP",
			MerchantName:  "Acme Corp",
			CategoryHint:  "income",
			Amount:        2500.00,
			Source:        model.SourcePlaid,
		},
	}

	stats, err := p.ImportTransactions(context.Background(), "user-1", txns, account)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PersistedCount)

	result := storage.categoryResults["plaid-1"]
	assert.Equal(t, "income", result.Primary)
	assert.Equal(t, "salary", result.Detailed)

	typeResult := storage.typeResults["plaid-1"]
	assert.Equal(t, model.TypeIncome, typeResult.Type)
}

func TestMapColumns(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		usable  bool
	}{
		{name: "standard export", headers: []string{"Date", "Description", "Amount"}, usable: true},
		{name: "debit credit split", headers: []string{"Posted Date", "Memo", "Debit", "Credit"}, usable: true},
		{name: "no amount", headers: []string{"Date", "Description"}, usable: false},
		{name: "unrecognized", headers: []string{"A", "B", "C"}, usable: false},
		{name: "empty", headers: nil, usable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.usable, mapColumns(tt.headers).usable())
		})
	}
}
