package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/ledgersift/ledgersift/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testTxn(id string, date time.Time, amount float64, desc string) model.ParsedTransaction {
	txn := model.ParsedTransaction{
		TransactionID: id,
		Date:          date,
		Amount:        amount,
		Description:   desc,
		AccountID:     "acct-1",
		Source:        model.SourceCSV,
	}
	txn.Hash = txn.GenerateHash()
	return txn
}

func TestSQLiteStorage_SaveAndGetTransactions(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	txns := []model.ParsedTransaction{
		testTxn("tx-1", base, -50.25, "COFFEE SHOP"),
		testTxn("tx-2", base.AddDate(0, 0, 5), -120.00, "GROCERY STORE"),
		testTxn("tx-3", base.AddDate(0, 0, 60), 3200.00, "PAYROLL DEPOSIT"),
	}

	require.NoError(t, store.SaveTransactions(ctx, "user-1", txns))

	t.Run("get by ID", func(t *testing.T) {
		got, err := store.GetTransactionByID(ctx, "tx-1")
		require.NoError(t, err)
		assert.Equal(t, "COFFEE SHOP", got.Description)
		assert.InDelta(t, -50.25, got.Amount, 0.001)
		assert.Equal(t, model.SourceCSV, got.Source)
	})

	t.Run("unknown ID errors", func(t *testing.T) {
		_, err := store.GetTransactionByID(ctx, "tx-missing")
		assert.Error(t, err)
	})

	t.Run("window query excludes distant transactions", func(t *testing.T) {
		got, err := store.GetTransactionsInWindow(ctx, "user-1", base.AddDate(0, 0, -35), base.AddDate(0, 0, 35))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "tx-1", got[0].TransactionID)
		assert.Equal(t, "tx-2", got[1].TransactionID)
	})

	t.Run("window query scoped to user", func(t *testing.T) {
		got, err := store.GetTransactionsInWindow(ctx, "user-other", base.AddDate(0, 0, -35), base.AddDate(0, 0, 35))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("inverted window errors", func(t *testing.T) {
		_, err := store.GetTransactionsInWindow(ctx, "user-1", base, base.AddDate(0, 0, -1))
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("re-import of identical transactions is ignored", func(t *testing.T) {
		require.NoError(t, store.SaveTransactions(ctx, "user-1", txns))
		count, err := store.GetTransactionCount(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("filter by account and limit", func(t *testing.T) {
		got, err := store.GetTransactions(ctx, "user-1", service.TransactionFilter{AccountID: "acct-1", Limit: 2})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "tx-3", got[0].TransactionID, "newest first")
	})
}

func TestSQLiteStorage_Validation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	t.Run("empty user ID", func(t *testing.T) {
		err := store.SaveTransactions(ctx, "", []model.ParsedTransaction{testTxn("tx-1", time.Now(), 1, "X")})
		assert.ErrorIs(t, err, ErrEmptyString)
	})

	t.Run("empty batch", func(t *testing.T) {
		err := store.SaveTransactions(ctx, "user-1", []model.ParsedTransaction{})
		assert.ErrorIs(t, err, ErrEmptySlice)
	})

	t.Run("transaction without ID", func(t *testing.T) {
		bad := model.ParsedTransaction{Date: time.Now(), Description: "X"}
		err := store.SaveTransactions(ctx, "user-1", []model.ParsedTransaction{bad})
		assert.ErrorIs(t, err, ErrInvalidTransaction)
	})
}

func TestSQLiteStorage_ClassificationResults(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveTransactions(ctx, "user-1", []model.ParsedTransaction{
		testTxn("tx-1", base, -50, "COFFEE SHOP"),
		testTxn("tx-2", base, -120, "GROCERY STORE"),
	}))

	require.NoError(t, store.SaveCategoryResult(ctx, "tx-1", &model.CategoryResult{
		Primary: "dining", Detailed: "dining", Source: model.CategorySourceRule, Confidence: 0.9,
	}))
	require.NoError(t, store.SaveCategoryResult(ctx, "tx-2", &model.CategoryResult{
		Primary: "groceries", Detailed: "groceries", Source: model.CategorySourceRule, Confidence: 0.9,
	}))

	t.Run("summary groups by category", func(t *testing.T) {
		summary, err := store.GetCategorySummary(ctx, "user-1", base.AddDate(0, 0, -1), base.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.InDelta(t, -50, summary["dining"], 0.001)
		assert.InDelta(t, -120, summary["groceries"], 0.001)
	})

	t.Run("upsert replaces a category", func(t *testing.T) {
		require.NoError(t, store.SaveCategoryResult(ctx, "tx-1", &model.CategoryResult{
			Primary: "income", Detailed: "interest", Source: model.CategorySourceOverride, Confidence: 0.9, Overridden: true,
		}))
		summary, err := store.GetCategorySummary(ctx, "user-1", base.AddDate(0, 0, -1), base.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.NotContains(t, summary, "dining")
		assert.InDelta(t, -50, summary["income"], 0.001)
	})

	t.Run("type result roundtrip", func(t *testing.T) {
		require.NoError(t, store.SaveTypeResult(ctx, "tx-1", &model.TypeResult{
			Type: model.TypeExpense, Source: "amount_sign",
		}))
		require.NoError(t, store.SaveTypeResult(ctx, "tx-1", &model.TypeResult{
			Type: model.TypeIncome, Source: "category",
		}))
	})

	t.Run("invalid source rejected", func(t *testing.T) {
		err := store.SaveCategoryResult(ctx, "tx-1", &model.CategoryResult{
			Primary: "dining", Source: "GUESS", Confidence: 0.5,
		})
		assert.ErrorIs(t, err, ErrInvalidResult)
	})
}

func TestSQLiteStorage_DetectedAccounts(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	account := &model.DetectedAccount{
		InstitutionName:   "Chase",
		AccountHolderName: "John Doe",
		AccountNumber:     "3100",
		AccountType:       model.AccountTypeCredit,
		AccountSubtype:    "credit card",
		AccountName:       "Chase Credit Card ...3100",
	}

	id, err := store.SaveDetectedAccount(ctx, "user-1", account)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := store.GetDetectedAccounts(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, *account, got[0])

	t.Run("empty account rejected", func(t *testing.T) {
		_, err := store.SaveDetectedAccount(ctx, "user-1", &model.DetectedAccount{})
		assert.ErrorIs(t, err, ErrInvalidResult)
	})
}

func TestSQLiteStorage_Transactions(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	t.Run("commit persists", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.SaveTransactions(ctx, "user-1", []model.ParsedTransaction{
			testTxn("tx-c", base, -1, "COMMITTED"),
		}))
		require.NoError(t, tx.Commit())

		_, err = store.GetTransactionByID(ctx, "tx-c")
		assert.NoError(t, err)
	})

	t.Run("rollback discards", func(t *testing.T) {
		tx, err := store.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.SaveTransactions(ctx, "user-1", []model.ParsedTransaction{
			testTxn("tx-r", base, -1, "ROLLED BACK"),
		}))
		require.NoError(t, tx.Rollback())

		_, err = store.GetTransactionByID(ctx, "tx-r")
		assert.Error(t, err)
	})
}
