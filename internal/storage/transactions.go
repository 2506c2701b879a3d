package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/ledgersift/ledgersift/internal/service"
)

const transactionColumns = `id, user_id, date, description, merchant_name, amount,
	account_id, plaid_transaction_id, payment_channel, debit_credit, source,
	category_hint, detailed_hint, hash, confidence`

// SaveTransactions saves multiple transactions to the database. Duplicate
// hashes are ignored so re-importing the same statement is harmless.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, userID string, transactions []model.ParsedTransaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveTransactionsTx(ctx, tx, userID, transactions); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) saveTransactionsTx(ctx context.Context, tx *sql.Tx, userID string, transactions []model.ParsedTransaction) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, user_id, date, description, merchant_name, amount,
			account_id, plaid_transaction_id, payment_channel, debit_credit,
			source, category_hint, detailed_hint, hash, confidence
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}

		_, err = stmt.ExecContext(ctx,
			txn.TransactionID,
			userID,
			txn.Date,
			txn.Description,
			txn.MerchantName,
			txn.Amount,
			txn.AccountID,
			txn.PlaidTransactionID,
			txn.PaymentChannel,
			txn.DebitCreditIndicator,
			string(txn.Source),
			txn.CategoryHint,
			txn.DetailedHint,
			txn.Hash,
			txn.Confidence,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
		}
	}

	return nil
}

// GetTransactionsInWindow retrieves a user's transactions within a date
// range, ordered by date. This is the duplicate detector's candidate
// query.
func (s *SQLiteStorage) GetTransactionsInWindow(ctx context.Context, userID string, start, end time.Time) ([]model.ParsedTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %v after %v", ErrInvalidDateRange, start, end)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM transactions
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date, id
	`, transactionColumns)

	rows, err := s.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions in window: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// GetTransactionByID retrieves a single transaction.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, transactionID string) (*model.ParsedTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE id = ?`, transactionColumns)
	row := s.db.QueryRowContext(ctx, query, transactionID)

	txn, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %s: not found", transactionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// GetTransactions retrieves a user's transactions with optional filters,
// newest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, userID string, filter service.TransactionFilter) ([]model.ParsedTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var conditions []string
	args := []any{userID}
	conditions = append(conditions, "user_id = ?")

	if filter.StartDate != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, *filter.EndDate)
	}
	if filter.AccountID != "" {
		conditions = append(conditions, "account_id = ?")
		args = append(args, filter.AccountID)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM transactions
		WHERE %s
		ORDER BY date DESC, id
	`, transactionColumns, strings.Join(conditions, " AND "))

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// GetTransactionCount returns the number of stored transactions for a
// user.
func (s *SQLiteStorage) GetTransactionCount(ctx context.Context, userID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE user_id = ?", userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// GetCategorySummary sums amounts per primary category for a user within
// a date range.
func (s *SQLiteStorage) GetCategorySummary(ctx context.Context, userID string, start, end time.Time) (map[string]float64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %v after %v", ErrInvalidDateRange, start, end)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT cr.primary_category, SUM(t.amount)
		FROM transactions t
		JOIN category_results cr ON cr.transaction_id = t.id
		WHERE t.user_id = ? AND t.date >= ? AND t.date <= ?
		GROUP BY cr.primary_category
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query category summary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summary := make(map[string]float64)
	for rows.Next() {
		var category string
		var total float64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("failed to scan category summary row: %w", err)
		}
		summary[category] = total
	}
	return summary, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.ParsedTransaction, error) {
	var txn model.ParsedTransaction
	var userID, source string
	var merchantName, accountID, plaidID, channel, debitCredit sql.NullString
	var categoryHint, detailedHint, hash sql.NullString

	err := row.Scan(
		&txn.TransactionID,
		&userID,
		&txn.Date,
		&txn.Description,
		&merchantName,
		&txn.Amount,
		&accountID,
		&plaidID,
		&channel,
		&debitCredit,
		&source,
		&categoryHint,
		&detailedHint,
		&hash,
		&txn.Confidence,
	)
	if err != nil {
		return nil, err
	}

	txn.MerchantName = merchantName.String
	txn.AccountID = accountID.String
	txn.PlaidTransactionID = plaidID.String
	txn.PaymentChannel = channel.String
	txn.DebitCreditIndicator = debitCredit.String
	txn.CategoryHint = categoryHint.String
	txn.DetailedHint = detailedHint.String
	txn.Hash = hash.String
	txn.Source = model.TransactionSource(source)
	return &txn, nil
}

func scanTransactions(rows *sql.Rows) ([]model.ParsedTransaction, error) {
	var transactions []model.ParsedTransaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	return transactions, rows.Err()
}
