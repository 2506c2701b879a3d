package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ledgersift/ledgersift/internal/model"
)

// SaveCategoryResult upserts the category assigned to a transaction.
func (s *SQLiteStorage) SaveCategoryResult(ctx context.Context, transactionID string, result *model.CategoryResult) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return err
	}
	if err := validateCategoryResult(result); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveCategoryResultTx(ctx, tx, transactionID, result); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStorage) saveCategoryResultTx(ctx context.Context, tx *sql.Tx, transactionID string, result *model.CategoryResult) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO category_results (
			transaction_id, primary_category, detailed_category,
			source, confidence, overridden
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(transaction_id) DO UPDATE SET
			primary_category = excluded.primary_category,
			detailed_category = excluded.detailed_category,
			source = excluded.source,
			confidence = excluded.confidence,
			overridden = excluded.overridden,
			classified_at = CURRENT_TIMESTAMP
	`,
		transactionID,
		result.Primary,
		result.Detailed,
		string(result.Source),
		result.Confidence,
		result.Overridden,
	)
	if err != nil {
		return fmt.Errorf("failed to save category result for %s: %w", transactionID, err)
	}
	return nil
}

// SaveTypeResult upserts the economic type assigned to a transaction.
func (s *SQLiteStorage) SaveTypeResult(ctx context.Context, transactionID string, result *model.TypeResult) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return err
	}
	if err := validateTypeResult(result); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveTypeResultTx(ctx, tx, transactionID, result); err != nil {
		return err
	}
	return tx.Commit()
}

// GetCategoryResult fetches the stored category for a transaction, or
// nil when the transaction was never categorized.
func (s *SQLiteStorage) GetCategoryResult(ctx context.Context, transactionID string) (*model.CategoryResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT primary_category, detailed_category, source, confidence, overridden
		FROM category_results WHERE transaction_id = ?
	`, transactionID)

	var result model.CategoryResult
	var source string
	err := row.Scan(&result.Primary, &result.Detailed, &source, &result.Confidence, &result.Overridden)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category result for %s: %w", transactionID, err)
	}
	result.Source = model.CategorySource(source)
	return &result, nil
}

// GetTypeResult fetches the stored economic type for a transaction, or
// nil when no type could be resolved.
func (s *SQLiteStorage) GetTypeResult(ctx context.Context, transactionID string) (*model.TypeResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT transaction_type, source FROM type_results WHERE transaction_id = ?
	`, transactionID)

	var result model.TypeResult
	var txType string
	err := row.Scan(&txType, &result.Source)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get type result for %s: %w", transactionID, err)
	}
	result.Type = model.TransactionType(txType)
	return &result, nil
}

func (s *SQLiteStorage) saveTypeResultTx(ctx context.Context, tx *sql.Tx, transactionID string, result *model.TypeResult) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO type_results (transaction_id, transaction_type, source)
		VALUES (?, ?, ?)
		ON CONFLICT(transaction_id) DO UPDATE SET
			transaction_type = excluded.transaction_type,
			source = excluded.source,
			resolved_at = CURRENT_TIMESTAMP
	`,
		transactionID,
		string(result.Type),
		result.Source,
	)
	if err != nil {
		return fmt.Errorf("failed to save type result for %s: %w", transactionID, err)
	}
	return nil
}
