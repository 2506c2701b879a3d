// Package storage provides the data persistence layer for statement
// imports and their classification results.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledgersift/ledgersift/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidResult      = errors.New("invalid classification result")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.ParsedTransaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i, txn := range transactions {
		if err := validateTransaction(&txn); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.ParsedTransaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.TransactionID == "" {
		return fmt.Errorf("%w: missing transaction ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if txn.Description == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidTransaction)
	}
	return nil
}

// validateCategoryResult validates a category result before persistence.
func validateCategoryResult(result *model.CategoryResult) error {
	if result == nil {
		return fmt.Errorf("%w: category result", ErrNilParameter)
	}
	if strings.TrimSpace(result.Primary) == "" {
		return fmt.Errorf("%w: missing primary category", ErrInvalidResult)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidResult)
	}

	switch result.Source {
	case model.CategorySourceRule,
		model.CategorySourceML,
		model.CategorySourceOverride,
		model.CategorySourceDefault:
		// Valid source
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidResult, result.Source)
	}
	return nil
}

// validateTypeResult validates a type result before persistence.
func validateTypeResult(result *model.TypeResult) error {
	if result == nil {
		return fmt.Errorf("%w: type result", ErrNilParameter)
	}

	switch result.Type {
	case model.TypeIncome, model.TypeExpense, model.TypeInvestment, model.TypeLoan:
		// Valid type
	default:
		return fmt.Errorf("%w: unknown transaction type %q", ErrInvalidResult, result.Type)
	}
	return nil
}

// validateAccount validates a detected account before persistence. All
// fields are individually optional but a fully empty account is a bug in
// the caller.
func validateAccount(account *model.DetectedAccount) error {
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if *account == (model.DetectedAccount{}) {
		return fmt.Errorf("%w: account has no evidence", ErrInvalidResult)
	}
	return nil
}
