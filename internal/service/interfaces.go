// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/ledgersift/ledgersift/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	AccountID string
	Limit     int
	Offset    int
}

// TransactionLookup is the read-side collaborator the duplicate detector
// uses to fetch existing transactions near the dates of an import batch.
type TransactionLookup interface {
	GetTransactionsInWindow(ctx context.Context, userID string, start, end time.Time) ([]model.ParsedTransaction, error)
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	TransactionLookup

	// Transaction operations
	SaveTransactions(ctx context.Context, userID string, transactions []model.ParsedTransaction) error
	GetTransactionByID(ctx context.Context, transactionID string) (*model.ParsedTransaction, error)
	GetTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]model.ParsedTransaction, error)
	GetTransactionCount(ctx context.Context, userID string) (int, error)

	// Account operations
	SaveDetectedAccount(ctx context.Context, userID string, account *model.DetectedAccount) (int64, error)
	GetDetectedAccounts(ctx context.Context, userID string) ([]model.DetectedAccount, error)

	// Classification results
	SaveCategoryResult(ctx context.Context, transactionID string, result *model.CategoryResult) error
	SaveTypeResult(ctx context.Context, transactionID string, result *model.TypeResult) error
	GetCategoryResult(ctx context.Context, transactionID string) (*model.CategoryResult, error)
	GetTypeResult(ctx context.Context, transactionID string) (*model.TypeResult, error)
	GetCategorySummary(ctx context.Context, userID string, start, end time.Time) (map[string]float64, error)

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
	SaveTransactions(ctx context.Context, userID string, transactions []model.ParsedTransaction) error
	SaveCategoryResult(ctx context.Context, transactionID string, result *model.CategoryResult) error
	SaveTypeResult(ctx context.Context, transactionID string, result *model.TypeResult) error
}

// ScoreResult is the answer from an external category scorer.
type ScoreResult struct {
	Category   string
	Source     string
	Reason     string
	Confidence float64
}

// CategoryScorer is the optional ML-assisted category collaborator. Its
// absence or failure must never break classification.
type CategoryScorer interface {
	DetectCategory(ctx context.Context, primary, detailed, merchant, description string) (*ScoreResult, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// ImportStats shows the results of an import run.
type ImportStats struct {
	TotalLines     int
	ParsedCount    int
	DuplicateCount int
	SkippedCount   int
	PersistedCount int
	Duration       time.Duration
}
