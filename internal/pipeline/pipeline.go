// Package pipeline composes the statement importers: file ingestion, line
// classification, account detection, categorization, type resolution,
// duplicate filtering, and persistence. The pipeline itself is thin; all
// decisions live in the component packages.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgersift/ledgersift/internal/accountdetect"
	"github.com/ledgersift/ledgersift/internal/category"
	"github.com/ledgersift/ledgersift/internal/common"
	"github.com/ledgersift/ledgersift/internal/dupdetect"
	"github.com/ledgersift/ledgersift/internal/ingest"
	"github.com/ledgersift/ledgersift/internal/lineclass"
	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/ledgersift/ledgersift/internal/service"
	"github.com/ledgersift/ledgersift/internal/txtype"
)

// Config holds the per-import settings the pipeline needs beyond its
// component configs.
type Config struct {
	// InferredYear completes dates like "11/09" that carry no year. Zero
	// means the current year.
	InferredYear int
	// DateFirst selects MM/DD (true) over DD/MM for ambiguous dates.
	DateFirst bool
}

// DefaultConfig returns the pipeline defaults for US statements.
func DefaultConfig() Config {
	return Config{DateFirst: true}
}

// Pipeline runs a statement document through every stage and persists the
// surviving transactions.
type Pipeline struct {
	classifier *lineclass.Classifier
	accounts   *accountdetect.Aggregator
	categories *category.Engine
	types      *txtype.Resolver
	duplicates *dupdetect.Detector
	storage    service.Storage
	cfg        Config
}

// New wires a pipeline. All collaborators are required; a missing one is
// a programming error and fails here rather than mid-import.
func New(
	cfg Config,
	classifier *lineclass.Classifier,
	accounts *accountdetect.Aggregator,
	categories *category.Engine,
	types *txtype.Resolver,
	duplicates *dupdetect.Detector,
	storage service.Storage,
) (*Pipeline, error) {
	if classifier == nil {
		return nil, fmt.Errorf("pipeline: %w: line classifier", common.ErrMissingConfig)
	}
	if accounts == nil {
		return nil, fmt.Errorf("pipeline: %w: account detector", common.ErrMissingConfig)
	}
	if categories == nil {
		return nil, fmt.Errorf("pipeline: %w: category engine", common.ErrMissingConfig)
	}
	if types == nil {
		return nil, fmt.Errorf("pipeline: %w: type resolver", common.ErrMissingConfig)
	}
	if duplicates == nil {
		return nil, fmt.Errorf("pipeline: %w: duplicate detector", common.ErrMissingConfig)
	}
	if storage == nil {
		return nil, fmt.Errorf("pipeline: %w: storage", common.ErrMissingConfig)
	}
	return &Pipeline{
		classifier: classifier,
		accounts:   accounts,
		categories: categories,
		types:      types,
		duplicates: duplicates,
		storage:    storage,
		cfg:        cfg,
	}, nil
}

// ImportFile reads one statement file and runs it through the pipeline.
func (p *Pipeline) ImportFile(ctx context.Context, userID, path string) (service.ImportStats, error) {
	doc, err := ingest.ReadFile(ctx, path)
	if err != nil {
		return service.ImportStats{}, err
	}
	return p.Process(ctx, userID, doc)
}

// Process classifies, deduplicates, and persists one ingested document.
func (p *Pipeline) Process(ctx context.Context, userID string, doc *ingest.Document) (service.ImportStats, error) {
	start := time.Now()
	stats := service.ImportStats{}

	account := p.detectAccount(doc)

	txns := p.extractTransactions(doc, &account, &stats)
	stats.ParsedCount = len(txns)

	if len(txns) == 0 {
		stats.Duration = time.Since(start)
		common.LogInfo("no transactions found in document", common.Fields{
			"filename": doc.Filename,
			"lines":    stats.TotalLines,
		})
		return stats, nil
	}

	kept := p.filterDuplicates(ctx, userID, txns, &stats)

	if err := p.persist(ctx, userID, kept, &account); err != nil {
		return stats, err
	}
	stats.PersistedCount = len(kept)
	stats.Duration = time.Since(start)

	common.LogInfo("import complete", common.Fields{
		"filename":   doc.Filename,
		"parsed":     stats.ParsedCount,
		"duplicates": stats.DuplicateCount,
		"skipped":    stats.SkippedCount,
		"persisted":  stats.PersistedCount,
	})
	return stats, nil
}

// ImportTransactions runs already-structured transactions (Plaid sync,
// OFX) through classification, dedup, and persistence without the
// line-extraction stages.
func (p *Pipeline) ImportTransactions(ctx context.Context, userID string, txns []model.ParsedTransaction, account *model.DetectedAccount) (service.ImportStats, error) {
	start := time.Now()
	stats := service.ImportStats{ParsedCount: len(txns)}

	if len(txns) == 0 {
		stats.Duration = time.Since(start)
		return stats, nil
	}

	kept := p.filterDuplicates(ctx, userID, txns, &stats)
	if err := p.persist(ctx, userID, kept, account); err != nil {
		return stats, err
	}
	stats.PersistedCount = len(kept)
	stats.Duration = time.Since(start)
	return stats, nil
}

// Extract parses a document into transactions without touching storage.
// Callers that want interactive duplicate review use this with
// SaveReviewed instead of Process.
func (p *Pipeline) Extract(doc *ingest.Document) ([]model.ParsedTransaction, model.DetectedAccount) {
	account := p.detectAccount(doc)
	var stats service.ImportStats
	txns := p.extractTransactions(doc, &account, &stats)
	return txns, account
}

// SaveReviewed persists transactions that already went through duplicate
// review, bypassing the automatic filter so user-kept duplicates survive.
func (p *Pipeline) SaveReviewed(ctx context.Context, userID string, txns []model.ParsedTransaction, account *model.DetectedAccount) (int, error) {
	if len(txns) == 0 {
		return 0, nil
	}
	if err := p.persist(ctx, userID, txns, account); err != nil {
		return 0, err
	}
	return len(txns), nil
}

// detectAccount picks the detection entry point that fits the document
// shape: free text for PDFs, tabular evidence for CSV/Excel, filename
// only for OFX.
func (p *Pipeline) detectAccount(doc *ingest.Document) model.DetectedAccount {
	switch {
	case len(doc.Lines) > 0:
		return p.accounts.DetectFromText(strings.Join(doc.Lines, "\n"), doc.Filename)
	case len(doc.Headers) > 0 || len(doc.Rows) > 0 || len(doc.Metadata) > 0:
		return p.accounts.DetectAccount(doc.Filename, doc.Headers, doc.Rows, doc.Metadata)
	default:
		return p.accounts.DetectAccount(doc.Filename, nil, nil, nil)
	}
}

// extractTransactions produces classified ParsedTransactions from
// whichever content shape the document carries.
func (p *Pipeline) extractTransactions(doc *ingest.Document, account *model.DetectedAccount, stats *service.ImportStats) []model.ParsedTransaction {
	var txns []model.ParsedTransaction

	switch {
	case len(doc.Transactions) > 0:
		// OFX already carries structured, correctly signed amounts.
		txns = doc.Transactions

	case len(doc.Rows) > 0:
		txns = p.extractFromRows(doc, account, stats)

	case len(doc.Lines) > 0:
		txns = p.extractFromLines(doc, account, stats)
	}

	return txns
}

// extractFromLines classifies PDF text lines in their original order;
// the classifier's heuristics assume sequential context.
func (p *Pipeline) extractFromLines(doc *ingest.Document, account *model.DetectedAccount, stats *service.ImportStats) []model.ParsedTransaction {
	year := p.inferredYear()
	var txns []model.ParsedTransaction

	for _, line := range doc.Lines {
		stats.TotalLines++
		match := p.classifier.Classify(line, year, p.cfg.DateFirst)
		if !match.Matched {
			continue
		}

		txn, ok := p.buildTransaction(match, account, doc.Source)
		if !ok {
			stats.SkippedCount++
			continue
		}
		txns = append(txns, txn)
	}
	return txns
}

// buildTransaction parses the raw matched substrings into a transaction,
// applying the credit-card sign reversal before classification.
func (p *Pipeline) buildTransaction(match model.MatchResult, account *model.DetectedAccount, source model.TransactionSource) (model.ParsedTransaction, bool) {
	amount, err := lineclass.ParseAmount(match.Amount)
	if err != nil {
		common.LogDebug("unparseable amount in matched line", common.Fields{
			"amount": match.Amount,
		})
		return model.ParsedTransaction{}, false
	}
	date, err := lineclass.ParseDate(match.Date, p.inferredYear(), p.cfg.DateFirst)
	if err != nil {
		common.LogDebug("unparseable date in matched line", common.Fields{
			"date": match.Date,
		})
		return model.ParsedTransaction{}, false
	}

	txn := model.ParsedTransaction{
		Date:          date,
		TransactionID: uuid.NewString(),
		AccountID:     account.AccountNumber,
		Description:   strings.TrimSpace(match.Description),
		Amount:        txtype.NormalizeStatementAmount(account, amount),
		Source:        source,
		Confidence:    match.Confidence,
	}
	txn.Hash = txn.GenerateHash()
	return txn, true
}

// filterDuplicates drops transactions the detector flags, keeping stats.
// A present-but-empty match list is the exact-ID skip signal.
func (p *Pipeline) filterDuplicates(ctx context.Context, userID string, txns []model.ParsedTransaction, stats *service.ImportStats) []model.ParsedTransaction {
	matches := p.duplicates.DetectDuplicates(ctx, userID, txns)

	kept := make([]model.ParsedTransaction, 0, len(txns))
	for i, txn := range txns {
		if matchList, flagged := matches[i]; flagged {
			if len(matchList) == 0 {
				stats.SkippedCount++
			} else {
				stats.DuplicateCount++
			}
			continue
		}
		kept = append(kept, txn)
	}
	return kept
}

// persist writes the surviving transactions and their classification
// results in one storage transaction.
func (p *Pipeline) persist(ctx context.Context, userID string, txns []model.ParsedTransaction, account *model.DetectedAccount) error {
	if account != nil && *account != (model.DetectedAccount{}) {
		if _, err := p.storage.SaveDetectedAccount(ctx, userID, account); err != nil {
			common.LogError(err, "failed to save detected account", common.Fields{
				"user_id": userID,
			})
		}
	}

	if len(txns) == 0 {
		return nil
	}

	tx, err := p.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.SaveTransactions(ctx, userID, txns); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	for i := range txns {
		txn := &txns[i]
		result := p.categories.Classify(ctx, category.Input{
			PrimaryHint:          txn.CategoryHint,
			DetailedHint:         txn.DetailedHint,
			Account:              account,
			MerchantName:         txn.MerchantName,
			Description:          txn.Description,
			Amount:               txn.Amount,
			PaymentChannel:       txn.PaymentChannel,
			DebitCreditIndicator: txn.DebitCreditIndicator,
			Source:               txn.Source,
		})
		if err := tx.SaveCategoryResult(ctx, txn.TransactionID, &result); err != nil {
			return fmt.Errorf("failed to save category result: %w", err)
		}

		typeResult := p.types.Resolve(txtype.Input{
			Account:              account,
			CategoryPrimary:      result.Primary,
			CategoryDetailed:     result.Detailed,
			Amount:               txn.Amount,
			PaymentChannel:       txn.PaymentChannel,
			Description:          txn.Description,
			DebitCreditIndicator: txn.DebitCreditIndicator,
		})
		if typeResult != nil {
			if err := tx.SaveTypeResult(ctx, txn.TransactionID, typeResult); err != nil {
				return fmt.Errorf("failed to save type result: %w", err)
			}
		}
	}

	return tx.Commit()
}

func (p *Pipeline) inferredYear() int {
	if p.cfg.InferredYear != 0 {
		return p.cfg.InferredYear
	}
	return time.Now().Year()
}
