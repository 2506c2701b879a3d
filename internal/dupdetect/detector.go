// Package dupdetect flags newly imported transactions that likely already
// exist. A weighted similarity score compares each new transaction against
// stored ones in a date window; exact ID matches are reported as a
// distinct "skip" signal rather than a near-duplicate.
package dupdetect

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ledgersift/ledgersift/internal/common"
	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/ledgersift/ledgersift/internal/service"
)

// Detector finds likely duplicates for an import batch.
type Detector struct {
	scorer *SimilarityScorer
	lookup service.TransactionLookup
	window time.Duration
}

// New creates a detector. The lookup collaborator is required; passing nil
// is a wiring error.
func New(cfg Config, lookup service.TransactionLookup) (*Detector, error) {
	if lookup == nil {
		return nil, fmt.Errorf("dupdetect: %w: transaction lookup", common.ErrMissingConfig)
	}
	return &Detector{
		scorer: NewScorer(cfg),
		lookup: lookup,
		window: time.Duration(cfg.WindowDays) * 24 * time.Hour,
	}, nil
}

// DetectDuplicates maps each new transaction's index to its likely
// duplicates, sorted by similarity descending. Three distinct outcomes per
// index:
//   - key absent: no duplicates found, import normally;
//   - key present with an empty list: exact ID match, skip silently;
//   - key present with matches: surface for review.
//
// A failed lookup is logged and treated as "no candidates"; the method
// never fails.
func (d *Detector) DetectDuplicates(ctx context.Context, userID string, newTxns []model.ParsedTransaction) map[int][]model.DuplicateMatch {
	result := make(map[int][]model.DuplicateMatch)
	if len(newTxns) == 0 {
		return result
	}

	start, end := batchWindow(newTxns, d.window)
	existing, err := d.lookup.GetTransactionsInWindow(ctx, userID, start, end)
	if err != nil {
		common.LogError(err, "duplicate candidate lookup failed, importing without dedup", common.Fields{
			"user_id": userID,
			"count":   len(newTxns),
		})
		return result
	}
	if len(existing) == 0 {
		return result
	}

	for i, txn := range newTxns {
		if hasExactIDMatch(txn, existing) {
			result[i] = []model.DuplicateMatch{}
			continue
		}

		var matches []model.DuplicateMatch
		for _, ex := range existing {
			if !withinWindow(txn.Date, ex.Date, d.window) {
				continue
			}
			score := d.scorer.Score(txn, ex)
			if score >= d.scorer.Threshold() {
				matches = append(matches, model.DuplicateMatch{
					ExistingTransactionID: ex.TransactionID,
					Similarity:            score,
				})
			}
		}
		if len(matches) == 0 {
			continue
		}

		sort.SliceStable(matches, func(a, b int) bool {
			if matches[a].Similarity != matches[b].Similarity {
				return matches[a].Similarity > matches[b].Similarity
			}
			return matches[a].ExistingTransactionID < matches[b].ExistingTransactionID
		})
		result[i] = matches
	}

	return result
}

// hasExactIDMatch reports whether the new transaction shares a transaction
// ID or provider ID with a stored one.
func hasExactIDMatch(txn model.ParsedTransaction, existing []model.ParsedTransaction) bool {
	for _, ex := range existing {
		if txn.TransactionID != "" && txn.TransactionID == ex.TransactionID {
			return true
		}
		if txn.PlaidTransactionID != "" && txn.PlaidTransactionID == ex.PlaidTransactionID {
			return true
		}
	}
	return false
}

// batchWindow spans the batch's date range widened by the search window on
// both sides, so one lookup covers every transaction in the batch.
func batchWindow(txns []model.ParsedTransaction, window time.Duration) (time.Time, time.Time) {
	earliest, latest := txns[0].Date, txns[0].Date
	for _, txn := range txns[1:] {
		if txn.Date.Before(earliest) {
			earliest = txn.Date
		}
		if txn.Date.After(latest) {
			latest = txn.Date
		}
	}
	return earliest.Add(-window), latest.Add(window)
}

func withinWindow(a, b time.Time, window time.Duration) bool {
	gap := a.Sub(b)
	if gap < 0 {
		gap = -gap
	}
	return gap <= window
}
