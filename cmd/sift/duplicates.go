package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ledgersift/ledgersift/internal/ingest"
	"github.com/ledgersift/ledgersift/internal/model"
	"github.com/ledgersift/ledgersift/internal/tui"
)

func duplicatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicates [file]",
		Short: "Review possible duplicates interactively before importing",
		Long: `Parse a statement file, flag transactions that look like duplicates of
already-stored ones, and review them interactively. Unflagged
transactions import automatically; exact source-ID duplicates are
always skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: runDuplicates,
	}
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	p, detector, err := newPipeline(store)
	if err != nil {
		return err
	}

	doc, err := ingest.ReadFile(ctx, args[0])
	if err != nil {
		return err
	}

	txns, account := p.Extract(doc)
	if len(txns) == 0 {
		slog.Info("no transactions found", "file", args[0])
		return nil
	}

	matches := detector.DetectDuplicates(ctx, currentUser(), txns)

	var keep []model.ParsedTransaction
	var items []tui.ReviewItem
	var flagged []int
	exactSkips := 0
	for i := range txns {
		candidates, hit := matches[i]
		switch {
		case !hit:
			keep = append(keep, txns[i])
		case len(candidates) == 0:
			// Same source transaction ID already stored.
			exactSkips++
		default:
			items = append(items, tui.ReviewItem{Transaction: txns[i], Matches: candidates})
			flagged = append(flagged, i)
		}
	}

	decisions, err := tui.RunReview(items)
	if err != nil {
		return err
	}

	keptDuplicates := 0
	for j, decision := range decisions {
		if decision == tui.DecisionKeep {
			keep = append(keep, txns[flagged[j]])
			keptDuplicates++
		}
	}

	persisted, err := p.SaveReviewed(ctx, currentUser(), keep, &account)
	if err != nil {
		return err
	}

	slog.Info("duplicate review complete",
		"file", args[0],
		"persisted", persisted,
		"kept_duplicates", keptDuplicates,
		"skipped", len(items)-keptDuplicates+exactSkips,
	)
	return nil
}
