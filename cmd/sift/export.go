package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ledgersift/ledgersift/internal/config"
	"github.com/ledgersift/ledgersift/internal/service"
	"github.com/ledgersift/ledgersift/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export classified transactions to Google Sheets",
		Long: `Export stored transactions with their categories and economic types to
a Google Sheets spreadsheet, including a per-category breakdown.`,
		RunE: runExport,
	}

	cmd.Flags().StringP("start-date", "s", "", "start date for export (format: 2006-01-02)")
	cmd.Flags().StringP("end-date", "e", "", "end date for export (format: 2006-01-02)")
	cmd.Flags().IntP("days", "d", 90, "number of days to export when no explicit dates given")

	_ = viper.BindPFlag("export.start_date", cmd.Flags().Lookup("start-date"))
	_ = viper.BindPFlag("export.end_date", cmd.Flags().Lookup("end-date"))
	_ = viper.BindPFlag("export.days", cmd.Flags().Lookup("days"))

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	startDate, endDate, err := parseDateRange("export", 90)
	if err != nil {
		return err
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	transactions, err := store.GetTransactions(ctx, currentUser(), service.TransactionFilter{
		StartDate: &startDate,
		EndDate:   &endDate,
	})
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(transactions) == 0 {
		slog.Info("nothing to export",
			"start", startDate.Format("2006-01-02"),
			"end", endDate.Format("2006-01-02"),
		)
		return nil
	}

	byCategory, err := store.GetCategorySummary(ctx, currentUser(), startDate, endDate)
	if err != nil {
		return fmt.Errorf("failed to load category summary: %w", err)
	}

	classified := make([]sheets.ClassifiedTransaction, 0, len(transactions))
	for _, txn := range transactions {
		categoryResult, err := store.GetCategoryResult(ctx, txn.TransactionID)
		if err != nil {
			return err
		}
		typeResult, err := store.GetTypeResult(ctx, txn.TransactionID)
		if err != nil {
			return err
		}

		ct := sheets.ClassifiedTransaction{Transaction: txn, Type: typeResult}
		if categoryResult != nil {
			ct.Category = *categoryResult
		}
		classified = append(classified, ct)
	}

	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return err
	}

	writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
	if err != nil {
		return err
	}

	report := &sheets.Report{
		DateRange:    sheets.DateRange{Start: startDate, End: endDate},
		Transactions: classified,
		ByCategory:   byCategory,
	}
	if err := writer.Write(ctx, report); err != nil {
		return err
	}

	slog.Info("export complete", "transactions", len(classified))
	return nil
}
