package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ledgersift/ledgersift/internal/config"
	"github.com/ledgersift/ledgersift/internal/plaidconv"
	"github.com/ledgersift/ledgersift/internal/service"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import statement files or Plaid transactions",
		Long: `Import financial transactions into the local database.

With file arguments, each statement file (PDF, CSV, Excel, OFX/QFX) is
parsed, classified, and deduplicated. With --plaid, transactions are
fetched from the connected Plaid accounts instead.`,
		RunE: runImport,
	}

	cmd.Flags().Bool("plaid", false, "import from Plaid instead of files")
	cmd.Flags().Bool("list-accounts", false, "list Plaid accounts without importing")
	cmd.Flags().StringP("start-date", "s", "", "start date for Plaid import (format: 2006-01-02)")
	cmd.Flags().StringP("end-date", "e", "", "end date for Plaid import (format: 2006-01-02)")
	cmd.Flags().IntP("days", "d", 30, "number of days to import when no explicit dates given")
	cmd.Flags().Int("year", 0, "year for statement dates that omit one (default: current year)")

	_ = viper.BindPFlag("import.plaid", cmd.Flags().Lookup("plaid"))
	_ = viper.BindPFlag("import.list_accounts", cmd.Flags().Lookup("list-accounts"))
	_ = viper.BindPFlag("import.start_date", cmd.Flags().Lookup("start-date"))
	_ = viper.BindPFlag("import.end_date", cmd.Flags().Lookup("end-date"))
	_ = viper.BindPFlag("import.days", cmd.Flags().Lookup("days"))
	_ = viper.BindPFlag("import.inferred_year", cmd.Flags().Lookup("year"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if viper.GetBool("import.plaid") || viper.GetBool("import.list_accounts") {
		return runPlaidImport(ctx)
	}

	if len(args) == 0 {
		return fmt.Errorf("no statement files given (or use --plaid)")
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	p, _, err := newPipeline(store)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(args),
		progressbar.OptionSetDescription("importing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var total service.ImportStats
	for _, path := range args {
		stats, err := p.ImportFile(ctx, currentUser(), path)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", path, err)
		}
		total.TotalLines += stats.TotalLines
		total.ParsedCount += stats.ParsedCount
		total.DuplicateCount += stats.DuplicateCount
		total.SkippedCount += stats.SkippedCount
		total.PersistedCount += stats.PersistedCount
		_ = bar.Add(1)
	}

	slog.Info("import finished",
		"files", len(args),
		"parsed", total.ParsedCount,
		"duplicates", total.DuplicateCount,
		"skipped", total.SkippedCount,
		"persisted", total.PersistedCount,
	)
	return nil
}

func runPlaidImport(ctx context.Context) error {
	client, err := plaidconv.NewClient(config.LoadPlaidConfig())
	if err != nil {
		return fmt.Errorf("failed to create Plaid client: %w", err)
	}

	if viper.GetBool("import.list_accounts") {
		accounts, err := client.GetAccounts(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch accounts: %w", err)
		}
		for i, accountID := range accounts {
			slog.Info("account", "index", i+1, "id", accountID)
		}
		if len(accounts) == 0 {
			slog.Info("no accounts found")
		}
		return nil
	}

	startDate, endDate, err := parseDateRange("import", 30)
	if err != nil {
		return err
	}
	slog.Info("fetching Plaid transactions",
		"start", startDate.Format("2006-01-02"),
		"end", endDate.Format("2006-01-02"),
	)

	transactions, err := client.GetTransactions(ctx, startDate, endDate)
	if err != nil {
		return fmt.Errorf("failed to fetch transactions: %w", err)
	}
	slog.Info("fetched transactions", "count", len(transactions))

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	p, _, err := newPipeline(store)
	if err != nil {
		return err
	}

	stats, err := p.ImportTransactions(ctx, currentUser(), transactions, nil)
	if err != nil {
		return fmt.Errorf("failed to import transactions: %w", err)
	}
	slog.Info("Plaid import finished",
		"parsed", stats.ParsedCount,
		"duplicates", stats.DuplicateCount,
		"skipped", stats.SkippedCount,
		"persisted", stats.PersistedCount,
	)
	return nil
}
