package main

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledgersift/ledgersift/internal/accountdetect"
	"github.com/ledgersift/ledgersift/internal/ingest"
	"github.com/ledgersift/ledgersift/internal/model"
)

func detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [file]",
		Short: "Detect the account described by a statement file",
		Long: `Parse a statement file and report the detected institution, account
holder, account number, and account type without importing anything.`,
		Args: cobra.ExactArgs(1),
		RunE: runDetect,
	}
}

func runDetect(cmd *cobra.Command, args []string) error {
	doc, err := ingest.ReadFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	aggregator := accountdetect.New(accountdetect.DefaultConfig())

	var account model.DetectedAccount
	switch {
	case len(doc.Lines) > 0:
		account = aggregator.DetectFromText(strings.Join(doc.Lines, "\n"), doc.Filename)
	default:
		account = aggregator.DetectAccount(doc.Filename, doc.Headers, doc.Rows, doc.Metadata)
	}

	slog.Info("detected account",
		"file", args[0],
		"institution", account.InstitutionName,
		"holder", account.AccountHolderName,
		"account_number", account.AccountNumber,
		"card_number", account.CardNumber,
		"type", account.AccountType,
		"subtype", account.AccountSubtype,
		"name", account.AccountName,
	)
	return nil
}
