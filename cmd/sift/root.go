package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/ledgersift/ledgersift/internal/accountdetect"
	"github.com/ledgersift/ledgersift/internal/category"
	"github.com/ledgersift/ledgersift/internal/config"
	"github.com/ledgersift/ledgersift/internal/dupdetect"
	"github.com/ledgersift/ledgersift/internal/lineclass"
	"github.com/ledgersift/ledgersift/internal/pipeline"
	"github.com/ledgersift/ledgersift/internal/service"
	"github.com/ledgersift/ledgersift/internal/storage"
	"github.com/ledgersift/ledgersift/internal/txtype"
)

func currentUser() string {
	return viper.GetString("user")
}

// openStorage opens the sqlite database and brings the schema current.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// newPipeline assembles the import pipeline over the given storage. The
// duplicate detector is returned separately for the interactive review
// flow, which runs detection outside the pipeline.
func newPipeline(store service.Storage) (*pipeline.Pipeline, *dupdetect.Detector, error) {
	detector, err := dupdetect.New(config.LoadDuplicateConfig(), store)
	if err != nil {
		return nil, nil, err
	}

	p, err := pipeline.New(
		config.LoadPipelineConfig(),
		lineclass.New(lineclass.DefaultConfig()),
		accountdetect.New(accountdetect.DefaultConfig()),
		category.New(category.DefaultConfig(), nil),
		txtype.New(txtype.DefaultConfig()),
		detector,
		store,
	)
	if err != nil {
		return nil, nil, err
	}
	return p, detector, nil
}

// parseDateRange resolves a start/end pair from the named viper keys,
// falling back to the last defaultDays days.
func parseDateRange(prefix string, defaultDays int) (startDate, endDate time.Time, err error) {
	startStr := viper.GetString(prefix + ".start_date")
	endStr := viper.GetString(prefix + ".end_date")

	if startStr != "" && endStr != "" {
		startDate, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date format: %w", err)
		}
		endDate, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date format: %w", err)
		}
		return startDate, endDate, nil
	}

	days := viper.GetInt(prefix + ".days")
	if days <= 0 {
		days = defaultDays
	}
	endDate = time.Now()
	startDate = endDate.AddDate(0, 0, -days)
	return startDate, endDate, nil
}
