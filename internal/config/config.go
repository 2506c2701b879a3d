// Package config loads application configuration through viper, layering
// the config file, SIFT_-prefixed environment variables, and compiled-in
// defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ledgersift/ledgersift/internal/dupdetect"
	"github.com/ledgersift/ledgersift/internal/pipeline"
	"github.com/ledgersift/ledgersift/internal/plaidconv"
	"github.com/ledgersift/ledgersift/internal/sheets"
)

// Init wires viper to the config file and environment. Called once from
// the root command before any subcommand runs.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(ExpandPath(cfgFile))
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to find home directory: %w", err)
		}
		viper.AddConfigPath(filepath.Join(home, ".config", "sift"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SIFT")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env cover it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("database.path", "~/.local/share/sift/sift.db")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("import.date_first", true)
	viper.SetDefault("import.inferred_year", 0)
	viper.SetDefault("duplicates.threshold", 0.85)
	viper.SetDefault("duplicates.window_days", 35)
	viper.SetDefault("sheets.spreadsheet_name", "Statement Report")
}

// DatabasePath returns the expanded sqlite database path.
func DatabasePath() string {
	return ExpandPath(viper.GetString("database.path"))
}

// LoadPipelineConfig builds the pipeline settings from viper.
func LoadPipelineConfig() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.DateFirst = viper.GetBool("import.date_first")
	if year := viper.GetInt("import.inferred_year"); year > 0 {
		cfg.InferredYear = year
	}
	return cfg
}

// LoadDuplicateConfig builds the duplicate-detector settings from viper,
// keeping the default weights and overriding only the tunable knobs.
func LoadDuplicateConfig() dupdetect.Config {
	cfg := dupdetect.DefaultConfig()
	if v := viper.GetFloat64("duplicates.threshold"); v > 0 {
		cfg.Threshold = v
	}
	if v := viper.GetInt("duplicates.window_days"); v > 0 {
		cfg.WindowDays = v
	}
	return cfg
}

// LoadPlaidConfig builds Plaid credentials from viper and environment
// variables. PLAID_* variables win over file values so secrets can stay
// out of the config file.
func LoadPlaidConfig() plaidconv.Config {
	cfg := plaidconv.Config{
		ClientID:    viper.GetString("plaid.client_id"),
		Secret:      viper.GetString("plaid.secret"),
		Environment: viper.GetString("plaid.environment"),
		AccessToken: viper.GetString("plaid.access_token"),
	}
	if v := os.Getenv("PLAID_CLIENT_ID"); v != "" {
		cfg.ClientID = v
	}
	if v := os.Getenv("PLAID_SECRET"); v != "" {
		cfg.Secret = v
	}
	if v := os.Getenv("PLAID_ENVIRONMENT"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("PLAID_ACCESS_TOKEN"); v != "" {
		cfg.AccessToken = v
	}
	if cfg.Environment == "" {
		cfg.Environment = "sandbox"
	}
	return cfg
}

// LoadSheetsConfig builds the Google Sheets export configuration,
// layering viper over GOOGLE_SHEETS_* environment variables.
func LoadSheetsConfig() (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	if v := viper.GetString("sheets.service_account_path"); v != "" {
		cfg.ServiceAccountPath = ExpandPath(v)
	}
	if v := viper.GetString("sheets.client_id"); v != "" {
		cfg.ClientID = v
	}
	if v := viper.GetString("sheets.client_secret"); v != "" {
		cfg.ClientSecret = v
	}
	if v := viper.GetString("sheets.refresh_token"); v != "" {
		cfg.RefreshToken = v
	}
	if v := viper.GetString("sheets.spreadsheet_id"); v != "" {
		cfg.SpreadsheetID = v
	}
	if v := viper.GetString("sheets.spreadsheet_name"); v != "" {
		cfg.SpreadsheetName = v
	}

	if cfg.ServiceAccountPath == "" {
		if v := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"); v != "" {
			cfg.ServiceAccountPath = ExpandPath(v)
		}
	}
	if cfg.ClientID == "" {
		cfg.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if cfg.RefreshToken == "" {
		cfg.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	if cfg.SpreadsheetID == "" {
		cfg.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
