package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ledgersift/ledgersift/internal/sheets"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication helpers",
	}
	cmd.AddCommand(authSheetsCmd())
	return cmd
}

func authSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets via OAuth2",
		Long: `Run the browser OAuth2 flow against Google and cache the resulting
token. Put the printed refresh token in the config file (or
GOOGLE_SHEETS_REFRESH_TOKEN) so exports can run non-interactively.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientID := viper.GetString("sheets.client_id")
			clientSecret := viper.GetString("sheets.client_secret")
			if clientID == "" || clientSecret == "" {
				return fmt.Errorf("sheets.client_id and sheets.client_secret must be configured")
			}

			token, err := sheets.GetOrCreateToken(cmd.Context(), sheets.OAuth2Config{
				ClientID:     clientID,
				ClientSecret: clientSecret,
				TokenFile:    sheets.DefaultTokenFile(),
			})
			if err != nil {
				return err
			}

			slog.Info("authenticated with Google Sheets",
				"refresh_token", token.RefreshToken,
				"expires", token.Expiry,
			)
			return nil
		},
	}
}
