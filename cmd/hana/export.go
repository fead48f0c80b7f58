package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/finanhome/internal/cli"
	"github.com/Veraticus/finanhome/internal/common"
	"github.com/Veraticus/finanhome/internal/config"
	"github.com/Veraticus/finanhome/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newExporter is replaced in tests.
var newExporter = func(ctx context.Context, cfg sheets.Config) (sheets.Exporter, error) {
	return sheets.NewWriter(ctx, cfg, slog.Default())
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the dashboard to other tools",
	}

	sheetsCmd := &cobra.Command{
		Use:   "sheets",
		Short: "Export the dashboard and transactions to Google Sheets",
		Long: `Write a Summary tab (results, goal, milestones, profit buckets, debts)
and a Transactions tab to a Google spreadsheet.

Credentials come from sheets.* config keys or GOOGLE_SHEETS_* variables:
either a service account file, or an OAuth client id and secret together
with a refresh token. Run 'hana export sheets auth' once to obtain and
save the refresh token.`,
		Args: cobra.NoArgs,
		RunE: runExportSheets,
	}
	sheetsCmd.AddCommand(exportSheetsAuthCmd())

	cmd.AddCommand(sheetsCmd)
	return cmd
}

func runExportSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return common.NewUserError("Google Sheets is not configured. See 'hana export sheets --help'.", err)
	}

	s, err := openUnlockedSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	exporter, err := newExporter(ctx, *cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to Google Sheets: %w", err)
	}

	report := sheets.Report{
		GeneratedAt:  time.Now(),
		Dashboard:    s.store.Dashboard(),
		Transactions: s.store.Snapshot().Transactions,
	}

	spreadsheetID, err := exporter.Export(ctx, report)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("✓ Exported %d transactions", len(report.Transactions))))
	fmt.Fprintln(out, spreadsheetURL(spreadsheetID))
	return nil
}

func spreadsheetURL(id string) string {
	return "https://docs.google.com/spreadsheets/d/" + id
}

func exportSheetsAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize hana to write to your Google Sheets",
		Long: `Run the OAuth consent flow in your browser and save the resulting token.

Needs sheets.client_id and sheets.client_secret (or GOOGLE_SHEETS_CLIENT_ID
and GOOGLE_SHEETS_CLIENT_SECRET) from a Google Cloud OAuth client of type
"Desktop app".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.GetViper()
			addr, _ := cmd.Flags().GetString("callback-addr")

			oauthCfg := sheets.OAuth2Config{
				ClientID:     firstSet(v.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID")),
				ClientSecret: firstSet(v.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")),
				TokenFile:    config.SheetsTokenFile(v),
				CallbackAddr: addr,
			}
			if oauthCfg.ClientID == "" || oauthCfg.ClientSecret == "" {
				return common.NewUserError("Set sheets.client_id and sheets.client_secret first.", common.ErrMissingConfig)
			}

			out := cmd.OutOrStdout()
			token, err := sheets.AuthenticateOAuth2Interactive(cmd.Context(), oauthCfg, func(url string) {
				fmt.Fprintln(out, cli.FormatInfo("Open this URL in your browser to authorize:"))
				fmt.Fprintln(out, url)
			})
			if err != nil {
				return fmt.Errorf("authorization failed: %w", err)
			}

			fmt.Fprintln(out, cli.FormatSuccess("✓ Authorized. Token saved to "+oauthCfg.TokenFile))
			if token.RefreshToken == "" {
				fmt.Fprintln(out, cli.FormatWarning("Google did not return a refresh token; revoke access and try again."))
			}
			return nil
		},
	}

	cmd.Flags().String("callback-addr", sheets.DefaultCallbackAddr, "address for the local OAuth callback")
	return cmd
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
