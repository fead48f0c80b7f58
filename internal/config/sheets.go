package config

import (
	"os"

	"github.com/Veraticus/finanhome/internal/sheets"
	"github.com/spf13/viper"
)

// DefaultSheetsTokenFile is where the OAuth token from 'hana export sheets auth' is kept.
const DefaultSheetsTokenFile = "~/.config/hana/sheets-token.json"

// SheetsTokenFile returns the expanded OAuth token path.
func SheetsTokenFile(v *viper.Viper) string {
	return ExpandPath(firstNonEmpty(v.GetString("sheets.token_file"), DefaultSheetsTokenFile))
}

// LoadSheetsConfig loads Google Sheets configuration. Viper keys (config file or
// HANA_SHEETS_* env) win over the plain GOOGLE_SHEETS_* variables.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	config.ServiceAccountPath = ExpandPath(firstNonEmpty(
		v.GetString("sheets.service_account_path"), os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")))
	config.ClientID = firstNonEmpty(v.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
	config.ClientSecret = firstNonEmpty(v.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
	config.RefreshToken = firstNonEmpty(v.GetString("sheets.refresh_token"), os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN"))
	if config.RefreshToken == "" && config.ClientID != "" {
		if token, err := sheets.LoadToken(SheetsTokenFile(v)); err == nil {
			config.RefreshToken = token.RefreshToken
		}
	}
	config.SpreadsheetID = firstNonEmpty(v.GetString("sheets.spreadsheet_id"), os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"))
	config.SpreadsheetName = firstNonEmpty(
		v.GetString("sheets.spreadsheet_name"), os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"), sheets.DefaultSpreadsheetName)

	if tz := v.GetString("sheets.timezone"); tz != "" {
		config.TimeZone = tz
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return ""
}
