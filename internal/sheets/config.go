// Package sheets exports the dashboard and the ledger to a Google Sheets spreadsheet.
package sheets

import (
	"fmt"
	"time"
	_ "time/tzdata" // Validate checks the zone on hosts without zoneinfo

	"github.com/Veraticus/finanhome/internal/common"
)

// DefaultSpreadsheetName is used when creating a spreadsheet without a configured name.
const DefaultSpreadsheetName = "Hana Finance"

// Config holds the credentials and knobs of the Sheets writer. Exactly one
// of the OAuth triple (ClientID, ClientSecret, RefreshToken) or
// ServiceAccountPath must be set.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	Locale             string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultConfig returns a Config for a Brazilian spreadsheet with no credentials.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName:  DefaultSpreadsheetName,
		TimeZone:         "America/Sao_Paulo",
		Locale:           "pt_BR",
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
		EnableFormatting: true,
	}
}

func (c *Config) hasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

func (c *Config) hasServiceAccount() bool {
	return c.ServiceAccountPath != ""
}

// Validate reports missing credentials as common.ErrMissingConfig and every
// other problem as common.ErrInvalidConfig.
func (c *Config) Validate() error {
	switch oauth, sa := c.hasOAuth(), c.hasServiceAccount(); {
	case !oauth && !sa:
		return fmt.Errorf("%w: no Google Sheets authentication method configured", common.ErrMissingConfig)
	case oauth && sa:
		return fmt.Errorf("%w: multiple authentication methods configured; use either OAuth2 or service account",
			common.ErrInvalidConfig)
	}

	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive", common.ErrInvalidConfig)
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig)
	}
	if c.TimeZone != "" {
		if _, err := time.LoadLocation(c.TimeZone); err != nil {
			return fmt.Errorf("%w: time zone %q", common.ErrInvalidConfig, c.TimeZone)
		}
	}

	return nil
}
