package sheets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/finanhome/internal/common"
	"github.com/Veraticus/finanhome/internal/engine"
	"github.com/Veraticus/finanhome/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

func TestConfig_Validate(t *testing.T) {
	valid := func(mutate func(*Config)) Config {
		c := DefaultConfig()
		c.ServiceAccountPath = "/path/to/key.json"
		mutate(&c)
		return c
	}

	tests := []struct {
		name    string
		wantErr error
		config  Config
	}{
		{
			name:   "service account",
			config: valid(func(*Config) {}),
		},
		{
			name: "oauth",
			config: valid(func(c *Config) {
				c.ServiceAccountPath = ""
				c.ClientID, c.ClientSecret, c.RefreshToken = "id", "secret", "refresh"
			}),
		},
		{
			name:    "missing auth",
			config:  valid(func(c *Config) { c.ServiceAccountPath = "" }),
			wantErr: common.ErrMissingConfig,
		},
		{
			name: "oauth without refresh token",
			config: valid(func(c *Config) {
				c.ServiceAccountPath = ""
				c.ClientID, c.ClientSecret = "id", "secret"
			}),
			wantErr: common.ErrMissingConfig,
		},
		{
			name: "both auth methods",
			config: valid(func(c *Config) {
				c.ClientID, c.ClientSecret, c.RefreshToken = "id", "secret", "refresh"
			}),
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "zero batch size",
			config:  valid(func(c *Config) { c.BatchSize = 0 }),
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "negative retry attempts",
			config:  valid(func(c *Config) { c.RetryAttempts = -1 }),
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "negative retry delay",
			config:  valid(func(c *Config) { c.RetryDelay = -time.Second }),
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "unknown time zone",
			config:  valid(func(c *Config) { c.TimeZone = "Mars/Olympus" }),
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.True(t, config.EnableFormatting)
	assert.Equal(t, DefaultSpreadsheetName, config.SpreadsheetName)
	assert.Equal(t, "America/Sao_Paulo", config.TimeZone)
	assert.Equal(t, "pt_BR", config.Locale)
	assert.Equal(t, 1000, config.BatchSize)
	assert.Equal(t, 3, config.RetryAttempts)
	assert.Equal(t, time.Second, config.RetryDelay)
}

func seedReport() Report {
	records := engine.Records{
		Settings:     model.DefaultSettings(),
		Transactions: model.SeedTransactions(),
		Debts:        model.SeedDebts(),
	}
	return Report{
		GeneratedAt:  time.Date(2024, 3, 20, 9, 30, 0, 0, time.UTC),
		Dashboard:    engine.Build(engine.DefaultConfig(), records),
		Transactions: records.Transactions,
	}
}

func findRow(values [][]any, label string) []any {
	for _, row := range values {
		if len(row) > 0 && row[0] == label {
			return row
		}
	}
	return nil
}

func TestSummaryRows(t *testing.T) {
	report := seedReport()
	values := SummaryRows(report)

	assert.Equal(t, []any{"Hana Finance", "20/03/2024 09:30"}, values[0])

	revenue := findRow(values, "Faturamento")
	require.NotNil(t, revenue)
	assert.InDelta(t, report.Dashboard.Stats.TotalRevenue.InexactFloat64(), revenue[1], 0.001)

	profit := findRow(values, "Lucro Real")
	require.NotNil(t, profit)
	assert.InDelta(t, 2810.0, profit[1], 0.001)

	for _, m := range model.DefaultMilestones() {
		row := findRow(values, m.Label)
		require.NotNil(t, row, m.Label)
		assert.Equal(t, m.Reward, row[2])
	}

	reinvest := findRow(values, "Reinvestimento")
	require.NotNil(t, reinvest)
	assert.InDelta(t, 40.0, reinvest[1], 0.001)
	assert.InDelta(t, 1124.0, reinvest[2], 0.001)

	remaining := findRow(values, "Saldo Devedor")
	require.NotNil(t, remaining)
	assert.InDelta(t, 32800.0, remaining[1], 0.001)
}

func TestTransactionRows(t *testing.T) {
	txs := []model.Transaction{
		{ID: "a", Date: "2024-01-10", Description: "Antigo", Category: "Serviços", Type: model.TypeIncome, Nature: model.NatureBusiness, Amount: decimalOf(t, "100")},
		{ID: "b", Date: "2024-03-05", Description: "Recente", Category: "Mercado", Type: model.TypeExpense, Nature: model.NaturePersonal, Amount: decimalOf(t, "45.50")},
	}

	values := TransactionRows(txs)
	require.Len(t, values, 3)
	assert.Equal(t, "Data", values[0][0])
	assert.Equal(t, []any{"2024-03-05", "Recente", "Mercado", "EXPENSE", "PERSONAL", -45.5}, values[1])
	assert.Equal(t, []any{"2024-01-10", "Antigo", "Serviços", "INCOME", "BUSINESS", 100.0}, values[2])

	assert.Equal(t, "a", txs[0].ID, "input must not be reordered")
}

func TestMockExporter(t *testing.T) {
	m := NewMockExporter()

	id, err := m.Export(context.Background(), seedReport())
	require.NoError(t, err)
	assert.Equal(t, "mock-spreadsheet", id)

	boom := errors.New("quota exceeded")
	m.SetExportError(boom)
	_, err = m.Export(context.Background(), Report{})
	require.ErrorIs(t, err, boom)

	calls := m.Calls()
	require.Len(t, calls, 2)
	assert.ErrorIs(t, calls[1].Error, boom)
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}

	require.NoError(t, SaveToken(path, token))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "refresh", loaded.RefreshToken)

	_, err = LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func decimalOf(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestClassifyAPIError(t *testing.T) {
	tests := []struct {
		err         error
		name        string
		retryable   bool
		isRateLimit bool
	}{
		{name: "quota", err: &googleapi.Error{Code: 429}, retryable: true, isRateLimit: true},
		{name: "backend", err: &googleapi.Error{Code: 503}, retryable: true},
		{name: "forbidden", err: &googleapi.Error{Code: 403}, retryable: false},
		{name: "transport", err: errors.New("connection reset by peer"), retryable: true},
		{name: "canceled", err: context.Canceled, retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyAPIError(tt.err)
			assert.Equal(t, tt.retryable, common.IsRetryable(err))
			assert.Equal(t, tt.isRateLimit, errors.Is(err, common.ErrRateLimit))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	assert.NoError(t, classifyAPIError(nil))
}
