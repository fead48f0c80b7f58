package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/finanhome/internal/common"
	"github.com/Veraticus/finanhome/internal/llm"
	"github.com/Veraticus/finanhome/internal/money"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Default values for application settings.
const (
	DefaultDatabasePath = "~/.local/share/hana/hana.db"
	DefaultPIN          = "2025"
	DefaultServerAddr   = ":8080"
	DefaultProvider     = "gemini"
)

// App is the resolved application configuration.
type App struct {
	DatabasePath string
	ServerAddr   string
	AnnualGoal   decimal.Decimal
	Auth         Auth
	Advisor      Advisor
}

// Auth configures the PIN gate.
type Auth struct {
	PIN      string
	Required bool
}

// Advisor configures the advisory provider and its guards.
type Advisor struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
	CacheTTL    time.Duration
	RateLimit   int
	Temperature float64
}

// SetDefaults registers the default for every key Load reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("goals.annual", "550000")
	v.SetDefault("auth.pin", DefaultPIN)
	v.SetDefault("auth.required", true)
	v.SetDefault("advisor.provider", DefaultProvider)
	v.SetDefault("advisor.timeout", "20s")
	v.SetDefault("advisor.max_retries", 2)
	v.SetDefault("advisor.cache_ttl", "10m")
	v.SetDefault("advisor.rate_limit", 6)
	v.SetDefault("advisor.temperature", 0.8)
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load resolves the application configuration from v.
func Load(v *viper.Viper) (App, error) {
	goal, err := money.Parse(v.GetString("goals.annual"))
	if err != nil || !goal.IsPositive() {
		return App{}, common.NewUserError(
			fmt.Sprintf("goals.annual must be a positive number, got %q", v.GetString("goals.annual")),
			fmt.Errorf("%w: goals.annual", common.ErrInvalidConfig))
	}

	provider := strings.ToLower(strings.TrimSpace(v.GetString("advisor.provider")))
	switch provider {
	case "":
		provider = DefaultProvider
	case "gemini", "anthropic", "openai":
	default:
		return App{}, common.NewUserError(
			fmt.Sprintf("advisor.provider must be gemini, anthropic or openai, got %q", provider),
			fmt.Errorf("%w: advisor.provider", common.ErrInvalidConfig))
	}

	pin := strings.TrimSpace(v.GetString("auth.pin"))
	if pin == "" {
		pin = DefaultPIN
	}

	return App{
		DatabasePath: ExpandPath(v.GetString("database.path")),
		ServerAddr:   v.GetString("server.addr"),
		AnnualGoal:   goal,
		Auth: Auth{
			PIN:      pin,
			Required: v.GetBool("auth.required"),
		},
		Advisor: Advisor{
			Provider:    provider,
			Model:       v.GetString("advisor.model"),
			APIKey:      firstNonEmpty(v.GetString("advisor.api_key"), providerKeyFromEnv(provider)),
			BaseURL:     v.GetString("advisor.base_url"),
			Timeout:     v.GetDuration("advisor.timeout"),
			MaxRetries:  v.GetInt("advisor.max_retries"),
			CacheTTL:    v.GetDuration("advisor.cache_ttl"),
			RateLimit:   v.GetInt("advisor.rate_limit"),
			Temperature: v.GetFloat64("advisor.temperature"),
		},
	}, nil
}

// providerKeyFromEnv reads the conventional API key variables of each provider.
func providerKeyFromEnv(provider string) string {
	switch provider {
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	default:
		return firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("API_KEY"))
	}
}

// LLM converts the advisor settings into a provider client configuration.
func (a Advisor) LLM() llm.Config {
	return llm.Config{
		Provider:    a.Provider,
		APIKey:      a.APIKey,
		Model:       a.Model,
		BaseURL:     a.BaseURL,
		Timeout:     a.Timeout,
		Temperature: a.Temperature,
	}
}
