package llm

import (
	"context"
	"errors"
	"time"

	"github.com/Veraticus/finanhome/internal/common"
)

// Provider errors.
var (
	// ErrMissingCredential means no API key was configured for the provider.
	ErrMissingCredential = errors.New("missing provider credential")
	// ErrProviderConfig means the provider rejected the key, model or request.
	ErrProviderConfig = errors.New("provider configuration error")
	// ErrEmptyResponse means the provider answered without any text.
	ErrEmptyResponse = errors.New("empty response from provider")
)

// Client generates free text from a prompt.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds provider settings.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

type unavailableClient struct {
	err error
}

// Unavailable returns a client whose every call fails with err. It stands in
// for a provider that could not be constructed, so the failure surfaces at
// request time where the advisor can fall back.
func Unavailable(err error) Client {
	return unavailableClient{err: err}
}

func (c unavailableClient) Generate(context.Context, string) (string, error) {
	return "", common.Permanent(c.err)
}
