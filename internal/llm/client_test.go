package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Veraticus/finanhome/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		config  Config
	}{
		{name: "gemini is the default", config: Config{APIKey: "k"}},
		{name: "anthropic", config: Config{Provider: "Anthropic", APIKey: "k"}},
		{name: "openai", config: Config{Provider: "openai", APIKey: "k"}},
		{name: "missing key", config: Config{Provider: "gemini"}, wantErr: ErrMissingCredential},
		{name: "missing anthropic key", config: Config{Provider: "anthropic"}, wantErr: ErrMissingCredential},
		{name: "unknown provider", config: Config{Provider: "palm", APIKey: "k"}, wantErr: ErrProviderConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestGeminiClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))

		var body geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "olá", body.Contents[0].Parts[0].Text)
		assert.InDelta(t, 0.8, body.GenerationConfig.Temperature, 1e-9)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Separe "},{"text":"as contas. "}]}}]}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{Provider: "gemini", APIKey: "secret", Model: "gemini-test", BaseURL: server.URL})
	require.NoError(t, err)

	text, err := client.Generate(context.Background(), "olá")
	require.NoError(t, err)
	assert.Equal(t, "Separe as contas.", text)
}

func TestAnthropicClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Dica"}]}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{Provider: "anthropic", APIKey: "secret", BaseURL: server.URL + "/"})
	require.NoError(t, err)

	text, err := client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Dica", text)
}

func TestOpenAIClient_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Dica  "}}]}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{Provider: "openai", APIKey: "secret", BaseURL: server.URL})
	require.NoError(t, err)

	text, err := client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Dica", text)
}

func TestGenerate_ErrorClassification(t *testing.T) {
	tests := []struct {
		wantErr   error
		name      string
		body      string
		status    int
		retryable bool
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"error":"entity was not found"}`, wantErr: ErrProviderConfig},
		{name: "bad key", status: http.StatusUnauthorized, wantErr: ErrProviderConfig},
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: common.ErrRateLimit, retryable: true},
		{name: "server error", status: http.StatusBadGateway, wantErr: common.ErrProviderUnavailable, retryable: true},
		{name: "empty candidates", status: http.StatusOK, body: `{"candidates":[]}`, wantErr: ErrEmptyResponse},
		{name: "blank text", status: http.StatusOK, body: `{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`, wantErr: ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewClient(Config{APIKey: "k", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = client.Generate(context.Background(), "prompt")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.retryable, common.IsRetryable(err))
		})
	}
}

func TestUnavailable(t *testing.T) {
	client := Unavailable(ErrMissingCredential)
	_, err := client.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrMissingCredential)
}
