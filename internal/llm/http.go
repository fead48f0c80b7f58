package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Veraticus/finanhome/internal/common"
)

// maxErrorBody bounds how much of a failed response ends up in an error.
const maxErrorBody = 512

// postJSON sends body to url and decodes a 200 response into out. Failures
// are classified: rejected credentials or models wrap ErrProviderConfig, rate
// limits wrap common.ErrRateLimit, and server errors are marked retryable.
func postJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return common.Retryable(fmt.Errorf("%s request failed: %w", provider, err))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return common.Retryable(fmt.Errorf("failed to read %s response: %w", provider, err))
	}

	if resp.StatusCode != http.StatusOK {
		return statusError(provider, resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", provider, err)
	}
	return nil
}

func statusError(provider string, status int, body []byte) error {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	detail := fmt.Sprintf("%s API error (status %d): %s", provider, status, string(body))

	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", common.ErrRateLimit, detail)
	case status >= 500:
		return common.Retryable(fmt.Errorf("%w: %s", common.ErrProviderUnavailable, detail))
	case status == http.StatusUnauthorized, status == http.StatusForbidden, status == http.StatusNotFound:
		return common.Permanent(fmt.Errorf("%w: %s", ErrProviderConfig, detail))
	default:
		return common.Permanent(errors.New(detail))
	}
}
