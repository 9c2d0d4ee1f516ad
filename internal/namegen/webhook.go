package namegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/namora-app/namora/internal/config"
	"go.uber.org/zap"
)

var ErrWebhookNotConfigured = errors.New("name webhook url not configured")

// UpstreamError reports a non-2xx response from the generation webhook.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("webhook returned status %d", e.StatusCode)
}

// WebhookClient forwards a name query to the external generation webhook and
// returns the raw response body. The body is intentionally untyped; see
// Normalize.
type WebhookClient struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func NewWebhookClient(cfg config.Config, log *zap.Logger) *WebhookClient {
	timeout := cfg.WebhookTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WebhookClient{
		url:    cfg.WebhookURL,
		client: &http.Client{Timeout: timeout},
		log:    log.Named("namegen.webhook"),
	}
}

// Generate POSTs the query payload verbatim and returns the body on any 2xx
// status. Non-2xx responses become an *UpstreamError.
func (c *WebhookClient) Generate(ctx context.Context, payload []byte) ([]byte, error) {
	if c.url == "" {
		return nil, ErrWebhookNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call webhook: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read webhook response: %w", err)
	}

	c.log.Debug("webhook responded",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
