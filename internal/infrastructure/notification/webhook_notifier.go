package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	appbilling "github.com/printchain/backend/internal/application/billing"
	"go.uber.org/zap"
)

// Config holds the webhook notification settings
type Config struct {
	Enabled     bool
	WebhookURL  string
	FromAddress string
	Timeout     time.Duration
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.Enabled && c.WebhookURL == "" {
		return fmt.Errorf("notification: webhook URL is required when enabled")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("notification: timeout must be positive")
	}
	return nil
}

// WebhookNotifier posts notifications to a webhook endpoint. When disabled
// it drops messages after logging them, so the billing flow behaves the
// same with or without a configured endpoint.
type WebhookNotifier struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWebhookNotifier creates a new WebhookNotifier
func NewWebhookNotifier(config *Config, logger *zap.Logger) (*WebhookNotifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &WebhookNotifier{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}, nil
}

type webhookPayload struct {
	From        string   `json:"from"`
	Recipient   string   `json:"recipient"`
	Subject     string   `json:"subject"`
	Body        string   `json:"body"`
	Attachments []string `json:"attachments,omitempty"`
}

// Send dispatches a notification with optional attachment file IDs
func (n *WebhookNotifier) Send(ctx context.Context, recipient, subject, body string, attachments []string) error {
	if !n.config.Enabled {
		n.logger.Debug("Notifications disabled, dropping message",
			zap.String("recipient", recipient),
			zap.String("subject", subject),
		)
		return nil
	}

	payload := webhookPayload{
		From:        n.config.FromAddress,
		Recipient:   recipient,
		Subject:     subject,
		Body:        body,
		Attachments: attachments,
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notification: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.config.WebhookURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("notification: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notification: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("notification: webhook returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

var _ appbilling.Notifier = (*WebhookNotifier)(nil)
